// Copyright 2025 Weft Networks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a thin wrapper around uber/zap. It exposes a key/value
// style logging API and a process-wide root logger that is configured once at
// startup from the TOML configuration.
package log

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the verbosity level of a log statement.
type Level zapcore.Level

// Available logging levels.
const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
)

// Logger describes the logger interface.
type Logger interface {
	New(ctx ...any) Logger
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Enabled(lvl Level) bool
}

type logger struct {
	logger *zap.Logger
}

// New creates a logger with the given context, derived from the root logger.
func New(ctx ...any) Logger {
	return root().New(ctx...)
}

func (l *logger) New(ctx ...any) Logger {
	return &logger{logger: l.logger.With(convertCtx(ctx)...)}
}

func (l *logger) Debug(msg string, ctx ...any) {
	l.logger.Debug(msg, convertCtx(ctx)...)
}

func (l *logger) Info(msg string, ctx ...any) {
	l.logger.Info(msg, convertCtx(ctx)...)
}

func (l *logger) Error(msg string, ctx ...any) {
	l.logger.Error(msg, convertCtx(ctx)...)
}

func (l *logger) Enabled(lvl Level) bool {
	return l.logger.Core().Enabled(zapcore.Level(lvl))
}

func convertCtx(ctx []any) []zap.Field {
	fields := make([]zap.Field, 0, len(ctx)/2)
	for i := 0; i+1 < len(ctx); i += 2 {
		fields = append(fields, zap.Any(fmt.Sprint(ctx[i]), ctx[i+1]))
	}
	return fields
}

var rootLogger = &logger{logger: zap.NewNop()}

func root() *logger {
	return rootLogger
}

// Root returns the root logger. It is never nil; before Setup is called it
// discards all output.
func Root() Logger {
	return root()
}

// Setup configures the process-wide root logger. It must be called before the
// first log statement is expected to produce output, and at most once.
func Setup(cfg Config) error {
	cfg.InitDefaults()
	zl, err := newZap(cfg.Console)
	if err != nil {
		return err
	}
	rootLogger = &logger{logger: zl}
	return nil
}

func newZap(cfg ConsoleConfig) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	stacktrace, err := parseStacktraceLevel(cfg.StacktraceLevel)
	if err != nil {
		return nil, err
	}
	encoding := "json"
	encoderCfg := zap.NewProductionEncoderConfig()
	if cfg.Format == FormatHuman {
		encoding = "console"
		encoderCfg = zap.NewDevelopmentEncoderConfig()
		if isatty.IsTerminal(os.Stderr.Fd()) {
			encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	zCfg := zap.Config{
		Level:             zap.NewAtomicLevelAt(level),
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: true,
		Encoding:          encoding,
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
	}
	return zCfg.Build(zap.AddStacktrace(stacktrace))
}

// Debug logs at debug level using the root logger.
func Debug(msg string, ctx ...any) {
	root().Debug(msg, ctx...)
}

// Info logs at info level using the root logger.
func Info(msg string, ctx ...any) {
	root().Info(msg, ctx...)
}

// Error logs at error level using the root logger.
func Error(msg string, ctx ...any) {
	root().Error(msg, ctx...)
}

// Flush writes buffered log output.
func Flush() {
	_ = root().logger.Sync()
}

// HandlePanic catches panics and logs them. Every goroutine should defer a
// call to it directly below its top-level function.
func HandlePanic() {
	if msg := recover(); msg != nil {
		Error("Panic", "msg", msg, "stack", string(debug.Stack()))
		Flush()
		os.Exit(255)
	}
}

// SafeDebug logs to l at debug level, if l is not nil.
func SafeDebug(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Debug(msg, ctx...)
	}
}

// SafeInfo logs to l at info level, if l is not nil.
func SafeInfo(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Info(msg, ctx...)
	}
}

// SafeError logs to l at error level, if l is not nil.
func SafeError(l Logger, msg string, ctx ...any) {
	if l != nil {
		l.Error(msg, ctx...)
	}
}

// Discard sets the root logger to discard all messages. Useful in tests.
func Discard() {
	rootLogger = &logger{logger: zap.NewNop()}
}
