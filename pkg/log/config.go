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

package log

import (
	"fmt"
	"io"

	"go.uber.org/zap/zapcore"

	"github.com/weftnet/weft/private/config"
)

// Log output formats.
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// Defaults applied by Config.InitDefaults.
const (
	DefaultConsoleLevel    = "info"
	DefaultStacktraceLevel = "none"
	DefaultFormat          = FormatJSON
)

// Config is the TOML-mapped logging configuration.
type Config struct {
	config.NoValidator

	// Console is the configuration for the console logging.
	Console ConsoleConfig `toml:"console,omitempty"`
}

// InitDefaults populates unset fields in cfg to their default values.
func (cfg *Config) InitDefaults() {
	cfg.Console.InitDefaults()
}

// Validate validates that all values are parsable.
func (cfg *Config) Validate() error {
	return cfg.Console.validate()
}

// Sample writes the sample configuration to dst.
func (cfg *Config) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteSample(dst, path, ctx, &cfg.Console)
}

// ConfigName returns the name this config should have in a TOML file.
func (cfg *Config) ConfigName() string {
	return "log"
}

// ConsoleConfig is the configuration for the console logger.
type ConsoleConfig struct {
	// Level of console logging (defaults to info).
	Level string `toml:"level,omitempty"`
	// Format of the console logging, human or json (defaults to json).
	Format string `toml:"format,omitempty"`
	// StacktraceLevel sets the level at which stacktraces are attached
	// (defaults to none).
	StacktraceLevel string `toml:"stacktrace_level,omitempty"`
	// DisableCaller stops annotating logs with the calling function's file
	// name and line number.
	DisableCaller bool `toml:"disable_caller,omitempty"`
}

// Sample writes the sample configuration to dst.
func (cfg *ConsoleConfig) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, consoleConfigSample)
}

// ConfigName returns the name this config should have in a TOML file.
func (cfg *ConsoleConfig) ConfigName() string {
	return "console"
}

// InitDefaults populates unset fields in cfg to their default values.
func (cfg *ConsoleConfig) InitDefaults() {
	if cfg.Level == "" {
		cfg.Level = DefaultConsoleLevel
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.StacktraceLevel == "" {
		cfg.StacktraceLevel = DefaultStacktraceLevel
	}
}

func (cfg *ConsoleConfig) validate() error {
	if _, err := parseLevel(cfg.Level); err != nil {
		return err
	}
	if _, err := parseStacktraceLevel(cfg.StacktraceLevel); err != nil {
		return err
	}
	if cfg.Format != FormatHuman && cfg.Format != FormatJSON {
		return fmt.Errorf("unsupported log format: %q", cfg.Format)
	}
	return nil
}

func parseLevel(s string) (zapcore.Level, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unsupported log level: %q", s)
	}
	return lvl, nil
}

// parseStacktraceLevel understands the zap levels plus "none", which disables
// stacktraces entirely.
func parseStacktraceLevel(s string) (zapcore.Level, error) {
	if s == "none" {
		return zapcore.FatalLevel + 1, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unsupported stacktrace level: %q", s)
	}
	return lvl, nil
}

const consoleConfigSample = `
# Console logging level (debug|info|error) (default info)
level = "info"

# Console encoding (human|json) (default json)
format = "json"

# Level at which stacktraces are attached to log entries
# (debug|info|error|none) (default none)
stacktrace_level = "none"
`
