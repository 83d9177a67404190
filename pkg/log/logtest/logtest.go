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

// Package logtest contains helpers for testing TOML configurations that embed
// a logging block.
package logtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weftnet/weft/pkg/log"
)

// InitTestLogging scrambles the logging config to make sure the sample
// overwrites it.
func InitTestLogging(cfg *log.Config) {
	cfg.Console.Level = "bogus"
	cfg.Console.Format = "bogus"
	cfg.Console.StacktraceLevel = "bogus"
}

// CheckTestLogging checks that the logging config is the sample default.
func CheckTestLogging(t *testing.T, cfg *log.Config, _ string) {
	assert.Equal(t, log.DefaultConsoleLevel, cfg.Console.Level)
	assert.Equal(t, log.FormatJSON, cfg.Console.Format)
	assert.Equal(t, log.DefaultStacktraceLevel, cfg.Console.StacktraceLevel)
}
