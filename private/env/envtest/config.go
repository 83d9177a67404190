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

// Package envtest contains helpers for testing TOML configurations that embed
// the env config blocks.
package envtest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/weftnet/weft/private/env"
)

// InitTest scrambles the given config blocks to make sure a parsed sample
// overwrites them. Nil blocks are skipped.
func InitTest(general *env.General, metrics *env.Metrics) {
	if general != nil {
		general.ID = ""
	}
	if metrics != nil {
		metrics.Prometheus = "bogus"
	}
}

// CheckTest checks that the given config blocks contain the sample values.
// Nil blocks are skipped.
func CheckTest(t *testing.T, general *env.General, metrics *env.Metrics, id string) {
	if general != nil {
		assert.Equal(t, id, general.ID)
	}
	if metrics != nil {
		assert.Empty(t, metrics.Prometheus)
	}
}
