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

// Package hooks runs the user supplied scripts that hook into the tunnel
// lifecycle, e.g. to install firewall rules once the device is up.
package hooks

import (
	"context"
	"os/exec"
	"strings"

	"github.com/weftnet/weft/pkg/log"
	"github.com/weftnet/weft/pkg/private/serrors"
)

// Runner executes lifecycle scripts. The zero value runs nothing.
type Runner struct {
	// UpScript is executed after the tunnel device is up. The device name
	// is passed as the first argument.
	UpScript string
	// DownScript is executed before the tunnel device is torn down. The
	// device name is passed as the first argument.
	DownScript string
	// Logger is used for logging, nil means no logging.
	Logger log.Logger
}

// Up runs the up script for the named device. A missing script is a no-op.
func (r Runner) Up(ctx context.Context, device string) error {
	return r.run(ctx, r.UpScript, device)
}

// Down runs the down script for the named device. A missing script is a
// no-op.
func (r Runner) Down(ctx context.Context, device string) error {
	return r.run(ctx, r.DownScript, device)
}

func (r Runner) run(ctx context.Context, script, device string) error {
	if script == "" {
		return nil
	}
	cmd := exec.CommandContext(ctx, script, device)
	output, err := cmd.CombinedOutput()
	if out := strings.TrimSpace(string(output)); out != "" {
		log.SafeInfo(r.Logger, "Script output", "script", script, "output", out)
	}
	if err != nil {
		return serrors.Wrap("executing script", err, "script", script, "device", device)
	}
	return nil
}
