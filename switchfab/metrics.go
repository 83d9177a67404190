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

package switchfab

import (
	"github.com/weftnet/weft/pkg/metrics"
)

// Metrics are the metrics reported by the switch. A zero value disables all
// reporting.
type Metrics struct {
	// FramesForwarded counts frames handed to a target port.
	FramesForwarded metrics.Counter
	// FramesDroppedUnsupported counts frames that no classifier recognized.
	FramesDroppedUnsupported metrics.Counter
	// FramesDroppedUnknownSource counts frames whose source index was not
	// attached.
	FramesDroppedUnknownSource metrics.Counter
	// FramesDroppedNoRoute counts frames with no matching route, including
	// the race where the owning port detached during dispatch.
	FramesDroppedNoRoute metrics.Counter
	// FramesDroppedPolicy counts frames blocked by the group policy.
	FramesDroppedPolicy metrics.Counter
	// TableRebuilds counts route table compilations.
	TableRebuilds metrics.Counter
	// PortsAttached tracks the number of currently attached ports.
	PortsAttached metrics.Gauge
}

func (m Metrics) report(o Outcome) {
	switch o.Verdict {
	case VerdictForwarded:
		metrics.CounterInc(m.FramesForwarded)
	case VerdictUnsupportedProtocol:
		metrics.CounterInc(m.FramesDroppedUnsupported)
	case VerdictUnknownSource:
		metrics.CounterInc(m.FramesDroppedUnknownSource)
	case VerdictNoRoute:
		metrics.CounterInc(m.FramesDroppedNoRoute)
	case VerdictPolicyBlocked:
		metrics.CounterInc(m.FramesDroppedPolicy)
	}
}
