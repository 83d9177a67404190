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
	"fmt"
)

// Verdict is the decision made for one dispatched frame.
type Verdict int

// Dispatch verdicts. All dropped verdicts are defined outcomes, not errors;
// the caller may count them but no corrective action is required.
const (
	// VerdictForwarded means the frame was handed to the target port.
	VerdictForwarded Verdict = iota
	// VerdictUnsupportedProtocol means no classifier recognized the frame.
	// Malformed IPv4/IPv6 headers degrade to this verdict as well.
	VerdictUnsupportedProtocol
	// VerdictUnknownSource means the source index is not attached.
	VerdictUnknownSource
	// VerdictNoRoute means no route table entry contains the destination,
	// or the owning port detached while the frame was in flight.
	VerdictNoRoute
	// VerdictPolicyBlocked means a route matched but the group policy
	// forbids traffic between the source and target ports.
	VerdictPolicyBlocked
)

func (v Verdict) String() string {
	switch v {
	case VerdictForwarded:
		return "forwarded"
	case VerdictUnsupportedProtocol:
		return "unsupported_protocol"
	case VerdictUnknownSource:
		return "unknown_source"
	case VerdictNoRoute:
		return "no_route"
	case VerdictPolicyBlocked:
		return "policy_blocked"
	default:
		return fmt.Sprintf("UNKNOWN (%d)", int(v))
	}
}

// Outcome is the result of dispatching one frame. Target is only valid when
// the verdict is VerdictForwarded.
type Outcome struct {
	Verdict Verdict
	Target  PortIndex
}

// Forwarded returns the outcome for a frame handed to target.
func Forwarded(target PortIndex) Outcome {
	return Outcome{Verdict: VerdictForwarded, Target: target}
}

// Dropped returns the outcome for a frame dropped with the given verdict.
func Dropped(v Verdict) Outcome {
	return Outcome{Verdict: v}
}

// Dispatch routes one frame received on the port with index src. The frame
// is classified, its destination resolved against the compiled route table,
// the group policy applied to the first match, and on success the frame is
// handed unmodified to the target port's writer. The frame buffer must stay
// immutable until Dispatch returns.
//
// Dispatch never blocks on the network and never returns an error: every
// condition maps to a verdict.
func (s *Switch) Dispatch(src PortIndex, frame []byte) Outcome {
	outcome := s.dispatch(src, frame)
	s.metrics.report(outcome)
	return outcome
}

func (s *Switch) dispatch(src PortIndex, frame []byte) Outcome {
	dst, ok := classify(s.classifiers, frame)
	if !ok {
		return Dropped(VerdictUnsupportedProtocol)
	}

	table := s.compiledTable()

	s.mtx.RLock()
	sp, ok := s.ports[src]
	var srcGroup Group
	if ok {
		srcGroup = sp.group
	}
	s.mtx.RUnlock()
	if !ok {
		return Dropped(VerdictUnknownSource)
	}

	target, ok := lookupRoute(table, dst.Unmap())
	if !ok {
		return Dropped(VerdictNoRoute)
	}

	s.mtx.RLock()
	tp, ok := s.ports[target]
	var targetGroup Group
	var writer PktWriter
	if ok {
		targetGroup = tp.group
		writer = tp.writer
	}
	s.mtx.RUnlock()
	if !ok {
		// The owning port detached between compilation and now. Routes to
		// departed ports are a normal transient condition.
		return Dropped(VerdictNoRoute)
	}

	if !s.policy.Allows(srcGroup, targetGroup) {
		return Dropped(VerdictPolicyBlocked)
	}

	// The send happens outside the registry lock so slow writers do not
	// serialize unrelated forwards.
	writer.Write(frame)
	return Forwarded(target)
}
