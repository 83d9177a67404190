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

package switchfab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftnet/weft/pkg/metrics"
	"github.com/weftnet/weft/switchfab"
)

// hubAndSpokes builds the canonical topology: one hub port serving the whole
// subnet and two spoke ports serving their own host route, all spokes in one
// group.
type hubAndSpokes struct {
	sw                     *switchfab.Switch
	hub, spokeA, spokeB    switchfab.PortIndex
	hubW, spokeAW, spokeBW *captureWriter
}

func newHubAndSpokes(policy switchfab.GroupPolicy, m switchfab.Metrics) hubAndSpokes {
	h := hubAndSpokes{
		sw:      switchfab.New(switchfab.Options{Policy: policy, Metrics: m}),
		hubW:    &captureWriter{},
		spokeAW: &captureWriter{},
		spokeBW: &captureWriter{},
	}
	h.hub = h.sw.Attach("hub", prefixes("10.0.0.0/24"), h.hubW)
	h.spokeA = h.sw.Attach("spokes", prefixes("10.0.0.2/32"), h.spokeAW)
	h.spokeB = h.sw.Attach("spokes", prefixes("10.0.0.3/32"), h.spokeBW)
	return h
}

func TestDispatchForward(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	frame := ipv4Frame(t, "10.0.0.2", "10.0.0.50")
	outcome := h.sw.Dispatch(h.spokeA, frame)
	assert.Equal(t, switchfab.Forwarded(h.hub), outcome)
	require.Len(t, h.hubW.Frames(), 1)
	assert.Equal(t, frame, h.hubW.Frames()[0])
}

// TestDispatchLongestPrefix checks that a host route shadows the covering
// subnet route.
func TestDispatchLongestPrefix(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{AllowSameGroup: true}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "10.0.0.3"))
	assert.Equal(t, switchfab.Forwarded(h.spokeB), outcome)
	assert.Len(t, h.spokeBW.Frames(), 1)
	assert.Empty(t, h.hubW.Frames())
}

// TestDispatchPolicyBlocked checks that a frame between two spokes is dropped
// when same-group routing is off, and that the covering hub route does not
// pick it up: policy applies to the best match only.
func TestDispatchPolicyBlocked(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "10.0.0.3"))
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictPolicyBlocked), outcome)
	assert.Empty(t, h.spokeBW.Frames())
	assert.Empty(t, h.hubW.Frames())
}

// TestDispatchSelfTarget checks that a frame whose best route points back at
// the source port is subject to the same policy as any other forward: the
// source and target groups are equal, so it is blocked unless same-group
// routing is enabled.
func TestDispatchSelfTarget(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(h.hub, ipv4Frame(t, "10.0.0.1", "10.0.0.50"))
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictPolicyBlocked), outcome)
	assert.Empty(t, h.hubW.Frames())
}

func TestDispatchUnknownSource(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(switchfab.PortIndex(999), ipv4Frame(t, "10.0.0.2", "10.0.0.50"))
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictUnknownSource), outcome)
}

func TestDispatchNoRoute(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "192.168.1.1"))
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictNoRoute), outcome)

	// Detaching the hub removes its subnet route.
	require.NoError(t, h.sw.Detach(h.hub))
	outcome = h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "10.0.0.50"))
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictNoRoute), outcome)
}

func TestDispatchUnsupportedProtocol(t *testing.T) {
	h := newHubAndSpokes(switchfab.GroupPolicy{}, switchfab.Metrics{})

	outcome := h.sw.Dispatch(h.spokeA, []byte{0xde, 0xad, 0xbe, 0xef})
	assert.Equal(t, switchfab.Dropped(switchfab.VerdictUnsupportedProtocol), outcome)
}

func TestDispatchIPv6(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})
	w := &captureWriter{}
	target := sw.Attach("hub", prefixes("fd00::/64"), w)
	src := sw.Attach("spokes", prefixes("fd00:1::2/128"), &captureWriter{})

	outcome := sw.Dispatch(src, ipv6Frame(t, "fd00:1::2", "fd00::42"))
	assert.Equal(t, switchfab.Forwarded(target), outcome)
	assert.Len(t, w.Frames(), 1)
}

func TestDispatchMetrics(t *testing.T) {
	m := switchfab.Metrics{
		FramesForwarded:            metrics.NewTestCounter(),
		FramesDroppedUnsupported:   metrics.NewTestCounter(),
		FramesDroppedUnknownSource: metrics.NewTestCounter(),
		FramesDroppedNoRoute:       metrics.NewTestCounter(),
		FramesDroppedPolicy:        metrics.NewTestCounter(),
	}
	h := newHubAndSpokes(switchfab.GroupPolicy{}, m)

	h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "10.0.0.50"))
	h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "10.0.0.3"))
	h.sw.Dispatch(h.spokeA, ipv4Frame(t, "10.0.0.2", "192.168.1.1"))
	h.sw.Dispatch(switchfab.PortIndex(999), ipv4Frame(t, "10.0.0.2", "10.0.0.50"))
	h.sw.Dispatch(h.spokeA, []byte{0x00})

	assert.Equal(t, float64(1), metrics.CounterValue(m.FramesForwarded))
	assert.Equal(t, float64(1), metrics.CounterValue(m.FramesDroppedPolicy))
	assert.Equal(t, float64(1), metrics.CounterValue(m.FramesDroppedNoRoute))
	assert.Equal(t, float64(1), metrics.CounterValue(m.FramesDroppedUnknownSource))
	assert.Equal(t, float64(1), metrics.CounterValue(m.FramesDroppedUnsupported))
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "forwarded", switchfab.VerdictForwarded.String())
	assert.Equal(t, "policy_blocked", switchfab.VerdictPolicyBlocked.String())
	assert.Equal(t, "UNKNOWN (42)", switchfab.Verdict(42).String())
}
