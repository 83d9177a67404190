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
	"net/netip"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftnet/weft/pkg/metrics"
	"github.com/weftnet/weft/switchfab"
)

// captureWriter records every frame handed to it.
type captureWriter struct {
	mtx    sync.Mutex
	frames [][]byte
}

func (w *captureWriter) Write(frame []byte) {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	w.frames = append(w.frames, slices.Clone(frame))
}

func (w *captureWriter) Frames() [][]byte {
	w.mtx.Lock()
	defer w.mtx.Unlock()
	return slices.Clone(w.frames)
}

func prefixes(raw ...string) []netip.Prefix {
	ps := make([]netip.Prefix, 0, len(raw))
	for _, r := range raw {
		ps = append(ps, netip.MustParsePrefix(r))
	}
	return ps
}

func TestSwitchAttach(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})

	a := sw.Attach("clients", prefixes("10.0.0.2/32"), &captureWriter{})
	b := sw.Attach("clients", prefixes("10.0.0.3/32"), &captureWriter{})
	require.NotZero(t, a)
	require.NotZero(t, b)
	assert.NotEqual(t, a, b)

	info, ok := sw.Port(a)
	require.True(t, ok)
	assert.Equal(t, a, info.Index)
	assert.Equal(t, switchfab.Group("clients"), info.Group)
	assert.Equal(t, prefixes("10.0.0.2/32"), info.Routes)
}

func TestSwitchAttachMasksRoutes(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})

	idx := sw.Attach("", prefixes("10.0.0.7/24", "fd00::42/64"), &captureWriter{})
	info, ok := sw.Port(idx)
	require.True(t, ok)
	assert.Equal(t, prefixes("10.0.0.0/24", "fd00::/64"), info.Routes)
}

func TestSwitchDetach(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})
	idx := sw.Attach("", prefixes("10.0.0.0/24"), &captureWriter{})

	require.NoError(t, sw.Detach(idx))
	_, ok := sw.Port(idx)
	assert.False(t, ok)
	assert.Empty(t, sw.Routes())

	err := sw.Detach(idx)
	assert.ErrorIs(t, err, switchfab.ErrUnknownPort)
}

func TestSwitchIndexNotReused(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})

	seen := make(map[switchfab.PortIndex]bool)
	for range 10 {
		idx := sw.Attach("", nil, &captureWriter{})
		assert.False(t, seen[idx])
		seen[idx] = true
		require.NoError(t, sw.Detach(idx))
	}
}

func TestSwitchUpdateRoutes(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})
	idx := sw.Attach("", prefixes("10.0.0.0/24"), &captureWriter{})

	require.NoError(t, sw.UpdateRoutes(idx, prefixes("192.168.0.0/16")))
	info, ok := sw.Port(idx)
	require.True(t, ok)
	assert.Equal(t, prefixes("192.168.0.0/16"), info.Routes)
	assert.Equal(t,
		[]switchfab.RouteEntry{
			{Prefix: netip.MustParsePrefix("192.168.0.0/16"), Port: idx},
		},
		sw.Routes(),
	)

	err := sw.UpdateRoutes(switchfab.PortIndex(999), nil)
	assert.ErrorIs(t, err, switchfab.ErrUnknownPort)
}

func TestSwitchPorts(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})
	assert.Empty(t, sw.Ports())

	a := sw.Attach("x", nil, &captureWriter{})
	b := sw.Attach("y", nil, &captureWriter{})
	c := sw.Attach("z", nil, &captureWriter{})
	require.NoError(t, sw.Detach(b))

	ports := sw.Ports()
	require.Len(t, ports, 2)
	assert.Equal(t, a, ports[0].Index)
	assert.Equal(t, c, ports[1].Index)
}

func TestSwitchRouteTableOrder(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})

	a := sw.Attach("", prefixes("10.0.0.0/16", "fd00::/64"), &captureWriter{})
	b := sw.Attach("", prefixes("10.0.0.0/24", "10.1.0.0/24", "fd00::/16"), &captureWriter{})

	assert.Equal(t,
		[]switchfab.RouteEntry{
			{Prefix: netip.MustParsePrefix("10.0.0.0/24"), Port: b},
			{Prefix: netip.MustParsePrefix("10.1.0.0/24"), Port: b},
			{Prefix: netip.MustParsePrefix("10.0.0.0/16"), Port: a},
			{Prefix: netip.MustParsePrefix("fd00::/64"), Port: a},
			{Prefix: netip.MustParsePrefix("fd00::/16"), Port: b},
		},
		sw.Routes(),
	)
}

// TestSwitchRouteTableDuplicate checks that when two ports advertise the same
// prefix, the port attached later owns the entry.
func TestSwitchRouteTableDuplicate(t *testing.T) {
	sw := switchfab.New(switchfab.Options{})

	a := sw.Attach("", prefixes("10.0.0.0/24"), &captureWriter{})
	b := sw.Attach("", prefixes("10.0.0.0/24"), &captureWriter{})

	assert.Equal(t,
		[]switchfab.RouteEntry{
			{Prefix: netip.MustParsePrefix("10.0.0.0/24"), Port: b},
		},
		sw.Routes(),
	)

	// Once the later port goes away, the entry falls back to the earlier one.
	require.NoError(t, sw.Detach(b))
	assert.Equal(t,
		[]switchfab.RouteEntry{
			{Prefix: netip.MustParsePrefix("10.0.0.0/24"), Port: a},
		},
		sw.Routes(),
	)
}

func TestSwitchPortsGauge(t *testing.T) {
	gauge := metrics.NewTestGauge()
	sw := switchfab.New(switchfab.Options{
		Metrics: switchfab.Metrics{PortsAttached: gauge},
	})

	a := sw.Attach("", nil, &captureWriter{})
	sw.Attach("", nil, &captureWriter{})
	assert.Equal(t, float64(2), metrics.GaugeValue(gauge))

	require.NoError(t, sw.Detach(a))
	assert.Equal(t, float64(1), metrics.GaugeValue(gauge))
}

// TestSwitchRouteTableCached checks that the table is only recompiled after a
// registry mutation.
func TestSwitchRouteTableCached(t *testing.T) {
	rebuilds := metrics.NewTestCounter()
	sw := switchfab.New(switchfab.Options{
		Metrics: switchfab.Metrics{TableRebuilds: rebuilds},
	})
	idx := sw.Attach("", prefixes("10.0.0.0/24"), &captureWriter{})

	r1 := sw.Routes()
	r2 := sw.Routes()
	require.NotEmpty(t, r1)
	assert.Same(t, &r1[0], &r2[0])
	assert.Equal(t, float64(1), metrics.CounterValue(rebuilds))

	require.NoError(t, sw.UpdateRoutes(idx, prefixes("10.0.0.0/16")))
	sw.Routes()
	sw.Routes()
	assert.Equal(t, float64(2), metrics.CounterValue(rebuilds))
}
