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

// Package switchfab implements the layer-3 switching core of a mesh VPN
// node. Peers and local network devices attach to a Switch as ports, each
// advertising the routes it serves; the switch classifies incoming IP
// frames, resolves their destination against a lazily compiled route table
// and forwards them to the owning port, subject to a group isolation
// policy.
package switchfab

import (
	"net/netip"
	"slices"
	"sync"

	"github.com/weftnet/weft/pkg/metrics"
	"github.com/weftnet/weft/pkg/private/serrors"
)

// Options configures a Switch. The zero value is usable: default classifiers,
// no same-group routing, no metrics.
type Options struct {
	// Policy is the group isolation policy applied to every forward.
	Policy GroupPolicy
	// Classifiers extract the destination from incoming frames. They are
	// tried in order; nil means DefaultClassifiers.
	Classifiers []Classifier
	// Metrics are the metrics the switch reports to. The zero value
	// disables reporting.
	Metrics Metrics
}

// Switch is the port registry, route table and dispatcher of one node. All
// methods are safe for concurrent use.
type Switch struct {
	classifiers []Classifier
	policy      GroupPolicy
	metrics     Metrics

	// mtx guards the registry and the compiled table. Registry mutations
	// invalidate the table by setting routes to nil; the next dispatch or
	// Routes call recompiles it.
	mtx       sync.RWMutex
	ports     map[PortIndex]*port
	nextIndex PortIndex
	routes    []RouteEntry
}

// New creates an empty switch.
func New(opts Options) *Switch {
	classifiers := opts.Classifiers
	if classifiers == nil {
		classifiers = DefaultClassifiers()
	}
	return &Switch{
		classifiers: classifiers,
		policy:      opts.Policy,
		metrics:     opts.Metrics,
		ports:       make(map[PortIndex]*port),
		nextIndex:   1,
		routes:      []RouteEntry{},
	}
}

// Attach registers a new port and returns its index. The routes are the
// prefixes this port serves; they are masked to their network address before
// being stored. The writer receives every frame forwarded to the port.
func (s *Switch) Attach(group Group, routes []netip.Prefix, writer PktWriter) PortIndex {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	idx := s.nextIndex
	s.nextIndex++
	s.ports[idx] = &port{
		index:       idx,
		group:       group,
		localRoutes: canonicalRoutes(routes),
		writer:      writer,
	}
	s.routes = nil
	metrics.GaugeAdd(s.metrics.PortsAttached, 1)
	return idx
}

// Detach removes the port with the given index. Its routes disappear from
// the table; the index is never handed out again.
func (s *Switch) Detach(idx PortIndex) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.ports[idx]; !ok {
		return serrors.JoinNoStack(ErrUnknownPort, nil, "index", idx)
	}
	delete(s.ports, idx)
	s.routes = nil
	metrics.GaugeAdd(s.metrics.PortsAttached, -1)
	return nil
}

// UpdateRoutes replaces the advertised routes of an attached port.
func (s *Switch) UpdateRoutes(idx PortIndex, routes []netip.Prefix) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	p, ok := s.ports[idx]
	if !ok {
		return serrors.JoinNoStack(ErrUnknownPort, nil, "index", idx)
	}
	p.localRoutes = canonicalRoutes(routes)
	s.routes = nil
	return nil
}

// Port returns a snapshot of the port with the given index.
func (s *Switch) Port(idx PortIndex) (PortInfo, bool) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	p, ok := s.ports[idx]
	if !ok {
		return PortInfo{}, false
	}
	return p.info(), true
}

// Ports returns snapshots of all attached ports in ascending index order.
func (s *Switch) Ports() []PortInfo {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	infos := make([]PortInfo, 0, len(s.ports))
	for _, p := range s.ports {
		infos = append(infos, p.info())
	}
	slices.SortFunc(infos, func(a, b PortInfo) int {
		switch {
		case a.Index < b.Index:
			return -1
		case a.Index > b.Index:
			return 1
		}
		return 0
	})
	return infos
}

// Routes returns the compiled route table, rebuilding it first if a registry
// mutation invalidated it. The returned slice must not be modified.
func (s *Switch) Routes() []RouteEntry {
	return s.compiledTable()
}

func (s *Switch) compiledTable() []RouteEntry {
	s.mtx.RLock()
	table := s.routes
	s.mtx.RUnlock()
	if table != nil {
		return table
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()
	// Another dispatcher may have rebuilt the table while we upgraded the
	// lock.
	if s.routes == nil {
		s.routes = compileRoutes(s.ports)
		metrics.CounterInc(s.metrics.TableRebuilds)
	}
	return s.routes
}
