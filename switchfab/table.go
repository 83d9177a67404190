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
	"maps"
	"net/netip"
	"slices"
)

// RouteEntry maps one advertised route to the port that advertised it.
type RouteEntry struct {
	Prefix netip.Prefix
	Port   PortIndex
}

// compareEntries defines the total order of the compiled table: IPv4 before
// IPv6, longer (more specific) prefixes first, then ascending network
// address, then ascending port index. Resolution scans the table in this
// order and stops at the first prefix containing the destination, which
// yields longest-prefix-match semantics.
func compareEntries(a, b RouteEntry) int {
	a4, b4 := a.Prefix.Addr().Is4(), b.Prefix.Addr().Is4()
	switch {
	case a4 && !b4:
		return -1
	case !a4 && b4:
		return 1
	}
	if a.Prefix.Bits() != b.Prefix.Bits() {
		return b.Prefix.Bits() - a.Prefix.Bits()
	}
	if c := a.Prefix.Addr().Compare(b.Prefix.Addr()); c != 0 {
		return c
	}
	switch {
	case a.Port < b.Port:
		return -1
	case a.Port > b.Port:
		return 1
	}
	return 0
}

// compileRoutes flattens the advertised routes of all ports into a sorted
// table. When two ports advertise the same route, the port with the higher
// index wins: ports are visited in ascending index order and the last writer
// takes the entry.
func compileRoutes(ports map[PortIndex]*port) []RouteEntry {
	owners := make(map[netip.Prefix]PortIndex)
	for _, idx := range slices.Sorted(maps.Keys(ports)) {
		for _, r := range ports[idx].localRoutes {
			owners[r] = idx
		}
	}
	table := make([]RouteEntry, 0, len(owners))
	for prefix, idx := range owners {
		table = append(table, RouteEntry{Prefix: prefix, Port: idx})
	}
	slices.SortFunc(table, compareEntries)
	return table
}

// lookupRoute returns the owner of the first table entry containing dst.
func lookupRoute(table []RouteEntry, dst netip.Addr) (PortIndex, bool) {
	for _, e := range table {
		if e.Prefix.Contains(dst) {
			return e.Port, true
		}
	}
	return 0, false
}
