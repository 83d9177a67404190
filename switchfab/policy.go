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

// GroupPolicy decides whether a frame may flow between two ports based on
// their groups. Traffic between distinct groups is always permitted; traffic
// within a group is blocked unless AllowSameGroup is set. This implements a
// hub-and-spoke trust model: spokes share a group and cannot see each other,
// hubs live in a different group and are reachable by everyone.
type GroupPolicy struct {
	AllowSameGroup bool
}

// Allows reports whether a frame may flow from a port in group src to a port
// in group dst.
func (p GroupPolicy) Allows(src, dst Group) bool {
	return p.AllowSameGroup || src != dst
}
