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
	"errors"
	"net/netip"
	"slices"
)

// PortIndex identifies an attached port. Indices are allocated by the switch,
// are never zero, and are never reused for the lifetime of the switch.
type PortIndex uint64

// Group is the trust class of a port. Whether a frame may flow between two
// ports depends only on their groups, see GroupPolicy.
type Group string

// PktWriter is the send primitive of a port: the peer link or local device
// behind it. Write hands off the frame for delivery; it must not block on
// the network and must not retain the buffer after returning. Delivery
// failures are the writer's concern, the switch never learns about them.
type PktWriter interface {
	Write(frame []byte)
}

// ErrUnknownPort is returned by registry mutations that reference an index
// that is not attached.
var ErrUnknownPort = errors.New("unknown port")

// port is the registry's record of an attached port. It is owned exclusively
// by the switch; everything outside refers to it by index.
type port struct {
	index       PortIndex
	group       Group
	localRoutes []netip.Prefix
	writer      PktWriter
}

// PortInfo is a read-only snapshot of an attached port.
type PortInfo struct {
	Index  PortIndex
	Group  Group
	Routes []netip.Prefix
}

func (p *port) info() PortInfo {
	return PortInfo{
		Index:  p.index,
		Group:  p.group,
		Routes: slices.Clone(p.localRoutes),
	}
}

// canonicalRoutes masks the given prefixes so that equal routes compare
// equal regardless of how the caller spelled the host bits. Invalid prefixes
// are dropped.
func canonicalRoutes(routes []netip.Prefix) []netip.Prefix {
	canonical := make([]netip.Prefix, 0, len(routes))
	for _, r := range routes {
		if !r.IsValid() {
			continue
		}
		canonical = append(canonical, r.Masked())
	}
	return canonical
}
