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
	"net/netip"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
)

// Classifier inspects a raw frame and attempts to extract the network-layer
// destination address. Implementations must not retain or mutate the frame.
// A frame that does not parse as the classifier's protocol yields ok=false;
// that is a defined outcome, not an error.
type Classifier interface {
	Classify(frame []byte) (dst netip.Addr, ok bool)
}

// IPv4Classifier extracts the destination of IPv4 packets.
type IPv4Classifier struct{}

// Classify implements Classifier.
func (IPv4Classifier) Classify(frame []byte) (netip.Addr, bool) {
	// The version nibble is checked up front so that a frame is never
	// claimed by more than one protocol.
	if len(frame) < 1 || frame[0]>>4 != 4 {
		return netip.Addr{}, false
	}
	var ip4 layers.IPv4
	if err := ip4.DecodeFromBytes(frame, gopacket.NilDecodeFeedback); err != nil {
		return netip.Addr{}, false
	}
	dst, ok := netip.AddrFromSlice(ip4.DstIP)
	if !ok {
		return netip.Addr{}, false
	}
	return dst.Unmap(), true
}

// IPv6Classifier extracts the destination of IPv6 packets.
type IPv6Classifier struct{}

// Classify implements Classifier.
func (IPv6Classifier) Classify(frame []byte) (netip.Addr, bool) {
	if len(frame) < 1 || frame[0]>>4 != 6 {
		return netip.Addr{}, false
	}
	var ip6 layers.IPv6
	if err := ip6.DecodeFromBytes(frame, gopacket.NilDecodeFeedback); err != nil {
		return netip.Addr{}, false
	}
	dst, ok := netip.AddrFromSlice(ip6.DstIP)
	if !ok {
		return netip.Addr{}, false
	}
	return dst, true
}

// DefaultClassifiers returns the classifier chain used when none is
// configured. IPv4 is attempted first since it dominates the traffic mix;
// the order is a performance heuristic, not a correctness requirement.
func DefaultClassifiers() []Classifier {
	return []Classifier{IPv4Classifier{}, IPv6Classifier{}}
}

func classify(chain []Classifier, frame []byte) (netip.Addr, bool) {
	for _, c := range chain {
		if dst, ok := c.Classify(frame); ok {
			return dst, true
		}
	}
	return netip.Addr{}, false
}
