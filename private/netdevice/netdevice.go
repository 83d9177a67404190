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

// Package netdevice contains low level networking calls related to tunnel
// devices and the kernel routing table.
package netdevice

import (
	"io"
	"net/netip"
)

// Device is an open tunnel device. Reads return one IP packet per call.
type Device interface {
	io.ReadWriteCloser
	// Name is the name of the network interface backing the device.
	Name() string
}

// Layer selects the kind of virtual device to enumerate.
type Layer int

const (
	// LayerLink selects link-layer (TAP) devices.
	LayerLink Layer = iota
	// LayerNetwork selects network-layer (TUN) devices.
	LayerNetwork
)

// Config describes the tunnel device to open.
type Config struct {
	// Name is the interface name, e.g. "weft0". Empty lets the kernel pick.
	Name string
	// MTU is applied to the interface if non-zero.
	MTU int
	// Addresses are assigned to the interface.
	Addresses []netip.Prefix
}
