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

//go:build !linux

package netdevice

import (
	"net/netip"

	"github.com/weftnet/weft/pkg/private/serrors"
)

// Open is not supported on this platform.
func Open(cfg Config) (Device, error) {
	return nil, serrors.New("tunnel devices are only supported on linux")
}

// Enumerate is not supported on this platform.
func Enumerate(layer Layer) ([]string, error) {
	return nil, serrors.New("device enumeration is only supported on linux")
}

// AddRoute is not supported on this platform.
func AddRoute(dev Device, dst netip.Prefix) error {
	return serrors.New("kernel routes are only supported on linux")
}

// DeleteRoute is not supported on this platform.
func DeleteRoute(dev Device, dst netip.Prefix) error {
	return serrors.New("kernel routes are only supported on linux")
}
