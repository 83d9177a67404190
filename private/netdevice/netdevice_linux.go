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

//go:build linux

package netdevice

import (
	"net/netip"

	"github.com/songgao/water"
	"github.com/vishvananda/netlink"
	"go4.org/netipx"

	"github.com/weftnet/weft/pkg/private/serrors"
)

// Open creates (or opens) the TUN interface, assigns the configured addresses
// and MTU, and sets its state to up.
func Open(cfg Config) (Device, error) {
	iface, err := water.New(water.Config{
		DeviceType:             water.TUN,
		PlatformSpecificParams: water.PlatformSpecificParams{Name: cfg.Name},
	})
	if err != nil {
		return nil, serrors.Wrap("creating tun interface", err, "name", cfg.Name)
	}
	link, err := netlink.LinkByName(iface.Name())
	if err != nil {
		return nil, serrors.Wrap("getting link", err, "name", iface.Name())
	}
	for _, addr := range cfg.Addresses {
		nlAddr := &netlink.Addr{IPNet: netipx.PrefixIPNet(addr)}
		if err := netlink.AddrAdd(link, nlAddr); err != nil {
			return nil, serrors.Wrap("assigning address", err,
				"name", iface.Name(), "address", addr)
		}
	}
	if cfg.MTU != 0 {
		if err := netlink.LinkSetMTU(link, cfg.MTU); err != nil {
			return nil, serrors.Wrap("setting MTU", err,
				"name", iface.Name(), "mtu", cfg.MTU)
		}
	}
	if err := netlink.LinkSetUp(link); err != nil {
		return nil, serrors.Wrap("bringing link up", err, "name", iface.Name())
	}
	return iface, nil
}

// Enumerate returns the names of the virtual devices of the given layer that
// are present on the host. It is used to populate configuration, not on the
// forwarding path.
func Enumerate(layer Layer) ([]string, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, serrors.Wrap("listing links", err)
	}
	mode := netlink.TUNTAP_MODE_TUN
	if layer == LayerLink {
		mode = netlink.TUNTAP_MODE_TAP
	}
	var names []string
	for _, link := range links {
		tuntap, ok := link.(*netlink.Tuntap)
		if !ok || tuntap.Mode != mode {
			continue
		}
		names = append(names, tuntap.Attrs().Name)
	}
	return names, nil
}

// AddRoute adds a kernel route for dst through the device.
func AddRoute(dev Device, dst netip.Prefix) error {
	link, err := netlink.LinkByName(dev.Name())
	if err != nil {
		return serrors.Wrap("getting link", err, "name", dev.Name())
	}
	route := netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       netipx.PrefixIPNet(dst),
	}
	if err := netlink.RouteAdd(&route); err != nil {
		return serrors.Wrap("adding route", err, "route", dst)
	}
	return nil
}

// DeleteRoute removes a kernel route previously added with AddRoute.
func DeleteRoute(dev Device, dst netip.Prefix) error {
	link, err := netlink.LinkByName(dev.Name())
	if err != nil {
		return serrors.Wrap("getting link", err, "name", dev.Name())
	}
	route := netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       netipx.PrefixIPNet(dst),
	}
	if err := netlink.RouteDel(&route); err != nil {
		return serrors.Wrap("deleting route", err, "route", dst)
	}
	return nil
}
