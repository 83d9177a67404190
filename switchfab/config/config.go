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

// Package config describes the configuration of the switching daemon.
package config

import (
	"io"
	"net/netip"

	"github.com/weftnet/weft/pkg/log"
	"github.com/weftnet/weft/pkg/private/serrors"
	"github.com/weftnet/weft/pkg/routeset"
	"github.com/weftnet/weft/private/config"
	"github.com/weftnet/weft/private/env"
)

// Defaults.
const (
	DefaultTunnelName = "weft"
	DefaultTunnelMTU  = 1420
)

type Config struct {
	General env.General `toml:"general,omitempty"`
	Logging log.Config  `toml:"log,omitempty"`
	Metrics env.Metrics `toml:"metrics,omitempty"`
	Switch  Switch      `toml:"switch,omitempty"`
	Tunnel  Tunnel      `toml:"tunnel,omitempty"`
	Hooks   Hooks       `toml:"hooks,omitempty"`
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Switch,
		&cfg.Tunnel,
		&cfg.Hooks,
	)
}

func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Switch,
		&cfg.Tunnel,
		&cfg.Hooks,
	)
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: "weftd"},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.Switch,
		&cfg.Tunnel,
		&cfg.Hooks,
	)
}

// Switch holds the switching core configuration.
type Switch struct {
	config.NoDefaulter

	// Group is the group of the local tunnel port.
	Group string `toml:"group,omitempty"`
	// AllowSameGroupRouting permits traffic between ports in the same group.
	AllowSameGroupRouting bool `toml:"allow_same_group_routing,omitempty"`
	// Routes are the prefixes announced for the local tunnel port. If empty,
	// the networks of the tunnel addresses are announced.
	Routes routeset.Set `toml:"routes,omitempty"`
}

func (cfg *Switch) Validate() error {
	return nil
}

func (cfg *Switch) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, switchSample)
}

func (cfg *Switch) ConfigName() string {
	return "switch"
}

// Tunnel holds the tunnel device configuration.
type Tunnel struct {
	// Name is the name of the TUN device to create.
	Name string `toml:"name,omitempty"`
	// MTU is applied to the device.
	MTU int `toml:"mtu,omitempty"`
	// Addresses are assigned to the device.
	Addresses []netip.Prefix `toml:"addresses,omitempty"`
}

func (cfg *Tunnel) InitDefaults() {
	if cfg.Name == "" {
		cfg.Name = DefaultTunnelName
	}
	if cfg.MTU == 0 {
		cfg.MTU = DefaultTunnelMTU
	}
}

func (cfg *Tunnel) Validate() error {
	for _, addr := range cfg.Addresses {
		if !addr.IsValid() {
			return serrors.New("invalid tunnel address", "address", addr)
		}
	}
	return nil
}

func (cfg *Tunnel) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, tunnelSample)
}

func (cfg *Tunnel) ConfigName() string {
	return "tunnel"
}

// Hooks holds the lifecycle script configuration.
type Hooks struct {
	config.NoDefaulter
	config.NoValidator

	// Up is executed after the tunnel device is up.
	Up string `toml:"up,omitempty"`
	// Down is executed before the tunnel device is torn down.
	Down string `toml:"down,omitempty"`
}

func (cfg *Hooks) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, hooksSample)
}

func (cfg *Hooks) ConfigName() string {
	return "hooks"
}
