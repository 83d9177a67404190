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

package main

import (
	"context"
	"net/netip"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/errgroup"

	"github.com/weftnet/weft/pkg/log"
	"github.com/weftnet/weft/pkg/private/serrors"
	"github.com/weftnet/weft/private/app/launcher"
	"github.com/weftnet/weft/private/hooks"
	"github.com/weftnet/weft/private/netdevice"
	"github.com/weftnet/weft/switchfab"
	"github.com/weftnet/weft/switchfab/config"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "Weft Switching Daemon",
		Main:       realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	sw := switchfab.New(switchfab.Options{
		Policy: switchfab.GroupPolicy{
			AllowSameGroup: globalCfg.Switch.AllowSameGroupRouting,
		},
		Metrics: switchMetrics(),
	})

	dev, err := netdevice.Open(netdevice.Config{
		Name:      globalCfg.Tunnel.Name,
		MTU:       globalCfg.Tunnel.MTU,
		Addresses: globalCfg.Tunnel.Addresses,
	})
	if err != nil {
		return serrors.Wrap("opening tunnel device", err)
	}
	log.Info("Tunnel device up", "name", dev.Name())

	routes := kernelRoutes()
	for _, route := range routes {
		if err := netdevice.AddRoute(dev, route); err != nil {
			return serrors.Wrap("installing kernel route", err)
		}
		log.Info("Kernel route installed", "route", route, "device", dev.Name())
	}

	runner := hooks.Runner{
		UpScript:   globalCfg.Hooks.Up,
		DownScript: globalCfg.Hooks.Down,
		Logger:     log.Root(),
	}
	if err := runner.Up(ctx, dev.Name()); err != nil {
		return err
	}

	fwd := &switchfab.Forwarder{
		Switch: sw,
		Source: dev,
		Group:  switchfab.Group(globalCfg.Switch.Group),
		Routes: localRoutes(),
		Logger: log.Root(),
	}

	g, errCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer log.HandlePanic()
		return fwd.Run(errCtx)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		dumpDiagnostics(errCtx, sw)
		return nil
	})
	g.Go(func() error {
		defer log.HandlePanic()
		<-errCtx.Done()
		for _, route := range routes {
			if err := netdevice.DeleteRoute(dev, route); err != nil {
				log.Error("Removing kernel route failed", "route", route, "err", err)
			}
		}
		if err := runner.Down(context.Background(), dev.Name()); err != nil {
			log.Error("Down script failed", "err", err)
		}
		return fwd.Close(context.Background())
	})
	return g.Wait()
}

// localRoutes returns the prefixes announced for the tunnel port. If none are
// configured, the networks of the tunnel addresses are announced.
func localRoutes() []netip.Prefix {
	if routes := globalCfg.Switch.Routes.Routes(); len(routes) > 0 {
		return routes
	}
	routes := make([]netip.Prefix, 0, len(globalCfg.Tunnel.Addresses))
	for _, addr := range globalCfg.Tunnel.Addresses {
		routes = append(routes, addr.Masked())
	}
	return routes
}

// kernelRoutes returns the prefixes to install as kernel routes through the
// tunnel device. Networks covered by a tunnel address are skipped, the kernel
// installs those when the address is assigned.
func kernelRoutes() []netip.Prefix {
	local := make(map[netip.Prefix]bool, len(globalCfg.Tunnel.Addresses))
	for _, addr := range globalCfg.Tunnel.Addresses {
		local[addr.Masked()] = true
	}
	var routes []netip.Prefix
	for _, route := range globalCfg.Switch.Routes.Routes() {
		if local[route] {
			continue
		}
		routes = append(routes, route)
	}
	return routes
}

// dumpDiagnostics writes the port and route table state to the log whenever
// the process receives SIGUSR1.
func dumpDiagnostics(ctx context.Context, sw *switchfab.Switch) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGUSR1)
	defer signal.Stop(sigs)
	for {
		select {
		case <-sigs:
			sw.DiagnosticsWrite(os.Stderr)
		case <-ctx.Done():
			return
		}
	}
}

func switchMetrics() switchfab.Metrics {
	frames := promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "switch_frames_total",
			Help: "Total number of dispatched frames, by verdict.",
		},
		[]string{"verdict"},
	)
	verdict := func(v switchfab.Verdict) prometheus.Counter {
		return frames.With(prometheus.Labels{"verdict": v.String()})
	}
	return switchfab.Metrics{
		FramesForwarded:            verdict(switchfab.VerdictForwarded),
		FramesDroppedUnsupported:   verdict(switchfab.VerdictUnsupportedProtocol),
		FramesDroppedUnknownSource: verdict(switchfab.VerdictUnknownSource),
		FramesDroppedNoRoute:       verdict(switchfab.VerdictNoRoute),
		FramesDroppedPolicy:        verdict(switchfab.VerdictPolicyBlocked),
		TableRebuilds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "switch_route_table_rebuilds_total",
			Help: "Total number of route table compilations.",
		}),
		PortsAttached: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "switch_ports",
			Help: "Number of currently attached ports.",
		}),
	}
}
