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
	"context"
	"errors"
	"io"
	"net/netip"
	"sync"

	"github.com/weftnet/weft/pkg/log"
	"github.com/weftnet/weft/pkg/private/serrors"
	"github.com/weftnet/weft/private/worker"
)

// defaultFrameSize accommodates the largest IP packet a tunnel device will
// hand us with the default MTU plus headroom.
const defaultFrameSize = 9216

// Forwarder pumps frames from a local source, typically a TUN device, into a
// switch. It attaches itself as a port on Run and detaches on Close, so the
// routes it advertises exist exactly while frames can actually be served.
type Forwarder struct {
	// Switch is the switch frames are dispatched into. Must not be nil.
	Switch *Switch
	// Source is the frame source and sink, typically the tunnel device.
	// Reads must return one full frame per call. The forwarder closes it
	// on shutdown.
	Source io.ReadWriteCloser
	// Group is the group of the attached port.
	Group Group
	// Routes are the prefixes served through this forwarder.
	Routes []netip.Prefix
	// FrameSize overrides the read buffer size. Defaults to 9216 bytes.
	FrameSize int
	// Logger is used for logging, nil means no logging.
	Logger log.Logger

	portMtx    sync.Mutex
	port       PortIndex
	workerBase worker.Base
}

// Run attaches the port and reads frames from the source until Close is
// called or the source fails. It must only be called once.
func (f *Forwarder) Run(ctx context.Context) error {
	return f.workerBase.RunWrapper(ctx, f.setup, f.run)
}

// Close detaches the port and closes the source. The read loop drains out
// shortly after.
func (f *Forwarder) Close(ctx context.Context) error {
	return f.workerBase.CloseWrapper(ctx, func(ctx context.Context) error {
		if port := f.PortIndex(); port != 0 {
			if err := f.Switch.Detach(port); err != nil {
				return err
			}
		}
		return f.Source.Close()
	})
}

// PortIndex returns the index of the attached port, or zero before Run.
func (f *Forwarder) PortIndex() PortIndex {
	f.portMtx.Lock()
	defer f.portMtx.Unlock()
	return f.port
}

func (f *Forwarder) setup(ctx context.Context) error {
	if f.Switch == nil {
		return serrors.New("switch must not be nil")
	}
	if f.Source == nil {
		return serrors.New("source must not be nil")
	}
	port := f.Switch.Attach(f.Group, f.Routes, writerFunc(func(frame []byte) {
		if _, err := f.Source.Write(frame); err != nil {
			log.SafeDebug(f.Logger, "Write to source failed", "err", err)
		}
	}))
	f.portMtx.Lock()
	f.port = port
	f.portMtx.Unlock()
	return nil
}

func (f *Forwarder) run(ctx context.Context) error {
	size := f.FrameSize
	if size == 0 {
		size = defaultFrameSize
	}
	buf := make([]byte, size)
	for {
		n, err := f.Source.Read(buf)
		if err != nil {
			select {
			case <-f.workerBase.GetDoneChan():
				return nil
			default:
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return serrors.Wrap("reading frame", err)
		}
		outcome := f.Switch.Dispatch(f.port, buf[:n])
		if outcome.Verdict != VerdictForwarded {
			log.SafeDebug(f.Logger, "Frame dropped", "verdict", outcome.Verdict)
		}
	}
}

// writerFunc adapts a function to the PktWriter interface.
type writerFunc func(frame []byte)

func (f writerFunc) Write(frame []byte) { f(frame) }
