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

// Package worker contains helpers for working with long-running goroutines
// that need to be stopped from the outside.
//
// Workers embed a worker.Base and wrap their run and close logic in
// RunWrapper and CloseWrapper. The wrappers enforce the lifecycle contract:
// Run executes at most once, Close is idempotent, and a Close issued before
// Run causes Run to return immediately without executing.
package worker

import (
	"context"
	"sync"

	"github.com/weftnet/weft/pkg/private/serrors"
)

// Base provides the lifecycle bookkeeping for a worker. The zero value is
// ready for use. Base must not be copied after first use.
type Base struct {
	// WG can be used by workers to spawn additional goroutines that should be
	// waited on during cleanup.
	WG sync.WaitGroup

	mtx     sync.Mutex
	started bool
	closed  bool
	done    chan struct{}
}

// RunWrapper guards the execution of setup and run. If Close was called
// before RunWrapper, neither function is executed and nil is returned.
// Calling RunWrapper a second time returns an error. The setup function, if
// not nil, runs to completion before run is invoked; errors from either are
// returned as-is.
func (b *Base) RunWrapper(ctx context.Context, setup, run func(ctx context.Context) error) error {
	b.mtx.Lock()
	if b.started {
		b.mtx.Unlock()
		return serrors.New("worker already started")
	}
	b.started = true
	if b.closed {
		b.mtx.Unlock()
		return nil
	}
	b.ensureDoneLocked()
	b.mtx.Unlock()

	if setup != nil {
		if err := setup(ctx); err != nil {
			return err
		}
	}
	if run == nil {
		return nil
	}
	return run(ctx)
}

// CloseWrapper guards the execution of closeFn and signals the done channel.
// Only the first call runs closeFn; subsequent calls return nil immediately.
func (b *Base) CloseWrapper(ctx context.Context, closeFn func(ctx context.Context) error) error {
	b.mtx.Lock()
	if b.closed {
		b.mtx.Unlock()
		return nil
	}
	b.closed = true
	b.ensureDoneLocked()
	close(b.done)
	b.mtx.Unlock()

	if closeFn != nil {
		return closeFn(ctx)
	}
	return nil
}

// GetDoneChan returns a channel that is closed once CloseWrapper runs. Run
// functions select on it to learn when they should shut down.
func (b *Base) GetDoneChan() <-chan struct{} {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.ensureDoneLocked()
	return b.done
}

func (b *Base) ensureDoneLocked() {
	if b.done == nil {
		b.done = make(chan struct{})
	}
}
