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

// Package metrics defines the minimal metric surface components report
// against. The interfaces are satisfied by prometheus metric types directly,
// so production code binds labels once at construction time and the hot path
// stays allocation free. Components must treat nil metrics as "do not
// report"; the helper functions in this package are nil-safe for that
// purpose.
package metrics

// Counter describes a metric that accumulates values monotonically.
type Counter interface {
	Add(delta float64)
}

// Gauge describes a metric that takes arbitrary values.
type Gauge interface {
	Add(delta float64)
	Set(value float64)
}

// CounterInc increases the passed counter by one. If c is nil, nothing
// happens.
func CounterInc(c Counter) {
	CounterAdd(c, 1)
}

// CounterAdd increases the passed counter by delta. If c is nil, nothing
// happens.
func CounterAdd(c Counter, delta float64) {
	if c == nil {
		return
	}
	c.Add(delta)
}

// GaugeAdd increases the passed gauge by delta. If g is nil, nothing happens.
func GaugeAdd(g Gauge, delta float64) {
	if g == nil {
		return
	}
	g.Add(delta)
}
