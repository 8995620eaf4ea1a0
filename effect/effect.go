// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package effect implements the reactor's deferred-computation abstraction:
// an Effect is a boxed, send-safe unit of asynchronous work that, once
// awaited, yields zero or more follow-up events. Effects carry no identity
// and are not inspectable; they are opaque work items moved into a spawned
// task at dispatch time and dropped when that task completes.
package effect

import (
	"context"

	"github.com/luxfi/reactor/queue"
)

// Effect is a deferred asynchronous computation producing an ordered,
// finite collection of events. Awaiting it is a blocking call from the
// perspective of the goroutine that runs it — callers are expected to run
// an Effect inside its own goroutine, never inline inside DispatchEvent.
type Effect[Ev any] func(ctx context.Context) []Ev

// Item pairs an Effect with the queue.Kind its produced events should be
// scheduled under. This is how per-event priority survives the trip through
// effect processing instead of every follow-up event flattening onto the
// default queue (see reactor.processEffects).
type Item[Ev any] struct {
	Run  Effect[Ev]
	Kind queue.Kind
}

// Multiple is the ordered, finite collection of effects a single dispatch
// or construction call returns.
type Multiple[Ev any] []Item[Ev]

// None is the empty effect collection, returned by dispatch handlers and
// fire-and-forget effects that have no follow-up work.
func None[Ev any]() Multiple[Ev] {
	return nil
}
