// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package effect

import (
	"context"
	"time"

	"github.com/luxfi/log"
	"github.com/luxfi/reactor/queue"
)

// Builder is a small, copyable value carrying an event-queue handle and
// convenience constructors for the effect shapes components need most
// often. It never mutates reactor state — it only closes over the handle —
// so a fresh Builder may be handed to every dispatch without cost.
type Builder[Ev any] struct {
	handle queue.Handle[Ev]
	log    log.Logger
}

// NewBuilder binds a Builder to handle. logger may be nil, in which case
// the debug logging of failed Request and FireAndForget effects is
// suppressed.
func NewBuilder[Ev any](handle queue.Handle[Ev], logger log.Logger) Builder[Ev] {
	return Builder[Ev]{handle: handle, log: logger}
}

// Handle returns the event-queue handle this builder closes over, for
// collaborators that need to schedule events directly (e.g. from a
// long-lived background goroutine rather than a one-shot Effect).
func (b Builder[Ev]) Handle() queue.Handle[Ev] {
	return b.handle
}

// Immediate returns an effect that yields events on its first poll, with no
// suspension. Useful for turning a synchronously-computed follow-up into
// the effect shape DispatchEvent must return.
func (b Builder[Ev]) Immediate(kind queue.Kind, events ...Ev) Item[Ev] {
	return Item[Ev]{
		Kind: kind,
		Run: func(context.Context) []Ev {
			return events
		},
	}
}

// After returns an effect that suspends for d, then yields a single event
// produced by calling make. make is evaluated only once the duration
// elapses, so callers that need "now" semantics should capture it before
// calling After.
func (b Builder[Ev]) After(kind queue.Kind, d time.Duration, make func() Ev) Item[Ev] {
	return Item[Ev]{
		Kind: kind,
		Run: func(ctx context.Context) []Ev {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return []Ev{make()}
			case <-ctx.Done():
				return nil
			}
		},
	}
}

// Request returns an effect that calls call — typically a collaborator RPC
// such as a network send, a storage read, or an HTTP round trip — and
// yields the single event it produces. If call returns an error, onErr
// converts it into an event instead; the effect still yields exactly one
// event either way, preserving the "effect re-entry" property.
func (b Builder[Ev]) Request(kind queue.Kind, call func(ctx context.Context) (Ev, error), onErr func(error) Ev) Item[Ev] {
	return Item[Ev]{
		Kind: kind,
		Run: func(ctx context.Context) []Ev {
			ev, err := call(ctx)
			if err != nil {
				if b.log != nil {
					b.log.Debug("effect request failed", "error", err)
				}
				return []Ev{onErr(err)}
			}
			return []Ev{ev}
		},
	}
}

// FireAndForget returns an effect that performs a side-effect with no
// follow-up event: run is called and its error, if any, is only logged.
func (b Builder[Ev]) FireAndForget(kind queue.Kind, run func(ctx context.Context) error) Item[Ev] {
	return Item[Ev]{
		Kind: kind,
		Run: func(ctx context.Context) []Ev {
			if err := run(ctx); err != nil && b.log != nil {
				b.log.Debug("fire-and-forget effect failed", "error", err)
			}
			return nil
		},
	}
}
