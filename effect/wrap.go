// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package effect

import "context"

// Wrap lifts an effect over a sub-component's event type Ev into one over
// the reactor-wide event type REv, by applying f to every event the
// original effect produces. Wrapping is purely structural: it preserves the
// number and order of produced events and introduces no additional
// suspension. f may be invoked once per produced event and must itself be
// safe to call from the spawned effect's goroutine.
func Wrap[Ev, REv any](f func(Ev) REv, item Item[Ev]) Item[REv] {
	return Item[REv]{
		Kind: item.Kind,
		Run: func(ctx context.Context) []REv {
			events := item.Run(ctx)
			wrapped := make([]REv, len(events))
			for i, ev := range events {
				wrapped[i] = f(ev)
			}
			return wrapped
		},
	}
}

// WrapMultiple lifts every effect in a Multiple the same way Wrap lifts one.
func WrapMultiple[Ev, REv any](f func(Ev) REv, items Multiple[Ev]) Multiple[REv] {
	wrapped := make(Multiple[REv], len(items))
	for i, item := range items {
		wrapped[i] = Wrap(f, item)
	}
	return wrapped
}
