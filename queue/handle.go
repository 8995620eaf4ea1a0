// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package queue

import "context"

// Handle is how almost every part of the application outside the reactor's
// main loop schedules events: a small, cheaply-copyable value referring to
// one shared Scheduler for its entire lifetime. Duplicating a Handle never
// allocates; every duplicate resolves to the same Scheduler.
type Handle[Ev any] struct {
	scheduler *Scheduler[Ev]
}

// NewHandle binds a Handle to scheduler. Called once per reactor run; every
// EffectBuilder and collaborator component shares the resulting value.
func NewHandle[Ev any](scheduler *Scheduler[Ev]) Handle[Ev] {
	return Handle[Ev]{scheduler: scheduler}
}

// Schedule pushes event onto the scheduler under kind. It never fails and
// returns as soon as the push is accepted; ctx is honored only in that a
// cancelled context still completes the (non-blocking) push rather than
// abandoning it, since losing an already-produced event would violate the
// effect-re-entry guarantee.
func (h Handle[Ev]) Schedule(ctx context.Context, event Ev, kind Kind) {
	h.scheduler.Push(event, kind)
}
