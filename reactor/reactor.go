// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package reactor implements the validator node's event-dispatch core: the
// Reactor contract every concrete reactor satisfies, and the Run driver that
// instantiates a reactor, processes its initial effects, then repeatedly
// pops an event, dispatches it, and spawns the effects that come back.
//
// No component ever mutates reactor state directly. The only path is
// "produce an effect that eventually schedules an event" — the driver is the
// sole owner of reactor state, and DispatchEvent is the only place that
// state is ever mutated, for the lifetime of the process.
package reactor

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/reactor/effect"
	"github.com/luxfi/reactor/queue"
)

// maxEventWords is the size threshold (in machine words) past which Run logs
// a startup warning: a large event variant inflates every queue slot.
const maxEventWords = 16

// Event is the contract every reactor-wide event type must satisfy: cheap
// concise and verbose string forms for the two-mode log line Run emits for
// every dispatched event.
type Event interface {
	fmt.Stringer
	// GoString renders the verbose, debug form of the event.
	GoString() string
}

// Reactor is the capability set a concrete reactor exposes: construction
// from collaborator configuration, and synchronous dispatch of one event
// into zero or more effects.
//
// DispatchEvent must not block on I/O and must not suspend; all
// asynchronous work must be expressed as a returned effect. It is called
// with exclusive access to the reactor's state for the duration of the
// call — Run never calls it concurrently with itself.
type Reactor[Ev Event] interface {
	// DispatchEvent processes one event synchronously and returns the
	// effects expressing whatever asynchronous work it implies. Dispatching
	// an event with no matching handler is a programming error, not a
	// failure: implementations log it at warn and return no effects.
	DispatchEvent(builder effect.Builder[Ev], event Ev) effect.Multiple[Ev]
}

// Constructor builds a Reactor of event type Ev along with the effects
// required to bring the system to a running state (open listeners, schedule
// timers, load persisted state). It fails only if a collaborator fails to
// initialize; DispatchEvent is infallible by contract.
type Constructor[Ev Event, R Reactor[Ev]] func(handle queue.Handle[Ev]) (R, effect.Multiple[Ev], error)

// ShutdownSignaler is the optional contract an event type implements to
// carry an explicit shutdown request through the dispatch loop itself,
// rather than only through Run's external shutdown channel. After every
// DispatchEvent call, Run checks the just-dispatched event against this
// interface; once IsShutdownRequest reports true, Run returns, matching the
// "an explicit shutdown event terminates the loop" contract — any
// collaborator that can reach a queue.Handle can trigger a clean shutdown
// simply by scheduling such an event, with no special-cased exit path of
// its own.
type ShutdownSignaler interface {
	IsShutdownRequest() bool
}

// Error wraps a collaborator construction failure with the name of the
// collaborator that failed, so callers (and tests) can assert on it without
// parsing the message.
type Error struct {
	Collaborator string
	Err          error
}

func (e *Error) Error() string {
	return fmt.Sprintf("reactor: %s: %v", e.Collaborator, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Run instantiates a reactor via construct, runs its initial effects, then
// enters the steady-state dispatch loop until ctx is cancelled, shutdown is
// closed, or a dispatched event reports IsShutdownRequest() == true (see
// ShutdownSignaler). Outstanding
// spawned effect tasks are not awaited on return; the caller is expected to
// exit the process shortly after.
//
// Run allocates the event scheduler exactly once and promotes it to the
// lifetime of this call: every queue.Handle copy derived from it, including
// ones retained by long-lived collaborator goroutines, remains valid for as
// long as Run is running.
func Run[Ev Event, R Reactor[Ev]](
	ctx context.Context,
	logger log.Logger,
	registerer prometheus.Registerer,
	construct Constructor[Ev, R],
	shutdown <-chan struct{},
) error {
	warnIfOversized[Ev](logger)

	scheduler := queue.New[Ev](queue.Weights(), registerer)
	handle := queue.NewHandle(scheduler)

	reactorInstance, initialEffects, err := construct(handle)
	if err != nil {
		var re *Error
		if ok := asReactorError(err, &re); ok {
			return re
		}
		return &Error{Collaborator: "unknown", Err: err}
	}

	dispatches := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reactor",
		Name:      "dispatches_total",
		Help:      "Total number of events dispatched by the reactor's main loop.",
	})
	spawned := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "reactor",
		Name:      "effects_spawned_total",
		Help:      "Total number of effect tasks spawned.",
	})
	if registerer != nil {
		registerer.Register(dispatches)
		registerer.Register(spawned)
	}

	var wg sync.WaitGroup
	processEffects(ctx, &wg, scheduler, initialEffects, spawned)

	logger.Info("entering reactor main loop")
	builder := effect.NewBuilder(handle, logger)

	for {
		select {
		case <-shutdown:
			logger.Info("reactor shutting down")
			return nil
		case <-ctx.Done():
			logger.Info("reactor context canceled, shutting down")
			return nil
		default:
		}

		event, kind := popWithShutdown(ctx, scheduler, shutdown)
		if kind == shutdownSentinelKind {
			logger.Info("reactor shutting down")
			return nil
		}

		logger.Debug(event.String(), "kind", kind)
		logger.Trace(event.GoString(), "kind", kind)

		effects := reactorInstance.DispatchEvent(builder, event)
		dispatches.Inc()
		processEffects(ctx, &wg, scheduler, effects, spawned)

		if se, ok := Event(event).(ShutdownSignaler); ok && se.IsShutdownRequest() {
			logger.Info("reactor shutting down", "reason", "shutdown event dispatched")
			return nil
		}
	}
}

// shutdownSentinelKind is never a real queue.Kind value; popWithShutdown
// returns it to signal the caller observed shutdown rather than a popped
// event. It is out of the declared Kind range so it can never collide.
const shutdownSentinelKind queue.Kind = 255

// popWithShutdown pops the next event, but races the pop against ctx
// cancellation and the shutdown channel so a reactor with no further events
// still exits promptly on shutdown.
func popWithShutdown[Ev Event](ctx context.Context, scheduler *queue.Scheduler[Ev], shutdown <-chan struct{}) (Ev, queue.Kind) {
	type result struct {
		event Ev
		kind  queue.Kind
	}
	popped := make(chan result, 1)
	go func() {
		ev, k := scheduler.Pop()
		popped <- result{event: ev, kind: k}
	}()

	select {
	case r := <-popped:
		return r.event, r.kind
	case <-shutdown:
		var zero Ev
		return zero, shutdownSentinelKind
	case <-ctx.Done():
		var zero Ev
		return zero, shutdownSentinelKind
	}
}

// processEffects spawns one goroutine per returned effect. Each goroutine
// awaits its effect, then pushes every produced event onto the scheduler
// under the queue.Kind the effect declared — preserving per-event priority
// instead of flattening everything onto queue.Regular (see Item.Kind).
func processEffects[Ev any](ctx context.Context, wg *sync.WaitGroup, scheduler *queue.Scheduler[Ev], effects effect.Multiple[Ev], spawned prometheus.Counter) {
	for _, item := range effects {
		item := item
		wg.Add(1)
		if spawned != nil {
			spawned.Inc()
		}
		go func() {
			defer wg.Done()
			for _, event := range item.Run(ctx) {
				scheduler.Push(event, item.Kind)
			}
		}()
	}
}

// WrapEffect lifts an effect that yields sub-component events into one that
// yields reactor-wide events, via f.
func WrapEffect[Ev, REv any](f func(Ev) REv, item effect.Item[Ev]) effect.Item[REv] {
	return effect.Wrap(f, item)
}

// WrapEffects lifts a collection of sub-component effects the same way
// WrapEffect lifts one.
func WrapEffects[Ev, REv any](f func(Ev) REv, items effect.Multiple[Ev]) effect.Multiple[REv] {
	return effect.WrapMultiple(f, items)
}

// warnIfOversized logs a startup warning if Ev's zero value exceeds
// maxEventWords machine words, since large variants inflate every queue
// slot even though storage size is not itself a correctness issue.
func warnIfOversized[Ev any](logger log.Logger) {
	var zero Ev
	size := reflect.TypeOf(&zero).Elem().Size()
	wordSize := reflect.TypeOf(uintptr(0)).Size()
	if size > uintptr(maxEventWords)*wordSize {
		logger.Warn("event size exceeds recommended threshold", "bytes", size, "threshold_words", maxEventWords)
	}
}

func asReactorError(err error, target **Error) bool {
	type unwrapper interface{ Unwrap() error }
	for e := err; e != nil; {
		if re, ok := e.(*Error); ok {
			*target = re
			return true
		}
		u, ok := e.(unwrapper)
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return false
}
