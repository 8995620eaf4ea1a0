// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package queue

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// item pairs a queued event with the kind it was pushed under, so Pop can
// report which queue it came from.
type item[Ev any] struct {
	event Ev
	kind  Kind
}

// Scheduler is the weighted round-robin multi-queue the reactor's driver
// pops events from. It holds one FIFO per Kind plus a weight table.
//
// Push never blocks beyond the internal mutex and never fails. Pop removes
// and returns one (event, kind) pair, suspending the caller while every
// queue is empty.
//
// Selection keeps a per-kind credit counter seeded from its weight; Pop scans
// kinds in declaration order and takes from the first non-empty queue with
// positive credit, decrementing it. When every non-empty queue has
// exhausted its credit, all credits are refilled from the weight table and
// scanning starts over. This guarantees a kind with any backlog is served
// within one full weight-sum of Pop calls — no starvation, deterministic
// fairness.
type Scheduler[Ev any] struct {
	mu      sync.Mutex
	notEmpty *sync.Cond
	queues  map[Kind][]item[Ev]
	weights map[Kind]int
	credits map[Kind]int
	order   []Kind

	depth *prometheus.GaugeVec
	pops  prometheus.Counter
}

// New constructs a Scheduler with the given weight table. All queues start
// empty. A nil registerer disables metrics registration.
func New[Ev any](weights map[Kind]int, registerer prometheus.Registerer) *Scheduler[Ev] {
	s := &Scheduler[Ev]{
		queues:  make(map[Kind][]item[Ev], len(weights)),
		weights: weights,
		credits: make(map[Kind]int, len(weights)),
		order:   orderedKinds(),
	}
	s.notEmpty = sync.NewCond(&s.mu)
	for k, w := range weights {
		s.credits[k] = w
	}

	if registerer != nil {
		s.depth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "reactor",
			Subsystem: "scheduler",
			Name:      "queue_depth",
			Help:      "Number of events currently queued, by queue kind.",
		}, []string{"kind"})
		s.pops = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "reactor",
			Subsystem: "scheduler",
			Name:      "pops_total",
			Help:      "Total number of events popped from the scheduler.",
		})
		registerer.Register(s.depth)
		registerer.Register(s.pops)
	}

	return s
}

// Push appends event to kind's queue and wakes one blocked Pop call, if any.
// Events pushed to the same kind from the same caller arrive in push order.
func (s *Scheduler[Ev]) Push(event Ev, kind Kind) {
	s.mu.Lock()
	s.queues[kind] = append(s.queues[kind], item[Ev]{event: event, kind: kind})
	if s.depth != nil {
		s.depth.WithLabelValues(kind.String()).Set(float64(len(s.queues[kind])))
	}
	s.mu.Unlock()
	s.notEmpty.Signal()
}

// Pop removes and returns one (event, kind) pair, suspending the calling
// goroutine until at least one queue is non-empty.
func (s *Scheduler[Ev]) Pop() (Ev, Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		if ev, kind, ok := s.popLocked(); ok {
			if s.pops != nil {
				s.pops.Inc()
			}
			return ev, kind
		}
		s.notEmpty.Wait()
	}
}

// popLocked implements one round of the credit-counter selection algorithm.
// It must be called with s.mu held.
func (s *Scheduler[Ev]) popLocked() (Ev, Kind, bool) {
	if s.allEmptyLocked() {
		var zero Ev
		return zero, 0, false
	}

	for {
		for _, k := range s.order {
			q := s.queues[k]
			if len(q) == 0 || s.credits[k] <= 0 {
				continue
			}
			ev := q[0]
			s.queues[k] = q[1:]
			s.credits[k]--
			if s.depth != nil {
				s.depth.WithLabelValues(k.String()).Set(float64(len(s.queues[k])))
			}
			return ev.event, ev.kind, true
		}
		// Every non-empty queue has exhausted its credit: refill and retry.
		for k, w := range s.weights {
			s.credits[k] = w
		}
	}
}

func (s *Scheduler[Ev]) allEmptyLocked() bool {
	for _, k := range s.order {
		if len(s.queues[k]) > 0 {
			return false
		}
	}
	return true
}

// Len reports how many events are currently queued under kind. Intended for
// tests and diagnostics, not for steering dispatch decisions.
func (s *Scheduler[Ev]) Len(kind Kind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues[kind])
}
