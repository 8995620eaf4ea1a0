// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package events defines the reactor-wide event type: a tagged union over
// the event sub-types of every embedded collaborator (network, API,
// storage, consensus) plus the reactor's own internal events (timers,
// shutdown). Every sub-event variant that crosses a goroutine boundary is
// safe to do so; none is required to be cloneable for dispatch.
package events

import (
	"fmt"

	"github.com/luxfi/reactor/queue"
)

// Category tags which collaborator produced an Event. It is distinct from
// queue.Kind: Category says who made the event, queue.Kind says which
// scheduler queue it travels on — the two usually agree (see QueueKind)
// but nothing requires it.
type Category uint8

const (
	CategoryNetwork Category = iota
	CategoryAPI
	CategoryStorage
	CategoryConsensus
	CategoryInternal
)

func (c Category) String() string {
	switch c {
	case CategoryNetwork:
		return "network"
	case CategoryAPI:
		return "api"
	case CategoryStorage:
		return "storage"
	case CategoryConsensus:
		return "consensus"
	case CategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Event is the reactor-wide event type. Exactly one of the pointer fields
// matching Category is non-nil; the others are zero. Only one field is ever
// populated at a time, so the struct stays small regardless of how many
// collaborators are embedded — each sub-event is itself a tagged union over
// that collaborator's operations.
type Event struct {
	Category  Category
	Network   *NetworkEvent
	API       *APIEvent
	Storage   *StorageEvent
	Consensus *ConsensusEvent
	Internal  *InternalEvent
}

// QueueKind reports the scheduler queue this event should travel on when
// scheduled directly (as opposed to via an effect.Item, which carries its
// own explicit kind).
func (e Event) QueueKind() queue.Kind {
	switch e.Category {
	case CategoryNetwork:
		return queue.NetworkIncoming
	case CategoryAPI:
		return queue.APIRequest
	case CategoryConsensus:
		return queue.Consensus
	case CategoryInternal:
		return queue.Internal
	default:
		return queue.Regular
	}
}

// String renders the concise, display form used for the reactor's
// always-on per-event log line.
func (e Event) String() string {
	switch e.Category {
	case CategoryNetwork:
		return e.Network.String()
	case CategoryAPI:
		return e.API.String()
	case CategoryStorage:
		return e.Storage.String()
	case CategoryConsensus:
		return e.Consensus.String()
	case CategoryInternal:
		return e.Internal.String()
	default:
		return "event(unknown)"
	}
}

// GoString renders the verbose, debug form used for the reactor's trace-level
// per-event log line.
func (e Event) GoString() string {
	switch e.Category {
	case CategoryNetwork:
		return fmt.Sprintf("Event{Category: network, Network: %#v}", e.Network)
	case CategoryAPI:
		return fmt.Sprintf("Event{Category: api, API: %#v}", e.API)
	case CategoryStorage:
		return fmt.Sprintf("Event{Category: storage, Storage: %#v}", e.Storage)
	case CategoryConsensus:
		return fmt.Sprintf("Event{Category: consensus, Consensus: %#v}", e.Consensus)
	case CategoryInternal:
		return fmt.Sprintf("Event{Category: internal, Internal: %#v}", e.Internal)
	default:
		return "Event{Category: unknown}"
	}
}

// FromNetwork embeds a network sub-event into the reactor-wide event type.
// One such embedding function exists per sub-variant, per the design note
// that these should be generated mechanically rather than hand-written ad
// hoc at every wrap_effect call site.
func FromNetwork(ev *NetworkEvent) Event { return Event{Category: CategoryNetwork, Network: ev} }

// FromAPI embeds an API sub-event into the reactor-wide event type.
func FromAPI(ev *APIEvent) Event { return Event{Category: CategoryAPI, API: ev} }

// FromStorage embeds a storage sub-event into the reactor-wide event type.
func FromStorage(ev *StorageEvent) Event { return Event{Category: CategoryStorage, Storage: ev} }

// FromConsensus embeds a consensus sub-event into the reactor-wide event type.
func FromConsensus(ev *ConsensusEvent) Event {
	return Event{Category: CategoryConsensus, Consensus: ev}
}

// FromInternal embeds an internal sub-event into the reactor-wide event type.
func FromInternal(ev *InternalEvent) Event { return Event{Category: CategoryInternal, Internal: ev} }

// IsShutdownRequest implements reactor.ShutdownSignaler: an
// InternalShutdownRequested event terminates the reactor's main loop the
// moment it is dispatched, rather than only on the external shutdown
// channel or ctx cancellation.
func (e Event) IsShutdownRequest() bool {
	return e.Category == CategoryInternal && e.Internal != nil && e.Internal.Op == InternalShutdownRequested
}
