// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package queue implements the reactor's weighted round-robin event
// scheduler: a fixed set of named queues, each with a service weight, drained
// by a single consumer while any number of producers push concurrently.
package queue

import "fmt"

// Kind names one of the reactor's logical event queues. The set is fixed at
// compile time; adding a member is a deliberate design change, not a runtime
// configuration option.
type Kind uint8

const (
	// Regular carries events with no more specific home: dispatch follow-ups
	// whose producer didn't choose a kind, and effect completions routed
	// through the default queue.
	Regular Kind = iota
	// NetworkIncoming carries peer connection, message, and disconnect
	// events from the network collaborator.
	NetworkIncoming
	// APIRequest carries inbound HTTP requests and outbound response events
	// from the API collaborator.
	APIRequest
	// Consensus carries block-proposed, vote, and finality events relayed
	// from the out-of-scope consensus protocol.
	Consensus
	// Internal carries timers and the shutdown event. It is serviced with
	// the heaviest weight so housekeeping never stalls behind backlog.
	Internal

	numKinds = int(Internal) + 1
)

// String renders the kind for log lines and test failure messages.
func (k Kind) String() string {
	switch k {
	case Regular:
		return "regular"
	case NetworkIncoming:
		return "network-incoming"
	case APIRequest:
		return "api-request"
	case Consensus:
		return "consensus"
	case Internal:
		return "internal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Weights returns the kind-to-weight table. The map itself is unordered; the
// scheduler breaks ties between equally-credited kinds by declaration order
// (see orderedKinds). Weights are proportional
// service shares, not priorities: a weight-1 kind is still served, just less
// often than a weight-4 kind.
func Weights() map[Kind]int {
	return map[Kind]int{
		Regular:         2,
		NetworkIncoming: 3,
		APIRequest:      1,
		Consensus:       3,
		Internal:        4,
	}
}

// orderedKinds returns every Kind in declaration order, used by the
// scheduler to make credit refill and tie-break order deterministic.
func orderedKinds() []Kind {
	kinds := make([]Kind, 0, numKinds)
	for k := Kind(0); int(k) < numKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}
