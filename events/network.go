// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"fmt"

	"github.com/luxfi/ids"
	"github.com/luxfi/version"
)

// NetworkOp enumerates the operations the network collaborator reports.
type NetworkOp uint8

const (
	NetworkPeerConnected NetworkOp = iota
	NetworkMessageReceived
	NetworkSendComplete
	NetworkPeerDisconnected
)

func (op NetworkOp) String() string {
	switch op {
	case NetworkPeerConnected:
		return "peer-connected"
	case NetworkMessageReceived:
		return "message-received"
	case NetworkSendComplete:
		return "send-complete"
	case NetworkPeerDisconnected:
		return "peer-disconnected"
	default:
		return "unknown"
	}
}

// NetworkEvent is the network collaborator's sub-event type: peer
// connected, message received, message send-complete, peer disconnected.
type NetworkEvent struct {
	Op       NetworkOp
	NodeID   ids.NodeID
	Version  *version.Application // set only for NetworkPeerConnected
	Payload  []byte               // set only for NetworkMessageReceived
	RequestID uint32              // set only for NetworkSendComplete
	Err      error                // set only when the op itself failed
}

func (e *NetworkEvent) String() string {
	return fmt.Sprintf("network.%s[node=%s]", e.Op, e.NodeID)
}
