// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package network is the small-network collaborator: it owns simulated peer
// connections and reports their lifecycle (connect, message, send-complete,
// disconnect) as events.NetworkEvent values. Wire framing, transport
// security, and peer discovery belong to the real network stack this
// component stands in for — see spec.md §1's Non-goals.
package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/luxfi/crypto/bls"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/p2p"
	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
	"github.com/luxfi/version"
)

// Sender is the outbound app-message sender the network collaborator is
// handed at construction time. It is a direct alias for p2p.Sender, the
// same pattern the teacher uses for its VM-facing AppSender alias.
type Sender = p2p.Sender

// requestHandlerID identifies the reactor's single outbound request
// handler to the p2p layer. The reactor has no per-handler registry of its
// own (see spec.md §1's Non-goals), so every Send shares this one ID, the
// same way the teacher's AppSender callers pass a fixed handler for a
// single-purpose sender (engine/core/core.go's SendRequest).
const requestHandlerID uint64 = 0

// Component is the network collaborator's state: connected peers and the
// node's own identity.
type Component struct {
	cfg    config.NetworkConfig
	log    log.Logger
	handle queue.Handle[events.Event]
	sender Sender

	identityKey *bls.SecretKey
	identity    *bls.PublicKey

	requestSeq atomic.Uint32

	mu    sync.Mutex
	peers map[ids.NodeID]*version.Application
}

// New constructs the network collaborator. It validates cfg, loads the
// node's TLS identity when cfg.TLSIdentityPath is set, and generates a fresh
// BLS identity key. It opens no listener on cfg.ListenAddrs; peers and
// messages reach the component only through Connect, Receive and
// Disconnect calls.
func New(cfg config.NetworkConfig, logger log.Logger, handle queue.Handle[events.Event], sender Sender) (*Component, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.TLSIdentityPath != "" {
		if _, err := tls.LoadX509KeyPair(cfg.TLSIdentityPath, cfg.TLSIdentityPath); err != nil {
			return nil, fmt.Errorf("load node TLS identity: %w", err)
		}
	}

	secretKey, err := bls.NewSecretKey()
	if err != nil {
		return nil, fmt.Errorf("generate node identity key: %w", err)
	}

	return &Component{
		cfg:         cfg,
		log:         logger,
		handle:      handle,
		sender:      sender,
		identityKey: secretKey,
		identity:    secretKey.PublicKey(),
		peers:       make(map[ids.NodeID]*version.Application),
	}, nil
}

// Connect records a peer connection and schedules a NetworkPeerConnected
// event. Called by the transport layer outside the reactor's main loop.
func (c *Component) Connect(ctx context.Context, nodeID ids.NodeID, peerVersion *version.Application) {
	c.mu.Lock()
	if len(c.peers) >= c.cfg.MaxPeers {
		c.mu.Unlock()
		c.log.Warn("rejecting peer connection, at max peers", "node", nodeID, "max_peers", c.cfg.MaxPeers)
		return
	}
	c.peers[nodeID] = peerVersion
	c.mu.Unlock()

	c.handle.Schedule(ctx, events.FromNetwork(&events.NetworkEvent{
		Op:      events.NetworkPeerConnected,
		NodeID:  nodeID,
		Version: peerVersion,
	}), queue.NetworkIncoming)
}

// Disconnect forgets a peer and schedules a NetworkPeerDisconnected event.
func (c *Component) Disconnect(ctx context.Context, nodeID ids.NodeID) {
	c.mu.Lock()
	delete(c.peers, nodeID)
	c.mu.Unlock()

	c.handle.Schedule(ctx, events.FromNetwork(&events.NetworkEvent{
		Op:     events.NetworkPeerDisconnected,
		NodeID: nodeID,
	}), queue.NetworkIncoming)
}

// Receive schedules a NetworkMessageReceived event for an inbound message.
// Called by the transport layer's read loop.
func (c *Component) Receive(ctx context.Context, nodeID ids.NodeID, payload []byte) {
	c.handle.Schedule(ctx, events.FromNetwork(&events.NetworkEvent{
		Op:      events.NetworkMessageReceived,
		NodeID:  nodeID,
		Payload: payload,
	}), queue.NetworkIncoming)
}

// Send transmits payload to nodeID through the configured Sender and
// schedules a NetworkSendComplete event carrying the request ID and any
// send error once the attempt finishes, mirroring the teacher's
// AppSender.SendRequest call convention (engine/core/core.go). A nil
// Sender (the default when no p2p stack is wired in) fails every Send and
// still reports the failure through NetworkSendComplete rather than
// panicking.
func (c *Component) Send(ctx context.Context, nodeID ids.NodeID, payload []byte) (requestID uint32, err error) {
	requestID = c.requestSeq.Add(1)
	if c.sender == nil {
		err = fmt.Errorf("network: no sender configured for node %s", nodeID)
	} else {
		err = c.sender.SendRequest(ctx, nodeID, requestHandlerID, payload)
	}

	c.handle.Schedule(ctx, events.FromNetwork(&events.NetworkEvent{
		Op:        events.NetworkSendComplete,
		NodeID:    nodeID,
		RequestID: requestID,
		Err:       err,
	}), queue.NetworkIncoming)
	return requestID, err
}

// PeerCount reports the number of currently connected peers.
func (c *Component) PeerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.peers)
}

// Peers returns a snapshot of the currently connected peer IDs, for
// collaborators that need to fan a message out to every connected peer
// (e.g. validatorreactor's block-proposed broadcast).
func (c *Component) Peers() []ids.NodeID {
	c.mu.Lock()
	defer c.mu.Unlock()
	peers := make([]ids.NodeID, 0, len(c.peers))
	for id := range c.peers {
		peers = append(peers, id)
	}
	return peers
}

// Identity returns the node's public identity key.
func (c *Component) Identity() *bls.PublicKey {
	return c.identity
}
