// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package validatorreactor is the concrete Reactor implementation for the
// validator node: it wires the network, storage, apiserver, and
// consensusrelay collaborators together behind the reactor package's
// generic dispatch loop.
package validatorreactor

import (
	"context"
	"time"

	"github.com/luxfi/database"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/luxfi/reactor/apiserver"
	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/consensusrelay"
	"github.com/luxfi/reactor/effect"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/network"
	"github.com/luxfi/reactor/queue"
	"github.com/luxfi/reactor/reactor"
	"github.com/luxfi/reactor/storage"
)

// heartbeatInterval is how often the reactor schedules itself an
// InternalTimerFired event, a minimal always-running timer that exercises
// the effect-reentry property (each firing schedules the next one).
const heartbeatInterval = 30 * time.Second

// Config bundles everything NewConstructor needs that isn't itself
// produced by the reactor: collaborator configuration plus the concrete
// dependencies (a peer sender, two already-opened databases) this reactor
// doesn't own the lifecycle of.
type Config struct {
	Deps       config.Deps
	Sender     network.Sender
	Blocks     database.Database
	Deploys    database.Database
	Registerer prometheus.Registerer
	Logger     log.Logger
}

// Reactor is the validator node's concrete Reactor[events.Event]
// implementation.
type Reactor struct {
	log       log.Logger
	network   *network.Component
	storage   *storage.Component
	api       *apiserver.Component
	consensus *consensusrelay.Component
}

// NewConstructor returns a reactor.Constructor bound to cfg, suitable for
// passing directly to reactor.Run.
func NewConstructor(cfg Config) reactor.Constructor[events.Event, *Reactor] {
	return func(handle queue.Handle[events.Event]) (*Reactor, effect.Multiple[events.Event], error) {
		if err := cfg.Deps.Validate(); err != nil {
			return nil, nil, &reactor.Error{Collaborator: "config", Err: err}
		}

		netComp, err := network.New(cfg.Deps.Network, cfg.Logger, handle, cfg.Sender)
		if err != nil {
			return nil, nil, &reactor.Error{Collaborator: "network", Err: err}
		}

		storageComp, err := storage.New(cfg.Deps.Storage, cfg.Logger, handle, cfg.Registerer, cfg.Blocks, cfg.Deploys)
		if err != nil {
			return nil, nil, &reactor.Error{Collaborator: "storage", Err: err}
		}

		var gatherer prometheus.Gatherer
		if g, ok := cfg.Registerer.(prometheus.Gatherer); ok {
			gatherer = g
		}
		apiComp, err := apiserver.New(cfg.Deps.API, cfg.Logger, handle, gatherer)
		if err != nil {
			return nil, nil, &reactor.Error{Collaborator: "apiserver", Err: err}
		}

		consensusComp := consensusrelay.New(cfg.Logger, handle)

		r := &Reactor{
			log:       cfg.Logger,
			network:   netComp,
			storage:   storageComp,
			api:       apiComp,
			consensus: consensusComp,
		}

		builder := effect.NewBuilder(handle, cfg.Logger)
		initial := effect.Multiple[events.Event]{
			builder.FireAndForget(queue.APIRequest, apiComp.Serve),
			r.heartbeat(builder),
		}
		return r, initial, nil
	}
}

// heartbeat returns the effect that, once it fires, schedules the next
// heartbeat in turn — the event-reentry pattern DispatchEvent's
// InternalTimerFired branch continues on every subsequent firing.
func (r *Reactor) heartbeat(builder effect.Builder[events.Event]) effect.Item[events.Event] {
	return builder.After(queue.Internal, heartbeatInterval, func() events.Event {
		return events.FromInternal(&events.InternalEvent{Op: events.InternalTimerFired, Timer: "heartbeat"})
	})
}

// DispatchEvent implements reactor.Reactor[events.Event].
func (r *Reactor) DispatchEvent(builder effect.Builder[events.Event], event events.Event) effect.Multiple[events.Event] {
	switch event.Category {
	case events.CategoryNetwork:
		return r.dispatchNetwork(builder, event.Network)
	case events.CategoryAPI:
		return r.dispatchAPI(builder, event.API)
	case events.CategoryStorage:
		return r.dispatchStorage(event.Storage)
	case events.CategoryConsensus:
		return r.dispatchConsensus(builder, event.Consensus)
	case events.CategoryInternal:
		return r.dispatchInternal(builder, event.Internal)
	default:
		r.log.Warn("dispatched event with no matching handler", "event", event.String())
		return effect.None[events.Event]()
	}
}

func (r *Reactor) dispatchNetwork(builder effect.Builder[events.Event], ev *events.NetworkEvent) effect.Multiple[events.Event] {
	switch ev.Op {
	case events.NetworkPeerConnected:
		r.log.Info("peer connected", "node", ev.NodeID, "peers", r.network.PeerCount())
	case events.NetworkPeerDisconnected:
		r.log.Info("peer disconnected", "node", ev.NodeID, "peers", r.network.PeerCount())
	case events.NetworkMessageReceived:
		nodeID := ev.NodeID
		payload := ev.Payload
		return effect.Multiple[events.Event]{
			builder.FireAndForget(queue.Regular, func(ctx context.Context) error {
				return r.storage.Put(ctx, "block", []byte(nodeID.String()), payload)
			}),
		}
	case events.NetworkSendComplete:
		if ev.Err != nil {
			r.log.Warn("send failed", "node", ev.NodeID, "error", ev.Err)
		}
	}
	return effect.None[events.Event]()
}

func (r *Reactor) dispatchAPI(builder effect.Builder[events.Event], ev *events.APIEvent) effect.Multiple[events.Event] {
	if ev.Op != events.APIRequestReceived {
		return effect.None[events.Event]()
	}
	requestID := ev.RequestID
	body := ev.Body
	return effect.Multiple[events.Event]{
		builder.FireAndForget(queue.APIRequest, func(ctx context.Context) error {
			r.api.Respond(ctx, requestID, 200, body)
			return nil
		}),
	}
}

func (r *Reactor) dispatchStorage(ev *events.StorageEvent) effect.Multiple[events.Event] {
	if ev.Err != nil {
		r.log.Warn("storage operation failed", "op", ev.Op, "store", ev.Store, "error", ev.Err)
	}
	return effect.None[events.Event]()
}

func (r *Reactor) dispatchConsensus(builder effect.Builder[events.Event], ev *events.ConsensusEvent) effect.Multiple[events.Event] {
	switch ev.Op {
	case events.ConsensusBlockProposed:
		blockID := ev.BlockID
		peers := r.network.Peers()
		items := make(effect.Multiple[events.Event], 0, len(peers))
		for _, nodeID := range peers {
			nodeID := nodeID
			items = append(items, builder.FireAndForget(queue.NetworkIncoming, func(ctx context.Context) error {
				_, err := r.network.Send(ctx, nodeID, blockID[:])
				return err
			}))
		}
		return items
	case events.ConsensusFinalityReached:
		r.log.Info("finality reached", "block", ev.BlockID, "accepted", ev.Accepted, "pending", r.consensus.PendingCount())
	case events.ConsensusVoteReceived:
		r.log.Debug("vote received", "block", ev.BlockID, "voter", ev.VoterID, "accepted", ev.Accepted)
	}
	return effect.None[events.Event]()
}

func (r *Reactor) dispatchInternal(builder effect.Builder[events.Event], ev *events.InternalEvent) effect.Multiple[events.Event] {
	switch ev.Op {
	case events.InternalTimerFired:
		return effect.Multiple[events.Event]{r.heartbeat(builder)}
	case events.InternalShutdownRequested:
		// Run itself terminates the main loop once this event is dispatched
		// (events.Event.IsShutdownRequest); this branch only logs the reason.
		r.log.Info("shutdown requested", "reason", ev.Reason)
	}
	return effect.None[events.Event]()
}
