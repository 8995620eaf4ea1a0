// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package validatorreactor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luxfi/database/memdb"
	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/effect"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
	"github.com/luxfi/reactor/reactor"
)

func testConfig() Config {
	return Config{
		Deps:       config.DefaultDeps(),
		Sender:     nil,
		Blocks:     memdb.New(),
		Deploys:    memdb.New(),
		Registerer: prometheus.NewRegistry(),
		Logger:     log.NewNoOpLogger(),
	}
}

func buildReactor(t *testing.T, cfg Config) (*Reactor, effect.Multiple[events.Event], queue.Handle[events.Event]) {
	t.Helper()
	s := queue.New[events.Event](queue.Weights(), nil)
	handle := queue.NewHandle(s)

	r, initial, err := NewConstructor(cfg)(handle)
	require.NoError(t, err)
	return r, initial, handle
}

func TestNewConstructorBuildsReactorWithInitialEffects(t *testing.T) {
	r, initial, _ := buildReactor(t, testConfig())
	require.NotNil(t, r)
	require.Len(t, initial, 2)
	require.Equal(t, queue.APIRequest, initial[0].Kind)
	require.Equal(t, queue.Internal, initial[1].Kind)
}

func TestNewConstructorPropagatesInvalidDeps(t *testing.T) {
	cfg := testConfig()
	cfg.Deps.Network.ListenAddrs = nil

	s := queue.New[events.Event](queue.Weights(), nil)
	handle := queue.NewHandle(s)

	_, _, err := NewConstructor(cfg)(handle)
	require.Error(t, err)

	var reactorErr *reactor.Error
	require.True(t, errAs(err, &reactorErr))
	require.Equal(t, "config", reactorErr.Collaborator)
}

// errAs reports whether err is itself a *reactor.Error, storing it in
// target. Unlike errors.As it does not unwrap: NewConstructor returns its
// *reactor.Error directly.
func errAs(err error, target **reactor.Error) bool {
	re, ok := err.(*reactor.Error)
	if ok {
		*target = re
	}
	return ok
}

func TestDispatchNetworkMessageReceivedPutsIntoBlockStore(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	nodeID := ids.GenerateTestNodeID()
	ev := &events.NetworkEvent{Op: events.NetworkMessageReceived, NodeID: nodeID, Payload: []byte("payload")}

	effects := r.DispatchEvent(builder, events.FromNetwork(ev))
	require.Len(t, effects, 1)
	require.Nil(t, effects[0].Run(context.Background()))
}

func TestDispatchNetworkPeerConnectedReturnsNoEffects(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	ev := &events.NetworkEvent{Op: events.NetworkPeerConnected, NodeID: ids.GenerateTestNodeID()}
	effects := r.DispatchEvent(builder, events.FromNetwork(ev))
	require.Empty(t, effects)
}

func TestDispatchAPIRequestReceivedRespondsThroughAPIComponent(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	ev := &events.APIEvent{Op: events.APIRequestReceived, RequestID: "req-1", Method: "GET", Path: "/x"}
	effects := r.DispatchEvent(builder, events.FromAPI(ev))
	require.Len(t, effects, 1)
	require.Nil(t, effects[0].Run(context.Background()))
}

func TestDispatchInternalTimerFiredReschedulesHeartbeat(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	ev := &events.InternalEvent{Op: events.InternalTimerFired, Timer: "heartbeat"}
	effects := r.DispatchEvent(builder, events.FromInternal(ev))
	require.Len(t, effects, 1)
	require.Equal(t, queue.Internal, effects[0].Kind)
}

func TestDispatchConsensusFinalityReachedReturnsNoEffects(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	ev := &events.ConsensusEvent{Op: events.ConsensusFinalityReached, BlockID: ids.GenerateTestID(), Accepted: true}
	effects := r.DispatchEvent(builder, events.FromConsensus(ev))
	require.Empty(t, effects)
}

func TestDispatchConsensusBlockProposedBroadcastsToEachConnectedPeer(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	r.network.Connect(context.Background(), ids.GenerateTestNodeID(), nil)
	r.network.Connect(context.Background(), ids.GenerateTestNodeID(), nil)

	ev := &events.ConsensusEvent{Op: events.ConsensusBlockProposed, BlockID: ids.GenerateTestID()}
	effects := r.DispatchEvent(builder, events.FromConsensus(ev))
	require.Len(t, effects, 2)
	for _, item := range effects {
		require.Equal(t, queue.NetworkIncoming, item.Kind)
		// No sender is configured in testConfig, so every broadcast attempt
		// fails internally (FireAndForget only logs it), but it must still
		// run to completion without panicking.
		require.Nil(t, item.Run(context.Background()))
	}
}

// TestRunTerminatesOnDispatchedShutdownEvent drives the real reactor.Run
// loop with this package's Reactor and confirms that scheduling an
// InternalShutdownRequested event ends the loop on its own, with the
// external shutdown channel never closed.
func TestRunTerminatesOnDispatchedShutdownEvent(t *testing.T) {
	cfg := testConfig()

	var captured *queue.Handle[events.Event]
	construct := func(handle queue.Handle[events.Event]) (*Reactor, effect.Multiple[events.Event], error) {
		captured = &handle
		return NewConstructor(cfg)(handle)
	}

	shutdown := make(chan struct{}) // deliberately never closed
	runErr := make(chan error, 1)
	go func() {
		runErr <- reactor.Run[events.Event](context.Background(), log.NewNoOpLogger(), cfg.Registerer, construct, shutdown)
	}()

	require.Eventually(t, func() bool { return captured != nil }, time.Second, time.Millisecond)
	captured.Schedule(context.Background(), events.FromInternal(&events.InternalEvent{
		Op:     events.InternalShutdownRequested,
		Reason: "test requested shutdown",
	}), queue.Internal)

	select {
	case err := <-runErr:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not terminate after a shutdown event was dispatched")
	}
}

func TestDispatchStorageEventLogsFailureWithoutPanicking(t *testing.T) {
	r, _, handle := buildReactor(t, testConfig())
	builder := effect.NewBuilder(handle, log.NewNoOpLogger())

	ev := &events.StorageEvent{Op: events.StoragePutComplete, Store: "block", Err: errors.New("boom")}
	require.NotPanics(t, func() {
		r.DispatchEvent(builder, events.FromStorage(ev))
	})
}
