// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package network

import (
	"context"
	"testing"
	"time"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/version"
	"github.com/stretchr/testify/require"

	"github.com/luxfi/reactor/config"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
)

func newTestComponent(t *testing.T, maxPeers int) (*Component, queue.Handle[events.Event], *queue.Scheduler[events.Event]) {
	t.Helper()
	cfg := config.DefaultNetworkConfig()
	cfg.MaxPeers = maxPeers

	s := queue.New[events.Event](queue.Weights(), nil)
	handle := queue.NewHandle(s)

	c, err := New(cfg, log.NewNoOpLogger(), handle, nil)
	require.NoError(t, err)
	return c, handle, s
}

func popEvent(t *testing.T, s *queue.Scheduler[events.Event]) events.Event {
	t.Helper()
	done := make(chan events.Event, 1)
	go func() {
		ev, _ := s.Pop()
		done <- ev
	}()
	select {
	case ev := <-done:
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event scheduled within timeout")
		return events.Event{}
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	s := queue.New[events.Event](queue.Weights(), nil)
	handle := queue.NewHandle(s)

	_, err := New(config.NetworkConfig{}, log.NewNoOpLogger(), handle, nil)
	require.Error(t, err)
}

func TestConnectSchedulesPeerConnectedEvent(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	nodeID := ids.GenerateTestNodeID()
	peerVersion := &version.Application{Name: "validator", Major: 1}

	c.Connect(context.Background(), nodeID, peerVersion)

	ev := popEvent(t, s)
	require.Equal(t, events.CategoryNetwork, ev.Category)
	require.Equal(t, events.NetworkPeerConnected, ev.Network.Op)
	require.Equal(t, nodeID, ev.Network.NodeID)
	require.Equal(t, 1, c.PeerCount())
}

func TestConnectRejectsBeyondMaxPeers(t *testing.T) {
	c, _, s := newTestComponent(t, 1)
	first := ids.GenerateTestNodeID()
	second := ids.GenerateTestNodeID()

	c.Connect(context.Background(), first, &version.Application{Name: "v"})
	popEvent(t, s)

	c.Connect(context.Background(), second, &version.Application{Name: "v"})
	require.Equal(t, 1, c.PeerCount())
}

func TestDisconnectSchedulesPeerDisconnectedEvent(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	nodeID := ids.GenerateTestNodeID()

	c.Connect(context.Background(), nodeID, &version.Application{Name: "v"})
	popEvent(t, s)

	c.Disconnect(context.Background(), nodeID)
	ev := popEvent(t, s)
	require.Equal(t, events.NetworkPeerDisconnected, ev.Network.Op)
	require.Equal(t, 0, c.PeerCount())
}

func TestReceiveSchedulesMessageReceivedEvent(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	nodeID := ids.GenerateTestNodeID()
	payload := []byte("hello")

	c.Receive(context.Background(), nodeID, payload)

	ev := popEvent(t, s)
	require.Equal(t, events.NetworkMessageReceived, ev.Network.Op)
	require.Equal(t, payload, ev.Network.Payload)
}

func TestIdentityIsDerivedFromGeneratedKey(t *testing.T) {
	c, _, _ := newTestComponent(t, 8)
	require.NotNil(t, c.Identity())
}

func TestSendWithNoSenderConfiguredReportsFailureViaSendComplete(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	nodeID := ids.GenerateTestNodeID()

	requestID, err := c.Send(context.Background(), nodeID, []byte("payload"))
	require.Error(t, err)

	ev := popEvent(t, s)
	require.Equal(t, events.NetworkSendComplete, ev.Network.Op)
	require.Equal(t, nodeID, ev.Network.NodeID)
	require.Equal(t, requestID, ev.Network.RequestID)
	require.Error(t, ev.Network.Err)
}

func TestSendAssignsDistinctRequestIDsAcrossCalls(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	nodeID := ids.GenerateTestNodeID()

	first, _ := c.Send(context.Background(), nodeID, []byte("a"))
	popEvent(t, s)
	second, _ := c.Send(context.Background(), nodeID, []byte("b"))
	popEvent(t, s)

	require.NotEqual(t, first, second)
}

func TestPeersReturnsSnapshotOfConnectedNodeIDs(t *testing.T) {
	c, _, s := newTestComponent(t, 8)
	first := ids.GenerateTestNodeID()
	second := ids.GenerateTestNodeID()

	c.Connect(context.Background(), first, &version.Application{Name: "v"})
	popEvent(t, s)
	c.Connect(context.Background(), second, &version.Application{Name: "v"})
	popEvent(t, s)

	require.ElementsMatch(t, []ids.NodeID{first, second}, c.Peers())
}
