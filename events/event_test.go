// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsShutdownRequestOnlyTrueForInternalShutdownRequested(t *testing.T) {
	shutdown := FromInternal(&InternalEvent{Op: InternalShutdownRequested, Reason: "operator requested"})
	require.True(t, shutdown.IsShutdownRequest())

	timer := FromInternal(&InternalEvent{Op: InternalTimerFired, Timer: "heartbeat"})
	require.False(t, timer.IsShutdownRequest())

	network := FromNetwork(&NetworkEvent{Op: NetworkPeerConnected})
	require.False(t, network.IsShutdownRequest())

	require.False(t, Event{}.IsShutdownRequest())
}
