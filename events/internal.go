// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import "fmt"

// InternalOp enumerates the reactor's own internal operations: timer and
// shutdown. These are not attributed to any collaborator.
type InternalOp uint8

const (
	InternalTimerFired InternalOp = iota
	InternalShutdownRequested
)

func (op InternalOp) String() string {
	switch op {
	case InternalTimerFired:
		return "timer-fired"
	case InternalShutdownRequested:
		return "shutdown-requested"
	default:
		return "unknown"
	}
}

// InternalEvent is the reactor's internal sub-event type: timer fired,
// shutdown requested.
type InternalEvent struct {
	Op     InternalOp
	Timer  string // set only for InternalTimerFired
	Reason string // set only for InternalShutdownRequested
}

func (e *InternalEvent) String() string {
	switch e.Op {
	case InternalTimerFired:
		return fmt.Sprintf("internal.%s[timer=%s]", e.Op, e.Timer)
	case InternalShutdownRequested:
		return fmt.Sprintf("internal.%s[reason=%s]", e.Op, e.Reason)
	default:
		return fmt.Sprintf("internal.%s", e.Op)
	}
}
