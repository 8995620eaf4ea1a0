// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package consensusrelay is the consensus collaborator: it does not run
// consensus itself (see spec.md §1's Non-goals), it only relays
// notifications the out-of-scope consensus engine produces — block
// proposed, vote received, finality reached — as events.ConsensusEvent
// values.
package consensusrelay

import (
	"context"
	"sync"

	"github.com/luxfi/ids"
	"github.com/luxfi/log"
	"github.com/luxfi/reactor/events"
	"github.com/luxfi/reactor/queue"
	"github.com/luxfi/warp"
)

// RejectionError is the wire shape used to report a rejected vote, the same
// alias the teacher's own router and appsender packages use in place of a
// bespoke error type.
type RejectionError = warp.Error

// Component is the consensus collaborator's state: the set of blocks
// currently awaiting finality.
type Component struct {
	log    log.Logger
	handle queue.Handle[events.Event]

	mu      sync.Mutex
	pending map[ids.ID]struct{}
}

// New constructs the consensus collaborator.
func New(logger log.Logger, handle queue.Handle[events.Event]) *Component {
	return &Component{
		log:     logger,
		handle:  handle,
		pending: make(map[ids.ID]struct{}),
	}
}

// BlockProposed records blockID as awaiting finality and schedules a
// ConsensusBlockProposed event. Called by the out-of-scope consensus engine
// when it proposes a new block.
func (c *Component) BlockProposed(ctx context.Context, blockID ids.ID) {
	c.mu.Lock()
	c.pending[blockID] = struct{}{}
	c.mu.Unlock()

	c.handle.Schedule(ctx, events.FromConsensus(&events.ConsensusEvent{
		Op:      events.ConsensusBlockProposed,
		BlockID: blockID,
	}), queue.Consensus)
}

// VoteReceived schedules a ConsensusVoteReceived event for a vote cast by
// voterID on blockID. rejection, if non-nil, carries the reason the vote
// was rejected rather than accepted.
func (c *Component) VoteReceived(ctx context.Context, blockID ids.ID, voterID ids.NodeID, accepted bool, rejection *RejectionError) {
	if rejection != nil {
		c.log.Debug("vote rejected", "block", blockID, "voter", voterID, "reason", rejection)
	}
	c.handle.Schedule(ctx, events.FromConsensus(&events.ConsensusEvent{
		Op:       events.ConsensusVoteReceived,
		BlockID:  blockID,
		VoterID:  voterID,
		Accepted: accepted,
	}), queue.Consensus)
}

// FinalityReached stops tracking blockID and schedules a
// ConsensusFinalityReached event.
func (c *Component) FinalityReached(ctx context.Context, blockID ids.ID, accepted bool) {
	c.mu.Lock()
	delete(c.pending, blockID)
	c.mu.Unlock()

	c.handle.Schedule(ctx, events.FromConsensus(&events.ConsensusEvent{
		Op:       events.ConsensusFinalityReached,
		BlockID:  blockID,
		Accepted: accepted,
	}), queue.Consensus)
}

// PendingCount reports the number of blocks currently awaiting finality.
func (c *Component) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
