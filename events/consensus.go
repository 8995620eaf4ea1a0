// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package events

import (
	"fmt"

	"github.com/luxfi/ids"
)

// ConsensusOp enumerates the operations the consensus collaborator relays.
// The reactor core does not implement consensus itself (see Non-goals); it
// only relays notifications the out-of-scope protocol produces.
type ConsensusOp uint8

const (
	ConsensusBlockProposed ConsensusOp = iota
	ConsensusVoteReceived
	ConsensusFinalityReached
)

func (op ConsensusOp) String() string {
	switch op {
	case ConsensusBlockProposed:
		return "block-proposed"
	case ConsensusVoteReceived:
		return "vote-received"
	case ConsensusFinalityReached:
		return "finality-reached"
	default:
		return "unknown"
	}
}

// ConsensusEvent is the consensus collaborator's sub-event type: block
// proposed, vote received, finality reached.
type ConsensusEvent struct {
	Op       ConsensusOp
	BlockID  ids.ID
	VoterID  ids.NodeID // set only for ConsensusVoteReceived
	Accepted bool       // set only for ConsensusVoteReceived / ConsensusFinalityReached
}

func (e *ConsensusEvent) String() string {
	return fmt.Sprintf("consensus.%s[block=%s]", e.Op, e.BlockID)
}
