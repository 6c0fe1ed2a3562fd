package forkgraph

import "github.com/kokistudios/forkline/internal/turnid"

// Plan is the group and index assignment for a new fork.
type Plan struct {
	ForkGroupID     string `json:"forkGroupId"`
	SourceForkIndex int    `json:"sourceForkIndex"`
	NextForkIndex   int    `json:"nextForkIndex"`
}

// ResolvePlan decides which fork group a new fork at (conversationID,
// turnID) joins and which indices the source and the new branch receive.
//
// conversationNodes are all nodes already known for this conversation,
// groupsByID the full member lists of any group those nodes reference,
// and newGroupID allocates a fresh group id when this is the first fork
// at the turn.
//
// A turn may, through prior merges, be associated with more than one
// group. The group with the most known member nodes wins, which biases
// toward the lineage with the most established branches; a size tie is
// broken by first-encountered order over conversationNodes.
func ResolvePlan(conversationID, turnID string, conversationNodes []ForkNode, groupsByID map[string][]ForkNode, newGroupID func() string) Plan {
	normalized := turnid.Normalize(turnID)

	var matching []ForkNode
	for _, n := range conversationNodes {
		if turnid.Normalize(n.TurnID) == normalized {
			matching = append(matching, n)
		}
	}

	if len(matching) == 0 {
		return Plan{
			ForkGroupID:     newGroupID(),
			SourceForkIndex: 0,
			NextForkIndex:   1,
		}
	}

	var candidates []string
	seen := map[string]bool{}
	for _, n := range matching {
		if !seen[n.ForkGroupID] {
			seen[n.ForkGroupID] = true
			candidates = append(candidates, n.ForkGroupID)
		}
	}

	chosen := candidates[0]
	for _, id := range candidates[1:] {
		if len(groupsByID[id]) > len(groupsByID[chosen]) {
			chosen = id
		}
	}

	sourceIndex := 0
	for _, n := range groupsByID[chosen] {
		if n.ConversationID == conversationID && turnid.Normalize(n.TurnID) == normalized {
			sourceIndex = n.ForkIndex
			break
		}
	}

	// Next index comes from the maximum across every node known for the
	// chosen group, including the conversation's own matching nodes in
	// case the group membership list is stale or incomplete. That keeps
	// assigned indices strictly increasing.
	maxIndex := 0
	for _, n := range groupsByID[chosen] {
		if n.ForkIndex > maxIndex {
			maxIndex = n.ForkIndex
		}
	}
	for _, n := range matching {
		if n.ForkGroupID == chosen && n.ForkIndex > maxIndex {
			maxIndex = n.ForkIndex
		}
	}

	return Plan{
		ForkGroupID:     chosen,
		SourceForkIndex: sourceIndex,
		NextForkIndex:   maxIndex + 1,
	}
}
