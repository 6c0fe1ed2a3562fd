package forkgraph

import (
	"sort"

	"github.com/kokistudios/forkline/internal/turnid"
)

// BuildDisplayNodes collapses possibly-overlapping fork groups into one
// ordered, deduplicated sequence of branch nodes. A single logical
// lineage can be represented by more than one group id (independent forks
// later found to share a source turn, or the plan resolver's tie-break);
// the UI still needs one clean sequence.
//
// Each conversation contributes exactly one node. When candidates collide
// the one with the smaller fork index wins, then the earlier createdAt.
// The result is sorted ascending by (forkIndex, createdAt); position in
// the output is the 1-based branch number shown to the user.
func BuildDisplayNodes(groupLists [][]ForkNode) []ForkNode {
	byConv := map[string]ForkNode{}
	var order []string

	for _, list := range groupLists {
		for _, n := range list {
			existing, ok := byConv[n.ConversationID]
			if !ok {
				byConv[n.ConversationID] = n
				order = append(order, n.ConversationID)
				continue
			}
			if n.ForkIndex < existing.ForkIndex ||
				(n.ForkIndex == existing.ForkIndex && n.CreatedAt < existing.CreatedAt) {
				byConv[n.ConversationID] = n
			}
		}
	}

	out := make([]ForkNode, 0, len(order))
	for _, convID := range order {
		out = append(out, byConv[convID])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ForkIndex != out[j].ForkIndex {
			return out[i].ForkIndex < out[j].ForkIndex
		}
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out
}

// DisplayForConversation builds the ordered display nodes for one
// conversation, optionally scoped to the fork groups anchored at turnID.
// An empty turnID means every group the conversation participates in.
func DisplayForConversation(data ForkNodesData, conversationID, turnID string) []ForkNode {
	refs := data.Nodes[conversationID]
	if turnID != "" {
		normalized := turnid.Normalize(turnID)
		scoped := refs[:0:0]
		for _, n := range refs {
			if turnid.Normalize(n.TurnID) == normalized {
				scoped = append(scoped, n)
			}
		}
		refs = scoped
	}

	groups := GroupIndex(data.Nodes, refs)
	lists := make([][]ForkNode, 0, len(groups))
	for _, n := range refs {
		if list, ok := groups[n.ForkGroupID]; ok {
			lists = append(lists, list)
			delete(groups, n.ForkGroupID)
		}
	}
	return BuildDisplayNodes(lists)
}
