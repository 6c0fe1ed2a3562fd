// Package forkgraph holds the fork-graph data model and the pure
// algorithms over it: plan resolution for new forks, branch display
// building, and replica merge.
//
// Everything in this package is a synchronous computation over immutable
// inputs. Nothing here touches disk or network; persistence lives in
// internal/store.
package forkgraph

import (
	"sort"

	"github.com/kokistudios/forkline/internal/turnid"
)

// ForkNode is one endpoint of a fork relationship in one conversation.
// ConversationURL and ConversationTitle are display metadata only; they
// carry no identity.
type ForkNode struct {
	TurnID            string `json:"turnId"`
	ConversationID    string `json:"conversationId"`
	ConversationURL   string `json:"conversationUrl,omitempty"`
	ConversationTitle string `json:"conversationTitle,omitempty"`
	ForkGroupID       string `json:"forkGroupId"`
	ForkIndex         int    `json:"forkIndex"`
	CreatedAt         int64  `json:"createdAt"` // epoch millis, merge tie-breaker
}

// ForkNodesData is the full fork dataset: the node table plus the groups
// index derived from it. Groups maps a fork group id to the composite
// keys ("conversationId:turnId") of its member nodes.
//
// Nodes is the source of truth. Groups must always be exactly
// reconstructable from Nodes via RebuildGroups; no caller may mutate one
// without recomputing the other.
type ForkNodesData struct {
	Nodes  map[string][]ForkNode `json:"nodes"`
	Groups map[string][]string   `json:"groups"`
}

// NewData returns an empty dataset with both indices initialized.
func NewData() ForkNodesData {
	return ForkNodesData{
		Nodes:  map[string][]ForkNode{},
		Groups: map[string][]string{},
	}
}

// CompositeKey returns the "conversationId:turnId" key under which this
// node appears in the groups index.
func (n ForkNode) CompositeKey() string {
	return n.ConversationID + ":" + n.TurnID
}

// identityKey identifies a node for merge and dedup purposes. Two entries
// describing the same branch membership are the same node even if their
// display metadata or timestamps differ. Turn ids are normalized so a
// legacy hashed id and its canonical form collapse to one identity.
func (n ForkNode) identityKey() string {
	return n.ConversationID + "\x00" + turnid.Normalize(n.TurnID) + "\x00" + n.ForkGroupID
}

// SameIdentity reports whether two nodes record the same branch
// membership.
func SameIdentity(a, b ForkNode) bool {
	return a.identityKey() == b.identityKey()
}

// GroupMembers collects every node in the table that belongs to the
// given fork group, visiting conversations in sorted order for a
// deterministic result.
func GroupMembers(nodes map[string][]ForkNode, forkGroupID string) []ForkNode {
	convIDs := make([]string, 0, len(nodes))
	for id := range nodes {
		convIDs = append(convIDs, id)
	}
	sort.Strings(convIDs)

	var members []ForkNode
	for _, convID := range convIDs {
		for _, n := range nodes[convID] {
			if n.ForkGroupID == forkGroupID {
				members = append(members, n)
			}
		}
	}
	return members
}

// GroupIndex builds the group-id to member-list map the plan resolver
// consumes, covering every group referenced by refs. Reference order is
// preserved so tie-breaks stay deterministic.
func GroupIndex(nodes map[string][]ForkNode, refs []ForkNode) map[string][]ForkNode {
	out := map[string][]ForkNode{}
	for _, n := range refs {
		if n.ForkGroupID == "" {
			continue
		}
		if _, ok := out[n.ForkGroupID]; ok {
			continue
		}
		out[n.ForkGroupID] = GroupMembers(nodes, n.ForkGroupID)
	}
	return out
}

// RebuildGroups derives the groups index from a node table. The index is
// never merged or edited directly; it is always recomputed from the
// nodes, which keeps the two views consistent even when a stored groups
// index has drifted.
//
// Conversations are visited in sorted order so the result is
// deterministic regardless of map iteration order.
func RebuildGroups(nodes map[string][]ForkNode) map[string][]string {
	groups := map[string][]string{}
	convIDs := make([]string, 0, len(nodes))
	for id := range nodes {
		convIDs = append(convIDs, id)
	}
	sort.Strings(convIDs)

	seen := map[string]map[string]bool{}
	for _, convID := range convIDs {
		for _, n := range nodes[convID] {
			if n.ForkGroupID == "" {
				continue
			}
			keys := seen[n.ForkGroupID]
			if keys == nil {
				keys = map[string]bool{}
				seen[n.ForkGroupID] = keys
			}
			key := n.CompositeKey()
			if keys[key] {
				continue
			}
			keys[key] = true
			groups[n.ForkGroupID] = append(groups[n.ForkGroupID], key)
		}
	}
	return groups
}
