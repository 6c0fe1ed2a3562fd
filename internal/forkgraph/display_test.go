package forkgraph

import "testing"

func convIDs(nodes []ForkNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ConversationID
	}
	return out
}

func TestBuildDisplayNodes_Empty(t *testing.T) {
	if got := BuildDisplayNodes(nil); len(got) != 0 {
		t.Errorf("expected empty output, got %d nodes", len(got))
	}
	if got := BuildDisplayNodes([][]ForkNode{{}, {}}); len(got) != 0 {
		t.Errorf("expected empty output for empty groups, got %d nodes", len(got))
	}
}

func TestBuildDisplayNodes_OverlappingGroups(t *testing.T) {
	groupA := []ForkNode{
		{ConversationID: "conv1", ForkIndex: 0, CreatedAt: 100},
		{ConversationID: "conv2", ForkIndex: 1, CreatedAt: 200},
	}
	groupB := []ForkNode{
		{ConversationID: "conv1", ForkIndex: 0, CreatedAt: 100},
		{ConversationID: "conv3", ForkIndex: 1, CreatedAt: 300},
	}

	got := BuildDisplayNodes([][]ForkNode{groupA, groupB})
	want := []string{"conv1", "conv2", "conv3"}
	ids := convIDs(got)
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("got %v, want %v", ids, want)
		}
	}
}

func TestBuildDisplayNodes_DedupKeepsSmallerIndex(t *testing.T) {
	groups := [][]ForkNode{
		{{ConversationID: "conv1", ForkIndex: 2, CreatedAt: 50}},
		{{ConversationID: "conv1", ForkIndex: 1, CreatedAt: 500}},
	}
	got := BuildDisplayNodes(groups)
	if len(got) != 1 {
		t.Fatalf("got %d nodes, want 1", len(got))
	}
	if got[0].ForkIndex != 1 {
		t.Errorf("kept ForkIndex %d, want 1", got[0].ForkIndex)
	}
}

func TestBuildDisplayNodes_DedupTieKeepsEarlierCreated(t *testing.T) {
	groups := [][]ForkNode{
		{{ConversationID: "conv1", ForkIndex: 1, CreatedAt: 900, ConversationTitle: "late"}},
		{{ConversationID: "conv1", ForkIndex: 1, CreatedAt: 100, ConversationTitle: "early"}},
	}
	got := BuildDisplayNodes(groups)
	if len(got) != 1 {
		t.Fatalf("got %d nodes, want 1", len(got))
	}
	if got[0].ConversationTitle != "early" {
		t.Errorf("kept %q, want early", got[0].ConversationTitle)
	}
}

func TestBuildDisplayNodes_SortsByIndexThenTime(t *testing.T) {
	groups := [][]ForkNode{{
		{ConversationID: "c", ForkIndex: 2, CreatedAt: 10},
		{ConversationID: "a", ForkIndex: 0, CreatedAt: 99},
		{ConversationID: "b", ForkIndex: 2, CreatedAt: 5},
		{ConversationID: "d", ForkIndex: 1, CreatedAt: 1},
	}}
	got := convIDs(BuildDisplayNodes(groups))
	want := []string{"a", "d", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDisplayForConversation_ScopedToTurn(t *testing.T) {
	data := NewData()
	data.Nodes["conv-a"] = []ForkNode{
		{ConversationID: "conv-a", TurnID: "u-3", ForkGroupID: "g1", ForkIndex: 0, CreatedAt: 1},
		{ConversationID: "conv-a", TurnID: "u-7", ForkGroupID: "g2", ForkIndex: 0, CreatedAt: 2},
	}
	data.Nodes["conv-b"] = []ForkNode{
		{ConversationID: "conv-b", TurnID: "u-3", ForkGroupID: "g1", ForkIndex: 1, CreatedAt: 3},
	}
	data.Nodes["conv-c"] = []ForkNode{
		{ConversationID: "conv-c", TurnID: "u-7", ForkGroupID: "g2", ForkIndex: 1, CreatedAt: 4},
	}
	data.Groups = RebuildGroups(data.Nodes)

	all := DisplayForConversation(data, "conv-a", "")
	if len(all) != 3 {
		t.Fatalf("unscoped: got %d nodes, want 3", len(all))
	}

	scoped := convIDs(DisplayForConversation(data, "conv-a", "u-3"))
	want := []string{"conv-a", "conv-b"}
	if len(scoped) != len(want) {
		t.Fatalf("scoped = %v, want %v", scoped, want)
	}
	for i := range want {
		if scoped[i] != want[i] {
			t.Fatalf("scoped = %v, want %v", scoped, want)
		}
	}
}

func TestDisplayForConversation_LegacyTurnIDScopes(t *testing.T) {
	data := NewData()
	data.Nodes["conv-a"] = []ForkNode{
		{ConversationID: "conv-a", TurnID: "u-3-4f2a9c", ForkGroupID: "g1", ForkIndex: 0, CreatedAt: 1},
	}
	data.Nodes["conv-b"] = []ForkNode{
		{ConversationID: "conv-b", TurnID: "u-3", ForkGroupID: "g1", ForkIndex: 1, CreatedAt: 2},
	}
	data.Groups = RebuildGroups(data.Nodes)

	got := DisplayForConversation(data, "conv-a", "u-3")
	if len(got) != 2 {
		t.Fatalf("got %d nodes, want 2 (legacy id should match after normalization)", len(got))
	}
}

func TestDisplayForConversation_UnknownConversation(t *testing.T) {
	data := NewData()
	if got := DisplayForConversation(data, "missing", ""); len(got) != 0 {
		t.Errorf("got %d nodes for unknown conversation, want 0", len(got))
	}
}

func TestBuildDisplayNodes_AtMostOnePerConversation(t *testing.T) {
	groups := [][]ForkNode{
		{
			{ConversationID: "conv1", ForkIndex: 0, CreatedAt: 1},
			{ConversationID: "conv1", ForkIndex: 3, CreatedAt: 2},
			{ConversationID: "conv2", ForkIndex: 1, CreatedAt: 3},
		},
		{
			{ConversationID: "conv2", ForkIndex: 2, CreatedAt: 4},
			{ConversationID: "conv1", ForkIndex: 1, CreatedAt: 5},
		},
	}
	got := BuildDisplayNodes(groups)
	seen := map[string]bool{}
	for _, n := range got {
		if seen[n.ConversationID] {
			t.Fatalf("conversation %s appears twice", n.ConversationID)
		}
		seen[n.ConversationID] = true
	}
	if len(got) != 2 {
		t.Errorf("got %d nodes, want 2", len(got))
	}
}
