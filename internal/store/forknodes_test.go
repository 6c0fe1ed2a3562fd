package store

import (
	"os"
	"testing"

	"github.com/kokistudios/forkline/internal/forkgraph"
)

func node(conv, turn, group string, index int, createdAt int64) forkgraph.ForkNode {
	return forkgraph.ForkNode{
		ConversationID: conv,
		TurnID:         turn,
		ForkGroupID:    group,
		ForkIndex:      index,
		CreatedAt:      createdAt,
	}
}

func TestLoadForkNodes_EmptyStore(t *testing.T) {
	s := setupStore(t)
	data, err := s.LoadForkNodes()
	if err != nil {
		t.Fatalf("LoadForkNodes: %v", err)
	}
	if len(data.Nodes) != 0 || len(data.Groups) != 0 {
		t.Errorf("fresh store should be empty, got %+v", data)
	}
}

func TestLoadForkNodes_ReadDoesNotCreateFile(t *testing.T) {
	s := setupStore(t)
	if _, err := s.LoadForkNodes(); err != nil {
		t.Fatalf("LoadForkNodes: %v", err)
	}
	if _, err := os.Stat(s.ForkNodesPath()); !os.IsNotExist(err) {
		t.Error("reading an empty store should not create the store file")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	s := setupStore(t)

	data := forkgraph.NewData()
	data.Nodes["conv1"] = []forkgraph.ForkNode{
		node("conv1", "u-0", "g1", 0, 1000),
		node("conv1", "u-3", "g2", 0, 1500),
	}
	data.Nodes["conv2"] = []forkgraph.ForkNode{
		node("conv2", "u-0", "g1", 1, 2000),
	}
	data.Groups = forkgraph.RebuildGroups(data.Nodes)

	if err := s.SaveForkNodes(data); err != nil {
		t.Fatalf("SaveForkNodes: %v", err)
	}
	loaded, err := s.LoadForkNodes()
	if err != nil {
		t.Fatalf("LoadForkNodes: %v", err)
	}
	if !forkgraph.Equal(loaded, data) {
		t.Errorf("round trip mismatch:\nsaved  %+v\nloaded %+v", data, loaded)
	}
}

func TestSaveForkNodes_ReplacesSnapshot(t *testing.T) {
	s := setupStore(t)

	first := forkgraph.NewData()
	first.Nodes["conv1"] = []forkgraph.ForkNode{node("conv1", "u-0", "g1", 0, 100)}
	first.Groups = forkgraph.RebuildGroups(first.Nodes)
	if err := s.SaveForkNodes(first); err != nil {
		t.Fatalf("SaveForkNodes: %v", err)
	}

	second := forkgraph.NewData()
	second.Nodes["conv9"] = []forkgraph.ForkNode{node("conv9", "u-1", "g9", 0, 200)}
	second.Groups = forkgraph.RebuildGroups(second.Nodes)
	if err := s.SaveForkNodes(second); err != nil {
		t.Fatalf("SaveForkNodes: %v", err)
	}

	loaded, err := s.LoadForkNodes()
	if err != nil {
		t.Fatalf("LoadForkNodes: %v", err)
	}
	if _, ok := loaded.Nodes["conv1"]; ok {
		t.Error("old snapshot survived a replace write")
	}
	if _, ok := loaded.Nodes["conv9"]; !ok {
		t.Error("new snapshot missing after write")
	}
}

func TestAddForkNode(t *testing.T) {
	s := setupStore(t)

	added, err := s.AddForkNode(node("conv1", "u-2", "g1", 0, 1000))
	if err != nil {
		t.Fatalf("AddForkNode: %v", err)
	}
	if !added {
		t.Error("first add should report true")
	}

	// Same identity with different metadata is a duplicate.
	dup := node("conv1", "u-2", "g1", 0, 9999)
	dup.ConversationTitle = "renamed"
	added, err = s.AddForkNode(dup)
	if err != nil {
		t.Fatalf("AddForkNode: %v", err)
	}
	if added {
		t.Error("duplicate identity should report false")
	}

	// Legacy hashed turn id is the same identity.
	added, err = s.AddForkNode(node("conv1", "u-2-abcdef", "g1", 0, 500))
	if err != nil {
		t.Fatalf("AddForkNode: %v", err)
	}
	if added {
		t.Error("legacy turn id duplicate should report false")
	}

	data, _ := s.LoadForkNodes()
	if len(data.Nodes["conv1"]) != 1 {
		t.Errorf("conv1 has %d nodes, want 1", len(data.Nodes["conv1"]))
	}
	if len(data.Groups["g1"]) != 1 {
		t.Errorf("group g1 has %d keys, want 1", len(data.Groups["g1"]))
	}
}

func TestRemoveForkNode(t *testing.T) {
	s := setupStore(t)

	s.AddForkNode(node("conv1", "u-2", "g1", 0, 1000))
	s.AddForkNode(node("conv2", "u-2", "g1", 1, 2000))

	removed, err := s.RemoveForkNode("conv1", "u-2-legacyhash", "g1")
	if err != nil {
		t.Fatalf("RemoveForkNode: %v", err)
	}
	if !removed {
		t.Error("expected removal via normalized legacy id")
	}

	removed, err = s.RemoveForkNode("conv1", "u-2", "g1")
	if err != nil {
		t.Fatalf("RemoveForkNode: %v", err)
	}
	if removed {
		t.Error("second removal should report false")
	}

	data, _ := s.LoadForkNodes()
	if _, ok := data.Nodes["conv1"]; ok {
		t.Error("conv1 should be gone from the node table")
	}
	if len(data.Groups["g1"]) != 1 {
		t.Errorf("group g1 = %v, want only conv2", data.Groups["g1"])
	}
}

func TestForConversationAndGroup(t *testing.T) {
	s := setupStore(t)

	s.AddForkNode(node("conv1", "u-0", "g1", 0, 100))
	s.AddForkNode(node("conv2", "u-0", "g1", 1, 200))
	s.AddForkNode(node("conv1", "u-5", "g2", 0, 300))

	nodes, err := s.ForConversation("conv1")
	if err != nil {
		t.Fatalf("ForConversation: %v", err)
	}
	if len(nodes) != 2 {
		t.Errorf("conv1 has %d nodes, want 2", len(nodes))
	}

	members, err := s.Group("g1")
	if err != nil {
		t.Fatalf("Group: %v", err)
	}
	if len(members) != 2 {
		t.Errorf("group g1 has %d members, want 2", len(members))
	}
	for _, m := range members {
		if m.ForkGroupID != "g1" {
			t.Errorf("member %+v not in g1", m)
		}
	}
}
