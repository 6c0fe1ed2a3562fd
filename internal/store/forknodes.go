package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/kokistudios/forkline/internal/forkgraph"
	"github.com/kokistudios/forkline/internal/turnid"
)

// Fork nodes and the derived groups index live in separate buckets of a
// single bolt file. Nodes are the source of truth; the groups bucket is
// written only as a projection of the nodes bucket.
const (
	forkNodesFile = "forknodes.bolt"

	nodesBucket  = "fork_nodes"  // conversationId -> JSON []ForkNode
	groupsBucket = "fork_groups" // forkGroupId    -> JSON []string composite keys
)

// ForkNodesPath returns the bolt file path for the fork-node store.
func (s *Store) ForkNodesPath() string {
	return s.Path(forkNodesFile)
}

// LoadForkNodes reads the full fork dataset from disk. A missing file
// yields an empty dataset and is not created; the store file first
// appears on write. Malformed entries are skipped instead of failing
// the whole load.
func (s *Store) LoadForkNodes() (forkgraph.ForkNodesData, error) {
	data := forkgraph.NewData()

	if _, err := os.Stat(s.ForkNodesPath()); err != nil {
		if os.IsNotExist(err) {
			return data, nil
		}
		return data, fmt.Errorf("cannot stat fork-node store: %w", err)
	}

	db, err := bolt.Open(s.ForkNodesPath(), 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return data, fmt.Errorf("cannot open fork-node store: %w", err)
	}
	defer func() { _ = db.Close() }()

	err = db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(nodesBucket)); b != nil {
			if e := b.ForEach(func(k, v []byte) error {
				var nodes []forkgraph.ForkNode
				if len(v) > 0 {
					if e2 := json.Unmarshal(v, &nodes); e2 != nil {
						return nil
					}
					data.Nodes[string(k)] = nodes
				}
				return nil
			}); e != nil {
				return e
			}
		}
		if b := tx.Bucket([]byte(groupsBucket)); b != nil {
			if e := b.ForEach(func(k, v []byte) error {
				var keys []string
				if len(v) > 0 {
					if e2 := json.Unmarshal(v, &keys); e2 != nil {
						return nil
					}
					data.Groups[string(k)] = keys
				}
				return nil
			}); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return forkgraph.NewData(), fmt.Errorf("cannot read fork-node store: %w", err)
	}
	return data, nil
}

// SaveForkNodes writes the full fork dataset to disk, replacing the
// previous snapshot entirely. Both buckets are recreated so a stale
// groups index can never survive a write.
func (s *Store) SaveForkNodes(data forkgraph.ForkNodesData) error {
	db, err := bolt.Open(s.ForkNodesPath(), 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return fmt.Errorf("cannot open fork-node store: %w", err)
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{nodesBucket, groupsBucket} {
			if tx.Bucket([]byte(name)) != nil {
				if err := tx.DeleteBucket([]byte(name)); err != nil {
					return err
				}
			}
		}

		bn, err := tx.CreateBucket([]byte(nodesBucket))
		if err != nil {
			return err
		}
		for convID, nodes := range data.Nodes {
			if len(nodes) == 0 {
				continue
			}
			enc, e := json.Marshal(nodes)
			if e != nil {
				return e
			}
			if e := bn.Put([]byte(convID), enc); e != nil {
				return e
			}
		}

		bg, err := tx.CreateBucket([]byte(groupsBucket))
		if err != nil {
			return err
		}
		for groupID, keys := range data.Groups {
			if len(keys) == 0 {
				continue
			}
			enc, e := json.Marshal(keys)
			if e != nil {
				return e
			}
			if e := bg.Put([]byte(groupID), enc); e != nil {
				return e
			}
		}
		return nil
	})
}

// AddForkNode records a node, returning true iff it was newly added. A
// node with the same identity (conversation, normalized turn, group) as
// an existing entry is a duplicate and leaves the store untouched.
func (s *Store) AddForkNode(node forkgraph.ForkNode) (bool, error) {
	data, err := s.LoadForkNodes()
	if err != nil {
		return false, err
	}

	for _, existing := range data.Nodes[node.ConversationID] {
		if forkgraph.SameIdentity(existing, node) {
			return false, nil
		}
	}

	data.Nodes[node.ConversationID] = append(data.Nodes[node.ConversationID], node)
	data.Groups = forkgraph.RebuildGroups(data.Nodes)
	if err := s.SaveForkNodes(data); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveForkNode deletes a recorded branch link, returning true iff a
// matching node was found. Turn ids are matched after normalization so
// legacy ids prune correctly.
func (s *Store) RemoveForkNode(conversationID, turnID, forkGroupID string) (bool, error) {
	data, err := s.LoadForkNodes()
	if err != nil {
		return false, err
	}

	normalized := turnid.Normalize(turnID)
	nodes := data.Nodes[conversationID]
	kept := nodes[:0:0]
	removed := false
	for _, n := range nodes {
		if n.ForkGroupID == forkGroupID && turnid.Normalize(n.TurnID) == normalized {
			removed = true
			continue
		}
		kept = append(kept, n)
	}
	if !removed {
		return false, nil
	}

	if len(kept) == 0 {
		delete(data.Nodes, conversationID)
	} else {
		data.Nodes[conversationID] = kept
	}
	data.Groups = forkgraph.RebuildGroups(data.Nodes)
	if err := s.SaveForkNodes(data); err != nil {
		return false, err
	}
	return true, nil
}

// ForConversation returns all nodes recorded for a conversation.
func (s *Store) ForConversation(conversationID string) ([]forkgraph.ForkNode, error) {
	data, err := s.LoadForkNodes()
	if err != nil {
		return nil, err
	}
	return data.Nodes[conversationID], nil
}

// Group returns all nodes belonging to a fork group.
func (s *Store) Group(forkGroupID string) ([]forkgraph.ForkNode, error) {
	data, err := s.LoadForkNodes()
	if err != nil {
		return nil, err
	}
	return forkgraph.GroupMembers(data.Nodes, forkGroupID), nil
}
