package forkgraph

import "sort"

// Merge reconciles two replicas of the fork dataset into one consistent
// dataset. Either argument may be nil or partially formed (nil maps);
// such input degrades to an empty dataset rather than failing, since
// this is best-effort client-side reconciliation.
//
// Nodes are matched by identity (conversation, normalized turn,
// group), not full equality: the same logical fork can be recorded with
// differing display metadata. When both replicas hold the same identity
// the entry with the strictly greater CreatedAt wins entirely; on an
// exact tie the local replica's entry wins. The groups index is never
// merged — it is rebuilt from the merged node table, which self-heals
// any drift or corruption the inputs carried.
func Merge(local, cloud *ForkNodesData) ForkNodesData {
	localNodes := replicaNodes(local)
	cloudNodes := replicaNodes(cloud)

	convIDs := map[string]bool{}
	for id := range localNodes {
		convIDs[id] = true
	}
	for id := range cloudNodes {
		convIDs[id] = true
	}

	merged := NewData()
	for convID := range convIDs {
		list := mergeConversation(localNodes[convID], cloudNodes[convID])
		if len(list) > 0 {
			merged.Nodes[convID] = list
		}
	}
	merged.Groups = RebuildGroups(merged.Nodes)
	return merged
}

func replicaNodes(d *ForkNodesData) map[string][]ForkNode {
	if d == nil || d.Nodes == nil {
		return map[string][]ForkNode{}
	}
	return d.Nodes
}

// mergeConversation unions one conversation's node lists. Local entries
// are placed first in their original order; cloud-only entries follow in
// theirs. A replica's own internal duplicates collapse under the same
// winner rule, so the output never holds two entries for one identity.
func mergeConversation(local, cloud []ForkNode) []ForkNode {
	var out []ForkNode
	at := map[string]int{}

	add := func(n ForkNode) {
		key := n.identityKey()
		i, ok := at[key]
		if !ok {
			at[key] = len(out)
			out = append(out, n)
			return
		}
		// Strictly greater timestamp wins the whole entry. A tie keeps
		// what is already there, which favors local since local entries
		// are inserted first.
		if n.CreatedAt > out[i].CreatedAt {
			out[i] = n
		}
	}

	for _, n := range local {
		add(n)
	}
	for _, n := range cloud {
		add(n)
	}
	return out
}

// Equal reports content equivalence of two datasets, insensitive to node
// and group-key order. Used by tests and by doctor's drift detection.
func Equal(a, b ForkNodesData) bool {
	if len(a.Nodes) != len(b.Nodes) || len(a.Groups) != len(b.Groups) {
		return false
	}
	for convID, an := range a.Nodes {
		bn, ok := b.Nodes[convID]
		if !ok || !sameNodeSet(an, bn) {
			return false
		}
	}
	for groupID, ak := range a.Groups {
		bk, ok := b.Groups[groupID]
		if !ok || !sameKeySet(ak, bk) {
			return false
		}
	}
	return true
}

func sameNodeSet(a, b []ForkNode) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]ForkNode(nil), a...)
	bs := append([]ForkNode(nil), b...)
	byIdentity := func(s []ForkNode) func(i, j int) bool {
		return func(i, j int) bool { return s[i].identityKey() < s[j].identityKey() }
	}
	sort.Slice(as, byIdentity(as))
	sort.Slice(bs, byIdentity(bs))
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func sameKeySet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
