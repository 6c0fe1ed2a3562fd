package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kokistudios/forkline/internal/forkgraph"
)

// CheckHealth verifies FORKLINE_HOME structure integrity.
func CheckHealth(home string) []Issue {
	var issues []Issue

	for _, dir := range []string{"snapshots"} {
		p := filepath.Join(home, dir)
		info, err := os.Stat(p)
		if err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("missing directory: %s", p)})
		} else if !info.IsDir() {
			issues = append(issues, Issue{"error", fmt.Sprintf("expected directory but found file: %s", p)})
		}
	}

	cfgPath := filepath.Join(home, "config.yaml")
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("cannot read config.yaml: %v", err)})
	} else {
		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			issues = append(issues, Issue{"error", fmt.Sprintf("config.yaml is not valid YAML: %v", err)})
		}
	}

	s := &Store{Home: home}
	if _, err := s.LoadForkNodes(); err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("fork-node store unreadable: %v", err)})
	}

	return issues
}

// CheckIndexIntegrity validates that the stored groups index is exactly
// reconstructable from the node table, and that no conversation holds
// two nodes with the same identity. Drift here means some writer bypassed
// the projection; doctor --fix rebuilds the index.
func CheckIndexIntegrity(home string) []Issue {
	var issues []Issue

	s := &Store{Home: home}
	data, err := s.LoadForkNodes()
	if err != nil {
		issues = append(issues, Issue{"error", fmt.Sprintf("cannot load fork nodes: %v", err)})
		return issues
	}

	for convID, nodes := range data.Nodes {
		seen := map[string]bool{}
		for _, n := range nodes {
			key := n.ConversationID + ":" + n.TurnID + ":" + n.ForkGroupID
			if seen[key] {
				issues = append(issues, Issue{"warning", fmt.Sprintf("conversation %s: duplicate node for turn %s in group %s", convID, n.TurnID, n.ForkGroupID)})
			}
			seen[key] = true
		}
	}

	rebuilt := forkgraph.RebuildGroups(data.Nodes)
	want := forkgraph.ForkNodesData{Nodes: data.Nodes, Groups: rebuilt}
	got := forkgraph.ForkNodesData{Nodes: data.Nodes, Groups: data.Groups}
	if !forkgraph.Equal(got, want) {
		issues = append(issues, Issue{"warning", "groups index has drifted from the node table (run 'forkline doctor --fix' to rebuild)"})
	}

	return issues
}

// FixIssues attempts to repair simple issues in FORKLINE_HOME: missing
// directories, a missing config, and a drifted groups index.
func FixIssues(home string) []string {
	var fixed []string

	for _, dir := range []string{"snapshots"} {
		p := filepath.Join(home, dir)
		if _, err := os.Stat(p); err != nil {
			if err := os.MkdirAll(p, 0755); err == nil {
				fixed = append(fixed, fmt.Sprintf("recreated missing directory: %s", dir))
			}
		}
	}

	cfgPath := filepath.Join(home, "config.yaml")
	if _, err := os.Stat(cfgPath); err != nil {
		cfg := DefaultConfig()
		data, _ := yaml.Marshal(cfg)
		if os.WriteFile(cfgPath, data, 0644) == nil {
			fixed = append(fixed, "recreated missing config.yaml with defaults")
		}
	}

	s := &Store{Home: home}
	data, err := s.LoadForkNodes()
	if err == nil {
		rebuilt := forkgraph.RebuildGroups(data.Nodes)
		want := forkgraph.ForkNodesData{Nodes: data.Nodes, Groups: rebuilt}
		got := forkgraph.ForkNodesData{Nodes: data.Nodes, Groups: data.Groups}
		if !forkgraph.Equal(got, want) {
			data.Groups = rebuilt
			if s.SaveForkNodes(data) == nil {
				fixed = append(fixed, "rebuilt groups index from node table")
			}
		}
	}

	return fixed
}
