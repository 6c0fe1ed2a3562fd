package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kokistudios/forkline/internal/forkgraph"
)

// ReadSnapshot loads a JSON replica snapshot of the fork dataset, the
// exchange format for the remote/cloud copy. A missing file is an empty
// replica, not an error; a malformed file degrades to an empty dataset
// with the parse error reported so the caller can warn.
func ReadSnapshot(path string) (forkgraph.ForkNodesData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return forkgraph.NewData(), nil
		}
		return forkgraph.NewData(), fmt.Errorf("cannot read snapshot %s: %w", path, err)
	}

	data := forkgraph.NewData()
	if err := json.Unmarshal(raw, &data); err != nil {
		return forkgraph.NewData(), fmt.Errorf("snapshot %s is not valid JSON: %w", path, err)
	}
	if data.Nodes == nil {
		data.Nodes = map[string][]forkgraph.ForkNode{}
	}
	if data.Groups == nil {
		data.Groups = map[string][]string{}
	}
	return data, nil
}

// WriteSnapshot writes the fork dataset as a JSON replica snapshot. The
// write replaces the previous file atomically (temp file plus rename) so
// a reader never observes a half-written replica.
func WriteSnapshot(path string, data forkgraph.ForkNodesData) error {
	enc, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(enc); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
