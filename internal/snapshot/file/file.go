package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"lapakpos/backend/internal/snapshot"
	"lapakpos/backend/internal/state"
)

// Gate persists the snapshot as a single JSON file. Writes go through a
// temp file plus rename so a crash mid-write never leaves a torn snapshot.
type Gate struct {
	path string
}

func New(path string) (*Gate, error) {
	if path == "" {
		return nil, fmt.Errorf("snapshot file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Gate{path: path}, nil
}

func (g *Gate) Load(_ context.Context) (*state.State, error) {
	data, err := os.ReadFile(g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, snapshot.ErrNoSnapshot
		}
		return nil, err
	}
	return snapshot.Decode(data)
}

func (g *Gate) Save(_ context.Context, s *state.State) error {
	payload, err := snapshot.Encode(s)
	if err != nil {
		return err
	}

	tmp := g.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, g.path)
}
