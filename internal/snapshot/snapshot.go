// Package snapshot is the persistence gate: the full aggregate state is
// serialized and written whole after every mutating command, and loaded
// whole at startup. There is no incremental or append format.
package snapshot

import (
	"context"
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"

	"lapakpos/backend/internal/state"
)

var (
	// ErrNoSnapshot is returned by Load when the backing store holds no
	// snapshot yet (first boot).
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrInvalidSnapshot is returned when stored snapshot bytes are not
	// valid JSON.
	ErrInvalidSnapshot = errors.New("snapshot payload is not valid")
)

type Gate interface {
	Load(ctx context.Context) (*state.State, error)
	Save(ctx context.Context, s *state.State) error
}

var codec = jsoniter.ConfigFastest

func Encode(s *state.State) ([]byte, error) {
	return codec.Marshal(s)
}

func Decode(data []byte) (*state.State, error) {
	if !codec.Valid(data) {
		return nil, ErrInvalidSnapshot
	}
	decoded := state.New()
	if err := codec.Unmarshal(data, decoded); err != nil {
		return nil, err
	}
	return decoded, nil
}

// Noop discards saves and never has a snapshot to load. Used when
// persistence is disabled.
type Noop struct{}

func (Noop) Load(_ context.Context) (*state.State, error) { return nil, ErrNoSnapshot }

func (Noop) Save(_ context.Context, _ *state.State) error { return nil }

// Memory keeps the encoded snapshot in process. Used by tests.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

func (m *Memory) Load(_ context.Context) (*state.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNoSnapshot
	}
	return Decode(m.data)
}

func (m *Memory) Save(_ context.Context, s *state.State) error {
	payload, err := Encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = payload
	m.mu.Unlock()
	return nil
}
