// Package storage persists session snapshots between runs. It is a
// thin layer over the JSON key-value datastore: one key per session id,
// holding the {messages, emotional state, fired tags} snapshot. The
// engine core never touches this package; the wiring layer saves on
// shutdown and restores on resume.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/keshon/datastore"

	"github.com/edgebot/edgecoach/internal/coach"
)

const snapshotKeyPrefix = "session:"

type Storage struct {
	ds *datastore.DataStore
}

// New opens (or creates) the snapshot store at filePath.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", filePath, err)
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

// SaveSnapshot writes the snapshot for sessionID and flushes to disk.
func (s *Storage) SaveSnapshot(sessionID string, snap coach.Snapshot) error {
	if sessionID == "" {
		return fmt.Errorf("storage: empty session id")
	}
	s.ds.Add(snapshotKeyPrefix+sessionID, snap)
	if err := s.ds.SaveToFile(); err != nil {
		return fmt.Errorf("storage: save snapshot %s: %w", sessionID, err)
	}
	return nil
}

// LoadSnapshot reads the snapshot for sessionID. The second return is
// false when no snapshot exists.
func (s *Storage) LoadSnapshot(sessionID string) (coach.Snapshot, bool, error) {
	raw, exists := s.ds.Get(snapshotKeyPrefix + sessionID)
	if !exists {
		return coach.Snapshot{}, false, nil
	}
	// Values loaded from disk come back as generic JSON; round-trip
	// through json to get the typed snapshot.
	b, err := json.Marshal(raw)
	if err != nil {
		return coach.Snapshot{}, false, fmt.Errorf("storage: marshal snapshot %s: %w", sessionID, err)
	}
	var snap coach.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return coach.Snapshot{}, false, fmt.Errorf("storage: decode snapshot %s: %w", sessionID, err)
	}
	return snap, true, nil
}

// DeleteSnapshot removes a stored snapshot, e.g. after a session reset.
func (s *Storage) DeleteSnapshot(sessionID string) {
	s.ds.Delete(snapshotKeyPrefix + sessionID)
}
