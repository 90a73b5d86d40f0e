package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SaveFile wraps a serialised session with enough metadata to list it
// without decoding the state.
type SaveFile struct {
	ID       uuid.UUID       `json:"id"`
	PlayerID string          `json:"player_id"`
	Level    int             `json:"level_number"`
	SavedAt  time.Time       `json:"saved_at"`
	State    json.RawMessage `json:"state"`
}

// SaveMeta is a SaveFile without its state.
type SaveMeta struct {
	ID       uuid.UUID
	PlayerID string
	Level    int
	SavedAt  time.Time
}

const sessionPrefix = "session_"

func sessionFile(id uuid.UUID) string {
	return sessionPrefix + id.String() + ".json"
}

// SaveSession writes state under a new id, or overwrites id when it is
// not uuid.Nil.
func (s *Store) SaveSession(id uuid.UUID, playerID string, level int, state any) (uuid.UUID, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encode session: %w", err)
	}
	if id == uuid.Nil {
		id = uuid.New()
	}
	file := SaveFile{
		ID:       id,
		PlayerID: playerID,
		Level:    level,
		SavedAt:  time.Now().UTC(),
		State:    raw,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeJSON(sessionFile(id), file); err != nil {
		return uuid.Nil, fmt.Errorf("save session: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"save":   id,
		"player": playerID,
		"level":  level,
	}).Info("Session saved")
	return id, nil
}

// LoadSession reads a save and decodes its state into v when v is non-nil.
func (s *Store) LoadSession(id uuid.UUID, v any) (*SaveFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var file SaveFile
	err := s.readJSON(sessionFile(id), &file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if v != nil {
		if err := json.Unmarshal(file.State, v); err != nil {
			return nil, fmt.Errorf("decode session %s: %w", id, err)
		}
	}
	return &file, nil
}

// ListSessions returns a player's saves, newest first. Unreadable files are
// skipped with a warning.
func (s *Store) ListSessions(playerID string) ([]SaveMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, sessionPrefix+"*.json"))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	var out []SaveMeta
	for _, path := range matches {
		var file SaveFile
		if err := s.readJSON(filepath.Base(path), &file); err != nil {
			s.log.WithError(err).WithField("file", path).Warn("Skipping unreadable save")
			continue
		}
		if file.PlayerID != playerID {
			continue
		}
		out = append(out, SaveMeta{ID: file.ID, PlayerID: file.PlayerID, Level: file.Level, SavedAt: file.SavedAt})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}

// LatestSession returns the newest save for a player.
func (s *Store) LatestSession(playerID string) (SaveMeta, error) {
	saves, err := s.ListSessions(playerID)
	if err != nil {
		return SaveMeta{}, err
	}
	if len(saves) == 0 {
		return SaveMeta{}, fmt.Errorf("%w: no saves for %s", ErrNotFound, playerID)
	}
	return saves[0], nil
}

// DeleteSession removes a save.
func (s *Store) DeleteSession(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(sessionFile(id)))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ParseID parses a save id given on the command line.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid save id %q: %w", s, err)
	}
	return id, nil
}
