package storage

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxTopRecords = 10

// LevelRecord is written when a level ends, won or lost.
type LevelRecord struct {
	ID              string    `json:"id"`
	PlayerID        string    `json:"player_id"`
	Level           int       `json:"level_number"`
	Completed       bool      `json:"completed"`
	Kills           int       `json:"kills"`
	Gold            int       `json:"gold"`
	TimeElapsed     float64   `json:"time_elapsed"` // seconds
	HealthRemaining int       `json:"health_remaining"`
	DungeonSeed     int64     `json:"dungeon_seed"`
	Date            time.Time `json:"date"`
}

// History holds every record for one player, oldest first.
type History struct {
	Records []LevelRecord `json:"records"`
}

// Progress summarises a player's campaign.
type Progress struct {
	HighestLevel  int
	LevelsCleared int
	TotalKills    int
	TotalGold     int
	TotalTime     time.Duration
}

func recordsFile(playerID string) string {
	return "records_" + sanitize(playerID) + ".json"
}

// LoadRecords reads a player's history. A missing file is an empty history.
func (s *Store) LoadRecords(playerID string) (*History, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadRecords(playerID)
}

func (s *Store) loadRecords(playerID string) (*History, error) {
	var h History
	err := s.readJSON(recordsFile(playerID), &h)
	if errors.Is(err, os.ErrNotExist) {
		return &History{Records: []LevelRecord{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return &h, nil
}

// AppendRecord adds rec to the player's history, filling id, player and date.
func (s *Store) AppendRecord(playerID string, rec LevelRecord) (LevelRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.loadRecords(playerID)
	if err != nil {
		return rec, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.PlayerID = playerID
	if rec.Date.IsZero() {
		rec.Date = time.Now().UTC()
	}
	h.Records = append(h.Records, rec)

	if err := s.writeJSON(recordsFile(playerID), h); err != nil {
		return rec, fmt.Errorf("append record: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"player":    playerID,
		"level":     rec.Level,
		"completed": rec.Completed,
		"kills":     rec.Kills,
		"gold":      rec.Gold,
	}).Info("Level record saved")
	return rec, nil
}

// TopRecords returns the best completed runs by gold, then kills, then
// fastest time, keeping at most ten.
func (h *History) TopRecords() []LevelRecord {
	out := make([]LevelRecord, 0, len(h.Records))
	for _, r := range h.Records {
		if r.Completed {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Gold != b.Gold {
			return a.Gold > b.Gold
		}
		if a.Kills != b.Kills {
			return a.Kills > b.Kills
		}
		return a.TimeElapsed < b.TimeElapsed
	})
	if len(out) > maxTopRecords {
		out = out[:maxTopRecords]
	}
	return out
}

// Progress totals the history.
func (h *History) Progress() Progress {
	var p Progress
	var seconds float64
	for _, r := range h.Records {
		p.TotalKills += r.Kills
		p.TotalGold += r.Gold
		seconds += r.TimeElapsed
		if r.Completed {
			p.LevelsCleared++
			if r.Level > p.HighestLevel {
				p.HighestLevel = r.Level
			}
		}
	}
	p.TotalTime = time.Duration(seconds * float64(time.Second))
	return p
}
