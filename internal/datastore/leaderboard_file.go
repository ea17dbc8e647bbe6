package datastore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"aocbot/internal/models"

	"github.com/google/renameio/v2"
)

var (
	ErrSnapshotNotFound = errors.New("leaderboard snapshot not found")
	ErrSnapshotCorrupt  = errors.New("leaderboard snapshot corrupt")
	ErrInvalidEventName = errors.New("invalid event name")
)

var eventNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// LeaderboardFileStore keeps one JSON snapshot per event in dir.
type LeaderboardFileStore struct {
	dir string
	now func() time.Time
}

type Option func(*LeaderboardFileStore)

// WithClock sets the clock snapshot ages are measured against.
func WithClock(now func() time.Time) Option {
	return func(s *LeaderboardFileStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewLeaderboardFileStore(dir string, opts ...Option) *LeaderboardFileStore {
	store := &LeaderboardFileStore{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *LeaderboardFileStore) Dir() string {
	return s.dir
}

func (s *LeaderboardFileStore) path(event string) (string, error) {
	if !eventNamePattern.MatchString(event) {
		return "", fmt.Errorf("%w: %q", ErrInvalidEventName, event)
	}
	return filepath.Join(s.dir, event+".json"), nil
}

func (s *LeaderboardFileStore) Load(event string) (*models.Leaderboard, error) {
	path, err := s.path(event)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, event)
	}
	if err != nil {
		return nil, err
	}

	lb, err := models.ParseLeaderboard(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSnapshotCorrupt, event, err)
	}
	return lb, nil
}

// Save replaces the snapshot for lb.Event. Readers see either the old file or the
// new one, never a partial write.
func (s *LeaderboardFileStore) Save(lb *models.Leaderboard) error {
	path, err := s.path(lb.Event)
	if err != nil {
		return err
	}

	data, err := models.EncodeLeaderboard(lb)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	return renameio.WriteFile(path, data, 0o644)
}

func (s *LeaderboardFileStore) Age(event string) (time.Duration, error) {
	path, err := s.path(event)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrSnapshotNotFound, event)
	}
	if err != nil {
		return 0, err
	}

	return s.now().Sub(info.ModTime()), nil
}

// Events lists the events that have a snapshot, in ascending order.
func (s *LeaderboardFileStore) Events() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, err
	}

	events := make([]string, 0, len(matches))
	for _, match := range matches {
		event := strings.TrimSuffix(filepath.Base(match), ".json")
		if eventNamePattern.MatchString(event) {
			events = append(events, event)
		}
	}
	sort.Strings(events)
	return events, nil
}

// Rewrite re-encodes the snapshot of event with sorted keys and indentation and
// keeps its modification time, so the rewrite does not count as a fetch.
func (s *LeaderboardFileStore) Rewrite(event string) error {
	path, err := s.path(event)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, event)
	}
	if err != nil {
		return err
	}

	lb, err := s.Load(event)
	if err != nil {
		return err
	}
	if lb.Event != event {
		return fmt.Errorf("%w: %s holds event %s", ErrSnapshotCorrupt, event, lb.Event)
	}

	if err := s.Save(lb); err != nil {
		return err
	}
	return os.Chtimes(path, info.ModTime(), info.ModTime())
}
