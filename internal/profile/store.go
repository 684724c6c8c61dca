package profile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

type fileFormat struct {
	Profiles map[string]Profile `json:"profiles"`
	Version  string             `json:"version"`
}

// Store is a file-backed table of profiles keyed by user id, persisted
// as a single JSON document.
type Store struct {
	path     string
	log      *zap.Logger
	mu       sync.Mutex
	profiles map[string]Profile
}

func NewStore(path string, log *zap.Logger) *Store {
	s := &Store{path: path, log: log, profiles: make(map[string]Profile)}
	s.load()
	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var parsed fileFormat
	if err := json.Unmarshal(data, &parsed); err != nil {
		if s.log != nil {
			s.log.Warn("profile store load failed", zap.Error(err))
		}
		return
	}
	if parsed.Profiles != nil {
		s.profiles = parsed.Profiles
	}
}

// save writes the store atomically: write to a temp file in the same
// directory, then rename over the target, so a reader never observes a
// partially-written file.
func (s *Store) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	payload := fileFormat{Profiles: s.profiles, Version: "1.0"}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".profile-store-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, s.path)
}

// Get returns the stored profile for userID, and whether one exists.
func (s *Store) Get(userID string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	return p, ok
}

// GetOrCreate returns the existing profile for userID, or creates,
// persists, and returns a fresh default one.
func (s *Store) GetOrCreate(userID string) (Profile, error) {
	s.mu.Lock()
	p, ok := s.profiles[userID]
	if ok {
		s.mu.Unlock()
		return p, nil
	}
	p = New(userID)
	s.profiles[userID] = p
	err := s.save()
	s.mu.Unlock()
	return p, err
}

// Save fully overwrites the profile for userID.
func (s *Store) Save(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return s.save()
}

// UpdatePartial applies a merge-only update to userID's profile,
// creating a default profile first if none exists, and persists the
// result.
func (s *Store) UpdatePartial(userID string, u Update) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = New(userID)
	}
	p.ApplyMerge(u)
	s.profiles[userID] = p
	if err := s.save(); err != nil {
		return p, err
	}
	return p, nil
}

// Delete removes the profile for userID, if present, and persists the
// result.
func (s *Store) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[userID]; !ok {
		return nil
	}
	delete(s.profiles, userID)
	return s.save()
}
