package profile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"sort"
	"sync"
)

// Store holds every known profile in memory and rewrites the whole set
// to its backend after each mutation. Persistence failures are logged
// as warnings and swallowed: the store keeps serving its in-memory
// state, at the cost of the backing file going stale until the next
// successful save.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	profiles map[string]Profile
	order    []string // ids in creation order, for stable listings
	logger   *slog.Logger
}

// NewStore creates a Store backed by backend and eagerly loads
// whatever it already holds. A failed load leaves the store empty.
func NewStore(backend Backend) *Store {
	s := &Store{
		backend:  backend,
		profiles: make(map[string]Profile),
		logger:   slog.Default(),
	}
	s.load()
	return s
}

// Upsert creates the profile if id is new, otherwise overwrites only
// the fields supplied with a non-empty value. The full store is
// persisted afterward. The returned Profile is a snapshot.
func (s *Store) Upsert(id, name string, preferences, history []string) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.profiles[id]
	if !exists {
		p = Profile{
			ID:          id,
			Name:        name,
			Preferences: copyStrings(preferences),
			History:     copyStrings(history),
		}
		if p.Name == "" {
			p.Name = p.DisplayName()
		}
		s.order = append(s.order, id)
	} else {
		if name != "" {
			p.Name = name
		}
		if len(preferences) > 0 {
			p.Preferences = copyStrings(preferences)
		}
		if len(history) > 0 {
			p.History = copyStrings(history)
		}
	}

	s.profiles[id] = p
	s.save()
	return p.clone()
}

// Get looks up a profile by id. Pure read, no side effects.
func (s *Store) Get(id string) (Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return Profile{}, false
	}
	return p.clone(), true
}

// List returns a snapshot of all profiles in creation order.
func (s *Store) List() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Profile, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.profiles[id]; ok {
			out = append(out, p.clone())
		}
	}
	return out
}

// Delete removes the profile if present, persists, and reports
// whether a removal occurred.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return false
	}
	delete(s.profiles, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.save()
	return true
}

// Clear empties the store and persists the empty set.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles = make(map[string]Profile)
	s.order = nil
	s.save()
}

// Len reports the number of stored profiles.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.profiles)
}

// load reads the full backing file into memory. Called once at
// construction; any failure is a warning and the store starts empty.
func (s *Store) load() {
	data, err := s.backend.Load()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("could not load profiles, starting empty",
				"location", s.backend.Location(), "error", err)
		}
		return
	}

	var profiles map[string]Profile
	if err := json.Unmarshal(data, &profiles); err != nil {
		s.logger.Warn("could not parse profiles, starting empty",
			"location", s.backend.Location(), "error", err)
		return
	}

	ids := make([]string, 0, len(profiles))
	for id, p := range profiles {
		if p.ID == "" {
			p.ID = id
			profiles[id] = p
		}
		ids = append(ids, id)
	}
	// The file format carries no ordering, so loaded stores list by id.
	sort.Strings(ids)

	s.profiles = profiles
	s.order = ids
	s.logger.Info("loaded profiles", "count", len(profiles), "location", s.backend.Location())
}

// copyStrings detaches stored slices from the caller's. Always
// non-nil, so new profiles serialize with empty lists rather than null.
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// save rewrites the entire mapping. Failures are warnings: the
// in-memory state still reflects the mutation that triggered the save.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.profiles, "", "  ")
	if err != nil {
		s.logger.Warn("could not serialize profiles", "error", err)
		return
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Warn("could not save profiles, continuing in-memory",
			"location", s.backend.Location(), "error", err)
	}
}
