package profile

import (
	"errors"
	"fmt"
)

// Capacity is the maximum number of profiles a default store holds.
const Capacity = 10

// Store errors. Mutations that fail leave the store unchanged.
var (
	// ErrEmptyStore is returned when building or restoring a store with no profiles.
	ErrEmptyStore = errors.New("profile store requires at least one profile")
	// ErrOverCapacity is returned when the store cannot hold another profile.
	ErrOverCapacity = errors.New("profile store over capacity")
	// ErrBadIndex is returned for an index outside [0, Count()).
	ErrBadIndex = errors.New("profile index out of range")
)

// Store is a bounded, gap-free collection of profiles with exactly one active
// profile. It is not safe for concurrent use.
type Store struct {
	profiles []Profile
	capacity int
	active   int
}

// NewStore builds a store holding the given profiles. At least one profile is
// required and len(profiles) must not exceed capacity.
func NewStore(capacity int, profiles ...Profile) (*Store, error) {
	if len(profiles) == 0 {
		return nil, ErrEmptyStore
	}
	if len(profiles) > capacity {
		return nil, fmt.Errorf("%w: %d > %d", ErrOverCapacity, len(profiles), capacity)
	}
	s := &Store{
		profiles: make([]Profile, 0, capacity),
		capacity: capacity,
	}
	s.profiles = append(s.profiles, profiles...)
	return s, nil
}

// DefaultStore returns a store with the built-in profiles.
func DefaultStore() *Store {
	s, _ := NewStore(Capacity, SnPb, PbFree)
	return s
}

// Count returns the number of stored profiles.
func (s *Store) Count() int { return len(s.profiles) }

// Capacity returns the maximum number of profiles.
func (s *Store) Capacity() int { return s.capacity }

// ActiveIndex returns the index of the active profile.
func (s *Store) ActiveIndex() int { return s.active }

// Active returns the active profile.
func (s *Store) Active() Profile { return s.profiles[s.active] }

// SetActive selects the active profile. Out of range indices are ignored.
func (s *Store) SetActive(idx int) {
	if idx >= 0 && idx < len(s.profiles) {
		s.active = idx
	}
}

// Get returns the profile at idx, or the first profile if idx is out of range.
func (s *Store) Get(idx int) Profile {
	if idx < 0 || idx >= len(s.profiles) {
		return s.profiles[0]
	}
	return s.profiles[idx]
}

// All returns a copy of the stored profiles.
func (s *Store) All() []Profile {
	out := make([]Profile, len(s.profiles))
	copy(out, s.profiles)
	return out
}

// Add appends a copy of the Sn63_Pb37 template named "Profile N" and returns
// the new count, or 0 if the store is full.
func (s *Store) Add() int {
	if len(s.profiles) >= s.capacity {
		return 0
	}
	p := SnPb
	p.Name = fmt.Sprintf("Profile %d", len(s.profiles)+1)
	s.profiles = append(s.profiles, p)
	return len(s.profiles)
}

// Delete removes the profile at idx, shifting later profiles down. It is a
// no-op if idx is invalid or only one profile remains. The active index is
// clamped to the new count.
func (s *Store) Delete(idx int) {
	if idx < 0 || idx >= len(s.profiles) || len(s.profiles) == 1 {
		return
	}
	s.profiles = append(s.profiles[:idx], s.profiles[idx+1:]...)
	if s.active >= len(s.profiles) {
		s.active = len(s.profiles) - 1
	}
}

// Update replaces the profile at idx after validating it.
func (s *Store) Update(idx int, p Profile) error {
	if idx < 0 || idx >= len(s.profiles) {
		return fmt.Errorf("%w: %d", ErrBadIndex, idx)
	}
	if err := p.Validate(); err != nil {
		return err
	}
	s.profiles[idx] = p
	return nil
}

// Snapshot is the persisted form of a Store.
type Snapshot struct {
	Active   int       `json:"active"`
	Profiles []Profile `json:"profiles"`
}

// Snapshot returns the store's persisted form.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Active: s.active, Profiles: s.All()}
}

// Restore rebuilds a store from a snapshot. An out-of-range active index is
// reset to 0.
func Restore(capacity int, snap Snapshot) (*Store, error) {
	s, err := NewStore(capacity, snap.Profiles...)
	if err != nil {
		return nil, err
	}
	s.SetActive(snap.Active)
	return s, nil
}
