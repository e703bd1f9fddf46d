package service

import (
	"context"
	"fmt"
	"sync"

	"reflow_oven/internal/logger"
	"reflow_oven/internal/models"
	"reflow_oven/internal/profile"
	"reflow_oven/internal/repository"
)

type ProfilesService struct {
	// mu serialises mutate-then-persist so saves land in order.
	mu     sync.Mutex
	plant  *Plant
	repo   repository.ProfileRepo
	events *eventRecorder
}

func NewProfilesService(plant *Plant, repo repository.ProfileRepo, events *eventRecorder) *ProfilesService {
	return &ProfilesService{plant: plant, repo: repo, events: events}
}

// LoadProfileStore restores the persisted store, or returns the built-in
// profiles if nothing usable is stored.
func LoadProfileStore(ctx context.Context, repo repository.ProfileRepo, log *logger.Logger) *profile.Store {
	log = logger.OrNop(log)
	snap, found, err := repo.Load(ctx)
	if err != nil {
		log.Warnw("profile_store_load_failed", "err", err)
		return profile.DefaultStore()
	}
	if !found {
		return profile.DefaultStore()
	}
	store, err := profile.Restore(profile.Capacity, snap)
	if err != nil {
		log.Warnw("profile_store_invalid", "err", err)
		return profile.DefaultStore()
	}
	return store
}

func (s *ProfilesService) List(ctx context.Context) (ProfileList, error) {
	s.plant.mu.Lock()
	defer s.plant.mu.Unlock()
	return ProfileList{
		Active:   s.plant.profiles.ActiveIndex(),
		Capacity: s.plant.profiles.Capacity(),
		Profiles: s.plant.profiles.All(),
	}, nil
}

func (s *ProfilesService) Get(ctx context.Context, idx int) (ProfileDetail, error) {
	s.plant.mu.Lock()
	defer s.plant.mu.Unlock()
	if err := checkIndex(s.plant.profiles, idx); err != nil {
		return ProfileDetail{}, err
	}
	p := s.plant.profiles.Get(idx)
	pts := p.Checkpoints()
	return ProfileDetail{
		Index:       idx,
		Active:      idx == s.plant.profiles.ActiveIndex(),
		Profile:     p,
		DurationSec: p.TotalDuration(),
		Checkpoints: pts[:],
	}, nil
}

// Add appends a new profile cloned from the Sn63_Pb37 template and returns
// its index.
func (s *ProfilesService) Add(ctx context.Context) (int, error) {
	return s.mutate(ctx, "Profile added", func(st *profile.Store) (int, string, error) {
		n := st.Add()
		if n == 0 {
			return 0, "", fmt.Errorf("%w: capacity %d", profile.ErrOverCapacity, st.Capacity())
		}
		return n - 1, st.Get(n - 1).Name, nil
	})
}

func (s *ProfilesService) Update(ctx context.Context, idx int, p profile.Profile) error {
	_, err := s.mutate(ctx, "Profile updated", func(st *profile.Store) (int, string, error) {
		return idx, p.Name, st.Update(idx, p)
	})
	return err
}

func (s *ProfilesService) Delete(ctx context.Context, idx int) error {
	_, err := s.mutate(ctx, "Profile deleted", func(st *profile.Store) (int, string, error) {
		if err := checkIndex(st, idx); err != nil {
			return idx, "", err
		}
		if st.Count() == 1 {
			return idx, "", ErrLastProfile
		}
		name := st.Get(idx).Name
		st.Delete(idx)
		return idx, name, nil
	})
	return err
}

// Activate selects the profile the next reflow run will use.
func (s *ProfilesService) Activate(ctx context.Context, idx int) error {
	_, err := s.mutate(ctx, "Active profile changed", func(st *profile.Store) (int, string, error) {
		if err := checkIndex(st, idx); err != nil {
			return idx, "", err
		}
		st.SetActive(idx)
		return idx, st.Get(idx).Name, nil
	})
	return err
}

// mutate applies fn under the plant lock, then persists and logs the result.
func (s *ProfilesService) mutate(ctx context.Context, desc string, fn func(*profile.Store) (int, string, error)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.plant.mu.Lock()
	idx, name, err := fn(s.plant.profiles)
	snap := s.plant.profiles.Snapshot()
	s.plant.mu.Unlock()
	if err != nil {
		return 0, err
	}

	if err := s.repo.Save(ctx, snap); err != nil {
		return 0, fmt.Errorf("save profiles: %w", err)
	}

	s.events.record(ctx, models.EventProfileChange, desc, map[string]any{
		"index":  idx,
		"name":   name,
		"active": snap.Active,
		"count":  len(snap.Profiles),
	})
	return idx, nil
}

func checkIndex(st *profile.Store, idx int) error {
	if idx < 0 || idx >= st.Count() {
		return fmt.Errorf("%w: %d", profile.ErrBadIndex, idx)
	}
	return nil
}
