package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

// StorageKey is the persisted key holding the serialised favorites list.
const StorageKey = "favCities"

type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Store is the ordered, id-deduplicated list of favorite locations. Every
// mutation writes the full list to the key-value store before returning.
type Store struct {
	mu    sync.Mutex
	kv    kvStore
	log   zerolog.Logger
	items []models.Location
}

// NewStore creates a store and loads the persisted favorites.
func NewStore(ctx context.Context, kv kvStore, logger zerolog.Logger) *Store {
	s := &Store{
		kv:  kv,
		log: logger.With().Str("component", "FavoritesStore").Logger(),
	}
	s.Load(ctx)
	return s
}

// Load replaces the in-memory list with the persisted one. Missing,
// unreadable or malformed data yields an empty list.
func (s *Store) Load(ctx context.Context) []models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = s.read(ctx)
	return slices.Clone(s.items)
}

func (s *Store) read(ctx context.Context) []models.Location {
	raw, found, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("failed to read favorites, starting empty")
		return []models.Location{}
	}
	if !found {
		return []models.Location{}
	}

	var stored []models.Location
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn().Ctx(ctx).Err(err).Msg("malformed favorites, starting empty")
		return []models.Location{}
	}

	items := make([]models.Location, 0, len(stored))
	for _, loc := range stored {
		if loc.ID == "" || indexOf(items, loc.ID) >= 0 {
			s.log.Warn().Ctx(ctx).Str("id", loc.ID).Msg("skipping invalid or duplicate favorite")
			continue
		}
		items = append(items, loc)
	}

	s.log.Debug().Ctx(ctx).Int("count", len(items)).Msg("favorites loaded")
	return items
}

// Contains reports whether a location with id is a favorite.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return indexOf(s.items, id) >= 0
}

// List returns a snapshot of the favorites in insertion order.
func (s *Store) List() []models.Location {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

// Add appends loc unless its id is already present.
func (s *Store) Add(ctx context.Context, loc models.Location) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.add(ctx, loc); err != nil {
		return nil, err
	}
	return slices.Clone(s.items), nil
}

// Remove deletes the favorite with id, if any.
func (s *Store) Remove(ctx context.Context, id string) ([]models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.remove(ctx, id); err != nil {
		return nil, err
	}
	return slices.Clone(s.items), nil
}

// Toggle removes loc if it is a favorite and adds it otherwise. It reports
// whether loc is a favorite after the call.
func (s *Store) Toggle(ctx context.Context, loc models.Location) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, loc.ID) >= 0 {
		return false, s.remove(ctx, loc.ID)
	}
	if err := s.add(ctx, loc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) add(ctx context.Context, loc models.Location) error {
	if loc.ID == "" {
		return fmt.Errorf("favorite %q has no id", loc.DisplayName)
	}
	if indexOf(s.items, loc.ID) >= 0 {
		return nil
	}

	next := append(slices.Clone(s.items), loc)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next

	s.log.Info().Ctx(ctx).Str("id", loc.ID).Str("name", loc.ShortName()).Msg("favorite added")
	return nil
}

func (s *Store) remove(ctx context.Context, id string) error {
	i := indexOf(s.items, id)
	if i < 0 {
		return nil
	}

	next := slices.Delete(slices.Clone(s.items), i, i+1)
	if err := s.persist(ctx, next); err != nil {
		return err
	}
	s.items = next

	s.log.Info().Ctx(ctx).Str("id", id).Msg("favorite removed")
	return nil
}

func (s *Store) persist(ctx context.Context, items []models.Location) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode favorites: %w", err)
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		s.log.Error().Ctx(ctx).Err(err).Msg("failed to persist favorites")
		return fmt.Errorf("persist favorites: %w", err)
	}
	return nil
}

func indexOf(items []models.Location, id string) int {
	return slices.IndexFunc(items, func(l models.Location) bool {
		return l.ID == id
	})
}
