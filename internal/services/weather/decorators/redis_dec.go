package decorators

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type geocoder interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
}

type cacheClient[T any] interface {
	Set(ctx context.Context, key string, value T) error
	Get(ctx context.Context, key string) (T, error)
}

// CachedGeocoder remembers geocoding matches for repeated queries. Empty
// results are never cached, so newly indexed places show up on the next query.
type CachedGeocoder struct {
	inner  geocoder
	cache  cacheClient[[]models.Location]
	logger zerolog.Logger
}

func NewCachedGeocoder(
	inner geocoder,
	cache cacheClient[[]models.Location],
	logger zerolog.Logger,
) *CachedGeocoder {
	return &CachedGeocoder{
		inner:  inner,
		cache:  cache,
		logger: logger.With().Str("component", "CachedGeocoder").Logger(),
	}
}

func cacheKey(query string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(query))
}

func (s *CachedGeocoder) Search(ctx context.Context, query string) ([]models.Location, error) {
	key := cacheKey(query)

	locations, err := s.cache.Get(ctx, key)
	if err == nil && len(locations) > 0 {
		s.logger.Info().
			Ctx(ctx).
			Str("query", query).
			Str("key", key).
			Msg("cache hit")
		return locations, nil
	}
	s.logger.Info().
		Ctx(ctx).
		Str("query", query).
		Str("key", key).
		Err(err).
		Msg("cache miss")

	locations, err = s.inner.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(locations) == 0 {
		return locations, nil
	}

	if err := s.cache.Set(ctx, key, locations); err != nil {
		s.logger.Error().
			Ctx(ctx).
			Str("query", query).
			Str("key", key).
			Err(err).
			Msg("cache set failed")
	}

	return locations, nil
}
