package weather

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type geocoder interface {
	Search(ctx context.Context, query string) ([]models.Location, error)
}

type forecaster interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolution is a geocoded location together with its current weather.
type Resolution struct {
	Location  models.Location        `json:"location"`
	Weather   models.WeatherSnapshot `json:"weather"`
	Condition models.Condition       `json:"condition"`
}

// Resolver turns a free-text city query into a location and its current
// weather. It keeps no state between calls.
type Resolver struct {
	logger     zerolog.Logger
	geocoder   geocoder
	forecaster forecaster
}

func NewResolver(logger zerolog.Logger, geocoder geocoder, forecaster forecaster) *Resolver {
	return &Resolver{
		logger:     logger.With().Str("component", "Resolver").Logger(),
		geocoder:   geocoder,
		forecaster: forecaster,
	}
}

// Resolve geocodes query and then fetches the weather at the best match.
// It returns ErrEmptyQuery, ErrCityNotFound or a *LookupError on failure.
func (r *Resolver) Resolve(ctx context.Context, query string) (Resolution, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Resolution{}, ErrEmptyQuery
	}

	matches, err := r.geocoder.Search(ctx, query)
	if err != nil {
		r.logger.Error().Ctx(ctx).Err(err).Str("query", query).Msg("geocoding failed")
		return Resolution{}, &LookupError{Step: StepGeocoding, Err: err}
	}
	if len(matches) == 0 {
		r.logger.Info().Ctx(ctx).Str("query", query).Msg("no geocoding match")
		return Resolution{}, ErrCityNotFound
	}
	loc := matches[0]

	snapshot, err := r.forecaster.CurrentWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		r.logger.Error().
			Ctx(ctx).
			Err(err).
			Str("query", query).
			Str("location_id", loc.ID).
			Msg("weather lookup failed")
		return Resolution{}, &LookupError{Step: StepWeather, Err: err}
	}

	cond := Classify(snapshot.WeatherCode)
	r.logger.Info().
		Ctx(ctx).
		Str("query", query).
		Str("location_id", loc.ID).
		Str("category", string(cond.Category)).
		Msg("query resolved")

	return Resolution{Location: loc, Weather: snapshot, Condition: cond}, nil
}

// IsLookupFailure reports whether err is a *LookupError and returns the failed step.
func IsLookupFailure(err error) (Step, bool) {
	var le *LookupError
	if errors.As(err, &le) {
		return le.Step, true
	}
	return "", false
}
