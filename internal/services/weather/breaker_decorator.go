package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type BreakerConfig struct {
	TimeInterval time.Duration
	TimeTimeOut  time.Duration
	RepeatNumber uint32
}

// abandonedError marks a failure caused by the caller giving up on ctx. It
// says nothing about the collaborator's health.
type abandonedError struct {
	err error
}

func (e abandonedError) Error() string { return e.err.Error() }

func (e abandonedError) Unwrap() error { return e.err }

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    cfg.TimeInterval,
		Timeout:     cfg.TimeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.RepeatNumber
		},
		IsSuccessful: func(err error) bool {
			var abandoned abandonedError
			return err == nil || errors.As(err, &abandoned)
		},
	})
}

// execute runs call through cb. Calls on an already cancelled ctx never
// reach the breaker.
func execute(ctx context.Context, name string, cb *gobreaker.CircuitBreaker,
	call func() (interface{}, error),
) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := cb.Execute(func() (interface{}, error) {
		res, err := call()
		if err != nil && ctx.Err() != nil {
			return nil, abandonedError{err: err}
		}
		return res, err
	})

	var abandoned abandonedError
	switch {
	case err == nil:
		return result, nil
	case errors.As(err, &abandoned):
		return nil, abandoned.err
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%s unavailable: %w", name, err)
	default:
		return nil, err
	}
}

// BreakerGeocoder stops calling the wrapped geocoder after repeated failures.
type BreakerGeocoder struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped geocoder
}

func NewBreakerGeocoder(name string, cfg BreakerConfig, wrapped geocoder) *BreakerGeocoder {
	return &BreakerGeocoder{
		name:    name,
		cb:      newCircuitBreaker(name, cfg),
		wrapped: wrapped,
	}
}

func (b *BreakerGeocoder) Search(ctx context.Context, query string) ([]models.Location, error) {
	result, err := execute(ctx, b.name, b.cb, func() (interface{}, error) {
		return b.wrapped.Search(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	res, ok := result.([]models.Location)
	if !ok {
		return nil, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}

// BreakerForecaster stops calling the wrapped forecaster after repeated failures.
type BreakerForecaster struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped forecaster
}

func NewBreakerForecaster(name string, cfg BreakerConfig, wrapped forecaster) *BreakerForecaster {
	return &BreakerForecaster{
		name:    name,
		cb:      newCircuitBreaker(name, cfg),
		wrapped: wrapped,
	}
}

func (b *BreakerForecaster) CurrentWeather(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	result, err := execute(ctx, b.name, b.cb, func() (interface{}, error) {
		return b.wrapped.CurrentWeather(ctx, lat, lon)
	})
	if err != nil {
		return models.WeatherSnapshot{}, err
	}
	res, ok := result.(models.WeatherSnapshot)
	if !ok {
		return models.WeatherSnapshot{}, fmt.Errorf("%s returned unexpected result", b.name)
	}
	return res, nil
}
