package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/city-weather/internal/services/cache"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Set(ctx context.Context, key string, value string) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *mockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockCollector struct {
	mock.Mock
}

func (m *mockCollector) ObserveLatency(operation string, duration time.Duration) {
	m.Called(operation, duration)
}

func (m *mockCollector) IncrementCounter(operation string, result string) {
	m.Called(operation, result)
}

func TestMetricsDecorator_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		next := &mockCache{}
		col := &mockCollector{}

		next.On("Get", mock.Anything, "k").Return("v", nil).Once()
		col.On("ObserveLatency", "cache_get", mock.AnythingOfType("time.Duration")).Once()
		col.On("IncrementCounter", "cache_get", "hit").Once()

		t.Cleanup(func() {
			next.AssertExpectations(t)
			col.AssertExpectations(t)
		})

		d := cache.NewMetricsDecorator[string](next, col)

		v, err := d.Get(ctx, "k")
		assert.NoError(t, err)
		assert.Equal(t, "v", v)
	})

	t.Run("Miss", func(t *testing.T) {
		next := &mockCache{}
		col := &mockCollector{}

		next.On("Get", mock.Anything, "k").Return("", cache.ErrMiss).Once()
		col.On("ObserveLatency", "cache_get", mock.AnythingOfType("time.Duration")).Once()
		col.On("IncrementCounter", "cache_get", "miss").Once()

		t.Cleanup(func() {
			next.AssertExpectations(t)
			col.AssertExpectations(t)
		})

		d := cache.NewMetricsDecorator[string](next, col)

		_, err := d.Get(ctx, "k")
		assert.ErrorIs(t, err, cache.ErrMiss)
	})

	t.Run("Error", func(t *testing.T) {
		next := &mockCache{}
		col := &mockCollector{}

		next.On("Get", mock.Anything, "k").Return("", errors.New("connection refused")).Once()
		col.On("ObserveLatency", "cache_get", mock.AnythingOfType("time.Duration")).Once()
		col.On("IncrementCounter", "cache_get", "error").Once()

		t.Cleanup(func() {
			next.AssertExpectations(t)
			col.AssertExpectations(t)
		})

		d := cache.NewMetricsDecorator[string](next, col)

		_, err := d.Get(ctx, "k")
		assert.Error(t, err)
	})
}

func TestMetricsDecorator_Set(t *testing.T) {
	next := &mockCache{}
	col := &mockCollector{}

	next.On("Set", mock.Anything, "k", "v").Return(errors.New("down")).Once()
	col.On("ObserveLatency", "cache_set", mock.AnythingOfType("time.Duration")).Once()
	col.On("IncrementCounter", "cache_set", "error").Once()

	t.Cleanup(func() {
		next.AssertExpectations(t)
		col.AssertExpectations(t)
	})

	d := cache.NewMetricsDecorator[string](next, col)

	assert.Error(t, d.Set(context.Background(), "k", "v"))
}
