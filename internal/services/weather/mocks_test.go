package weather_test

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, ok := args.Get(0).(*http.Response)
	if !ok {
		return nil, args.Error(1)
	}
	return resp, args.Error(1)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

type mockGeocoder struct {
	mock.Mock
}

func (m *mockGeocoder) Search(ctx context.Context, query string) ([]models.Location, error) {
	args := m.Called(ctx, query)
	data, ok := args.Get(0).([]models.Location)
	if !ok {
		return nil, args.Error(1)
	}
	return data, args.Error(1)
}

type mockForecaster struct {
	mock.Mock
}

func (m *mockForecaster) CurrentWeather(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	args := m.Called(ctx, lat, lon)
	data, ok := args.Get(0).(models.WeatherSnapshot)
	if !ok {
		return models.WeatherSnapshot{}, args.Error(1)
	}
	return data, args.Error(1)
}
