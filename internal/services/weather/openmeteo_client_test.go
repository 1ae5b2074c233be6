package weather_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/city-weather/internal/models"
	"github.com/Nazarious-ucu/city-weather/internal/services/weather"
)

const openMeteoURL = "https://open-meteo.example/v1/forecast"

func TestOpenMeteo_CurrentWeather_Success(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return q.Get("latitude") == "41.89" &&
			q.Get("longitude") == "12.48" &&
			q.Get("current_weather") == "true" &&
			q.Get("daily") == "temperature_2m_max,temperature_2m_min" &&
			q.Get("timezone") == "auto"
	})).Return(jsonResponse(http.StatusOK, `{
		"latitude": 41.9,
		"longitude": 12.5,
		"current_weather": {
		  "time": "2024-05-01T14:00",
		  "temperature": 22.5,
		  "windspeed": 7.9,
		  "winddirection": 250,
		  "is_day": 1,
		  "weathercode": 0
		},
		"daily": {
		  "time": ["2024-05-01"],
		  "temperature_2m_max": [24.1],
		  "temperature_2m_min": [13.2]
		}
	}`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := weather.NewOpenMeteoClient(openMeteoURL, m, zerolog.Nop())

	data, err := c.CurrentWeather(context.Background(), 41.89, 12.48)
	require.NoError(t, err)

	assert.Equal(t, models.WeatherSnapshot{
		Temperature:   22.5,
		WeatherCode:   0,
		WindSpeed:     7.9,
		WindDirection: 250,
		IsDay:         true,
		ObservedAt:    "2024-05-01T14:00",
		Today:         &models.DailyRange{Max: 24.1, Min: 13.2},
	}, data)
}

func TestOpenMeteo_CurrentWeather_WithoutDaily(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK,
		`{"current_weather": {"temperature": -3.0, "weathercode": 71, "is_day": 0}}`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := weather.NewOpenMeteoClient(openMeteoURL, m, zerolog.Nop())

	data, err := c.CurrentWeather(context.Background(), 49.84, 24.03)
	require.NoError(t, err)
	assert.Equal(t, -3.0, data.Temperature)
	assert.Equal(t, 71, data.WeatherCode)
	assert.False(t, data.IsDay)
	assert.Nil(t, data.Today)
}

func TestOpenMeteo_CurrentWeather_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
	}{
		{name: "BadRequest", resp: jsonResponse(http.StatusBadRequest, `{"error":true,"reason":"Latitude must be in range"}`)},
		{name: "NotJSON", resp: jsonResponse(http.StatusOK, `nope`)},
		{name: "NoCurrentWeather", resp: jsonResponse(http.StatusOK, `{"latitude": 1}`)},
		{name: "NoTemperature", resp: jsonResponse(http.StatusOK, `{"current_weather": {"weathercode": 3}}`)},
		{name: "NoWeatherCode", resp: jsonResponse(http.StatusOK, `{"current_weather": {"temperature": 3}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(tt.resp, nil).Once()

			t.Cleanup(func() {
				m.AssertExpectations(t)
			})

			c := weather.NewOpenMeteoClient(openMeteoURL, m, zerolog.Nop())

			data, err := c.CurrentWeather(context.Background(), 1, 1)
			assert.Error(t, err)
			assert.Equal(t, models.WeatherSnapshot{}, data)
		})
	}
}
