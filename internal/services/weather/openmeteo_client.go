package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

var errIncompletePayload = errors.New("current_weather is missing temperature or weathercode")

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature   *float64 `json:"temperature"`
		WeatherCode   *int     `json:"weathercode"`
		WindSpeed     float64  `json:"windspeed"`
		WindDirection float64  `json:"winddirection"`
		IsDay         int      `json:"is_day"`
		Time          string   `json:"time"`
	} `json:"current_weather"`
	Daily struct {
		Time           []string  `json:"time"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
	} `json:"daily"`
}

// OpenMeteoClient fetches current conditions from the Open-Meteo forecast API.
type OpenMeteoClient struct {
	apiURL string
	client HTTPClient
	logger zerolog.Logger
}

// NewOpenMeteoClient constructs a new Open-Meteo client.
func NewOpenMeteoClient(apiURL string, httpClient HTTPClient, logger zerolog.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		apiURL: apiURL,
		client: httpClient,
		logger: logger.With().Str("component", "OpenMeteoClient").Logger(),
	}
}

// CurrentWeather returns the present conditions at the given coordinates.
func (c *OpenMeteoClient) CurrentWeather(ctx context.Context, lat, lon float64) (models.WeatherSnapshot, error) {
	start := time.Now()

	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("current_weather", "true")
	values.Set("daily", "temperature_2m_max,temperature_2m_min")
	values.Set("timezone", "auto")
	reqURL := c.apiURL + "?" + values.Encode()

	c.logger.Debug().
		Ctx(ctx).
		Float64("lat", lat).
		Float64("lon", lon).
		Str("url", reqURL).
		Msg("starting Open-Meteo request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("failed to create HTTP request")
		return models.WeatherSnapshot{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("error sending HTTP request to Open-Meteo")
		return models.WeatherSnapshot{}, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().Ctx(ctx).Err(cerr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Ctx(ctx).
			Str("status", resp.Status).
			Msg("Open-Meteo returned non-200 status")
		return models.WeatherSnapshot{}, fmt.Errorf("open-meteo error: status %s", resp.Status)
	}

	var raw openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Msg("failed to decode Open-Meteo response")
		return models.WeatherSnapshot{}, fmt.Errorf("decode open-meteo response: %w", err)
	}

	cw := raw.CurrentWeather
	if cw == nil || cw.Temperature == nil || cw.WeatherCode == nil {
		c.logger.Error().Ctx(ctx).Err(errIncompletePayload).Msg("incomplete Open-Meteo response")
		return models.WeatherSnapshot{}, errIncompletePayload
	}

	snapshot := models.WeatherSnapshot{
		Temperature:   *cw.Temperature,
		WeatherCode:   *cw.WeatherCode,
		WindSpeed:     cw.WindSpeed,
		WindDirection: cw.WindDirection,
		IsDay:         cw.IsDay == 1,
		ObservedAt:    cw.Time,
	}
	if len(raw.Daily.TemperatureMax) > 0 && len(raw.Daily.TemperatureMin) > 0 {
		snapshot.Today = &models.DailyRange{
			Max: raw.Daily.TemperatureMax[0],
			Min: raw.Daily.TemperatureMin[0],
		}
	}

	c.logger.Info().
		Ctx(ctx).
		Float64("temperature", snapshot.Temperature).
		Int("weather_code", snapshot.WeatherCode).
		Dur("duration", time.Since(start)).
		Msg("successfully fetched weather data")

	return snapshot, nil
}
