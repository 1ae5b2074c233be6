package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/city-weather/internal/models"
)

type nominatimPlace struct {
	PlaceID     json.Number `json:"place_id"`
	OSMType     string      `json:"osm_type"`
	OSMID       json.Number `json:"osm_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
}

// NominatimClient geocodes free-text queries with the OpenStreetMap Nominatim API.
type NominatimClient struct {
	apiURL    string
	userAgent string
	language  string
	client    HTTPClient
	logger    zerolog.Logger
}

// NewNominatimClient constructs a geocoding client. Nominatim rejects
// requests without an identifying User-Agent.
func NewNominatimClient(apiURL, userAgent, language string,
	httpClient HTTPClient, logger zerolog.Logger,
) *NominatimClient {
	return &NominatimClient{
		apiURL:    apiURL,
		userAgent: userAgent,
		language:  language,
		client:    httpClient,
		logger:    logger.With().Str("component", "NominatimClient").Logger(),
	}
}

// Search returns the best match for query, or an empty slice when nothing matches.
func (c *NominatimClient) Search(ctx context.Context, query string) ([]models.Location, error) {
	start := time.Now()

	values := url.Values{}
	values.Set("q", query)
	values.Set("format", "jsonv2")
	values.Set("limit", "1")
	if c.language != "" {
		values.Set("accept-language", c.language)
	}
	reqURL := c.apiURL + "?" + values.Encode()

	c.logger.Debug().
		Ctx(ctx).
		Str("query", query).
		Str("url", reqURL).
		Msg("starting Nominatim request")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("query", query).Msg("failed to create HTTP request")
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("query", query).Msg("error sending HTTP request to Nominatim")
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Error().Ctx(ctx).Err(cerr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Ctx(ctx).
			Str("query", query).
			Str("status", resp.Status).
			Msg("Nominatim returned non-200 status")
		return nil, fmt.Errorf("nominatim error: status %s", resp.Status)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		c.logger.Error().Ctx(ctx).Err(err).Str("query", query).Msg("failed to decode Nominatim response")
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}

	locations := make([]models.Location, 0, len(places))
	for _, p := range places {
		loc, err := p.toLocation()
		if err != nil {
			c.logger.Error().Ctx(ctx).Err(err).Str("query", query).Msg("malformed Nominatim place")
			return nil, err
		}
		locations = append(locations, loc)
	}

	c.logger.Info().
		Ctx(ctx).
		Str("query", query).
		Int("matches", len(locations)).
		Dur("duration", time.Since(start)).
		Msg("geocoding completed")

	return locations, nil
}

func (p nominatimPlace) toLocation() (models.Location, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parse latitude %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("parse longitude %q: %w", p.Lon, err)
	}

	loc := models.Location{
		ID:          p.id(),
		DisplayName: p.DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}
	if err := loc.Validate(); err != nil {
		return models.Location{}, fmt.Errorf("invalid place: %w", err)
	}
	return loc, nil
}

// id prefers the OSM object reference (e.g. "R41485"), which survives
// Nominatim re-imports; place_id does not.
func (p nominatimPlace) id() string {
	if p.OSMType != "" && p.OSMID != "" {
		return strings.ToUpper(p.OSMType[:1]) + p.OSMID.String()
	}
	return p.PlaceID.String()
}
