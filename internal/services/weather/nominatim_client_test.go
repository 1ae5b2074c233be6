package weather_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nazarious-ucu/city-weather/internal/models"
	"github.com/Nazarious-ucu/city-weather/internal/services/weather"
)

const nominatimURL = "https://nominatim.example/search"

func TestNominatim_Search_Success(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		q := req.URL.Query()
		return q.Get("q") == "Rome" &&
			q.Get("format") == "jsonv2" &&
			q.Get("limit") == "1" &&
			q.Get("accept-language") == "it" &&
			req.Header.Get("User-Agent") == "city-weather-test"
	})).Return(jsonResponse(http.StatusOK, `[
		{
		  "place_id": 240109189,
		  "osm_type": "relation",
		  "osm_id": 41485,
		  "display_name": "Roma, Lazio, Italia",
		  "lat": "41.8933203",
		  "lon": "12.4829321"
		}
	]`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := weather.NewNominatimClient(nominatimURL, "city-weather-test", "it", m, zerolog.Nop())

	locs, err := c.Search(context.Background(), "Rome")
	require.NoError(t, err)
	require.Len(t, locs, 1)

	assert.Equal(t, models.Location{
		ID:          "R41485",
		DisplayName: "Roma, Lazio, Italia",
		Latitude:    41.8933203,
		Longitude:   12.4829321,
	}, locs[0])
}

func TestNominatim_Search_FallsBackToPlaceID(t *testing.T) {
	m := &mockHTTPClient{}

	m.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK,
		`[{"place_id": 9007199254740993, "display_name": "Somewhere", "lat": "1.5", "lon": "-2.25"}]`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := weather.NewNominatimClient(nominatimURL, "", "", m, zerolog.Nop())

	locs, err := c.Search(context.Background(), "Somewhere")
	require.NoError(t, err)
	require.Len(t, locs, 1)
	// Large ids survive without float coercion.
	assert.Equal(t, "9007199254740993", locs[0].ID)
}

func TestNominatim_Search_NoMatches(t *testing.T) {
	m := &mockHTTPClient{}
	m.On("Do", mock.Anything).Return(jsonResponse(http.StatusOK, `[]`), nil).Once()

	t.Cleanup(func() {
		m.AssertExpectations(t)
	})

	c := weather.NewNominatimClient(nominatimURL, "", "", m, zerolog.Nop())

	locs, err := c.Search(context.Background(), "Qxyz123")
	require.NoError(t, err)
	assert.Empty(t, locs)
}

func TestNominatim_Search_Failures(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
	}{
		{name: "TransportError", err: errors.New("dial tcp: timeout")},
		{name: "ServerError", resp: jsonResponse(http.StatusInternalServerError, `{"error":"boom"}`)},
		{name: "Forbidden", resp: jsonResponse(http.StatusForbidden, `blocked`)},
		{name: "NotJSON", resp: jsonResponse(http.StatusOK, `<html></html>`)},
		{name: "BadLatitude", resp: jsonResponse(http.StatusOK,
			`[{"osm_type":"node","osm_id":1,"display_name":"X","lat":"north","lon":"1"}]`)},
		{name: "LatitudeOutOfRange", resp: jsonResponse(http.StatusOK,
			`[{"osm_type":"node","osm_id":1,"display_name":"X","lat":"123.0","lon":"1"}]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &mockHTTPClient{}
			m.On("Do", mock.Anything).Return(tt.resp, tt.err).Once()

			t.Cleanup(func() {
				m.AssertExpectations(t)
			})

			c := weather.NewNominatimClient(nominatimURL, "", "", m, zerolog.Nop())

			locs, err := c.Search(context.Background(), "X")
			assert.Error(t, err)
			assert.Nil(t, locs)
		})
	}
}
