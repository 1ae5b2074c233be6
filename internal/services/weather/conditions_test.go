package weather_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nazarious-ucu/city-weather/internal/models"
	"github.com/Nazarious-ucu/city-weather/internal/services/weather"
)

func TestClassify_Table(t *testing.T) {
	tests := []struct {
		code     int
		category models.Category
	}{
		{0, models.CategoryClear},
		{1, models.CategoryCloudy},
		{2, models.CategoryCloudy},
		{3, models.CategoryCloudy},
		{45, models.CategoryCloudy},
		{48, models.CategoryCloudy},
		{51, models.CategoryRain},
		{61, models.CategoryRain},
		{63, models.CategoryRain},
		{71, models.CategorySnow},
		{80, models.CategoryRain},
		{95, models.CategoryStorm},
	}

	for _, tt := range tests {
		got := weather.Classify(tt.code)
		assert.Equal(t, tt.category, got.Category, "code %d", tt.code)
		assert.NotEmpty(t, got.Label, "code %d", tt.code)
	}

	assert.Equal(t, "Clear sky", weather.Classify(0).Label)
	assert.Equal(t, "Thunderstorm", weather.Classify(95).Label)
}

func TestClassify_UnknownCodes(t *testing.T) {
	unknown := models.Condition{Label: "Variable weather", Category: models.CategoryUnknown}

	for _, code := range []int{-1, 4, 44, 52, 65, 99, 1000, math.MaxInt, math.MinInt} {
		assert.NotPanics(t, func() { weather.Classify(code) })
		assert.Equal(t, unknown, weather.Classify(code), "code %d", code)
	}
}
