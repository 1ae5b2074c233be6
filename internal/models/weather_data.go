package models

// Category is the coarse class of a weather condition code.
type Category string

const (
	CategoryClear   Category = "clear"
	CategoryCloudy  Category = "cloudy"
	CategoryRain    Category = "rain"
	CategorySnow    Category = "snow"
	CategoryStorm   Category = "storm"
	CategoryUnknown Category = "unknown"
)

// Condition is the human-readable classification of a weather code.
type Condition struct {
	Label    string   `json:"label"`
	Category Category `json:"category"`
}

// DailyRange holds today's temperature extremes in degrees Celsius.
type DailyRange struct {
	Max float64 `json:"max"`
	Min float64 `json:"min"`
}

// WeatherSnapshot is the current weather at a location.
type WeatherSnapshot struct {
	Temperature   float64     `json:"temperature"`
	WeatherCode   int         `json:"weather_code"`
	WindSpeed     float64     `json:"wind_speed"`
	WindDirection float64     `json:"wind_direction"`
	IsDay         bool        `json:"is_day"`
	ObservedAt    string      `json:"observed_at,omitempty"`
	Today         *DailyRange `json:"today,omitempty"`
}
