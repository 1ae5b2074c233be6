package weather

import "github.com/Nazarious-ucu/city-weather/internal/models"

var variableWeather = models.Condition{Label: "Variable weather", Category: models.CategoryUnknown}

// conditions maps weather codes to their classification. Extend the table,
// not Classify.
var conditions = map[int]models.Condition{
	0:  {Label: "Clear sky", Category: models.CategoryClear},
	1:  {Label: "Mainly clear", Category: models.CategoryCloudy},
	2:  {Label: "Partly cloudy", Category: models.CategoryCloudy},
	3:  {Label: "Overcast", Category: models.CategoryCloudy},
	45: {Label: "Fog", Category: models.CategoryCloudy},
	48: {Label: "Depositing rime fog", Category: models.CategoryCloudy},
	51: {Label: "Light drizzle", Category: models.CategoryRain},
	61: {Label: "Light rain", Category: models.CategoryRain},
	63: {Label: "Moderate rain", Category: models.CategoryRain},
	71: {Label: "Light snow", Category: models.CategorySnow},
	80: {Label: "Rain showers", Category: models.CategoryRain},
	95: {Label: "Thunderstorm", Category: models.CategoryStorm},
}

// Classify returns the condition for a weather code. It is total: unknown
// codes map to "Variable weather".
func Classify(code int) models.Condition {
	if c, ok := conditions[code]; ok {
		return c
	}
	return variableWeather
}
