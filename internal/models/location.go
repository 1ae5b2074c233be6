package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Location is a place resolved by the geocoder. Two locations are the same
// place iff their IDs are equal.
type Location struct {
	ID          string  `json:"id" binding:"required" validate:"required"`
	DisplayName string  `json:"display_name" binding:"required" validate:"required"`
	Latitude    float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude   float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// ShortName returns the first comma-delimited segment of the display name.
func (l Location) ShortName() string {
	name, _, _ := strings.Cut(l.DisplayName, ",")
	return strings.TrimSpace(name)
}

// Validate checks identity and coordinate ranges.
func (l Location) Validate() error {
	return validate.Struct(l)
}
