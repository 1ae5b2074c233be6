package weather

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyQuery   = errors.New("query is empty")
	ErrCityNotFound = errors.New("city not found")
)

// Step names the collaborator call that failed during resolution.
type Step string

const (
	StepGeocoding Step = "geocoding"
	StepWeather   Step = "weather"
)

// LookupError is a transport or parse failure of one resolution step.
type LookupError struct {
	Step Step
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s lookup failed: %v", e.Step, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
