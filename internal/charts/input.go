package charts

import (
	"errors"
	"fmt"
	"math"
	"minedash/internal/models"
)

var ErrInvalidInput = errors.New("invalid chart input")

// Input is everything both dashboard charts are drawn from.
type Input struct {
	TimeSeries      []models.Series         `json:"time_series"`
	CharacterNames  []string                `json:"character_names"`
	CharacterSeries []models.CategorySeries `json:"character_series"`
}

// NewInput assembles an Input from chart data.
func NewInput(series []models.Series, characters *models.CharacterChartData) *Input {
	in := &Input{TimeSeries: series}
	if characters != nil {
		in.CharacterNames = characters.Names
		in.CharacterSeries = characters.Series
	}
	return in
}

// Validate reports the first problem found. Empty input is valid.
func (in *Input) Validate() error {
	if err := validateTimeSeries(in.TimeSeries); err != nil {
		return err
	}
	return validateCategories(in.CharacterNames, in.CharacterSeries)
}

func validateTimeSeries(series []models.Series) error {
	for i, s := range series {
		if s.Name == "" {
			return fmt.Errorf("%w: time series %d has no name", ErrInvalidInput, i)
		}
		seen := make(map[string]struct{}, len(s.Data))
		for _, p := range s.Data {
			if p.Date.IsZero() {
				return fmt.Errorf("%w: time series %q has a point without date", ErrInvalidInput, s.Name)
			}
			label := p.Date.Label()
			if _, dup := seen[label]; dup {
				return fmt.Errorf("%w: time series %q has two points on %s", ErrInvalidInput, s.Name, label)
			}
			seen[label] = struct{}{}
			if err := checkValue(p.Value); err != nil {
				return fmt.Errorf("%w: time series %q on %s: %s", ErrInvalidInput, s.Name, label, err)
			}
		}
	}
	return nil
}

func validateCategories(names []string, series []models.CategorySeries) error {
	for i, name := range names {
		if name == "" {
			return fmt.Errorf("%w: category %d has an empty name", ErrInvalidInput, i)
		}
	}
	for i, s := range series {
		if s.Name == "" {
			return fmt.Errorf("%w: category series %d has no name", ErrInvalidInput, i)
		}
		if len(s.Values) != len(names) {
			return fmt.Errorf("%w: category series %q has %d values for %d names", ErrInvalidInput, s.Name, len(s.Values), len(names))
		}
		for j, v := range s.Values {
			if err := checkValue(v); err != nil {
				return fmt.Errorf("%w: category series %q, %q: %s", ErrInvalidInput, s.Name, names[j], err)
			}
		}
	}
	return nil
}

func checkValue(v float64) error {
	switch {
	case math.IsNaN(v):
		return errors.New("value is NaN")
	case math.IsInf(v, 0):
		return errors.New("value is infinite")
	case v < 0:
		return fmt.Errorf("value %g is negative", v)
	}
	return nil
}
