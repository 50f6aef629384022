package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// LabelLayout renders dates as "YYYY Mon DD".
const LabelLayout = "2006 Jan 02"

var ErrMalformedDate = errors.New("malformed date")

// ChartDate is a calendar day on the time chart.
type ChartDate struct {
	time.Time
}

func NewChartDate(t time.Time) ChartDate {
	return ChartDate{Time: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Label formats the date for the x-axis.
func (d ChartDate) Label() string {
	return d.Format(LabelLayout)
}

// FormatDateLabel formats year, zero-indexed month and day as an axis label.
func FormatDateLabel(year, month0, day int) (string, error) {
	d, err := dateFromParts(year, month0, day)
	if err != nil {
		return "", err
	}
	return d.Label(), nil
}

// ParseChartDate accepts ISO dates ("2018-04-14", month one-indexed) and
// token dates ("2018 3 14", month zero-indexed like the charting library).
func ParseChartDate(s string) (ChartDate, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewChartDate(t), nil
	}

	tokens := strings.Fields(s)
	if len(tokens) != 3 {
		return ChartDate{}, fmt.Errorf("%w: %q: expected \"YYYY-MM-DD\" or \"Y M D\"", ErrMalformedDate, s)
	}
	parts := make([]int, 3)
	for i, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return ChartDate{}, fmt.Errorf("%w: %q: token %q is not a number", ErrMalformedDate, s, tok)
		}
		parts[i] = n
	}
	return dateFromParts(parts[0], parts[1], parts[2])
}

func dateFromParts(year, month0, day int) (ChartDate, error) {
	if month0 < 0 || month0 > 11 {
		return ChartDate{}, fmt.Errorf("%w: month %d out of range 0-11", ErrMalformedDate, month0)
	}
	t := time.Date(year, time.Month(month0+1), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Year() != year {
		return ChartDate{}, fmt.Errorf("%w: day %d does not exist in %d-%02d", ErrMalformedDate, day, year, month0+1)
	}
	return ChartDate{Time: t}, nil
}

func (d ChartDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *ChartDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedDate, string(data))
	}
	parsed, err := ParseChartDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
