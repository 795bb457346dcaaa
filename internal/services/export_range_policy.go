package services

import (
	"strings"
	"time"
)

// MealInterval is a half-open UTC interval over meal creation times.
type MealInterval struct {
	Start time.Time
	End   time.Time
}

func (interval *MealInterval) Bounds() (*time.Time, *time.Time) {
	if interval == nil {
		return nil, nil
	}
	start, end := interval.Start, interval.End
	return &start, &end
}

// RangeUTC turns optional local from/to dates into an interval. Both empty
// means the whole history (nil); a single date covers that one day.
func RangeUTC(rawFrom string, rawTo string, location *time.Location) (*MealInterval, error) {
	if location == nil {
		location = time.UTC
	}

	from, err := parseOptionalDay(rawFrom, ErrFromDateInvalid)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDay(rawTo, ErrToDateInvalid)
	if err != nil {
		return nil, err
	}

	switch {
	case from == nil && to == nil:
		return nil, nil
	case from == nil:
		from = to
	case to == nil:
		to = from
	}

	if to.Before(*from) {
		return nil, ErrInvalidRange
	}

	return &MealInterval{
		Start: startOfLocalDay(from.Year(), from.Month(), from.Day(), location).UTC(),
		End:   startOfLocalDay(to.Year(), to.Month(), to.Day()+1, location).UTC(),
	}, nil
}

// parseOptionalDay returns the civil date as UTC midnight, or nil when empty.
func parseOptionalDay(raw string, invalid error) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	year, month, day, err := parseCivilDate(trimmed)
	if err != nil {
		return nil, invalid
	}
	civil := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &civil, nil
}
