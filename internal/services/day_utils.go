package services

import (
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

const limaFallbackZone = "America/Lima"

// DayWindow is one user-local calendar day as a half-open UTC interval.
type DayWindow struct {
	LocalDate string
	Start     time.Time
	End       time.Time
}

// ResolveTimezone never fails: unknown names degrade to UTC, except Lima,
// which keeps its fixed offset when the host lacks tzdata.
func ResolveTimezone(name string) *time.Location {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return time.UTC
	}
	location, err := time.LoadLocation(trimmed)
	if err == nil {
		return location
	}
	if trimmed == limaFallbackZone {
		return time.FixedZone("UTC-5", -5*60*60)
	}
	return time.UTC
}

// startOfLocalDay returns the first instant whose local date is the given
// day. Where midnight falls in a DST gap that is the end of the gap.
func startOfLocalDay(year int, month time.Month, day int, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	year, month, day = time.Date(year, month, day, 12, 0, 0, 0, time.UTC).Date()

	start := time.Date(year, month, day, 0, 0, 0, 0, location)
	if sameDate(start, year, month, day) {
		return start
	}
	if _, zoneEnd := start.ZoneBounds(); !zoneEnd.IsZero() {
		if local := zoneEnd.In(location); sameDate(local, year, month, day) {
			return local
		}
	}
	for !sameDate(start, year, month, day) {
		start = start.Add(time.Minute)
	}
	return start
}

func sameDate(value time.Time, year int, month time.Month, day int) bool {
	y, m, d := value.Date()
	return y == year && m == month && d == day
}

// parseCivilDate reads YYYY-MM-DD without a zone so the date never shifts.
func parseCivilDate(raw string) (int, time.Month, int, error) {
	parsed, err := time.Parse(dayLayout, strings.TrimSpace(raw))
	if err != nil {
		return 0, 0, 0, err
	}
	year, month, day := parsed.Date()
	return year, month, day, nil
}

// DayRangeUTC resolves a YYYY-MM-DD date (today when empty) in location.
func DayRangeUTC(rawDate string, location *time.Location, now time.Time) (DayWindow, error) {
	if location == nil {
		location = time.UTC
	}

	year, month, day := now.In(location).Date()
	if trimmed := strings.TrimSpace(rawDate); trimmed != "" {
		var err error
		year, month, day, err = parseCivilDate(trimmed)
		if err != nil {
			return DayWindow{}, ErrDayDateInvalid
		}
	}

	start := startOfLocalDay(year, month, day, location)
	end := startOfLocalDay(year, month, day+1, location)
	return DayWindow{
		LocalDate: time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(dayLayout),
		Start:     start.UTC(),
		End:       end.UTC(),
	}, nil
}
