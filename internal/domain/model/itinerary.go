// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Layouts accepted for the two user-facing temporal inputs.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
)

const (
	minutesPerHour = 60
	hoursPerDay    = 24
)

// Sentinel kinds for parse failures.
var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidDate      = errors.New("invalid journey date")
)

// TimeOfDay is a wall-clock time with minute precision and no date component.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int // 0-59
}

// NewTimeOfDay returns a TimeOfDay, rejecting out-of-range components.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour >= hoursPerDay || minute < 0 || minute >= minutesPerHour {
		return TimeOfDay{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidTimeOfDay, hour, minute)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// ParseTimeOfDay parses "HH:MM" (24-hour clock). A trailing ":SS" as sent by
// some browsers' time inputs is accepted and ignored.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(hour, minute)
}

// String renders the time as HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinutesSinceMidnight returns the number of minutes elapsed since 00:00.
func (t TimeOfDay) MinutesSinceMidnight() int {
	return t.Hour*minutesPerHour + t.Minute
}

// ParseJourneyDate parses a calendar date in YYYY-MM-DD form.
func ParseJourneyDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// ItineraryInput is the user-facing description of one flight.
// Values are immutable once constructed and live for a single request.
type ItineraryInput struct {
	JourneyDate time.Time // only the calendar date is used
	Departure   TimeOfDay
	Arrival     TimeOfDay
	Airline     string // member of the airline vocabulary
	Source      string // member of the source vocabulary
	Destination string // member of the destination vocabulary
	TotalStops  int    // 0-4
}

// Elapsed is a non-negative journey duration in whole minutes.
type Elapsed int

// Hours returns the whole-hour part of the duration.
func (e Elapsed) Hours() int { return int(e) / minutesPerHour }

// Minutes returns the remainder minutes after whole hours.
func (e Elapsed) Minutes() int { return int(e) % minutesPerHour }

// String renders the duration as "9h 25m".
func (e Elapsed) String() string {
	return fmt.Sprintf("%dh %dm", e.Hours(), e.Minutes())
}
