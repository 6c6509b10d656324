package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalid is returned for unknown schedule types and malformed values.
var ErrInvalid = errors.New("invalid schedule")

// Type selects how a schedule value is read.
type Type string

const (
	// Preset values are 15min, 1hour, 6hours, 12hours and daily.
	Preset Type = "preset"
	// Interval values are a number of minutes.
	Interval Type = "interval"
	// Cron values are five-field cron expressions evaluated in UTC.
	Cron Type = "cron"
)

var presets = map[string]time.Duration{
	"15min":   15 * time.Minute,
	"1hour":   time.Hour,
	"6hours":  6 * time.Hour,
	"12hours": 12 * time.Hour,
}

// Schedule computes run times.
type Schedule interface {
	// Next returns the first run time strictly after t.
	Next(t time.Time) time.Time
}

type every time.Duration

func (e every) Next(t time.Time) time.Time { return t.Add(time.Duration(e)) }

type midnight struct{}

func (midnight) Next(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC)
}

type cronSchedule struct{ s cron.Schedule }

func (c cronSchedule) Next(t time.Time) time.Time { return c.s.Next(t.UTC()) }

// Parse validates value for typ and returns its schedule.
func Parse(typ Type, value string) (Schedule, error) {
	switch typ {
	case Preset:
		if value == "daily" {
			return midnight{}, nil
		}
		d, ok := presets[value]
		if !ok {
			return nil, fmt.Errorf("%w: unknown preset %q", ErrInvalid, value)
		}
		return every(d), nil

	case Interval:
		minutes, err := strconv.Atoi(value)
		if err != nil || minutes <= 0 {
			return nil, fmt.Errorf("%w: interval must be a positive number of minutes, got %q", ErrInvalid, value)
		}
		return every(time.Duration(minutes) * time.Minute), nil

	case Cron:
		s, err := cron.ParseStandard(value)
		if err != nil {
			return nil, fmt.Errorf("%w: cron expression %q: %v", ErrInvalid, value, err)
		}
		return cronSchedule{s: s}, nil

	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", ErrInvalid, typ)
	}
}

// Next parses the schedule and returns the first run time after t.
func Next(typ Type, value string, t time.Time) (time.Time, error) {
	s, err := Parse(typ, value)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(t), nil
}
