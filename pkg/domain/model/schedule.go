package model

import (
	"encoding/json"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// Schedule is a user's declarative posting schedule, parsed from the
// schedule settings JSON blob. Time values are wall-clock minute granularity
// in the user's declared fixed UTC offset.
type Schedule struct {
	Mode     types.ScheduleMode
	Timezone string

	// DailyTime is the "HH:MM" local time for daily mode
	DailyTime string

	// SelectedDates maps "YYYY-MM-DD" local dates to "HH:MM" local times
	// for manual mode
	SelectedDates map[string][]string

	offset    time.Duration
	offsetErr error
}

// scheduleDoc is the wire format of the schedule settings blob
type scheduleDoc struct {
	Mode     string `json:"mode"`
	Timezone string `json:"timezone"`
	Settings struct {
		DailyTime     string              `json:"dailyTime"`
		SelectedDates map[string][]string `json:"selectedDates"`
	} `json:"settings"`
}

// ParseSchedule parses the schedule settings JSON blob. An empty blob,
// malformed JSON or an unknown mode is an error; callers treat any error as
// "not due" and must not propagate it.
func ParseSchedule(raw string) (*Schedule, error) {
	if raw == "" {
		return nil, goerr.New("schedule settings are empty")
	}

	var doc scheduleDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to parse schedule settings")
	}

	mode, err := types.ParseScheduleMode(doc.Mode)
	if err != nil {
		return nil, goerr.Wrap(err, "unknown schedule mode", goerr.V("mode", doc.Mode))
	}

	s := &Schedule{
		Mode:          mode,
		Timezone:      doc.Timezone,
		DailyTime:     doc.Settings.DailyTime,
		SelectedDates: doc.Settings.SelectedDates,
	}

	switch mode {
	case types.ScheduleModeDaily:
		if _, err := parseClock(s.DailyTime); err != nil {
			return nil, goerr.Wrap(err, "invalid daily time", goerr.V("dailyTime", s.DailyTime))
		}
	case types.ScheduleModeManual:
		if len(s.SelectedDates) == 0 {
			return nil, goerr.New("manual schedule has no selected dates")
		}
	}

	// A malformed timezone does not fail the schedule; it falls back to
	// UTC+0 and the caller logs the retained error.
	s.offset, s.offsetErr = types.ParseUTCOffset(doc.Timezone)

	return s, nil
}

// Offset returns the fixed UTC offset of the schedule. On a malformed
// timezone string the offset is zero and the parse error is returned so the
// caller can log a warning.
func (s *Schedule) Offset() (time.Duration, error) {
	return s.offset, s.offsetErr
}

// Slot identifies a single (local date, local time) pair at which the
// schedule fires. The key is used for at-most-once tracking.
type Slot struct {
	Date string // local "YYYY-MM-DD"
	Time string // configured "HH:MM"
}

// Key returns the stable identity of the slot
func (s Slot) Key() string {
	return s.Date + "T" + s.Time
}

// MatchSlot decides whether the schedule is due at nowUTC within the given
// tolerance and returns the matched slot. The tick cadence and tolerance must
// be paired so per-tick windows are disjoint and gapless: with a 15 minute
// cadence and a ±7 minute tolerance each window spans exactly 15 distinct
// minutes, so every slot is due in exactly one tick.
func (s *Schedule) MatchSlot(nowUTC time.Time, tolerance time.Duration) (Slot, bool) {
	local := nowUTC.UTC().Add(s.offset).Truncate(time.Minute)

	switch s.Mode {
	case types.ScheduleModeDaily:
		target, err := parseClock(s.DailyTime)
		if err != nil {
			return Slot{}, false
		}
		nowMin := local.Hour()*60 + local.Minute()
		diff := circularMinuteDiff(nowMin, target)
		if time.Duration(diff)*time.Minute > tolerance {
			return Slot{}, false
		}
		// The slot belongs to the local date the configured time falls on,
		// which differs from today's when the window wraps midnight.
		slotDate := local
		if diff != absInt(nowMin-target) {
			if nowMin < target {
				slotDate = local.AddDate(0, 0, -1)
			} else {
				slotDate = local.AddDate(0, 0, 1)
			}
		}
		return Slot{Date: slotDate.Format(time.DateOnly), Time: s.DailyTime}, true

	case types.ScheduleModeManual:
		// Listed times are anchored to their listed local date, so slots
		// adjacent to midnight are compared as full local instants.
		for _, day := range candidateDates(local, tolerance) {
			times, ok := s.SelectedDates[day]
			if !ok {
				continue
			}
			for _, hhmm := range times {
				mins, err := parseClock(hhmm)
				if err != nil {
					continue
				}
				slotAt, err := time.Parse(time.DateOnly, day)
				if err != nil {
					continue
				}
				slotAt = slotAt.Add(time.Duration(mins) * time.Minute)
				d := local.Sub(slotAt)
				if d < 0 {
					d = -d
				}
				if d <= tolerance {
					return Slot{Date: day, Time: hhmm}, true
				}
			}
		}
		return Slot{}, false
	}

	return Slot{}, false
}

// parseClock parses "HH:MM" into minutes since midnight
func parseClock(hhmm string) (int, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid HH:MM time", goerr.V("time", hhmm))
	}
	return t.Hour()*60 + t.Minute(), nil
}

// circularMinuteDiff returns the shortest distance between two minutes of day
// on the 24h clock, so windows around midnight stay gapless.
func circularMinuteDiff(a, b int) int {
	d := absInt(a - b)
	if wrapped := 24*60 - d; wrapped < d {
		return wrapped
	}
	return d
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// candidateDates returns the local dates whose listed slots could be within
// tolerance of the local instant (today plus a neighbor around midnight).
func candidateDates(local time.Time, tolerance time.Duration) []string {
	dates := []string{local.Format(time.DateOnly)}
	if prev := local.Add(-tolerance).Format(time.DateOnly); prev != dates[0] {
		dates = append(dates, prev)
	}
	if next := local.Add(tolerance).Format(time.DateOnly); next != dates[0] {
		dates = append(dates, next)
	}
	return dates
}
