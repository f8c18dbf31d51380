package types

import "github.com/m-mizutani/goerr/v2"

// ScheduleMode represents how a user's posting schedule recurs
type ScheduleMode string

const (
	// ScheduleModeDaily fires every day at a fixed local time
	ScheduleModeDaily ScheduleMode = "daily"
	// ScheduleModeManual fires only at explicitly listed date+time slots
	ScheduleModeManual ScheduleMode = "manual"
)

// AllScheduleModes returns all valid schedule modes
func AllScheduleModes() []ScheduleMode {
	return []ScheduleMode{
		ScheduleModeDaily,
		ScheduleModeManual,
	}
}

// IsValid checks if the schedule mode is valid
func (m ScheduleMode) IsValid() bool {
	switch m {
	case ScheduleModeDaily, ScheduleModeManual:
		return true
	default:
		return false
	}
}

// String returns the string representation of the schedule mode
func (m ScheduleMode) String() string {
	return string(m)
}

// ParseScheduleMode parses a string into a ScheduleMode
func ParseScheduleMode(s string) (ScheduleMode, error) {
	mode := ScheduleMode(s)
	if !mode.IsValid() {
		return "", goerr.New("invalid schedule mode", goerr.V("mode", s))
	}
	return mode, nil
}
