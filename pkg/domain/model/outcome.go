package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// SkipReason explains why a posting run ended without a publish attempt
type SkipReason string

const (
	SkipNone             SkipReason = ""
	SkipAutomationOff    SkipReason = "automation disabled"
	SkipNoAccessToken    SkipReason = "no access token"
	SkipNoSchedule       SkipReason = "no usable schedule"
	SkipNotDue           SkipReason = "not due now"
	SkipSlotConsumed     SkipReason = "slot already posted"
	SkipNoTemplate       SkipReason = "no usable template"
	SkipGenerationFailed SkipReason = "generation failed"
	SkipTimeout          SkipReason = "run timed out"
)

// RunOutcome records the result of a single posting run for one user. It is
// ephemeral: logged and returned to manual callers, never persisted.
type RunOutcome struct {
	RunID       string        `json:"run_id"`
	UserID      types.UserID  `json:"user_id"`
	Trigger     types.Trigger `json:"trigger"`
	MatchedSlot string        `json:"matched_slot,omitempty"`
	Template    string        `json:"template,omitempty"`
	Generated   bool          `json:"generated"`
	Published   bool          `json:"published"`
	SkipReason  SkipReason    `json:"skip_reason,omitempty"`
	Err         string        `json:"error,omitempty"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
}

// NewRunOutcome creates an outcome for a run starting now
func NewRunOutcome(userID types.UserID, trigger types.Trigger) *RunOutcome {
	return &RunOutcome{
		RunID:     uuid.New().String(),
		UserID:    userID,
		Trigger:   trigger,
		StartedAt: time.Now().UTC(),
	}
}

// Skipped reports whether the run ended before a publish attempt
func (o *RunOutcome) Skipped() bool {
	return o.SkipReason != SkipNone
}

// Finish sets the run duration
func (o *RunOutcome) Finish() *RunOutcome {
	o.Duration = time.Since(o.StartedAt)
	return o
}
