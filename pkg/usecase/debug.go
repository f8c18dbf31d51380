package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// UserInspection is a dry-run view of how the scheduler currently sees one
// user. Nothing is generated or published.
type UserInspection struct {
	UserID         types.UserID `json:"user_id"`
	AutoPosting    bool         `json:"auto_posting"`
	HasAccessToken bool         `json:"has_access_token"`
	ScheduleMode   string       `json:"schedule_mode,omitempty"`
	Timezone       string       `json:"timezone,omitempty"`
	ScheduleError  string       `json:"schedule_error,omitempty"`
	DueNow         bool         `json:"due_now"`
	MatchedSlot    string       `json:"matched_slot,omitempty"`
	SlotConsumed   bool         `json:"slot_consumed"`
	LastPostedSlot string       `json:"last_posted_slot,omitempty"`
	Template       string       `json:"template,omitempty"`
	TemplateError  string       `json:"template_error,omitempty"`
}

// Inspect evaluates a user's schedule and template state at the given time
// without side effects.
func (uc *UseCases) Inspect(ctx context.Context, userID types.UserID, now time.Time) (*UserInspection, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("userID", userID))
	}

	insp := &UserInspection{
		UserID:         user.ID,
		AutoPosting:    user.AutoPosting,
		HasAccessToken: user.HasAccessToken(),
		LastPostedSlot: user.LastPostedSlot,
	}

	if name, _, err := selectTemplate(user); err != nil {
		insp.TemplateError = err.Error()
	} else {
		insp.Template = name
	}

	schedule, err := model.ParseSchedule(user.ScheduleSettings)
	if err != nil {
		insp.ScheduleError = err.Error()
		return insp, nil
	}

	insp.ScheduleMode = schedule.Mode.String()
	insp.Timezone = schedule.Timezone
	if _, offErr := schedule.Offset(); offErr != nil {
		insp.ScheduleError = offErr.Error()
	}

	if slot, due := schedule.MatchSlot(now, uc.slotTolerance); due {
		insp.DueNow = true
		insp.MatchedSlot = slot.Key()
		insp.SlotConsumed = user.LastPostedSlot == slot.Key()
	}

	return insp, nil
}
