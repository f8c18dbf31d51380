package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/utils/errutil"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// TickSummary aggregates the outcomes of one scheduler tick
type TickSummary struct {
	At        time.Time           `json:"at"`
	Evaluated int                 `json:"evaluated"`
	Published int                 `json:"published"`
	Skipped   int                 `json:"skipped"`
	Failed    int                 `json:"failed"`
	Outcomes  []*model.RunOutcome `json:"-"`
}

// RunTick evaluates every auto-posting user against the tick time. Users are
// processed concurrently with a bounded worker count; one user's failure
// never stops the others.
func (uc *UseCases) RunTick(ctx context.Context, now time.Time) (*TickSummary, error) {
	logger := logging.From(ctx)

	users, err := uc.repo.User().ListAutoPosting(ctx)
	if err != nil {
		// The tick ends early; the next tick retries the load
		return nil, errutil.Handle(ctx, goerr.Wrap(err, "failed to list auto-posting users"), "Posting tick aborted")
	}

	summary := &TickSummary{
		At:        now,
		Evaluated: len(users),
		Outcomes:  make([]*model.RunOutcome, len(users)),
	}

	var eg errgroup.Group
	eg.SetLimit(uc.concurrency)

	for i, user := range users {
		eg.Go(func() error {
			summary.Outcomes[i] = uc.RunScheduled(ctx, user, now)
			return nil
		})
	}
	// Workers never return errors; failures live in the outcomes
	_ = eg.Wait()

	for _, outcome := range summary.Outcomes {
		switch {
		case outcome.Published:
			summary.Published++
		case outcome.Err != "":
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	logger.Info("Posting tick completed",
		"at", now,
		"evaluated", summary.Evaluated,
		"published", summary.Published,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)

	return summary, nil
}

// RunScheduled runs the full scheduled pipeline for one user: precondition
// checks, schedule matching, slot dedup, generation, publish, and the durable
// slot marker. It never returns an error; everything lands in the outcome.
func (uc *UseCases) RunScheduled(ctx context.Context, user *model.User, now time.Time) *model.RunOutcome {
	logger := logging.From(ctx).With("userID", user.ID, "trigger", types.TriggerScheduled)
	outcome := model.NewRunOutcome(user.ID, types.TriggerScheduled)
	defer outcome.Finish()

	if !user.AutoPosting {
		outcome.SkipReason = model.SkipAutomationOff
		return outcome
	}
	if !user.HasAccessToken() {
		outcome.SkipReason = model.SkipNoAccessToken
		logger.Warn("Skipping user without access token")
		return outcome
	}

	schedule, err := model.ParseSchedule(user.ScheduleSettings)
	if err != nil {
		outcome.SkipReason = model.SkipNoSchedule
		logger.Warn("Skipping user with unusable schedule", logging.ErrAttr(err))
		return outcome
	}
	if _, offErr := schedule.Offset(); offErr != nil {
		logger.Warn("Schedule timezone is malformed, using UTC", logging.ErrAttr(offErr))
	}

	slot, due := schedule.MatchSlot(now, uc.slotTolerance)
	if !due {
		outcome.SkipReason = model.SkipNotDue
		return outcome
	}
	outcome.MatchedSlot = slot.Key()

	if user.LastPostedSlot == slot.Key() {
		outcome.SkipReason = model.SkipSlotConsumed
		return outcome
	}

	uc.generateAndPublish(ctx, user, outcome)

	if outcome.Published {
		if err := uc.repo.User().UpdateLastPostedSlot(ctx, user.ID, slot.Key()); err != nil {
			// The post went out; a lost marker risks a duplicate next tick,
			// so it must be loud in the logs.
			logger.Error("Failed to record posted slot after publish",
				"slot", slot.Key(),
				logging.ErrAttr(err),
			)
		}
	}

	return outcome
}

// RunManual publishes for one user right now, outside the schedule. Manual
// runs never consume schedule slots. Without force, the user's automation
// switch still gates the run.
func (uc *UseCases) RunManual(ctx context.Context, userID types.UserID, force bool) (*model.RunOutcome, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load user", goerr.V("userID", userID))
	}

	outcome := model.NewRunOutcome(user.ID, types.TriggerManual)
	defer outcome.Finish()

	if !user.AutoPosting && !force {
		outcome.SkipReason = model.SkipAutomationOff
		return outcome, nil
	}
	if !user.HasAccessToken() {
		outcome.SkipReason = model.SkipNoAccessToken
		return outcome, nil
	}

	uc.generateAndPublish(ctx, user, outcome)

	return outcome, nil
}

// generateAndPublish runs template selection, content generation and the
// publish call under the per-run timeout, recovering from panics in either
// collaborator.
func (uc *UseCases) generateAndPublish(ctx context.Context, user *model.User, outcome *model.RunOutcome) {
	logger := logging.From(ctx).With("userID", user.ID, "runID", outcome.RunID)

	runCtx, cancel := context.WithTimeout(ctx, uc.runTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			if outcome.Generated {
				outcome.Err = "panic during publish"
			} else {
				outcome.SkipReason = model.SkipGenerationFailed
				outcome.Err = "panic during generation"
			}
			logger.Error("panic during posting run", "panic", r)
		}
	}()

	name, req, err := selectTemplate(user)
	if err != nil {
		outcome.SkipReason = model.SkipNoTemplate
		outcome.Err = err.Error()
		logger.Warn("Skipping user with unusable templates", logging.ErrAttr(err))
		return
	}
	outcome.Template = name

	text, err := uc.generator.Generate(runCtx, req)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			outcome.SkipReason = model.SkipTimeout
		} else {
			outcome.SkipReason = model.SkipGenerationFailed
		}
		outcome.Err = err.Error()
		logger.Error("Content generation failed", "template", name, logging.ErrAttr(err))
		return
	}
	outcome.Generated = true

	published, err := uc.publisher.Publish(runCtx, user.AccessToken, text)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			outcome.SkipReason = model.SkipTimeout
		}
		outcome.Err = err.Error()
		logger.Error("Publish failed", logging.ErrAttr(err))
		return
	}
	if !published {
		outcome.Err = "publisher reported failure"
		logger.Error("Publish reported failure")
		return
	}

	outcome.Published = true
	logger.Info("Published post", "template", name, "length", len(text))
}
