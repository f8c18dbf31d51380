package interfaces

import (
	"context"

	"github.com/postpilot-app/postpilot/pkg/domain/model"
)

// ContentGenerator produces post text from a normalized generation request.
// An empty result or an error both mean the run failed; callers never retry
// within the same tick.
type ContentGenerator interface {
	Generate(ctx context.Context, req *model.GenerationRequest) (string, error)
}

// Publisher posts generated text to LinkedIn on behalf of a user credential.
// A false result or an error both mean the publish failed; failures are
// logged, never raised to the tick loop.
type Publisher interface {
	Publish(ctx context.Context, accessToken, text string) (bool, error)
}
