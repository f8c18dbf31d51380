package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/postpilot-app/postpilot/pkg/cli/config"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/usecase"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdInspect() *cli.Command {
	var userID string
	var at string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User to inspect",
			Required:    true,
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "at",
			Usage:       "Evaluate the schedule at this RFC3339 instant instead of now",
			Destination: &at,
		},
	}

	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Show how the scheduler currently sees a user, without posting",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return goerr.Wrap(err, "invalid --at value", goerr.V("at", at))
				}
				now = t.UTC()
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)

			insp, err := uc.Inspect(ctx, types.UserID(userID), now)
			if err != nil {
				return goerr.Wrap(err, "failed to inspect user", goerr.V("user_id", userID))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(insp); err != nil {
				return goerr.Wrap(err, "failed to encode inspection")
			}

			return nil
		},
	}
}
