package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/postpilot-app/postpilot/pkg/cli/config"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
	"github.com/postpilot-app/postpilot/pkg/service/generator"
	"github.com/postpilot-app/postpilot/pkg/usecase"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdPost() *cli.Command {
	var userID string
	var force bool
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var linkedinCfg config.LinkedIn

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Usage:       "User to post for",
			Required:    true,
			Sources:     cli.EnvVars("POSTPILOT_USER_ID"),
			Destination: &userID,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "Post even when auto-posting is disabled for the user",
			Destination: &force,
		},
	}

	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, linkedinCfg.Flags()...)

	return &cli.Command{
		Name:  "post",
		Usage: "Generate and publish one post for a user immediately",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			llmClient, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini client")
			}

			uc := usecase.New(repo,
				usecase.WithGenerator(generator.New(llmClient)),
				usecase.WithPublisher(linkedinCfg.Configure()),
			)

			outcome, err := uc.RunManual(ctx, types.UserID(userID), force)
			if err != nil {
				return goerr.Wrap(err, "failed to run manual post", goerr.V("user_id", userID))
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(outcome); err != nil {
				return goerr.Wrap(err, "failed to encode outcome")
			}

			if !outcome.Published {
				return goerr.New("post was not published",
					goerr.V("user_id", userID),
					goerr.V("skip_reason", outcome.SkipReason),
				)
			}

			return nil
		},
	}
}
