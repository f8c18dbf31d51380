package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/postpilot-app/postpilot/pkg/cli/config"
	httpctrl "github.com/postpilot-app/postpilot/pkg/controller/http"
	"github.com/postpilot-app/postpilot/pkg/service/generator"
	"github.com/postpilot-app/postpilot/pkg/service/scheduler"
	"github.com/postpilot-app/postpilot/pkg/usecase"
	"github.com/postpilot-app/postpilot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var linkedinCfg config.LinkedIn
	var schedCfg config.Scheduler

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("POSTPILOT_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, linkedinCfg.Flags()...)
	flags = append(flags, schedCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server and the posting scheduler",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if err := schedCfg.Configure(); err != nil {
				return goerr.Wrap(err, "failed to configure scheduler")
			}

			// Initialize repository based on backend type
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
			if llmClient == nil {
				logging.Default().Warn("Gemini project not configured, content generation will fail")
			}

			uc := usecase.New(repo,
				usecase.WithGenerator(generator.New(llmClient)),
				usecase.WithPublisher(linkedinCfg.Configure()),
				usecase.WithSlotTolerance(schedCfg.SlotTolerance()),
				usecase.WithRunTimeout(schedCfg.RunTimeout()),
				usecase.WithConcurrency(schedCfg.Concurrency()),
			)

			sched := scheduler.New(func(ctx context.Context, now time.Time) {
				// RunTick logs its own load failures and ends the tick early
				_, _ = uc.RunTick(ctx, now)
			}, schedCfg.TickInterval())

			if err := sched.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start scheduler")
			}
			logging.Default().Info("Scheduler started", "config", schedCfg)

			httpHandler := httpctrl.New(uc, httpctrl.WithScheduler(sched))
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				sched.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop the scheduler first so no tick is cut off mid-publish
				sched.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
