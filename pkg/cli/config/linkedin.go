package config

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/postpilot-app/postpilot/pkg/service/linkedin"
	"github.com/urfave/cli/v3"
)

// LinkedIn holds CLI flags for the LinkedIn API client
type LinkedIn struct {
	baseURL string
	timeout time.Duration
}

// Flags returns CLI flags for LinkedIn configuration
func (l *LinkedIn) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "linkedin-base-url",
			Usage:       "Base URL of the LinkedIn API (override for testing)",
			Value:       "https://api.linkedin.com",
			Sources:     cli.EnvVars("POSTPILOT_LINKEDIN_BASE_URL"),
			Destination: &l.baseURL,
		},
		&cli.DurationFlag{
			Name:        "linkedin-timeout",
			Usage:       "HTTP timeout for LinkedIn API calls",
			Value:       15 * time.Second,
			Sources:     cli.EnvVars("POSTPILOT_LINKEDIN_TIMEOUT"),
			Destination: &l.timeout,
		},
	}
}

// LogValue returns log attributes for the LinkedIn configuration
func (l LinkedIn) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("base_url", l.baseURL),
		slog.Duration("timeout", l.timeout),
	)
}

// Configure builds the LinkedIn publishing service
func (l *LinkedIn) Configure() *linkedin.Service {
	return linkedin.New(
		linkedin.WithBaseURL(l.baseURL),
		linkedin.WithHTTPClient(&http.Client{Timeout: l.timeout}),
	)
}
