package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Scheduler holds CLI flags controlling the posting scheduler cadence
type Scheduler struct {
	tickInterval  time.Duration
	slotTolerance time.Duration
	runTimeout    time.Duration
	concurrency   int
	tuningFile    string
}

// Tuning is the optional TOML file overriding scheduler cadence settings.
// All fields are optional; zero values keep the flag or default value.
type Tuning struct {
	TickInterval  string `toml:"tick_interval"`
	SlotTolerance string `toml:"slot_tolerance"`
	RunTimeout    string `toml:"run_timeout"`
	Concurrency   int    `toml:"concurrency"`
}

// Flags returns CLI flags for scheduler configuration
func (s *Scheduler) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "tick-interval",
			Usage:       "Interval between scheduler ticks",
			Value:       15 * time.Minute,
			Sources:     cli.EnvVars("POSTPILOT_TICK_INTERVAL"),
			Destination: &s.tickInterval,
		},
		&cli.DurationFlag{
			Name:        "slot-tolerance",
			Usage:       "How far a tick may drift from a scheduled time and still match",
			Value:       7 * time.Minute,
			Sources:     cli.EnvVars("POSTPILOT_SLOT_TOLERANCE"),
			Destination: &s.slotTolerance,
		},
		&cli.DurationFlag{
			Name:        "run-timeout",
			Usage:       "Timeout for a single user posting run",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("POSTPILOT_RUN_TIMEOUT"),
			Destination: &s.runTimeout,
		},
		&cli.IntFlag{
			Name:        "concurrency",
			Usage:       "Maximum concurrent user runs per tick",
			Value:       8,
			Sources:     cli.EnvVars("POSTPILOT_CONCURRENCY"),
			Destination: &s.concurrency,
		},
		&cli.StringFlag{
			Name:        "tuning-file",
			Usage:       "Path to a TOML file overriding scheduler cadence settings",
			Sources:     cli.EnvVars("POSTPILOT_TUNING_FILE"),
			Destination: &s.tuningFile,
		},
	}
}

// LogValue returns log attributes for the scheduler configuration
func (s Scheduler) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Duration("tick_interval", s.tickInterval),
		slog.Duration("slot_tolerance", s.slotTolerance),
		slog.Duration("run_timeout", s.runTimeout),
		slog.Int("concurrency", s.concurrency),
		slog.String("tuning_file", s.tuningFile),
	)
}

// Configure resolves the final cadence settings, applying the tuning file
// over the flag values when one is given.
func (s *Scheduler) Configure() error {
	if s.tuningFile != "" {
		data, err := os.ReadFile(s.tuningFile)
		if err != nil {
			return goerr.Wrap(err, "failed to read tuning file", goerr.V("path", s.tuningFile))
		}

		var tuning Tuning
		if err := toml.Unmarshal(data, &tuning); err != nil {
			return goerr.Wrap(err, "failed to parse tuning file", goerr.V("path", s.tuningFile))
		}

		if err := s.apply(&tuning); err != nil {
			return goerr.Wrap(err, "invalid tuning file", goerr.V("path", s.tuningFile))
		}
	}

	if s.tickInterval <= 0 {
		return goerr.New("tick-interval must be positive", goerr.V("value", s.tickInterval))
	}
	if s.slotTolerance <= 0 {
		return goerr.New("slot-tolerance must be positive", goerr.V("value", s.slotTolerance))
	}
	if s.slotTolerance*2 < s.tickInterval {
		return goerr.New("slot tolerance window does not cover the tick interval",
			goerr.V("tick_interval", s.tickInterval),
			goerr.V("slot_tolerance", s.slotTolerance),
		)
	}
	if s.runTimeout <= 0 {
		return goerr.New("run-timeout must be positive", goerr.V("value", s.runTimeout))
	}
	if s.concurrency <= 0 {
		return goerr.New("concurrency must be positive", goerr.V("value", s.concurrency))
	}

	return nil
}

func (s *Scheduler) apply(t *Tuning) error {
	if t.TickInterval != "" {
		d, err := time.ParseDuration(t.TickInterval)
		if err != nil {
			return goerr.Wrap(err, "invalid tick_interval", goerr.V("value", t.TickInterval))
		}
		s.tickInterval = d
	}
	if t.SlotTolerance != "" {
		d, err := time.ParseDuration(t.SlotTolerance)
		if err != nil {
			return goerr.Wrap(err, "invalid slot_tolerance", goerr.V("value", t.SlotTolerance))
		}
		s.slotTolerance = d
	}
	if t.RunTimeout != "" {
		d, err := time.ParseDuration(t.RunTimeout)
		if err != nil {
			return goerr.Wrap(err, "invalid run_timeout", goerr.V("value", t.RunTimeout))
		}
		s.runTimeout = d
	}
	if t.Concurrency != 0 {
		s.concurrency = t.Concurrency
	}
	return nil
}

// TickInterval returns the resolved scheduler tick interval
func (s *Scheduler) TickInterval() time.Duration { return s.tickInterval }

// SlotTolerance returns the resolved slot matching tolerance
func (s *Scheduler) SlotTolerance() time.Duration { return s.slotTolerance }

// RunTimeout returns the resolved per-user run timeout
func (s *Scheduler) RunTimeout() time.Duration { return s.runTimeout }

// Concurrency returns the resolved per-tick concurrency limit
func (s *Scheduler) Concurrency() int { return s.concurrency }
