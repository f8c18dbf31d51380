package config

import "time"

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewSchedulerForTest creates a Scheduler config for testing purposes
func NewSchedulerForTest(tickInterval, slotTolerance, runTimeout time.Duration, concurrency int, tuningFile string) *Scheduler {
	return &Scheduler{
		tickInterval:  tickInterval,
		slotTolerance: slotTolerance,
		runTimeout:    runTimeout,
		concurrency:   concurrency,
		tuningFile:    tuningFile,
	}
}
