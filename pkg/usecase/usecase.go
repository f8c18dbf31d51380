package usecase

import (
	"time"

	"github.com/postpilot-app/postpilot/pkg/domain/interfaces"
)

const (
	// defaultSlotTolerance pairs with a 15 minute tick cadence: each tick
	// owns an inclusive 15 minute window, so windows are disjoint and
	// gapless and every slot is claimed by exactly one tick.
	defaultSlotTolerance = 7 * time.Minute

	defaultRunTimeout  = 30 * time.Second
	defaultConcurrency = 8
)

type UseCases struct {
	repo      interfaces.Repository
	generator interfaces.ContentGenerator
	publisher interfaces.Publisher

	slotTolerance time.Duration
	runTimeout    time.Duration
	concurrency   int
}

type Option func(*UseCases)

func WithGenerator(g interfaces.ContentGenerator) Option {
	return func(uc *UseCases) {
		uc.generator = g
	}
}

func WithPublisher(p interfaces.Publisher) Option {
	return func(uc *UseCases) {
		uc.publisher = p
	}
}

func WithSlotTolerance(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.slotTolerance = d
	}
}

func WithRunTimeout(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.runTimeout = d
	}
}

func WithConcurrency(n int) Option {
	return func(uc *UseCases) {
		uc.concurrency = n
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:          repo,
		slotTolerance: defaultSlotTolerance,
		runTimeout:    defaultRunTimeout,
		concurrency:   defaultConcurrency,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
