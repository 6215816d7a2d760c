package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/naka-gawa/wuwu/internal/domain"
	"github.com/sirupsen/logrus"
)

// StateStore loads and persists the pet state.
type StateStore interface {
	Lock() (func() error, error)
	Load() (domain.PetState, error)
	Save(state domain.PetState) error
}

// ActivitySource produces the owner's activity snapshot.
type ActivitySource interface {
	Collect(ctx context.Context, user, mainRepo string, now time.Time) (*domain.Activity, error)
}

// DocumentWriter writes the status document for a state.
type DocumentWriter interface {
	Write(state domain.PetState) error
}

// Caretaker runs one fetch, evolve, persist and render cycle.
type Caretaker struct {
	store    StateStore
	activity ActivitySource
	document DocumentWriter
	mainRepo string
	now      func() time.Time
	rng      *rand.Rand
	logger   logrus.FieldLogger
}

// NewCaretaker creates a new Caretaker instance.
// A nil now defaults to time.Now and a nil rng to a randomly seeded source.
func NewCaretaker(
	store StateStore,
	activity ActivitySource,
	document DocumentWriter,
	mainRepo string,
	now func() time.Time,
	rng *rand.Rand,
	logger logrus.FieldLogger,
) *Caretaker {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Caretaker{
		store:    store,
		activity: activity,
		document: document,
		mainRepo: mainRepo,
		now:      now,
		rng:      rng,
		logger:   logger,
	}
}

// Run performs the cycle and returns the new state.
// With dryRun set, nothing is written.
// A failed fetch aborts before any file is touched; a failed document write
// leaves the already saved state in place.
func (c *Caretaker) Run(ctx context.Context, dryRun bool) (domain.PetState, error) {
	unlock, err := c.store.Lock()
	if err != nil {
		return domain.PetState{}, err
	}
	defer func() {
		if err := unlock(); err != nil {
			c.logger.Warnf("Failed to release state lock: %v", err)
		}
	}()

	state, err := c.store.Load()
	if err != nil {
		return domain.PetState{}, err
	}

	now := c.now()
	c.logger.WithField("owner", state.Owner).Debugf("Collecting activity (main repo %s)...", c.mainRepo)
	activity, err := c.activity.Collect(ctx, state.Owner, c.mainRepo, now)
	if err != nil {
		return domain.PetState{}, fmt.Errorf("failed to fetch GitHub activity: %w", err)
	}

	next := Evolve(state, *activity, now, c.rng)
	if dryRun {
		c.logger.Info("Dry run: state and document left untouched.")
		return next, nil
	}

	if err := c.store.Save(next); err != nil {
		return domain.PetState{}, err
	}
	c.logger.Debugf("%s updated: %s | Food %d%% | Health %d%%",
		next.DisplayName(), next.Status.Mood, next.Status.Food, next.Status.Health)

	if err := c.document.Write(next); err != nil {
		return domain.PetState{}, err
	}
	return next, nil
}
