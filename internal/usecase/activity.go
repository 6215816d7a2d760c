// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"time"

	"github.com/naka-gawa/wuwu/internal/domain"
	"github.com/naka-gawa/wuwu/internal/gateway"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ActivityCollector reduces the owner's GitHub data to an activity snapshot.
type ActivityCollector struct {
	fetcher gateway.Fetcher
	logger  logrus.FieldLogger
}

// NewActivityCollector creates a new ActivityCollector instance.
func NewActivityCollector(fetcher gateway.Fetcher, logger logrus.FieldLogger) *ActivityCollector {
	return &ActivityCollector{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Collect fetches the three lookups concurrently and combines them.
// Commits are push events created on now's calendar day in now's location.
// Any failed lookup fails the whole collection.
func (c *ActivityCollector) Collect(ctx context.Context, user, mainRepo string, now time.Time) (*domain.Activity, error) {
	owner, name, err := gateway.ParseRepo(mainRepo)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("Usecase: Starting activity collection...")

	dayStart := startOfDay(now)
	var (
		pushTimes []time.Time
		profile   *gateway.Profile
		stars     int
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		pushTimes, err = c.fetcher.FetchPushEventTimes(egCtx, user, dayStart)
		return err
	})

	eg.Go(func() error {
		var err error
		profile, err = c.fetcher.FetchProfile(egCtx, user)
		return err
	})

	eg.Go(func() error {
		var err error
		stars, err = c.fetcher.FetchRepoStars(egCtx, owner, name)
		return err
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	commits := 0
	for _, t := range pushTimes {
		if sameDay(t.In(now.Location()), now) {
			commits++
		}
	}

	c.logger.Debug("Usecase: Activity collection complete.")
	return &domain.Activity{
		CommitsToday: commits,
		Followers:    profile.Followers,
		Stars:        stars,
		TotalRepos:   profile.PublicRepos,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
