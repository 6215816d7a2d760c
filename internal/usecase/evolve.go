package usecase

import (
	"math/rand/v2"
	"time"

	"github.com/naka-gawa/wuwu/internal/domain"
)

// Rule constants for the pet's daily evolution.
const (
	foodDecay           = 5
	busyDayCommits      = 2
	busyDayFood         = 20
	followerMilestone   = 5
	starMilestone       = 10
	agingInterval       = 30 * 24 * time.Hour
	grumpyFoodBelow     = 25
	tiredFoodBelow      = 50
	lazyHealthBelow     = 40
	curiousIntelligence = 70
	motivatedKnowledge  = 60
)

// Evolve applies one run of the pet's rules to state and returns the new state.
// state is not modified. rng is only consulted when no mood threshold applies.
func Evolve(state domain.PetState, activity domain.Activity, now time.Time, rng *rand.Rand) domain.PetState {
	next := state
	s := &next.Status

	s.Food = domain.Clamp(s.Food - foodDecay)
	if activity.CommitsToday > busyDayCommits {
		s.Food = domain.Clamp(s.Food + busyDayFood)
	}
	if activity.CommitsToday > 0 {
		s.Intelligence = domain.Clamp(s.Intelligence + 1)
	}

	s.Health = domain.Clamp((s.Food + s.Intelligence) / 2)

	if activity.Followers%followerMilestone == 0 || activity.Stars%starMilestone == 0 {
		s.Knowledge = domain.Clamp(s.Knowledge + 1)
	}

	// A state that was never updated has not aged yet.
	if !state.LastUpdated.IsZero() && now.Sub(state.LastUpdated) >= agingInterval {
		next.Aging.CurrentAgeMonths += next.Aging.GrowthRatePerMonth
		s.AgeMonths = next.Aging.CurrentAgeMonths
	}

	s.Mood = chooseMood(*s, rng)

	if now.After(state.LastUpdated) {
		next.LastUpdated = now
	}

	snapshot := activity
	next.Activity = &snapshot
	return next
}

// chooseMood picks the first mood whose threshold matches, falling back to a
// uniformly random carefree mood.
func chooseMood(s domain.Status, rng *rand.Rand) domain.Mood {
	switch {
	case s.Food < grumpyFoodBelow:
		return domain.MoodGrumpy
	case s.Food < tiredFoodBelow:
		return domain.MoodTired
	case s.Health < lazyHealthBelow:
		return domain.MoodLazy
	case s.Intelligence > curiousIntelligence:
		return domain.MoodCurious
	case s.Knowledge > motivatedKnowledge:
		return domain.MoodMotivated
	}
	moods := domain.CarefreeMoods()
	return moods[rng.IntN(len(moods))]
}
