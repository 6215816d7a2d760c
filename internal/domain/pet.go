// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultName is used when the state file does not name the pet.
const DefaultName = "Wuwu"

// MaxStat is the upper bound of every percentage stat.
const MaxStat = 100

// ErrInvalidState is returned when a persisted pet state breaks an invariant.
var ErrInvalidState = errors.New("invalid pet state")

// Mood is a categorical label derived from the pet's stats.
type Mood string

const (
	MoodGrumpy    Mood = "grumpy"
	MoodTired     Mood = "tired"
	MoodLazy      Mood = "lazy"
	MoodCurious   Mood = "curious"
	MoodMotivated Mood = "motivated"
	MoodChill     Mood = "chill"
	MoodEnergetic Mood = "energetic"
	MoodHappy     Mood = "happy"
)

var carefreeMoods = [...]Mood{MoodChill, MoodEnergetic, MoodHappy}

// CarefreeMoods returns the moods drawn at random when no stat threshold applies.
func CarefreeMoods() []Mood {
	moods := carefreeMoods
	return moods[:]
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	switch m {
	case MoodGrumpy, MoodTired, MoodLazy, MoodCurious, MoodMotivated,
		MoodChill, MoodEnergetic, MoodHappy:
		return true
	}
	return false
}

// Status holds the pet's vital stats.
type Status struct {
	Food         int  `json:"food"`
	Health       int  `json:"health"`
	Intelligence int  `json:"intelligence"`
	Knowledge    int  `json:"knowledge"`
	Mood         Mood `json:"mood"`
	AgeMonths    int  `json:"age_months"`
}

// Aging tracks the monthly growth counter, independent of the stat scale.
type Aging struct {
	CurrentAgeMonths   int `json:"current_age_months"`
	GrowthRatePerMonth int `json:"growth_rate_per_month"`
}

// Activity is the last observed snapshot of the owner's GitHub activity.
type Activity struct {
	CommitsToday int `json:"commitsToday"`
	Followers    int `json:"followers"`
	Stars        int `json:"stars"`
	TotalRepos   int `json:"totalRepos"`
}

// PetState is the single persisted entity of the application.
type PetState struct {
	Name        string    `json:"name,omitempty"`
	Owner       string    `json:"owner"`
	Status      Status    `json:"status"`
	Aging       Aging     `json:"aging"`
	Activity    *Activity `json:"activity,omitempty"`
	LastUpdated time.Time `json:"last_updated"`

	// extra keeps keys this version does not know so a rewrite does not drop them.
	extra map[string]json.RawMessage
}

// knownKeys are the top-level keys decoded into PetState fields.
var knownKeys = []string{"name", "owner", "status", "aging", "activity", "last_updated"}

type petStateFields PetState

// UnmarshalJSON decodes a state, keeping unknown top-level keys.
// An empty or missing last_updated decodes as the zero time.
func (p *PetState) UnmarshalJSON(data []byte) error {
	var wire struct {
		petStateFields
		LastUpdated string `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*p = PetState(wire.petStateFields)

	if wire.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339, wire.LastUpdated)
		if err != nil {
			return fmt.Errorf("%w: last_updated %q is not an RFC 3339 timestamp", ErrInvalidState, wire.LastUpdated)
		}
		p.LastUpdated = t
	}

	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}
	for _, key := range knownKeys {
		delete(all, key)
	}
	if len(all) > 0 {
		p.extra = all
	}
	return nil
}

// MarshalJSON encodes the state together with any unknown keys it was loaded with.
func (p PetState) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(petStateFields(p))
	if err != nil || len(p.extra) == 0 {
		return data, err
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for key, value := range p.extra {
		all[key] = value
	}
	return json.Marshal(all)
}

// DisplayName returns the pet's name, falling back to DefaultName.
func (p PetState) DisplayName() string {
	if p.Name == "" {
		return DefaultName
	}
	return p.Name
}

// Validate checks the invariants a loaded state must satisfy.
// An empty mood is accepted so that a freshly seeded file can be evolved.
func (p PetState) Validate() error {
	if p.Owner == "" {
		return fmt.Errorf("%w: owner is empty", ErrInvalidState)
	}
	stats := []struct {
		name  string
		value int
	}{
		{"food", p.Status.Food},
		{"health", p.Status.Health},
		{"intelligence", p.Status.Intelligence},
		{"knowledge", p.Status.Knowledge},
	}
	for _, s := range stats {
		if s.value < 0 || s.value > MaxStat {
			return fmt.Errorf("%w: %s=%d is outside [0,%d]", ErrInvalidState, s.name, s.value, MaxStat)
		}
	}
	if p.Status.Mood != "" && !p.Status.Mood.Valid() {
		return fmt.Errorf("%w: unknown mood %q", ErrInvalidState, p.Status.Mood)
	}
	if p.Status.AgeMonths < 0 || p.Aging.CurrentAgeMonths < 0 || p.Aging.GrowthRatePerMonth < 0 {
		return fmt.Errorf("%w: age and growth rate must not be negative", ErrInvalidState)
	}
	return nil
}

// Clamp bounds v to the percentage scale.
func Clamp(v int) int {
	return max(0, min(MaxStat, v))
}
