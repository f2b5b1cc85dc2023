package objects

import (
	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/dotosu"
)

type Spinner struct {
	HitObject

	EndTime           float64
	SpinsRequired     int
	MaximumBonusSpins int
}

func NewSpinner() *Spinner {
	return &Spinner{
		HitObject:         newHitObject(),
		SpinsRequired:     1,
		MaximumBonusSpins: 1,
	}
}

func (s *Spinner) GetEndTime() float64 { return s.EndTime }

func (s *Spinner) GetDuration() float64 { return s.EndTime - s.StartTime }

// SpinsRequiredForBonus is the number of spins after which bonus ticks start counting.
func (s *Spinner) SpinsRequiredForBonus() int {
	return s.SpinsRequired + 2
}

func (s *Spinner) applyDefaults(d dotosu.Difficulty) {
	secondsDuration := s.GetDuration() / 1000

	minRps := difficulty.DifficultyRange(d.OverallDifficulty, 90, 150, 225) / 60
	maxRps := difficulty.DifficultyRange(d.OverallDifficulty, 250, 380, 430) / 60

	s.SpinsRequired = int(minRps*secondsDuration + 0.0001)
	s.MaximumBonusSpins = max(0, int(maxRps*secondsDuration+0.0001)-s.SpinsRequired-2)
}

func (s *Spinner) clone() *Spinner {
	c := *s
	c.HitObject = s.cloneBase()
	return &c
}
