package performance

import (
	"github.com/kionell/osu-standard-stable/difficulty"
)

// Attributes are the precomputed difficulty attributes of a chart. Field tags follow
// the osu! API so the attributes endpoint can be decoded directly.
type Attributes struct {
	// Total star rating, visible on the beatmap page
	StarRating float64 `json:"star_rating"`

	AimStrain      float64 `json:"aim_difficulty"`
	SpeedStrain    float64 `json:"speed_difficulty"`
	SpeedNoteCount float64 `json:"speed_note_count"`

	FlashlightRating float64 `json:"flashlight_difficulty"`

	// SliderFactor is the ratio of aim calculated without sliders to aim with them
	SliderFactor float64 `json:"slider_factor"`

	ApproachRate      float64 `json:"approach_rate"`
	OverallDifficulty float64 `json:"overall_difficulty"`

	MaxCombo       int `json:"max_combo"`
	HitCircleCount int `json:"count_circles"`
	SliderCount    int `json:"count_sliders"`
	SpinnerCount   int `json:"count_spinners"`
}

type Statistics struct {
	Great int `json:"great"`
	Ok    int `json:"ok"`
	Meh   int `json:"meh"`
	Miss  int `json:"miss"`
}

func (s Statistics) TotalHits() int {
	return s.Great + s.Ok + s.Meh + s.Miss
}

// Score is the played result a performance value is computed for.
type Score struct {
	Accuracy   float64
	MaxCombo   int
	Statistics Statistics
	Mods       difficulty.Modifier
}

func (s Score) TotalHits() int {
	return s.Statistics.TotalHits()
}

// AccuracyFromStatistics is the osu!standard accuracy in [0, 1].
func AccuracyFromStatistics(s Statistics) float64 {
	total := s.TotalHits()
	if total == 0 {
		return 1
	}

	points := s.Meh*50 + s.Ok*100 + s.Great*300
	return float64(points) / float64(total*300)
}

// Results is the breakdown of a performance calculation.
type Results struct {
	Total              float64
	Aim                float64
	Speed              float64
	Accuracy           float64
	Flashlight         float64
	EffectiveMissCount float64
	Multiplier         float64
}
