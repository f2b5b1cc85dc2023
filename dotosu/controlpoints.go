package dotosu

import (
	"math"
	"sort"

	"github.com/kionell/osu-standard-stable/mutils"
)

// TimingControlPoint is an uninherited timing line.
type TimingControlPoint struct {
	Time          float64
	BeatLength    float64
	TimeSignature int
}

// DifficultyControlPoint carries the slider velocity active from Time onwards.
type DifficultyControlPoint struct {
	Time           float64
	SliderVelocity float64
	GenerateTicks  bool
}

var (
	DefaultTimingPoint     = TimingControlPoint{BeatLength: 1000, TimeSignature: 4}
	DefaultDifficultyPoint = DifficultyControlPoint{SliderVelocity: 1, GenerateTicks: true}
)

// ControlPoints is the timeline of timing lines, queryable by time.
// It is never mutated after decoding.
type ControlPoints struct {
	TimingPoints     []TimingControlPoint
	DifficultyPoints []DifficultyControlPoint
}

// NewControlPoints builds the timeline from raw timing lines.
// Every line yields a difficulty point. Inherited lines carry the velocity
// multiplier; uninherited ones reset it to 1.
func NewControlPoints(lines []TimingPoint) *ControlPoints {
	cp := &ControlPoints{}

	for _, line := range lines {
		if line.TimingChange && !math.IsNaN(line.BeatLength) {
			cp.TimingPoints = append(cp.TimingPoints, TimingControlPoint{
				Time:          line.Time,
				BeatLength:    mutils.Clamp(line.BeatLength, 6, 60000),
				TimeSignature: line.TimeSignature,
			})
		}

		sv := 1.0
		if line.BeatLength < 0 {
			sv = mutils.Clamp(100/-line.BeatLength, 0.1, 10)
		}

		cp.DifficultyPoints = append(cp.DifficultyPoints, DifficultyControlPoint{
			Time:           line.Time,
			SliderVelocity: sv,
			GenerateTicks:  !math.IsNaN(line.BeatLength),
		})
	}

	sort.SliceStable(cp.TimingPoints, func(i, j int) bool {
		return cp.TimingPoints[i].Time < cp.TimingPoints[j].Time
	})
	sort.SliceStable(cp.DifficultyPoints, func(i, j int) bool {
		return cp.DifficultyPoints[i].Time < cp.DifficultyPoints[j].Time
	})

	return cp
}

// TimingPointAt returns the timing point active at time. Times before the first
// point resolve to the first point.
func (cp *ControlPoints) TimingPointAt(time float64) TimingControlPoint {
	if len(cp.TimingPoints) == 0 {
		return DefaultTimingPoint
	}

	i := sort.Search(len(cp.TimingPoints), func(i int) bool {
		return cp.TimingPoints[i].Time > time
	})
	if i == 0 {
		return cp.TimingPoints[0]
	}
	return cp.TimingPoints[i-1]
}

// DifficultyPointAt returns the difficulty point active at time, or the default
// velocity before the first point.
func (cp *ControlPoints) DifficultyPointAt(time float64) DifficultyControlPoint {
	i := sort.Search(len(cp.DifficultyPoints), func(i int) bool {
		return cp.DifficultyPoints[i].Time > time
	})
	if i == 0 {
		return DefaultDifficultyPoint
	}
	return cp.DifficultyPoints[i-1]
}
