package performance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kionell/osu-standard-stable/difficulty"
)

func circleOnlyAttributes() Attributes {
	return Attributes{
		StarRating:        4.5,
		AimStrain:         2.0,
		SpeedStrain:       1.8,
		FlashlightRating:  1.5,
		ApproachRate:      9,
		OverallDifficulty: 8,
		MaxCombo:          100,
		HitCircleCount:    100,
	}
}

func fullComboScore() Score {
	return Score{
		Accuracy:   1,
		MaxCombo:   100,
		Statistics: Statistics{Great: 100},
	}
}

func TestCircleOnlyFullCombo(t *testing.T) {
	attribs := circleOnlyAttributes()

	res := NewCalculator(attribs, fullComboScore()).CalculateAttributes()

	assert.Equal(t, 0.0, res.EffectiveMissCount)
	assert.Equal(t, 1.12, res.Multiplier)

	lengthBonus := 0.95 + 0.4*100.0/2000.0
	odScale := 0.98 + 64.0/2500

	expectedAim := math.Pow(5*(2.0/0.0675)-4, 3) / 100000 * lengthBonus * odScale
	assert.InDelta(t, expectedAim, res.Aim, 1e-9)

	expectedSpeed := math.Pow(5*(1.8/0.0675)-4, 3) / 100000 * lengthBonus * (0.95 + 64.0/750)
	assert.InDelta(t, expectedSpeed, res.Speed, 1e-9)

	expectedAcc := math.Pow(1.52163, 8) * 2.83 * math.Pow(0.1, 0.3)
	assert.InDelta(t, expectedAcc, res.Accuracy, 1e-9)

	assert.Equal(t, 0.0, res.Flashlight)

	expectedTotal := math.Pow(math.Pow(res.Aim, 1.1)+math.Pow(res.Speed, 1.1)+math.Pow(res.Accuracy, 1.1), 1/1.1) * 1.12
	assert.InDelta(t, expectedTotal, res.Total, 1e-9)
}

func TestRelax(t *testing.T) {
	score := fullComboScore()
	score.Mods = difficulty.Relax
	score.Statistics = Statistics{Great: 95, Ok: 3, Meh: 2}

	calc := NewCalculator(circleOnlyAttributes(), score)
	res := calc.CalculateAttributes()

	assert.Equal(t, 0.0, res.Accuracy)
	assert.InDelta(t, 1.12*0.6, res.Multiplier, 1e-12)
	assert.Equal(t, 5.0, res.EffectiveMissCount)

	assert.Equal(t, res, calc.CalculateAttributes(), "calculation must not change the calculator")
	assert.Equal(t, res.Total, calc.Calculate())
}

func TestMissesLowerPerformance(t *testing.T) {
	attribs := circleOnlyAttributes()

	calc := func(misses int) Results {
		score := fullComboScore()
		score.Mods = difficulty.Flashlight
		score.Statistics = Statistics{Great: 100 - misses, Miss: misses}
		return NewCalculator(attribs, score).CalculateAttributes()
	}

	prev := calc(0)
	for misses := 1; misses <= 5; misses++ {
		cur := calc(misses)

		assert.Equal(t, float64(misses), cur.EffectiveMissCount)
		assert.Less(t, cur.Aim, prev.Aim)
		assert.Less(t, cur.Speed, prev.Speed)
		assert.Less(t, cur.Flashlight, prev.Flashlight)

		prev = cur
	}
}

func TestEffectiveMissCountFromCombo(t *testing.T) {
	attribs := circleOnlyAttributes()
	attribs.HitCircleCount = 60
	attribs.SliderCount = 40
	attribs.MaxCombo = 200

	score := Score{
		Accuracy:   0.97,
		MaxCombo:   50,
		Statistics: Statistics{Great: 95, Ok: 5},
	}

	res := NewCalculator(attribs, score).CalculateAttributes()

	// (200 - 4) / 50 = 3.92
	assert.Equal(t, 3.0, res.EffectiveMissCount)
}

func TestNoFailAndSpunOut(t *testing.T) {
	attribs := circleOnlyAttributes()
	attribs.HitCircleCount = 90
	attribs.SpinnerCount = 10

	score := fullComboScore()
	score.Mods = difficulty.NoFail | difficulty.SpunOut
	score.Statistics = Statistics{Great: 98, Miss: 2}

	res := NewCalculator(attribs, score).CalculateAttributes()

	expected := 1.12 * (1 - 0.02*2) * (1 - math.Pow(10.0/100.0, 0.85))
	assert.InDelta(t, expected, res.Multiplier, 1e-12)
}

func TestEmptyScoreStaysFinite(t *testing.T) {
	score := Score{Mods: difficulty.SpunOut | difficulty.Flashlight}

	res := NewCalculator(circleOnlyAttributes(), score).CalculateAttributes()

	require.False(t, math.IsNaN(res.Total))
	assert.False(t, math.IsInf(res.Total, 0))
	assert.Equal(t, 1.12, res.Multiplier)
}

func TestHiddenFlashlightBonus(t *testing.T) {
	score := fullComboScore()
	score.Mods = difficulty.Flashlight

	fl := NewCalculator(circleOnlyAttributes(), score).CalculateAttributes()

	score.Mods |= difficulty.Hidden
	hdfl := NewCalculator(circleOnlyAttributes(), score).CalculateAttributes()

	assert.InDelta(t, fl.Flashlight*1.3, hdfl.Flashlight, 1e-9)
	assert.InDelta(t, fl.Accuracy*1.08, hdfl.Accuracy, 1e-9)
}

func TestAccuracyFromStatistics(t *testing.T) {
	assert.Equal(t, 1.0, AccuracyFromStatistics(Statistics{}))
	assert.Equal(t, 1.0, AccuracyFromStatistics(Statistics{Great: 10}))
	assert.InDelta(t, (98*300.0+2*100)/30000, AccuracyFromStatistics(Statistics{Great: 98, Ok: 2}), 1e-12)
	assert.Equal(t, 0.0, AccuracyFromStatistics(Statistics{Miss: 3}))
}

func TestComponentTerms(t *testing.T) {
	lengthBonus := 0.95 + 0.4*100.0/2000.0

	type setup func(*Attributes, *Score)

	component := map[string]func(Results) float64{
		"aim":        func(r Results) float64 { return r.Aim },
		"speed":      func(r Results) float64 { return r.Speed },
		"flashlight": func(r Results) float64 { return r.Flashlight },
	}

	tests := []struct {
		name      string
		component string
		base      setup
		variant   setup
		ratio     float64
	}{
		{
			name:      "aim high approach rate",
			component: "aim",
			variant:   func(a *Attributes, _ *Score) { a.ApproachRate = 10.8 },
			ratio:     1 + 0.3*(10.8-10.33)*lengthBonus,
		},
		{
			name:      "speed high approach rate",
			component: "speed",
			variant:   func(a *Attributes, _ *Score) { a.ApproachRate = 10.8 },
			ratio:     1 + 0.3*(10.8-10.33)*lengthBonus,
		},
		{
			name:      "aim low approach rate",
			component: "aim",
			variant:   func(a *Attributes, _ *Score) { a.ApproachRate = 5 },
			ratio:     1 + 0.1*3*lengthBonus,
		},
		{
			name:      "speed ignores low approach rate",
			component: "speed",
			variant:   func(a *Attributes, _ *Score) { a.ApproachRate = 5 },
			ratio:     1,
		},
		{
			name:      "slider nerf",
			component: "aim",
			base: func(a *Attributes, s *Score) {
				a.HitCircleCount, a.SliderCount, a.MaxCombo, a.SliderFactor = 60, 40, 140, 1
				s.MaxCombo = 137
				s.Statistics = Statistics{Great: 97, Ok: 3}
			},
			variant: func(a *Attributes, _ *Score) { a.SliderFactor = 0.8 },
			// 3 of 6 estimated difficult slider ends dropped
			ratio: 0.2*math.Pow(0.5, 3) + 0.8,
		},
		{
			name:      "touch device aim",
			component: "aim",
			variant:   func(_ *Attributes, s *Score) { s.Mods |= difficulty.TouchDevice },
			ratio:     strainToPerformance(math.Pow(2.0, 0.8)) / strainToPerformance(2.0),
		},
		{
			name:      "touch device leaves speed",
			component: "speed",
			variant:   func(_ *Attributes, s *Score) { s.Mods |= difficulty.TouchDevice },
			ratio:     1,
		},
		{
			name:      "touch device flashlight",
			component: "flashlight",
			base:      func(_ *Attributes, s *Score) { s.Mods = difficulty.Flashlight },
			variant:   func(_ *Attributes, s *Score) { s.Mods |= difficulty.TouchDevice },
			ratio:     math.Pow(1.5, 2*0.8) / math.Pow(1.5, 2),
		},
		{
			name:      "excess mehs",
			component: "speed",
			base:      func(_ *Attributes, s *Score) { s.Statistics = Statistics{Great: 90, Ok: 10} },
			variant:   func(_ *Attributes, s *Score) { s.Statistics = Statistics{Great: 90, Meh: 10} },
			ratio:     math.Pow(0.98, 10-100.0/500),
		},
		{
			name:      "mehs under the allowance",
			component: "speed",
			base: func(a *Attributes, s *Score) {
				a.HitCircleCount, a.MaxCombo = 1000, 1000
				s.MaxCombo = 1000
				s.Statistics = Statistics{Great: 1000}
			},
			variant: func(_ *Attributes, s *Score) { s.Statistics = Statistics{Great: 999, Meh: 1} },
			ratio:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attribs, score := circleOnlyAttributes(), fullComboScore()
			if tt.base != nil {
				tt.base(&attribs, &score)
			}
			base := NewCalculator(attribs, score).CalculateAttributes()

			tt.variant(&attribs, &score)
			variant := NewCalculator(attribs, score).CalculateAttributes()

			get := component[tt.component]
			require.Positive(t, get(base))
			assert.InDelta(t, tt.ratio, get(variant)/get(base), 1e-12)
		})
	}
}

func TestLengthBonusAboveTwoThousandHits(t *testing.T) {
	attribs := circleOnlyAttributes()
	attribs.HitCircleCount = 4000
	attribs.MaxCombo = 4000

	score := Score{Accuracy: 1, MaxCombo: 4000, Statistics: Statistics{Great: 4000}}

	res := NewCalculator(attribs, score).CalculateAttributes()

	lengthBonus := 0.95 + 0.4 + 0.5*math.Log10(2)
	expectedAim := strainToPerformance(2.0) * lengthBonus * (0.98 + 64.0/2500)
	assert.InDelta(t, expectedAim, res.Aim, 1e-9)

	expectedSpeed := strainToPerformance(1.8) * lengthBonus * (0.95 + 64.0/750)
	assert.InDelta(t, expectedSpeed, res.Speed, 1e-9)
}

func TestFlashlightDurationScale(t *testing.T) {
	odScale := 0.98 + 64.0/2500

	tests := []struct {
		hits  int
		scale float64
	}{
		{100, 0.75},
		{200, 0.8},
		{300, 0.9},
		{400, 1.0},
		{1000, 1.0},
	}

	for _, tt := range tests {
		attribs := circleOnlyAttributes()
		attribs.HitCircleCount = tt.hits
		attribs.MaxCombo = tt.hits

		score := Score{
			Accuracy:   1,
			MaxCombo:   tt.hits,
			Statistics: Statistics{Great: tt.hits},
			Mods:       difficulty.Flashlight,
		}

		res := NewCalculator(attribs, score).CalculateAttributes()

		expected := 1.5 * 1.5 * 25 * tt.scale * odScale
		assert.InDelta(t, expected, res.Flashlight, 1e-9, "%d hits", tt.hits)
	}
}
