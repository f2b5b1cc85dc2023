package performance

import (
	"math"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/mutils"
)

const PerformanceBaseMultiplier float64 = 1.12

// Calculator computes the performance value of a single score.
type Calculator struct {
	attribs Attributes
	mods    difficulty.Modifier

	accuracy      float64
	scoreMaxCombo int
	countGreat    int
	countOk       int
	countMeh      int
	countMiss     int
	totalHits     int

	effectiveMissCount float64
}

func NewCalculator(attribs Attributes, score Score) *Calculator {
	c := &Calculator{
		attribs:       attribs,
		mods:          score.Mods,
		accuracy:      mutils.Clamp(score.Accuracy, 0, 1),
		scoreMaxCombo: score.MaxCombo,
		countGreat:    score.Statistics.Great,
		countOk:       score.Statistics.Ok,
		countMeh:      score.Statistics.Meh,
		countMiss:     score.Statistics.Miss,
		totalHits:     score.TotalHits(),
	}

	c.effectiveMissCount = c.calculateEffectiveMissCount()

	return c
}

// Calculate returns the total performance value.
func (c *Calculator) Calculate() float64 {
	return c.CalculateAttributes().Total
}

// CalculateAttributes returns the total along with every component. The calculator
// is not modified, so repeated calls return the same values.
func (c *Calculator) CalculateAttributes() Results {
	missCount := c.effectiveMissCount

	multiplier := PerformanceBaseMultiplier

	if c.mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*missCount)
	}

	if c.mods.Active(difficulty.SpunOut) && c.totalHits > 0 {
		multiplier *= 1.0 - math.Pow(float64(c.attribs.SpinnerCount)/float64(c.totalHits), 0.85)
	}

	if c.mods.Active(difficulty.Relax) {
		// Oks and mehs on top of the combo estimate can exceed the total hits.
		missCount = min(missCount+float64(c.countOk)+float64(c.countMeh), float64(c.totalHits))

		multiplier *= 0.6
	}

	aimValue := c.computeAimValue(missCount)
	speedValue := c.computeSpeedValue(missCount)
	accuracyValue := c.computeAccuracyValue()
	flashlightValue := c.computeFlashlightValue(missCount)

	totalValue := math.Pow(
		math.Pow(aimValue, 1.1)+
			math.Pow(speedValue, 1.1)+
			math.Pow(accuracyValue, 1.1)+
			math.Pow(flashlightValue, 1.1),
		1.0/1.1,
	) * multiplier

	return Results{
		Total:              totalValue,
		Aim:                aimValue,
		Speed:              speedValue,
		Accuracy:           accuracyValue,
		Flashlight:         flashlightValue,
		EffectiveMissCount: missCount,
		Multiplier:         multiplier,
	}
}

func (c *Calculator) computeAimValue(missCount float64) float64 {
	rawAim := c.attribs.AimStrain

	if c.mods.Active(difficulty.TouchDevice) {
		rawAim = math.Pow(rawAim, 0.8)
	}

	aimValue := strainToPerformance(rawAim)

	// Longer maps are worth more
	lengthBonus := c.lengthBonus()
	aimValue *= lengthBonus

	// Default a 3% reduction for any # of misses
	if missCount > 0 {
		aimValue *= 0.97 * math.Pow(1-math.Pow(missCount/float64(c.totalHits), 0.775), missCount)
	}

	aimValue *= c.comboScalingFactor()

	approachRateFactor := 0.0
	if c.attribs.ApproachRate > 10.33 {
		approachRateFactor = 0.3 * (c.attribs.ApproachRate - 10.33)
	} else if c.attribs.ApproachRate < 8.0 {
		approachRateFactor = 0.1 * (8.0 - c.attribs.ApproachRate)
	}

	aimValue *= 1.0 + approachRateFactor*lengthBonus

	// Rewards lower AR under hidden
	if c.mods.Active(difficulty.Hidden) {
		aimValue *= 1.0 + 0.04*(12.0-c.attribs.ApproachRate)
	}

	// We assume 15% of sliders in a map are difficult since there's no way to tell from the performance calculator.
	estimateDifficultSliders := float64(c.attribs.SliderCount) * 0.15

	if c.attribs.SliderCount > 0 {
		dropped := float64(min(c.countOk+c.countMeh+c.countMiss, c.attribs.MaxCombo-c.scoreMaxCombo))
		estimateSliderEndsDropped := min(max(dropped, 0), estimateDifficultSliders)
		sliderNerfFactor := (1-c.attribs.SliderFactor)*math.Pow(1-estimateSliderEndsDropped/estimateDifficultSliders, 3) + c.attribs.SliderFactor
		aimValue *= sliderNerfFactor
	}

	aimValue *= c.accuracy
	aimValue *= 0.98 + math.Pow(c.attribs.OverallDifficulty, 2)/2500

	return aimValue
}

func (c *Calculator) computeSpeedValue(missCount float64) float64 {
	speedValue := strainToPerformance(c.attribs.SpeedStrain)

	lengthBonus := c.lengthBonus()
	speedValue *= lengthBonus

	if missCount > 0 {
		speedValue *= c.missPenalty(missCount)
	}

	speedValue *= c.comboScalingFactor()

	approachRateFactor := 0.0
	if c.attribs.ApproachRate > 10.33 {
		approachRateFactor = 0.3 * (c.attribs.ApproachRate - 10.33)
	}

	speedValue *= 1.0 + approachRateFactor*lengthBonus

	if c.mods.Active(difficulty.Hidden) {
		speedValue *= 1.0 + 0.04*(12.0-c.attribs.ApproachRate)
	}

	od := c.attribs.OverallDifficulty
	speedValue *= (0.95 + math.Pow(od, 2)/750) * math.Pow(c.accuracy, (14.5-max(od, 8))/2)

	// Scale the speed value with # of 50s to punish doubletapping.
	excessMehs := 0.0
	if float64(c.countMeh) >= float64(c.totalHits)/500.0 {
		excessMehs = float64(c.countMeh) - float64(c.totalHits)/500.0
	}

	speedValue *= math.Pow(0.98, excessMehs)

	return speedValue
}

func (c *Calculator) computeAccuracyValue() float64 {
	if c.mods.Active(difficulty.Relax) {
		return 0.0
	}

	// Only circles are judged purely on the hit window.
	circles := c.attribs.HitCircleCount

	betterAccuracyPercentage := 0.0
	if circles > 0 {
		greats := c.countGreat - (c.totalHits - circles)
		betterAccuracyPercentage = float64(greats*6+c.countOk*2+c.countMeh) / float64(circles*6)
	}

	betterAccuracyPercentage = max(0, betterAccuracyPercentage)

	accuracyValue := math.Pow(1.52163, c.attribs.OverallDifficulty) * math.Pow(betterAccuracyPercentage, 24) * 2.83

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(float64(circles)/1000.0, 0.3))

	if c.mods.Active(difficulty.Hidden) {
		accuracyValue *= 1.08
	}

	if c.mods.Active(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	return accuracyValue
}

func (c *Calculator) computeFlashlightValue(missCount float64) float64 {
	if !c.mods.Active(difficulty.Flashlight) {
		return 0.0
	}

	rawFlashlight := c.attribs.FlashlightRating

	if c.mods.Active(difficulty.TouchDevice) {
		rawFlashlight = math.Pow(rawFlashlight, 0.8)
	}

	flashlightValue := math.Pow(rawFlashlight, 2.0) * 25.0

	if c.mods.Active(difficulty.Hidden) {
		flashlightValue *= 1.3
	}

	if missCount > 0 {
		flashlightValue *= c.missPenalty(missCount)
	}

	flashlightValue *= c.comboScalingFactor()

	// Account for shorter maps having a higher ratio of 0 combo/100 combo flashlight radius.
	scale := 0.7 + 0.1*min(1.0, float64(c.totalHits)/200.0)
	if c.totalHits > 200 {
		scale += 0.2 * min(1.0, float64(c.totalHits-200)/200.0)
	}

	flashlightValue *= scale

	flashlightValue *= 0.5 + c.accuracy/2.0
	flashlightValue *= 0.98 + math.Pow(c.attribs.OverallDifficulty, 2)/2500

	return flashlightValue
}

func (c *Calculator) calculateEffectiveMissCount() float64 {
	// guess the number of misses + slider breaks from combo
	comboBasedMissCount := 0.0

	if c.attribs.SliderCount > 0 {
		fullComboThreshold := float64(c.attribs.MaxCombo) - 0.1*float64(c.attribs.SliderCount)
		if float64(c.scoreMaxCombo) < fullComboThreshold {
			comboBasedMissCount = fullComboThreshold / max(1.0, float64(c.scoreMaxCombo))
		}
	}

	comboBasedMissCount = min(comboBasedMissCount, float64(c.totalHits))

	return max(float64(c.countMiss), math.Floor(comboBasedMissCount))
}

func (c *Calculator) lengthBonus() float64 {
	bonus := 0.95 + 0.4*min(1.0, float64(c.totalHits)/2000.0)
	if c.totalHits > 2000 {
		bonus += math.Log10(float64(c.totalHits)/2000.0) * 0.5
	}
	return bonus
}

// missPenalty is the shared speed and flashlight penalty.
func (c *Calculator) missPenalty(missCount float64) float64 {
	return 0.97 * math.Pow(1-math.Pow(missCount/float64(c.totalHits), 0.775), math.Pow(missCount, 0.875))
}

func (c *Calculator) comboScalingFactor() float64 {
	if c.attribs.MaxCombo <= 0 {
		return 1.0
	}
	return min(math.Pow(float64(c.scoreMaxCombo), 0.8)/math.Pow(float64(c.attribs.MaxCombo), 0.8), 1.0)
}

func strainToPerformance(strain float64) float64 {
	return math.Pow(5.0*max(1.0, strain/0.0675)-4.0, 3.0) / 100000.0
}
