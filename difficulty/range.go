package difficulty

// DifficultyRange maps a 0-10 difficulty value onto a range anchored at difficulty 0, 5 and 10.
func DifficultyRange(diff, min, mid, max float64) float64 {
	if diff > 5 {
		return mid + (max-mid)*(diff-5)/5
	}
	if diff < 5 {
		return mid - (mid-min)*(5-diff)/5
	}
	return mid
}

// ApproachRateToPreempt is the preempt time in milliseconds for an approach rate.
func ApproachRateToPreempt(ar float64) float64 {
	return DifficultyRange(ar, 1800, 1200, 450)
}
