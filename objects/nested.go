package objects

// SliderHead is the circle at the start of a slider.
type SliderHead struct {
	HitObject
}

type SliderTick struct {
	HitObject

	SpanIndex     int
	SpanStartTime float64
}

// SliderRepeat is the reverse arrow at the end of every span but the last.
type SliderRepeat struct {
	HitObject

	RepeatIndex     int
	SpanDuration    float64
	SliderStartTime float64
}

// SliderTail is the legacy last tick of a slider, placed at the slider's end position.
type SliderTail struct {
	HitObject

	RepeatIndex     int
	SpanDuration    float64
	SliderStartTime float64
}

type SpinnerTick struct {
	HitObject
}

type SpinnerBonusTick struct {
	HitObject
}

func (t *SliderTick) applyPreempt() {
	offset := t.TimePreempt * 0.66
	if t.SpanIndex > 0 {
		offset = 200
	}

	t.TimePreempt = (t.StartTime-t.SpanStartTime)/2 + offset
}

// applyEndPreempt is shared by repeats and the tail.
func applyEndPreempt(h *HitObject, repeatIndex int, spanDuration, sliderStartTime float64) {
	if repeatIndex > 0 {
		h.TimeFadeIn = 0
		h.TimePreempt = min(spanDuration*2, h.TimePreempt)
		return
	}

	h.TimePreempt += h.StartTime - sliderStartTime
}
