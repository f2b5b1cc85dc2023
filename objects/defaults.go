package objects

import (
	"fmt"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/mutils"
)

// ApplyDefaults derives the difficulty dependent state of h, regenerates its nested
// objects and applies defaults to each of them. It is meant to run once per object.
func ApplyDefaults(h IHitObject, cp *dotosu.ControlPoints, d dotosu.Difficulty) {
	applyDefaultsToSelf(h, cp, d)

	base := h.GetBase()
	base.Nested = CreateNested(h)

	if s, ok := h.(*Slider); ok {
		s.updateNestedSamples()
	}

	for _, n := range base.Nested {
		ApplyDefaults(n, cp, d)
	}
}

// CreateNested returns a freshly generated list of nested objects for h.
func CreateNested(h IHitObject) []IHitObject {
	switch o := h.(type) {
	case *Slider:
		return GenerateSliderTicks(o)
	case *Spinner:
		return GenerateSpinnerTicks(o)
	}
	return nil
}

func applyDefaultsToSelf(h IHitObject, cp *dotosu.ControlPoints, d dotosu.Difficulty) {
	base := h.GetBase()

	base.TimePreempt = mutils.Fround(difficulty.ApproachRateToPreempt(d.ApproachRate))
	base.TimeFadeIn = 400 * min(1, base.TimePreempt/PreemptMin)

	s := mutils.Fround(mutils.Fround(0.7) * mutils.Fround(d.CircleSize-5))
	base.SetScale(mutils.Fround(mutils.Fround(1-mutils.Fround(s/5)) / 2))

	switch o := h.(type) {
	case *Slider:
		o.applyDefaults(cp, d)
	case *Spinner:
		o.applyDefaults(d)
	case *SliderTick:
		o.applyPreempt()
	case *SliderRepeat:
		applyEndPreempt(&o.HitObject, o.RepeatIndex, o.SpanDuration, o.SliderStartTime)
	case *SliderTail:
		applyEndPreempt(&o.HitObject, o.RepeatIndex, o.SpanDuration, o.SliderStartTime)
	}
}

// Clone returns a deep copy of h. Nested objects, samples and the slider path are copied.
func Clone(h IHitObject) IHitObject {
	switch o := h.(type) {
	case *Circle:
		return &Circle{HitObject: o.cloneBase()}
	case *Slider:
		return o.clone()
	case *Spinner:
		return o.clone()
	case *SliderHead:
		return &SliderHead{HitObject: o.cloneBase()}
	case *SliderTick:
		c := *o
		c.HitObject = o.cloneBase()
		return &c
	case *SliderRepeat:
		c := *o
		c.HitObject = o.cloneBase()
		return &c
	case *SliderTail:
		c := *o
		c.HitObject = o.cloneBase()
		return &c
	case *SpinnerTick:
		return &SpinnerTick{HitObject: o.cloneBase()}
	case *SpinnerBonusTick:
		return &SpinnerBonusTick{HitObject: o.cloneBase()}
	}

	panic(fmt.Sprintf("objects: unknown hit object %T", h))
}
