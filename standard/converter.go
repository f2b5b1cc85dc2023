package standard

import (
	"iter"

	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/mutils"
	"github.com/kionell/osu-standard-stable/objects"
	"github.com/kionell/osu-standard-stable/vector"
)

// CanConvert reports whether every object of bm has a playfield position.
func CanConvert(bm dotosu.Source) bool {
	for _, h := range bm.Objects() {
		if _, ok := h.(dotosu.HasPosition); !ok {
			return false
		}
	}
	return true
}

// ConvertHitObjects yields one osu!standard object per source object, in source order.
// Objects that already are osu!standard objects are cloned.
func ConvertHitObjects(bm dotosu.Source) iter.Seq[objects.IHitObject] {
	return func(yield func(objects.IHitObject) bool) {
		for _, h := range bm.Objects() {
			var converted objects.IHitObject

			if std, ok := h.(objects.IHitObject); ok {
				converted = objects.Clone(std)
			} else {
				converted = convertHitObject(h, bm)
			}

			if !yield(converted) {
				return
			}
		}
	}
}

// Convert drains ConvertHitObjects.
func Convert(bm dotosu.Source) []objects.IHitObject {
	converted := make([]objects.IHitObject, 0, len(bm.Objects()))
	for h := range ConvertHitObjects(bm) {
		converted = append(converted, h)
	}
	return converted
}

var playfieldCentre = vector.Vector2d{X: 256, Y: 192}

func convertHitObject(original dotosu.HitObject, bm dotosu.Source) objects.IHitObject {
	if path, ok := original.(dotosu.HasPath); ok {
		return convertSlider(original, path, bm)
	}

	if duration, ok := original.(dotosu.HasDuration); ok {
		sp := objects.NewSpinner()
		copyCommon(&sp.HitObject, original)
		sp.EndTime = duration.GetEndTime()
		if _, ok := original.(dotosu.HasPosition); !ok {
			sp.Position = playfieldCentre
		}
		return sp
	}

	c := objects.NewCircle()
	copyCommon(&c.HitObject, original)
	return c
}

func convertSlider(original dotosu.HitObject, path dotosu.HasPath, bm dotosu.Source) *objects.Slider {
	s := objects.NewSlider()
	copyCommon(&s.HitObject, original)

	s.Path = path.GetPath().Clone()
	s.Repeats = path.GetRepeats()

	if nodes := path.GetNodeSamples(); nodes != nil {
		s.NodeSamples = make([][]dotosu.HitSample, len(nodes))
		for i, node := range nodes {
			s.NodeSamples[i] = append([]dotosu.HitSample(nil), node...)
		}
	}

	if gt, ok := original.(dotosu.HasGenerateTicks); ok {
		s.GenerateTicks = gt.GetGenerateTicks()
	}
	if sv, ok := original.(dotosu.HasSliderVelocity); ok {
		s.SliderVelocity = sv.GetSliderVelocity()
	}

	// Before v8 velocity multipliers did not change how many ticks fit in the same distance.
	if bm.FormatVersion() < 8 {
		point := bm.ControlPointInfo().DifficultyPointAt(original.GetStartTime())
		s.TickDistanceMultiplier = mutils.Fround(1 / point.SliderVelocity)
	}

	return s
}

func copyCommon(dst *objects.HitObject, original dotosu.HitObject) {
	dst.StartTime = original.GetStartTime()
	dst.HitType = original.GetHitType()
	dst.HitSound = original.GetHitSound()

	if samples := original.GetSamples(); samples != nil {
		dst.Samples = append([]dotosu.HitSample(nil), samples...)
	}

	dst.Position = vector.Vector2d{}
	if pos, ok := original.(dotosu.HasPosition); ok {
		dst.Position = pos.GetStartPosition()
	}

	if combo, ok := original.(dotosu.HasCombo); ok {
		dst.NewCombo = combo.IsNewCombo()
		dst.ComboOffset = combo.GetComboOffset()
	}
}
