package objects

import (
	"math"
	"slices"

	"github.com/kionell/osu-standard-stable/mutils"
)

const (
	maxSliderLength      = 100000
	legacyLastTickOffset = 36
)

var posInf = math.Inf(1)

type SliderEventType int

const (
	EventTick SliderEventType = iota
	EventLegacyLastTick
	EventHead
	EventTail
	EventRepeat
)

func (t SliderEventType) String() string {
	switch t {
	case EventTick:
		return "tick"
	case EventLegacyLastTick:
		return "legacy last tick"
	case EventHead:
		return "head"
	case EventTail:
		return "tail"
	case EventRepeat:
		return "repeat"
	}
	return "unknown"
}

type SliderEvent struct {
	Type          SliderEventType
	SpanIndex     int
	SpanStartTime float64
	Time          float64
	PathProgress  float64
}

// GenerateSliderEvents lays out the timeline of a slider the way osu!stable scores it.
func GenerateSliderEvents(s *Slider) []SliderEvent {
	startTime := s.StartTime
	spanCount := s.Spans()
	spanDuration := s.SpanDuration()
	length := min(maxSliderLength, s.Distance())
	tickDistance := mutils.Clamp(s.TickDistance, 0, length)
	minDistanceFromEnd := s.Velocity * 10

	events := []SliderEvent{{
		Type:          EventHead,
		SpanStartTime: startTime,
		Time:          startTime,
	}}

	// Zero length sliders get neither ticks nor repeats.
	for span := 0; span < spanCount && tickDistance != 0; span++ {
		spanStartTime := startTime + float64(span)*spanDuration
		reversed := span%2 == 1

		ticks := generateTicks(span, spanStartTime, spanDuration, reversed, length, tickDistance, minDistanceFromEnd)
		if reversed {
			slices.Reverse(ticks)
		}
		events = append(events, ticks...)

		if span < spanCount-1 {
			events = append(events, SliderEvent{
				Type:          EventRepeat,
				SpanIndex:     span,
				SpanStartTime: spanStartTime,
				Time:          spanStartTime + spanDuration,
				PathProgress:  float64((span + 1) % 2),
			})
		}
	}

	totalDuration := float64(spanCount) * spanDuration

	finalSpanIndex := spanCount - 1
	finalSpanStartTime := startTime + float64(finalSpanIndex)*spanDuration
	finalSpanEndTime := max(startTime+totalDuration/2, finalSpanStartTime+spanDuration-legacyLastTickOffset)

	finalProgress := 0.0
	if spanDuration != 0 {
		finalProgress = (finalSpanEndTime - finalSpanStartTime) / spanDuration
	}
	if spanCount%2 == 0 {
		finalProgress = 1 - finalProgress
	}

	events = append(events,
		SliderEvent{
			Type:          EventLegacyLastTick,
			SpanIndex:     finalSpanIndex,
			SpanStartTime: finalSpanStartTime,
			Time:          finalSpanEndTime,
			PathProgress:  finalProgress,
		},
		SliderEvent{
			Type:          EventTail,
			SpanIndex:     finalSpanIndex,
			SpanStartTime: finalSpanStartTime,
			Time:          startTime + totalDuration,
			PathProgress:  float64(spanCount % 2),
		},
	)

	return events
}

func generateTicks(spanIndex int, spanStartTime, spanDuration float64, reversed bool, length, tickDistance, minDistanceFromEnd float64) []SliderEvent {
	var ticks []SliderEvent

	for d := tickDistance; d <= length; d += tickDistance {
		if d >= length-minDistanceFromEnd {
			break
		}

		pathProgress := d / length
		timeProgress := pathProgress
		if reversed {
			timeProgress = 1 - pathProgress
		}

		ticks = append(ticks, SliderEvent{
			Type:          EventTick,
			SpanIndex:     spanIndex,
			SpanStartTime: spanStartTime,
			Time:          spanStartTime + timeProgress*spanDuration,
			PathProgress:  pathProgress,
		})
	}

	return ticks
}

// GenerateSliderTicks turns the event timeline into nested objects. The tail event itself
// produces nothing; the legacy last tick becomes the slider tail.
func GenerateSliderTicks(s *Slider) []IHitObject {
	var nested []IHitObject

	for _, e := range GenerateSliderEvents(s) {
		switch e.Type {
		case EventHead:
			h := &SliderHead{HitObject: newHitObject()}
			h.StartTime = e.Time
			h.Position = s.Position
			h.stackHeight = s.stackHeight
			h.updateStackOffset()

			nested = append(nested, h)
		case EventTick:
			t := &SliderTick{
				HitObject:     newHitObject(),
				SpanIndex:     e.SpanIndex,
				SpanStartTime: e.SpanStartTime,
			}
			t.StartTime = e.Time
			t.Position = s.Position.Add(s.Path.PositionAt(e.PathProgress))
			t.inherit(&s.HitObject)

			nested = append(nested, t)
		case EventRepeat:
			r := &SliderRepeat{
				HitObject:       newHitObject(),
				RepeatIndex:     e.SpanIndex,
				SpanDuration:    s.SpanDuration(),
				SliderStartTime: s.StartTime,
			}
			r.StartTime = e.Time
			r.Position = s.Position.Add(s.Path.PositionAt(e.PathProgress))
			r.inherit(&s.HitObject)

			nested = append(nested, r)
		case EventLegacyLastTick:
			t := &SliderTail{
				HitObject:       newHitObject(),
				RepeatIndex:     e.SpanIndex,
				SpanDuration:    s.SpanDuration(),
				SliderStartTime: s.StartTime,
			}
			t.StartTime = e.Time
			t.Position = s.GetEndPosition()
			t.stackHeight = s.stackHeight
			t.updateStackOffset()

			nested = append(nested, t)
		}
	}

	return nested
}

// GenerateSpinnerTicks emits the required ticks followed by the bonus ticks.
func GenerateSpinnerTicks(sp *Spinner) []IHitObject {
	total := sp.SpinsRequired + sp.MaximumBonusSpins
	if total <= 0 {
		return nil
	}

	duration := sp.GetDuration()
	nested := make([]IHitObject, 0, total)

	for i := 0; i < total; i++ {
		base := newHitObject()
		base.StartTime = sp.StartTime + (float64(i)+1/float64(total))*duration

		if i < sp.SpinsRequired {
			nested = append(nested, &SpinnerTick{HitObject: base})
		} else {
			nested = append(nested, &SpinnerBonusTick{HitObject: base})
		}
	}

	return nested
}

func (h *HitObject) inherit(parent *HitObject) {
	h.stackHeight = parent.stackHeight
	h.scale = parent.scale
	h.updateStackOffset()
}
