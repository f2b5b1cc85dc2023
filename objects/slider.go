package objects

import (
	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/pathing"
	"github.com/kionell/osu-standard-stable/vector"
)

type Slider struct {
	HitObject

	Path        *pathing.SliderPath
	Repeats     int
	NodeSamples [][]dotosu.HitSample
	TailSamples []dotosu.HitSample

	Velocity               float64
	TickDistance           float64
	TickDistanceMultiplier float64
	SliderVelocity         float64
	GenerateTicks          bool
}

func NewSlider() *Slider {
	return &Slider{
		HitObject:              newHitObject(),
		Path:                   pathing.NewSliderPath(pathing.Bezier, nil, 0),
		Velocity:               1,
		TickDistanceMultiplier: 1,
		SliderVelocity:         1,
		GenerateTicks:          true,
	}
}

func (s *Slider) Spans() int {
	return s.Repeats + 1
}

func (s *Slider) Distance() float64 {
	return s.Path.Distance()
}

func (s *Slider) GetEndTime() float64 {
	return s.StartTime + float64(s.Spans())*s.Distance()/s.Velocity
}

func (s *Slider) GetDuration() float64 {
	return s.GetEndTime() - s.StartTime
}

func (s *Slider) SpanDuration() float64 {
	return s.GetDuration() / float64(s.Spans())
}

func (s *Slider) GetEndPosition() vector.Vector2d {
	return s.Position.Add(s.Path.CurvePositionAt(1, s.Spans()))
}

func (s *Slider) GetStackedEndPosition() vector.Vector2d {
	return s.GetEndPosition().Add(s.stackOffset)
}

// GetPath, GetRepeats and GetSliderVelocity let a converted slider act as a source object again.
func (s *Slider) GetPath() *pathing.SliderPath { return s.Path }
func (s *Slider) GetRepeats() int              { return s.Repeats }
func (s *Slider) GetSliderVelocity() float64   { return s.SliderVelocity }
func (s *Slider) GetGenerateTicks() bool       { return s.GenerateTicks }

func (s *Slider) GetNodeSamples() [][]dotosu.HitSample {
	return s.NodeSamples
}

// NodeSamplesAt returns the samples of node i, or the slider's own samples when the node is missing.
func (s *Slider) NodeSamplesAt(i int) []dotosu.HitSample {
	if i >= 0 && i < len(s.NodeSamples) {
		return s.NodeSamples[i]
	}
	return s.Samples
}

// Head returns the generated head circle, or nil before defaults are applied.
func (s *Slider) Head() *SliderHead {
	for _, n := range s.Nested {
		if h, ok := n.(*SliderHead); ok {
			return h
		}
	}
	return nil
}

// Tail returns the generated tail circle, or nil before defaults are applied.
func (s *Slider) Tail() *SliderTail {
	for i := len(s.Nested) - 1; i >= 0; i-- {
		if t, ok := s.Nested[i].(*SliderTail); ok {
			return t
		}
	}
	return nil
}

func (s *Slider) applyDefaults(cp *dotosu.ControlPoints, d dotosu.Difficulty) {
	timing := cp.TimingPointAt(s.StartTime)

	scoringDistance := BaseScoringDistance * d.SliderMultiplier * s.SliderVelocity

	s.Velocity = scoringDistance / timing.BeatLength

	if s.GenerateTicks {
		s.TickDistance = scoringDistance / d.SliderTickRate * s.TickDistanceMultiplier
	} else {
		s.TickDistance = posInf
	}
}

func (s *Slider) updateNestedSamples() {
	var tickBase *dotosu.HitSample

	for i := range s.Samples {
		if s.Samples[i].Name == dotosu.HitNormal {
			tickBase = &s.Samples[i]
			break
		}
	}
	if tickBase == nil && len(s.Samples) > 0 {
		tickBase = &s.Samples[0]
	}

	var tickSamples []dotosu.HitSample
	if tickBase != nil {
		tickSamples = []dotosu.HitSample{tickBase.With("slidertick")}
	}

	for _, n := range s.Nested {
		switch o := n.(type) {
		case *SliderTick:
			o.Samples = cloneSamples(tickSamples)
		case *SliderRepeat:
			o.Samples = cloneSamples(s.NodeSamplesAt(o.RepeatIndex + 1))
		case *SliderHead:
			o.Samples = cloneSamples(s.NodeSamplesAt(0))
		}
	}

	s.TailSamples = cloneSamples(s.NodeSamplesAt(s.Repeats + 1))
}

func (s *Slider) clone() *Slider {
	c := *s
	c.HitObject = s.cloneBase()
	c.Path = s.Path.Clone()
	c.TailSamples = cloneSamples(s.TailSamples)

	if s.NodeSamples != nil {
		c.NodeSamples = make([][]dotosu.HitSample, len(s.NodeSamples))
		for i, node := range s.NodeSamples {
			c.NodeSamples[i] = cloneSamples(node)
		}
	}

	return &c
}
