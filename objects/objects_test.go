package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/pathing"
	"github.com/kionell/osu-standard-stable/vector"
)

var (
	testControlPoints = dotosu.NewControlPoints([]dotosu.TimingPoint{
		{Time: 0, BeatLength: 500, TimeSignature: 4, TimingChange: true},
	})

	testDifficulty = dotosu.Difficulty{
		HPDrainRate:       5,
		CircleSize:        4,
		OverallDifficulty: 5,
		ApproachRate:      9,
		SliderMultiplier:  1,
		SliderTickRate:    1,
	}
)

func testSlider() *Slider {
	s := NewSlider()
	s.StartTime = 1000
	s.Position = vector.NewVec2d(100, 100)
	s.Path = pathing.NewSliderPath(pathing.Linear, []vector.Vector2d{{}, {X: 200}}, 200)
	s.Repeats = 1
	s.Samples = []dotosu.HitSample{
		{Name: dotosu.HitNormal, Bank: "soft"},
		{Name: dotosu.HitWhistle, Bank: "soft"},
	}
	s.NodeSamples = [][]dotosu.HitSample{
		{{Name: dotosu.HitClap}},
		{{Name: dotosu.HitFinish}},
		{{Name: dotosu.HitWhistle}},
	}
	return s
}

func TestStackOffset(t *testing.T) {
	c := NewCircle()
	c.Position = vector.NewVec2d(10, 10)

	c.SetStackHeight(2)

	want := float64(float32(-6.4))
	assert.Equal(t, vector.NewVec2d(want, want), c.StackOffset())
	assert.Equal(t, vector.NewVec2d(10+want, 10+want), c.GetStackedStartPosition())

	c.SetScale(0)
	assert.Equal(t, 0.0, c.StackOffset().X)
	assert.Equal(t, 2, c.StackHeight())
}

func TestStackOffsetWithCircleSizeScale(t *testing.T) {
	for _, cs := range []float64{4, 3.7, 6.2} {
		d := testDifficulty
		d.CircleSize = cs

		c := NewCircle()
		ApplyDefaults(c, testControlPoints, d)

		s := float32(0.7) * float32(cs-5)
		scale := float32(float32(1-float32(s/5)) / 2)
		require.Equal(t, float64(scale), c.Scale(), "cs %v", cs)

		for height := 1; height <= 11; height++ {
			c.SetStackHeight(height)

			want := float64(float32(float32(float32(height)*scale) * float32(-6.4)))
			assert.Equal(t, vector.NewVec2d(want, want), c.StackOffset(), "cs %v height %d", cs, height)
		}
	}
}

func TestStackHeightPropagates(t *testing.T) {
	s := testSlider()
	ApplyDefaults(s, testControlPoints, testDifficulty)
	require.NotEmpty(t, s.Nested)

	s.SetStackHeight(3)

	for _, n := range s.Nested {
		assert.Equal(t, 3, n.GetBase().StackHeight())
	}
	assert.Equal(t, s.GetEndPosition().Add(s.StackOffset()), s.GetStackedEndPosition())
}

func TestApplyDefaultsBase(t *testing.T) {
	c := NewCircle()
	assert.Equal(t, 600.0, c.TimePreempt)
	assert.Equal(t, 0.5, c.Scale())

	ApplyDefaults(c, testControlPoints, testDifficulty)

	assert.Equal(t, 600.0, c.TimePreempt)
	assert.Equal(t, 400.0, c.TimeFadeIn)
	assert.InDelta(t, 0.57, c.Scale(), 1e-6)
	assert.InDelta(t, 64*0.57, c.Radius(), 1e-4)
	assert.Empty(t, c.GetNested())

	hard := testDifficulty
	hard.ApproachRate = 10
	ApplyDefaults(c, testControlPoints, hard)
	assert.Equal(t, 450.0, c.TimePreempt)
	assert.Equal(t, 400.0, c.TimeFadeIn)
}

func TestSliderDefaults(t *testing.T) {
	s := testSlider()
	ApplyDefaults(s, testControlPoints, testDifficulty)

	assert.InDelta(t, 0.2, s.Velocity, 1e-12)
	assert.InDelta(t, 100, s.TickDistance, 1e-9)
	assert.Equal(t, 2, s.Spans())
	assert.InDelta(t, 3000, s.GetEndTime(), 1e-9)
	assert.InDelta(t, 1000, s.SpanDuration(), 1e-9)
	assert.Equal(t, vector.NewVec2d(100, 100), s.GetEndPosition())

	s.GenerateTicks = false
	ApplyDefaults(s, testControlPoints, testDifficulty)
	assert.True(t, s.TickDistance > 1e300)
}

func TestSliderEvents(t *testing.T) {
	s := testSlider()
	ApplyDefaults(s, testControlPoints, testDifficulty)

	events := GenerateSliderEvents(s)

	types := make([]SliderEventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	assert.Equal(t, []SliderEventType{
		EventHead, EventTick, EventRepeat, EventTick, EventLegacyLastTick, EventTail,
	}, types)

	assert.InDelta(t, 1500, events[1].Time, 1e-9)
	assert.InDelta(t, 0.5, events[1].PathProgress, 1e-9)
	assert.InDelta(t, 2000, events[2].Time, 1e-9)
	assert.Equal(t, 1.0, events[2].PathProgress)
	assert.InDelta(t, 2500, events[3].Time, 1e-9)
	assert.Equal(t, 1, events[3].SpanIndex)
	assert.InDelta(t, 2964, events[4].Time, 1e-9)
	assert.InDelta(t, 0.036, events[4].PathProgress, 1e-9)
	assert.InDelta(t, 3000, events[5].Time, 1e-9)
}

func TestSliderEventsReversedSpanOrder(t *testing.T) {
	s := testSlider()
	s.Path = pathing.NewSliderPath(pathing.Linear, []vector.Vector2d{{}, {X: 400}}, 400)
	ApplyDefaults(s, testControlPoints, testDifficulty)

	var ticks []SliderEvent
	for _, e := range GenerateSliderEvents(s) {
		if e.Type == EventTick && e.SpanIndex == 1 {
			ticks = append(ticks, e)
		}
	}

	require.Len(t, ticks, 3)
	for i := 1; i < len(ticks); i++ {
		assert.Less(t, ticks[i-1].Time, ticks[i].Time)
		assert.Greater(t, ticks[i-1].PathProgress, ticks[i].PathProgress)
	}
}

func TestSliderEventsWithoutTicks(t *testing.T) {
	s := testSlider()
	s.GenerateTicks = false
	ApplyDefaults(s, testControlPoints, testDifficulty)

	var types []SliderEventType
	for _, e := range GenerateSliderEvents(s) {
		types = append(types, e.Type)
	}

	assert.Equal(t, []SliderEventType{EventHead, EventRepeat, EventLegacyLastTick, EventTail}, types)
}

func TestZeroLengthSlider(t *testing.T) {
	s := testSlider()
	s.Path = pathing.NewSliderPath(pathing.Linear, []vector.Vector2d{{}, {}}, 0)
	s.Repeats = 2
	ApplyDefaults(s, testControlPoints, testDifficulty)

	require.Equal(t, 0.0, s.Distance())
	assert.Equal(t, s.StartTime, s.GetEndTime())

	var types []SliderEventType
	for _, e := range GenerateSliderEvents(s) {
		types = append(types, e.Type)
	}
	assert.Equal(t, []SliderEventType{EventHead, EventLegacyLastTick, EventTail}, types)

	require.Len(t, s.Nested, 2)
	assert.IsType(t, &SliderHead{}, s.Nested[0])
	assert.IsType(t, &SliderTail{}, s.Nested[1])
	for _, n := range s.Nested {
		assert.Equal(t, 1000.0, n.GetStartTime())
	}
}

func TestSliderNested(t *testing.T) {
	s := testSlider()
	ApplyDefaults(s, testControlPoints, testDifficulty)

	require.Len(t, s.Nested, 5)

	head, ok := s.Nested[0].(*SliderHead)
	require.True(t, ok)
	assert.Same(t, head, s.Head())
	assert.Equal(t, s.Position, head.Position)
	assert.Equal(t, []dotosu.HitSample{{Name: dotosu.HitClap}}, head.Samples)

	tick, ok := s.Nested[1].(*SliderTick)
	require.True(t, ok)
	assert.Equal(t, vector.NewVec2d(200, 100), tick.Position)
	assert.Equal(t, []dotosu.HitSample{{Name: "slidertick", Bank: "soft"}}, tick.Samples)
	assert.InDelta(t, 250+600*0.66, tick.TimePreempt, 1e-9)

	repeat, ok := s.Nested[2].(*SliderRepeat)
	require.True(t, ok)
	assert.Equal(t, 0, repeat.RepeatIndex)
	assert.Equal(t, vector.NewVec2d(300, 100), repeat.Position)
	assert.Equal(t, []dotosu.HitSample{{Name: dotosu.HitFinish}}, repeat.Samples)
	assert.InDelta(t, 1600, repeat.TimePreempt, 1e-9)

	reversedTick := s.Nested[3].(*SliderTick)
	assert.InDelta(t, 450, reversedTick.TimePreempt, 1e-9)

	tail := s.Tail()
	require.NotNil(t, tail)
	assert.Same(t, s.Nested[4], IHitObject(tail))
	assert.Equal(t, 1, tail.RepeatIndex)
	assert.Equal(t, s.GetEndPosition(), tail.Position)
	assert.Equal(t, 0.0, tail.TimeFadeIn)
	assert.InDelta(t, 600, tail.TimePreempt, 1e-9)

	assert.Equal(t, []dotosu.HitSample{{Name: dotosu.HitWhistle}}, s.TailSamples)
}

func TestNodeSamplesFallback(t *testing.T) {
	s := testSlider()
	s.NodeSamples = nil

	assert.Equal(t, s.Samples, s.NodeSamplesAt(0))
	assert.Equal(t, s.Samples, s.NodeSamplesAt(5))
}

func TestSpinnerTicks(t *testing.T) {
	sp := NewSpinner()
	sp.EndTime = 2000

	ApplyDefaults(sp, testControlPoints, testDifficulty)

	assert.Equal(t, 5, sp.SpinsRequired)
	assert.Equal(t, 5, sp.MaximumBonusSpins)
	assert.Equal(t, 7, sp.SpinsRequiredForBonus())
	require.Len(t, sp.Nested, 10)

	for i, n := range sp.Nested {
		if i < 5 {
			assert.IsType(t, &SpinnerTick{}, n)
		} else {
			assert.IsType(t, &SpinnerBonusTick{}, n)
		}
	}
	assert.InDelta(t, 200, sp.Nested[0].GetStartTime(), 1e-9)
	assert.InDelta(t, 2200, sp.Nested[1].GetStartTime(), 1e-9)
}

func TestSpinnerWithoutDuration(t *testing.T) {
	sp := NewSpinner()
	sp.StartTime = 500
	sp.EndTime = 500

	ApplyDefaults(sp, testControlPoints, testDifficulty)

	assert.Equal(t, 0, sp.SpinsRequired)
	assert.Equal(t, 0, sp.MaximumBonusSpins)
	assert.Empty(t, sp.Nested)
	assert.Empty(t, GenerateSpinnerTicks(sp))
}

func TestDurationInvariant(t *testing.T) {
	sp := NewSpinner()
	sp.StartTime, sp.EndTime = 100, 900

	all := []IHitObject{NewCircle(), testSlider(), sp}
	for _, h := range all {
		ApplyDefaults(h, testControlPoints, testDifficulty)
		assert.InDelta(t, h.GetEndTime()-h.GetStartTime(), h.GetDuration(), 1e-9, "%T", h)

		for _, n := range h.GetNested() {
			assert.Equal(t, 0.0, n.GetDuration())
			assert.Equal(t, n.GetStartTime(), n.GetEndTime())
		}
	}
}

func TestClone(t *testing.T) {
	s := testSlider()
	ApplyDefaults(s, testControlPoints, testDifficulty)
	s.SetStackHeight(1)

	c, ok := Clone(s).(*Slider)
	require.True(t, ok)
	require.NotSame(t, s, c)

	assert.Equal(t, s.GetEndTime(), c.GetEndTime())
	assert.Equal(t, s.StackOffset(), c.StackOffset())
	require.Len(t, c.Nested, len(s.Nested))
	assert.NotSame(t, s.Nested[0], c.Nested[0])

	c.Samples[0].Name = "changed"
	c.NodeSamples[0][0].Name = "changed"
	c.Nested[0].GetBase().StartTime = -1
	c.Path.ControlPoints[1] = vector.NewVec2d(0, 0)

	assert.Equal(t, dotosu.HitNormal, s.Samples[0].Name)
	assert.Equal(t, dotosu.HitClap, s.NodeSamples[0][0].Name)
	assert.Equal(t, 1000.0, s.Nested[0].GetStartTime())
	assert.Equal(t, vector.NewVec2d(200, 0), s.Path.ControlPoints[1])
}
