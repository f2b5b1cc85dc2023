package objects

import (
	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/mutils"
	"github.com/kionell/osu-standard-stable/vector"
)

const (
	ObjectRadius        = 64
	BaseScoringDistance = 100
	PreemptMin          = 450
)

// IHitObject is implemented by every osu!standard object, nested ones included.
// The set is closed; behaviour that differs per variant is dispatched with type switches.
type IHitObject interface {
	dotosu.HitObject

	GetBase() *HitObject

	GetEndTime() float64
	GetDuration() float64

	GetStartPosition() vector.Vector2d
	GetEndPosition() vector.Vector2d
	GetStackedStartPosition() vector.Vector2d
	GetStackedEndPosition() vector.Vector2d

	GetNested() []IHitObject
	IsNewCombo() bool

	hitObject()
}

// HitObject holds the fields shared by all variants.
type HitObject struct {
	StartTime float64
	Samples   []dotosu.HitSample
	HitType   dotosu.HitType
	HitSound  dotosu.HitSound

	Position    vector.Vector2d
	NewCombo    bool
	ComboOffset int

	TimePreempt float64
	TimeFadeIn  float64

	Nested []IHitObject

	stackHeight int
	scale       float64
	stackOffset vector.Vector2d
}

func newHitObject() HitObject {
	return HitObject{
		TimePreempt: 600,
		TimeFadeIn:  400,
		scale:       0.5,
	}
}

func (h *HitObject) hitObject() {}

func (h *HitObject) GetBase() *HitObject { return h }

func (h *HitObject) GetStartTime() float64             { return h.StartTime }
func (h *HitObject) GetEndTime() float64               { return h.StartTime }
func (h *HitObject) GetDuration() float64              { return 0 }
func (h *HitObject) GetSamples() []dotosu.HitSample    { return h.Samples }
func (h *HitObject) GetHitType() dotosu.HitType        { return h.HitType }
func (h *HitObject) GetHitSound() dotosu.HitSound      { return h.HitSound }
func (h *HitObject) GetNested() []IHitObject           { return h.Nested }
func (h *HitObject) IsNewCombo() bool                  { return h.NewCombo }
func (h *HitObject) GetComboOffset() int               { return h.ComboOffset }
func (h *HitObject) GetStartPosition() vector.Vector2d { return h.Position }
func (h *HitObject) GetEndPosition() vector.Vector2d   { return h.Position }

func (h *HitObject) GetStackedStartPosition() vector.Vector2d {
	return h.Position.Add(h.stackOffset)
}

func (h *HitObject) GetStackedEndPosition() vector.Vector2d {
	return h.GetEndPosition().Add(h.stackOffset)
}

func (h *HitObject) StackHeight() int { return h.stackHeight }

// SetStackHeight updates the stack offset and hands the height down to the direct nested objects.
func (h *HitObject) SetStackHeight(height int) {
	h.stackHeight = height
	h.updateStackOffset()

	for _, n := range h.Nested {
		nb := n.GetBase()
		nb.stackHeight = height
		nb.updateStackOffset()
	}
}

func (h *HitObject) Scale() float64 { return h.scale }

func (h *HitObject) SetScale(scale float64) {
	h.scale = scale
	h.updateStackOffset()
}

func (h *HitObject) StackOffset() vector.Vector2d { return h.stackOffset }

func (h *HitObject) Radius() float64 {
	return ObjectRadius * h.scale
}

// updateStackOffset is computed in single precision to match stable.
func (h *HitObject) updateStackOffset() {
	offset := mutils.Fround(mutils.Fround(float64(h.stackHeight)*h.scale) * mutils.Fround(-6.4))
	h.stackOffset = vector.NewVec2d(offset, offset)
}

func (h *HitObject) cloneBase() HitObject {
	c := *h
	c.Samples = cloneSamples(h.Samples)

	if h.Nested != nil {
		c.Nested = make([]IHitObject, len(h.Nested))
		for i, n := range h.Nested {
			c.Nested[i] = Clone(n)
		}
	}

	return c
}

func cloneSamples(samples []dotosu.HitSample) []dotosu.HitSample {
	if samples == nil {
		return nil
	}
	return append([]dotosu.HitSample(nil), samples...)
}

type Circle struct {
	HitObject
}

func NewCircle() *Circle {
	return &Circle{HitObject: newHitObject()}
}
