package dotosu

import (
	"github.com/kionell/osu-standard-stable/pathing"
	"github.com/kionell/osu-standard-stable/vector"
)

type HitSound uint8

const (
	HitSoundNone   HitSound = 0
	HitSoundNormal HitSound = 1 << (iota - 1)
	HitSoundWhistle
	HitSoundFinish
	HitSoundClap
)

type HitType int

const (
	TypeCircle     HitType = 1 << iota // 1
	TypeSlider                         // 2
	TypeNewCombo                       // 4
	TypeSpinner                        // 8
	TypeComboSkip1                     // 16
	TypeComboSkip2                     // 32
	TypeComboSkip3                     // 64
	TypeHold                           // 128

	comboOffsetMask = TypeComboSkip1 | TypeComboSkip2 | TypeComboSkip3
)

// HitObject is the ruleset agnostic shape every decoded object has.
type HitObject interface {
	GetStartTime() float64
	GetSamples() []HitSample
	GetHitType() HitType
	GetHitSound() HitSound
}

type HasPosition interface {
	GetStartPosition() vector.Vector2d
}

type HasCombo interface {
	IsNewCombo() bool
	GetComboOffset() int
}

type HasDuration interface {
	GetEndTime() float64
}

type HasPath interface {
	GetPath() *pathing.SliderPath
	GetNodeSamples() [][]HitSample
	GetRepeats() int
}

type HasGenerateTicks interface {
	GetGenerateTicks() bool
}

type HasSliderVelocity interface {
	GetSliderVelocity() float64
}

// Source is a decoded beatmap as seen by ruleset converters.
type Source interface {
	FormatVersion() int
	Objects() []HitObject
	DifficultySection() Difficulty
	ControlPointInfo() *ControlPoints
}

type BaseHO struct {
	Position vector.Vector2d
	Time     float64
	Type     HitType
	Sound    HitSound
	Samples  []HitSample
}

func (b *BaseHO) GetStartTime() float64             { return b.Time }
func (b *BaseHO) GetSamples() []HitSample           { return b.Samples }
func (b *BaseHO) GetHitType() HitType               { return b.Type }
func (b *BaseHO) GetHitSound() HitSound             { return b.Sound }
func (b *BaseHO) GetStartPosition() vector.Vector2d { return b.Position }
func (b *BaseHO) IsNewCombo() bool                  { return b.Type&TypeNewCombo != 0 }

func (b *BaseHO) GetComboOffset() int {
	if !b.IsNewCombo() {
		return 0
	}
	return int(b.Type&comboOffsetMask) >> 4
}

type Circle struct{ BaseHO }

type Slider struct {
	BaseHO
	Path           *pathing.SliderPath
	Repeats        int
	NodeSamples    [][]HitSample
	SliderVelocity float64
	GenerateTicks  bool
}

func (s *Slider) GetPath() *pathing.SliderPath  { return s.Path }
func (s *Slider) GetNodeSamples() [][]HitSample { return s.NodeSamples }
func (s *Slider) GetRepeats() int               { return s.Repeats }
func (s *Slider) GetGenerateTicks() bool        { return s.GenerateTicks }
func (s *Slider) GetSliderVelocity() float64    { return s.SliderVelocity }

type Spinner struct {
	BaseHO
	EndTime float64
}

func (s *Spinner) GetEndTime() float64 { return s.EndTime }

// Hold is an osu!mania hold note.
type Hold struct {
	BaseHO
	EndTime float64
}

func (h *Hold) GetEndTime() float64 { return h.EndTime }
