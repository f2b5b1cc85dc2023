package pathing

import (
	"math"
	"slices"
	"sort"

	"github.com/kionell/osu-standard-stable/mutils"
	"github.com/kionell/osu-standard-stable/vector"
)

type PathType uint8

const (
	Bezier PathType = iota
	Linear
	Catmull
	PerfectCurve
)

func (t PathType) String() string {
	switch t {
	case Linear:
		return "L"
	case Catmull:
		return "C"
	case PerfectCurve:
		return "P"
	default:
		return "B"
	}
}

// ParsePathType reads the curve type letter of a .osu slider definition.
func ParsePathType(s string) PathType {
	switch s {
	case "L", "l":
		return Linear
	case "C", "c":
		return Catmull
	case "P", "p":
		return PerfectCurve
	default:
		return Bezier
	}
}

// SliderPath is the curve a slider ball follows.
// Control points are relative to the slider head, so the first point is (0, 0).
type SliderPath struct {
	Type          PathType
	ControlPoints []vector.Vector2d

	// ExpectedDistance is the length declared by the beatmap. Zero or less means
	// the calculated length is used as is.
	ExpectedDistance float64

	calculated []vector.Vector2d
	cumulative []float64
}

func NewSliderPath(pathType PathType, controlPoints []vector.Vector2d, expectedDistance float64) *SliderPath {
	path := &SliderPath{
		Type:             pathType,
		ControlPoints:    controlPoints,
		ExpectedDistance: expectedDistance,
	}

	path.calculatePath()
	path.calculateLength()

	return path
}

// Distance is the length of the path after trimming or extending it to the expected distance.
func (p *SliderPath) Distance() float64 {
	if len(p.cumulative) == 0 {
		return 0
	}
	return p.cumulative[len(p.cumulative)-1]
}

// CalculatedPath returns the approximated polyline.
func (p *SliderPath) CalculatedPath() []vector.Vector2d {
	return p.calculated
}

// PositionAt returns the offset from the slider head at progress [0, 1] along the path.
func (p *SliderPath) PositionAt(progress float64) vector.Vector2d {
	d := mutils.Clamp(progress, 0, 1) * p.Distance()
	return p.interpolateVertices(p.indexOfDistance(d), d)
}

// ProgressAt converts the progress of the whole slider into the progress along a single span.
// Odd spans travel the path backwards.
func ProgressAt(progress float64, spans int) float64 {
	p := math.Mod(progress*float64(spans), 1)
	if int(progress*float64(spans))%2 == 1 {
		p = 1 - p
	}
	return p
}

// CurvePositionAt returns the ball offset at progress [0, 1] of a slider with the given span count.
func (p *SliderPath) CurvePositionAt(progress float64, spans int) vector.Vector2d {
	return p.PositionAt(ProgressAt(progress, spans))
}

func (p *SliderPath) Clone() *SliderPath {
	if p == nil {
		return nil
	}
	return &SliderPath{
		Type:             p.Type,
		ControlPoints:    slices.Clone(p.ControlPoints),
		ExpectedDistance: p.ExpectedDistance,
		calculated:       slices.Clone(p.calculated),
		cumulative:       slices.Clone(p.cumulative),
	}
}

// segments splits the control points into sub-paths. A repeated point starts
// a new segment, except for catmull curves and the final point.
func (p *SliderPath) segments() [][]vector.Vector2d {
	cps := p.ControlPoints
	if len(cps) == 0 {
		return nil
	}

	var out [][]vector.Vector2d

	start := 0
	for i := 1; i < len(cps); i++ {
		if !cps[i].Equal(cps[i-1]) {
			continue
		}
		if p.Type == Catmull && i > 1 {
			continue
		}
		if i == len(cps)-1 {
			continue
		}

		out = append(out, cps[start:i])
		start = i
	}

	return append(out, cps[start:])
}

func (p *SliderPath) pathTypeFor(segment []vector.Vector2d) PathType {
	if p.Type != PerfectCurve {
		return p.Type
	}
	if len(segment) != 3 {
		return Bezier
	}
	if collinear(segment[0], segment[1], segment[2]) {
		return Linear
	}
	return PerfectCurve
}

func (p *SliderPath) calculatePath() {
	p.calculated = p.calculated[:0]

	for _, segment := range p.segments() {
		var points []vector.Vector2d

		switch p.pathTypeFor(segment) {
		case Linear:
			points = ApproximateLinear(segment)
		case Catmull:
			points = ApproximateCatmull(segment)
		case PerfectCurve:
			points = ApproximateCircularArc(segment)
		default:
			points = ApproximateBezier(segment)
		}

		for _, point := range points {
			if n := len(p.calculated); n == 0 || !p.calculated[n-1].Equal(point) {
				p.calculated = append(p.calculated, point)
			}
		}
	}
}

func (p *SliderPath) calculateLength() {
	length := 0.0

	p.cumulative = append(p.cumulative[:0], 0)

	for i := 0; i < len(p.calculated)-1; i++ {
		length += p.calculated[i+1].Dst(p.calculated[i])
		p.cumulative = append(p.cumulative, length)
	}

	expected := p.ExpectedDistance
	if expected <= 0 || length == expected {
		return
	}

	// a path ending in a repeated point is never extended
	if n := len(p.ControlPoints); n >= 2 && p.ControlPoints[n-1].Equal(p.ControlPoints[n-2]) && expected > length {
		return
	}

	p.cumulative = p.cumulative[:len(p.cumulative)-1]

	end := len(p.calculated) - 1

	if length > expected {
		for len(p.cumulative) > 0 && p.cumulative[len(p.cumulative)-1] >= expected {
			p.cumulative = p.cumulative[:len(p.cumulative)-1]
			p.calculated = p.calculated[:end]
			end--
		}
	}

	if end <= 0 {
		p.cumulative = append(p.cumulative, 0)
		return
	}

	dir := p.calculated[end].Sub(p.calculated[end-1]).Nor()
	p.calculated[end] = p.calculated[end-1].Add(dir.Scl(expected - p.cumulative[len(p.cumulative)-1]))
	p.cumulative = append(p.cumulative, expected)
}

// indexOfDistance returns the index of the first vertex at or beyond distance d.
func (p *SliderPath) indexOfDistance(d float64) int {
	return sort.SearchFloat64s(p.cumulative, d)
}

func (p *SliderPath) interpolateVertices(i int, d float64) vector.Vector2d {
	if len(p.calculated) == 0 {
		return vector.Vector2d{}
	}
	if i <= 0 {
		return p.calculated[0]
	}
	if i >= len(p.calculated) {
		return p.calculated[len(p.calculated)-1]
	}

	p0 := p.calculated[i-1]
	p1 := p.calculated[i]

	d0 := p.cumulative[i-1]
	d1 := p.cumulative[i]

	if math.Abs(d0-d1) < 1e-7 {
		return p0
	}

	w := (d - d0) / (d1 - d0)

	return p0.Add(p1.Sub(p0).Scl(w))
}
