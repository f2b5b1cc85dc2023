package pathing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kionell/osu-standard-stable/vector"
)

func pts(xy ...float64) []vector.Vector2d {
	out := make([]vector.Vector2d, 0, len(xy)/2)
	for i := 0; i+1 < len(xy); i += 2 {
		out = append(out, vector.NewVec2d(xy[i], xy[i+1]))
	}
	return out
}

func TestLinearPathDistance(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0), 0)

	assert.InDelta(t, 100, path.Distance(), 1e-9)
	assert.Equal(t, vector.NewVec2d(50, 0), path.PositionAt(0.5))
	assert.Equal(t, vector.NewVec2d(100, 0), path.PositionAt(1))
	assert.Equal(t, vector.NewVec2d(100, 0), path.PositionAt(2), "progress is clamped")
}

func TestPathTrimmedToExpectedDistance(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0, 100, 100), 150)

	assert.InDelta(t, 150, path.Distance(), 1e-9)

	end := path.PositionAt(1)
	assert.InDelta(t, 100, end.X, 1e-9)
	assert.InDelta(t, 50, end.Y, 1e-9)
}

func TestPathExtendedToExpectedDistance(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0), 150)

	assert.InDelta(t, 150, path.Distance(), 1e-9)
	assert.InDelta(t, 150, path.PositionAt(1).X, 1e-9)
}

func TestPathEndingInRepeatedPointIsNotExtended(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0, 100, 0), 150)

	assert.InDelta(t, 100, path.Distance(), 1e-9)
}

func TestPerfectCurveSemicircle(t *testing.T) {
	path := NewSliderPath(PerfectCurve, pts(0, 0, 50, 50, 100, 0), 0)

	assert.InDelta(t, math.Pi*50, path.Distance(), 0.5)

	mid := path.PositionAt(0.5)
	assert.InDelta(t, 50, mid.X, 0.5)
	assert.InDelta(t, 50, mid.Y, 0.5)
}

func TestCollinearPerfectCurveIsLinear(t *testing.T) {
	path := NewSliderPath(PerfectCurve, pts(0, 0, 50, 0, 100, 0), 0)

	assert.InDelta(t, 100, path.Distance(), 1e-9)
	assert.Equal(t, pts(0, 0, 50, 0, 100, 0), path.CalculatedPath())
}

func TestBezierKeepsEndpoints(t *testing.T) {
	points := ApproximateBezier(pts(0, 0, 50, 100, 100, 0))

	require.GreaterOrEqual(t, len(points), 3)
	assert.Equal(t, vector.NewVec2d(0, 0), points[0])
	assert.Equal(t, vector.NewVec2d(100, 0), points[len(points)-1])
}

func TestBezierSegmentsSplitOnRepeatedPoint(t *testing.T) {
	path := NewSliderPath(Bezier, pts(0, 0, 100, 0, 100, 0, 100, 100), 0)

	require.Len(t, path.segments(), 2)
	assert.InDelta(t, 200, path.Distance(), 1e-9)
}

func TestCatmullPassesThroughControlPoints(t *testing.T) {
	points := ApproximateCatmull(pts(0, 0, 50, 50, 100, 0))

	assert.Len(t, points, 2*catmullDetail*2)
	assert.InDelta(t, 0, points[0].X, 1e-9)
	assert.InDelta(t, 50, points[catmullDetail*2-1].X, 1e-9)
	assert.InDelta(t, 100, points[len(points)-1].X, 1e-9)
}

func TestProgressAt(t *testing.T) {
	assert.InDelta(t, 0.5, ProgressAt(0.25, 2), 1e-9)
	assert.InDelta(t, 0.8, ProgressAt(0.6, 2), 1e-9)
	assert.InDelta(t, 1, ProgressAt(1, 1), 1e-9)
	assert.InDelta(t, 0, ProgressAt(1, 2), 1e-9)
}

func TestCurvePositionAtEndOfReversedSlider(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0), 0)

	assert.Equal(t, vector.NewVec2d(0, 0), path.CurvePositionAt(1, 2))
	assert.Equal(t, vector.NewVec2d(100, 0), path.CurvePositionAt(1, 3))
}

func TestCloneIsIndependent(t *testing.T) {
	path := NewSliderPath(Linear, pts(0, 0, 100, 0), 0)
	clone := path.Clone()

	clone.ControlPoints[1] = vector.NewVec2d(5, 5)
	clone.calculated[1] = vector.NewVec2d(5, 5)

	assert.Equal(t, vector.NewVec2d(100, 0), path.ControlPoints[1])
	assert.Equal(t, vector.NewVec2d(100, 0), path.PositionAt(1))
	assert.InDelta(t, path.Distance(), clone.Distance(), 1e-9)
}
