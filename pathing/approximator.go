package pathing

import (
	"math"

	"github.com/kionell/osu-standard-stable/vector"
)

const (
	bezierTolerance = 0.25
	arcTolerance    = 0.1
	catmullDetail   = 50
)

// ApproximateBezier flattens a bezier curve of any degree into a polyline
// by adaptive subdivision.
func ApproximateBezier(cp []vector.Vector2d) []vector.Vector2d {
	if len(cp) == 0 {
		return nil
	}

	var out []vector.Vector2d

	stack := make([][]vector.Vector2d, 0, 32)
	stack = append(stack, cp)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if bezierFlatEnough(cur) {
			out = bezierApproximate(cur, out)
			continue
		}

		// right goes first so left is popped next
		l, r := bezierSubdivide(cur)
		stack = append(stack, r, l)
	}

	return append(out, cp[len(cp)-1])
}

func bezierFlatEnough(cp []vector.Vector2d) bool {
	for i := 1; i < len(cp)-1; i++ {
		d := cp[i-1].Sub(cp[i].Scl(2)).Add(cp[i+1])
		if d.LenSq() > bezierTolerance*bezierTolerance*4 {
			return false
		}
	}
	return true
}

// bezierSubdivide splits a curve at t = 0.5 with de Casteljau's algorithm.
func bezierSubdivide(cp []vector.Vector2d) (left, right []vector.Vector2d) {
	n := len(cp)

	mid := make([]vector.Vector2d, n)
	copy(mid, cp)

	left = make([]vector.Vector2d, n)
	right = make([]vector.Vector2d, n)

	for i := range n {
		left[i] = mid[0]
		right[n-i-1] = mid[n-i-1]

		for j := 0; j < n-i-1; j++ {
			mid[j] = mid[j].Add(mid[j+1]).Scl(0.5)
		}
	}

	return left, right
}

// bezierApproximate emits the piecewise-linear approximation of a flat enough curve,
// excluding its last point.
func bezierApproximate(cp []vector.Vector2d, out []vector.Vector2d) []vector.Vector2d {
	n := len(cp)

	l, r := bezierSubdivide(cp)

	joined := make([]vector.Vector2d, 2*n-1)
	copy(joined, l)
	copy(joined[n:], r[1:])

	out = append(out, cp[0])

	for i := 1; i < n-1; i++ {
		index := 2 * i
		p := joined[index-1].Add(joined[index].Scl(2)).Add(joined[index+1]).Scl(0.25)
		out = append(out, p)
	}

	return out
}

// ApproximateCatmull samples a uniform Catmull-Rom spline.
func ApproximateCatmull(cp []vector.Vector2d) []vector.Vector2d {
	n := len(cp)
	out := make([]vector.Vector2d, 0, max(0, (n-1)*catmullDetail*2))

	for i := 0; i < n-1; i++ {
		v1 := cp[i]
		if i > 0 {
			v1 = cp[i-1]
		}

		v2 := cp[i]
		v3 := cp[i+1]

		v4 := v3.Scl(2).Sub(v2)
		if i < n-2 {
			v4 = cp[i+2]
		}

		for c := range catmullDetail {
			out = append(out,
				catmullPoint(v1, v2, v3, v4, float64(c)/catmullDetail),
				catmullPoint(v1, v2, v3, v4, float64(c+1)/catmullDetail),
			)
		}
	}

	return out
}

func catmullPoint(p0, p1, p2, p3 vector.Vector2d, t float64) vector.Vector2d {
	t2 := t * t
	t3 := t2 * t

	return vector.Vector2d{
		X: 0.5 * ((2 * p1.X) + (-p0.X+p2.X)*t + (2*p0.X-5*p1.X+4*p2.X-p3.X)*t2 + (-p0.X+3*p1.X-3*p2.X+p3.X)*t3),
		Y: 0.5 * ((2 * p1.Y) + (-p0.Y+p2.Y)*t + (2*p0.Y-5*p1.Y+4*p2.Y-p3.Y)*t2 + (-p0.Y+3*p1.Y-3*p2.Y+p3.Y)*t3),
	}
}

// ApproximateCircularArc samples the arc through three points.
// Degenerate arcs fall back to a bezier.
func ApproximateCircularArc(cp []vector.Vector2d) []vector.Vector2d {
	arc, ok := circularArcProperties(cp)
	if !ok {
		return ApproximateBezier(cp)
	}

	amount := 2
	if 2*arc.radius > arcTolerance {
		step := 2 * math.Acos(1-arcTolerance/arc.radius)
		amount = max(2, int(math.Ceil(arc.thetaRange/step)))
	}

	out := make([]vector.Vector2d, 0, amount)

	for i := range amount {
		fract := float64(i) / float64(amount-1)
		theta := arc.thetaStart + arc.direction*fract*arc.thetaRange
		o := vector.NewVec2d(math.Cos(theta), math.Sin(theta)).Scl(arc.radius)
		out = append(out, arc.centre.Add(o))
	}

	return out
}

// ApproximateLinear returns the control points unchanged.
func ApproximateLinear(cp []vector.Vector2d) []vector.Vector2d {
	out := make([]vector.Vector2d, len(cp))
	copy(out, cp)
	return out
}

type circularArc struct {
	centre     vector.Vector2d
	radius     float64
	thetaStart float64
	thetaRange float64
	direction  float64
}

func circularArcProperties(cp []vector.Vector2d) (circularArc, bool) {
	if len(cp) != 3 || collinear(cp[0], cp[1], cp[2]) {
		return circularArc{}, false
	}

	a, b, c := cp[0], cp[1], cp[2]

	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))

	aSq := a.LenSq()
	bSq := b.LenSq()
	cSq := c.LenSq()

	centre := vector.Vector2d{
		X: (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d,
		Y: (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d,
	}

	dA := a.Sub(centre)
	dC := c.Sub(centre)

	thetaStart := dA.AngleR()
	thetaEnd := dC.AngleR()

	for thetaEnd < thetaStart {
		thetaEnd += 2 * math.Pi
	}

	dir := 1.0
	thetaRange := thetaEnd - thetaStart

	// decide the direction by the side of AC that B sits on
	orthoAtoC := c.Sub(a)
	orthoAtoC = vector.NewVec2d(orthoAtoC.Y, -orthoAtoC.X)

	if orthoAtoC.Dot(b.Sub(a)) < 0 {
		dir = -dir
		thetaRange = 2*math.Pi - thetaRange
	}

	return circularArc{
		centre:     centre,
		radius:     dA.Len(),
		thetaStart: thetaStart,
		thetaRange: thetaRange,
		direction:  dir,
	}, true
}

func collinear(a, b, c vector.Vector2d) bool {
	return math.Abs((b.Y-a.Y)*(c.X-a.X)-(b.X-a.X)*(c.Y-a.Y)) < 1e-3
}
