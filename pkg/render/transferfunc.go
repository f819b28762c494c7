package render

import "sort"

// ControlPoint maps one normalized intensity to a color and opacity
type ControlPoint struct {
	Intensity float64 // [0,1]
	R, G, B   float64
	A         float64
}

// TransferFunc is a piecewise-linear mapping from normalized intensity
// to color and opacity. Out-of-range intensities clamp to the nearest
// endpoint. The zero value is opaque grayscale.
type TransferFunc struct {
	points []ControlPoint
}

// NewTransferFunc builds a transfer function from control points,
// sorting them by intensity.
func NewTransferFunc(points ...ControlPoint) TransferFunc {
	pts := make([]ControlPoint, len(points))
	copy(pts, points)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Intensity < pts[j].Intensity })
	return TransferFunc{points: pts}
}

// Grayscale maps intensity directly to gray with linear opacity
func Grayscale() TransferFunc {
	return NewTransferFunc(
		ControlPoint{Intensity: 0, R: 0, G: 0, B: 0, A: 0},
		ControlPoint{Intensity: 1, R: 1, G: 1, B: 1, A: 1},
	)
}

// Lookup interpolates color and opacity at a normalized intensity
func (tf TransferFunc) Lookup(x float64) (r, g, b, a float64) {
	pts := tf.points
	if len(pts) == 0 {
		// Zero value: identity grayscale, fully opaque
		x = clamp01(x)
		return x, x, x, 1
	}
	if x <= pts[0].Intensity {
		p := pts[0]
		return p.R, p.G, p.B, p.A
	}
	if x >= pts[len(pts)-1].Intensity {
		p := pts[len(pts)-1]
		return p.R, p.G, p.B, p.A
	}
	hi := sort.Search(len(pts), func(i int) bool { return pts[i].Intensity >= x })
	lo := hi - 1
	span := pts[hi].Intensity - pts[lo].Intensity
	t := 0.0
	if span > 0 {
		t = (x - pts[lo].Intensity) / span
	}
	return lerp(pts[lo].R, pts[hi].R, t),
		lerp(pts[lo].G, pts[hi].G, t),
		lerp(pts[lo].B, pts[hi].B, t),
		lerp(pts[lo].A, pts[hi].A, t)
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
