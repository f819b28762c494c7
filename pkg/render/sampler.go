package render

import (
	"math"

	"github.com/jpfielding/medview.go/pkg/volume"
)

// sampler reads windowed intensities from a volume at normalized
// [0,1]^3 positions. Windowing maps the rescaled physical value of
// [center-width/2, center+width/2] linearly onto [0,1], clamped.
type sampler struct {
	vol   *volume.Volume
	wLo   float64
	wInv  float64
	slope float64
	icept float64

	// one-voxel offsets in normalized space, per axis
	dx, dy, dz float64
}

func newSampler(vol *volume.Volume, center, width float64) *sampler {
	if width <= 0 {
		width = 1
	}
	slope, icept := vol.Rescale()
	return &sampler{
		vol:   vol,
		wLo:   center - width/2,
		wInv:  1 / width,
		slope: slope,
		icept: icept,
		dx:    1 / math.Max(1, float64(vol.Width())),
		dy:    1 / math.Max(1, float64(vol.Height())),
		dz:    1 / math.Max(1, float64(vol.Depth())),
	}
}

// intensity returns the trilinearly interpolated, windowed intensity at
// a normalized position. Positions outside the cube clamp to the edge.
func (s *sampler) intensity(p Vec3) float64 {
	raw := s.trilinear(p)
	return clamp01((s.slope*raw + s.icept - s.wLo) * s.wInv)
}

func (s *sampler) trilinear(p Vec3) float64 {
	fx := clamp01(p.X) * float64(s.vol.Width()-1)
	fy := clamp01(p.Y) * float64(s.vol.Height()-1)
	fz := clamp01(p.Z) * float64(s.vol.Depth()-1)

	x0, y0, z0 := int(fx), int(fy), int(fz)
	x1, y1, z1 := minInt(x0+1, s.vol.Width()-1), minInt(y0+1, s.vol.Height()-1), minInt(z0+1, s.vol.Depth()-1)
	tx, ty, tz := fx-float64(x0), fy-float64(y0), fz-float64(z0)

	c000 := s.vol.Raw(x0, y0, z0)
	c100 := s.vol.Raw(x1, y0, z0)
	c010 := s.vol.Raw(x0, y1, z0)
	c110 := s.vol.Raw(x1, y1, z0)
	c001 := s.vol.Raw(x0, y0, z1)
	c101 := s.vol.Raw(x1, y0, z1)
	c011 := s.vol.Raw(x0, y1, z1)
	c111 := s.vol.Raw(x1, y1, z1)

	c00 := lerp(c000, c100, tx)
	c10 := lerp(c010, c110, tx)
	c01 := lerp(c001, c101, tx)
	c11 := lerp(c011, c111, tx)
	c0 := lerp(c00, c10, ty)
	c1 := lerp(c01, c11, ty)
	return lerp(c0, c1, tz)
}

// gradient estimates the normalized central-difference gradient of the
// windowed intensity at ± one voxel width per axis, returning the unit
// gradient and its pre-normalization magnitude.
func (s *sampler) gradient(p Vec3) (Vec3, float64) {
	g := Vec3{
		X: s.intensity(Vec3{p.X + s.dx, p.Y, p.Z}) - s.intensity(Vec3{p.X - s.dx, p.Y, p.Z}),
		Y: s.intensity(Vec3{p.X, p.Y + s.dy, p.Z}) - s.intensity(Vec3{p.X, p.Y - s.dy, p.Z}),
		Z: s.intensity(Vec3{p.X, p.Y, p.Z + s.dz}) - s.intensity(Vec3{p.X, p.Y, p.Z - s.dz}),
	}
	mag := g.Norm()
	if mag == 0 {
		return Vec3{}, 0
	}
	return g.Scale(1 / mag), mag
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
