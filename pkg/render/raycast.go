package render

import (
	"math"
	"runtime"
	"sync"

	"github.com/jpfielding/medview.go/pkg/volume"
)

// Mode selects the per-ray projection
type Mode int

const (
	DVR   Mode = iota // direct volume rendering with compositing
	MIP               // maximum intensity projection
	MinIP             // minimum intensity projection
)

// Rendering constants. The kernel carries no per-lane error channel, so
// an unknown mode resolves to the sentinel color instead of a fault.
const (
	earlyExitAlpha  = 0.95
	shadeGradMin    = 0.05
	shadeAlphaMin   = 0.01
	defaultStep     = 0.004
	defaultMaxSteps = 1024
)

var sentinelColor = [4]float64{1, 0, 1, 1} // magenta

// Params configures one frame
type Params struct {
	Width  int
	Height int
	Mode   Mode

	Transfer TransferFunc

	// Display window applied before the transfer function; zero width
	// falls back to the volume's default window.
	WindowCenter float64
	WindowWidth  float64

	// March step in normalized volume-space units
	StepSize float64
	MaxSteps int

	// Opacity multiplier applied to each DVR sample
	DensityScale float64

	// Gradient-based diffuse/specular shading for DVR
	Shading bool

	// Worker goroutines; 0 means GOMAXPROCS
	Workers int
}

func (p Params) withDefaults(vol *volume.Volume) Params {
	if p.StepSize <= 0 {
		p.StepSize = defaultStep
	}
	if p.MaxSteps <= 0 {
		p.MaxSteps = defaultMaxSteps
	}
	if p.DensityScale <= 0 {
		p.DensityScale = 1
	}
	if p.WindowWidth <= 0 {
		p.WindowCenter, p.WindowWidth = vol.DefaultWindow()
	}
	if p.Workers <= 0 {
		p.Workers = runtime.GOMAXPROCS(0)
	}
	return p
}

// Render produces one frame by fanning rows across a bounded worker
// pool. Every pixel is an independent computation over the shared
// read-only volume; the parallel and serial paths run the identical
// kernel, so output is reproducible across both.
func Render(vol *volume.Volume, cam Camera, p Params) *Frame {
	p = p.withDefaults(vol)
	f := NewFrame(p.Width, p.Height)
	s := newSampler(vol, p.WindowCenter, p.WindowWidth)

	rows := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < p.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := range rows {
				for x := 0; x < p.Width; x++ {
					f.set(x, y, renderPixel(s, cam, float64(x), float64(y), p))
				}
			}
		}()
	}
	for y := 0; y < p.Height; y++ {
		rows <- y
	}
	close(rows)
	wg.Wait()
	return f
}

// RenderSerial is the scalar reference implementation: the same kernel
// as Render, run in one goroutine. Kept for validating that parallel
// output matches.
func RenderSerial(vol *volume.Volume, cam Camera, p Params) *Frame {
	p = p.withDefaults(vol)
	f := NewFrame(p.Width, p.Height)
	s := newSampler(vol, p.WindowCenter, p.WindowWidth)
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			f.set(x, y, renderPixel(s, cam, float64(x), float64(y), p))
		}
	}
	return f
}

// renderPixel is the pure per-pixel kernel: build a ray, intersect the
// unit cube, march, project. No shared mutable state.
func renderPixel(s *sampler, cam Camera, px, py float64, p Params) [4]float64 {
	origin, dir := cam.ray(px, py, float64(p.Width), float64(p.Height))

	tNear, tFar, ok := intersectUnitCube(origin, dir)
	if !ok {
		return [4]float64{}
	}
	if tNear < 0 {
		tNear = 0
	}

	switch p.Mode {
	case DVR:
		return marchDVR(s, origin, dir, tNear, tFar, p)
	case MIP:
		return marchMIP(s, origin, dir, tNear, tFar, p)
	case MinIP:
		return marchMinIP(s, origin, dir, tNear, tFar, p)
	default:
		return sentinelColor
	}
}

// intersectUnitCube slab-tests the ray against [0,1]^3. Rejects when
// the near intersection exceeds the far one or the cube is behind the
// origin.
func intersectUnitCube(origin, dir Vec3) (tNear, tFar float64, ok bool) {
	tNear, tFar = math.Inf(-1), math.Inf(1)
	o := [3]float64{origin.X, origin.Y, origin.Z}
	d := [3]float64{dir.X, dir.Y, dir.Z}
	for a := 0; a < 3; a++ {
		if d[a] == 0 {
			if o[a] < 0 || o[a] > 1 {
				return 0, 0, false
			}
			continue
		}
		t1 := (0 - o[a]) / d[a]
		t2 := (1 - o[a]) / d[a]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
	}
	if tNear > tFar || tFar < 0 {
		return 0, 0, false
	}
	return tNear, tFar, true
}

func marchDVR(s *sampler, origin, dir Vec3, tNear, tFar float64, p Params) [4]float64 {
	var acc [4]float64
	t := tNear
	for step := 0; step < p.MaxSteps && t <= tFar; step++ {
		pos := origin.Add(dir.Scale(t))
		i := s.intensity(pos)
		r, g, b, a := p.Transfer.Lookup(i)
		a = clamp01(a * p.DensityScale)

		if p.Shading && a > shadeAlphaMin {
			grad, mag := s.gradient(pos)
			if mag > shadeGradMin {
				light := dir.Scale(-1) // headlight
				diffuse := math.Max(0, grad.Dot(light))
				specular := math.Pow(diffuse, 32)
				shade := 0.2 + 0.7*diffuse + 0.3*specular
				r *= shade
				g *= shade
				b *= shade
			}
		}

		// Front-to-back compositing
		acc[0] += r * a * (1 - acc[3])
		acc[1] += g * a * (1 - acc[3])
		acc[2] += b * a * (1 - acc[3])
		acc[3] += a * (1 - acc[3])
		if acc[3] >= earlyExitAlpha {
			break
		}
		t += p.StepSize
	}
	return acc
}

func marchMIP(s *sampler, origin, dir Vec3, tNear, tFar float64, p Params) [4]float64 {
	maxI := 0.0
	t := tNear
	for step := 0; step < p.MaxSteps && t <= tFar; step++ {
		if i := s.intensity(origin.Add(dir.Scale(t))); i > maxI {
			maxI = i
		}
		t += p.StepSize
	}
	a := 0.0
	if maxI > 0 {
		a = 1
	}
	return [4]float64{maxI, maxI, maxI, a}
}

func marchMinIP(s *sampler, origin, dir Vec3, tNear, tFar float64, p Params) [4]float64 {
	minI := 1.0
	t := tNear
	for step := 0; step < p.MaxSteps && t <= tFar; step++ {
		if i := s.intensity(origin.Add(dir.Scale(t))); i < minI {
			minI = i
		}
		t += p.StepSize
	}
	a := 0.0
	if minI < 1 {
		a = 1
	}
	return [4]float64{minI, minI, minI, a}
}
