package volume

import (
	"fmt"
	"math"
)

// Plane identifies an extraction plane through the volume
type Plane int

const (
	Axial    Plane = iota // XY at fixed Z
	Coronal               // XZ at fixed Y
	Sagittal              // YZ at fixed X
)

func (p Plane) String() string {
	switch p {
	case Axial:
		return "axial"
	case Coronal:
		return "coronal"
	case Sagittal:
		return "sagittal"
	}
	return fmt.Sprintf("Plane(%d)", int(p))
}

// Slice is a read-only 2D extraction from a volume. It owns a copy of
// its samples, not a view into the volume buffer.
type Slice struct {
	data       []byte
	width      int
	height     int
	plane      Plane
	index      int
	sampleType SampleType

	rescaleSlope     float64
	rescaleIntercept float64
	windowCenter     float64
	windowWidth      float64
}

// Width returns the slice width in samples
func (s *Slice) Width() int { return s.width }

// Height returns the slice height in samples
func (s *Slice) Height() int { return s.height }

// Plane returns the extraction plane
func (s *Slice) Plane() Plane { return s.plane }

// Index returns the extraction index within its plane
func (s *Slice) Index() int { return s.index }

// Data returns the copied sample bytes in row-major order
func (s *Slice) Data() []byte { return s.data }

// Window returns the display window inherited from the volume
func (s *Slice) Window() (center, width float64) {
	return s.windowCenter, s.windowWidth
}

// SliceCount returns the number of slices available in a plane
func (v *Volume) SliceCount(p Plane) int {
	switch p {
	case Axial:
		return v.depth
	case Coronal:
		return v.height
	case Sagittal:
		return v.width
	}
	return 0
}

// Extract produces a 2D slice at an index within a plane. Axial slices
// are one contiguous copy; coronal and sagittal slices are strided
// gathers over the same row-major, width-fastest layout the
// reconstructor produced.
func (v *Volume) Extract(p Plane, index int) (*Slice, error) {
	count := v.SliceCount(p)
	if count == 0 {
		return nil, &IndexOutOfRangeError{Plane: p, Index: index, Count: count}
	}
	if index < 0 || index >= count {
		return nil, &IndexOutOfRangeError{Plane: p, Index: index, Count: count}
	}

	bps := v.sampleType.Bytes()
	s := &Slice{
		plane:            p,
		index:            index,
		sampleType:       v.sampleType,
		rescaleSlope:     v.rescaleSlope,
		rescaleIntercept: v.rescaleIntercept,
		windowCenter:     v.windowCenter,
		windowWidth:      v.windowWidth,
	}

	switch p {
	case Axial:
		// Fast path: one contiguous run
		s.width, s.height = v.width, v.height
		n := v.width * v.height * bps
		s.data = make([]byte, n)
		copy(s.data, v.data[index*n:(index+1)*n])

	case Coronal:
		// Rows of X gathered across Z at fixed Y
		s.width, s.height = v.width, v.depth
		s.data = make([]byte, v.width*v.depth*bps)
		rowBytes := v.width * bps
		planeBytes := v.width * v.height * bps
		for z := 0; z < v.depth; z++ {
			src := z*planeBytes + index*rowBytes
			copy(s.data[z*rowBytes:(z+1)*rowBytes], v.data[src:src+rowBytes])
		}

	case Sagittal:
		// Columns of Y gathered across Z at fixed X
		s.width, s.height = v.height, v.depth
		s.data = make([]byte, v.height*v.depth*bps)
		for z := 0; z < v.depth; z++ {
			for y := 0; y < v.height; y++ {
				src := ((z*v.height+y)*v.width + index) * bps
				dst := (z*v.height + y) * bps
				copy(s.data[dst:dst+bps], v.data[src:src+bps])
			}
		}
	}

	return s, nil
}

// Window8 converts the slice to 8-bit display samples: rescaled values
// in [center-width/2, center+width/2] map linearly to [0,255], clamped
// outside the range.
func (s *Slice) Window8(center, width float64) []byte {
	if width <= 0 {
		width = math.SmallestNonzeroFloat64
	}
	lo := center - width/2
	out := make([]byte, s.width*s.height)
	for i := range out {
		v := s.rescaleSlope*s.sample(i) + s.rescaleIntercept
		t := (v - lo) / width * 255
		switch {
		case t <= 0:
			out[i] = 0
		case t >= 255:
			out[i] = 255
		default:
			out[i] = byte(t + 0.5)
		}
	}
	return out
}

// sample returns the raw stored value at a flat index
func (s *Slice) sample(i int) float64 {
	switch s.sampleType {
	case Uint8:
		return float64(s.data[i])
	case Int16:
		return float64(int16(uint16(s.data[i*2]) | uint16(s.data[i*2+1])<<8))
	case Float32:
		bits := uint32(s.data[i*4]) | uint32(s.data[i*4+1])<<8 |
			uint32(s.data[i*4+2])<<16 | uint32(s.data[i*4+3])<<24
		return float64(math.Float32frombits(bits))
	}
	return 0
}
