// Package volume assembles ordered image stacks into 3D sample volumes
// and extracts arbitrary-plane 2D slices from them.
package volume

import (
	"encoding/binary"
	"fmt"
	"math"
)

// SampleType identifies the storage type of one voxel
type SampleType int

const (
	Uint8 SampleType = iota
	Int16
	Float32
)

// Bytes returns the storage width of one sample
func (st SampleType) Bytes() int {
	switch st {
	case Uint8:
		return 1
	case Int16:
		return 2
	case Float32:
		return 4
	}
	return 0
}

func (st SampleType) String() string {
	switch st {
	case Uint8:
		return "uint8"
	case Int16:
		return "int16"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("SampleType(%d)", int(st))
}

// Volume is an owned, contiguous 3D sample buffer in row-major order,
// width fastest, slice-by-slice. It is immutable once constructed and
// is only created by Reconstruct; any number of concurrent readers may
// share it without locking.
type Volume struct {
	width  int
	height int
	depth  int

	sampleType SampleType

	// Voxel spacing in mm per axis
	spacingX float64
	spacingY float64
	spacingZ float64

	rescaleSlope     float64
	rescaleIntercept float64

	windowCenter float64
	windowWidth  float64

	data []byte
}

// newVolume enforces the buffer invariant:
// len(data) == width*height*depth*bytesPerSample.
func newVolume(width, height, depth int, st SampleType, data []byte) (*Volume, error) {
	want := width * height * depth * st.Bytes()
	if len(data) != want {
		return nil, fmt.Errorf("volume buffer is %d bytes, want %d (%dx%dx%d %s)",
			len(data), want, width, height, depth, st)
	}
	return &Volume{
		width:        width,
		height:       height,
		depth:        depth,
		sampleType:   st,
		spacingX:     1.0,
		spacingY:     1.0,
		spacingZ:     1.0,
		rescaleSlope: 1.0,
		data:         data,
	}, nil
}

// Width returns the voxel count along X
func (v *Volume) Width() int { return v.width }

// Height returns the voxel count along Y
func (v *Volume) Height() int { return v.height }

// Depth returns the voxel count along Z (slice count)
func (v *Volume) Depth() int { return v.depth }

// SampleType returns the voxel storage type
func (v *Volume) SampleType() SampleType { return v.sampleType }

// Spacing returns per-axis physical spacing in mm
func (v *Volume) Spacing() (x, y, z float64) {
	return v.spacingX, v.spacingY, v.spacingZ
}

// PhysicalSize returns the volume extent in mm per axis
func (v *Volume) PhysicalSize() (x, y, z float64) {
	return float64(v.width) * v.spacingX, float64(v.height) * v.spacingY, float64(v.depth) * v.spacingZ
}

// Rescale returns the slope/intercept calibration to physical units
func (v *Volume) Rescale() (slope, intercept float64) {
	return v.rescaleSlope, v.rescaleIntercept
}

// DefaultWindow returns the acquisition's display window
func (v *Volume) DefaultWindow() (center, width float64) {
	return v.windowCenter, v.windowWidth
}

// Data exposes the underlying sample buffer. Callers must treat it as
// read-only; the volume may be shared across goroutines.
func (v *Volume) Data() []byte { return v.data }

// NumBytes returns the buffer length
func (v *Volume) NumBytes() int { return len(v.data) }

// Raw returns the stored sample value at (x, y, z) without rescaling.
// Out-of-range coordinates return 0.
func (v *Volume) Raw(x, y, z int) float64 {
	if x < 0 || x >= v.width || y < 0 || y >= v.height || z < 0 || z >= v.depth {
		return 0
	}
	idx := (z*v.height+y)*v.width + x
	switch v.sampleType {
	case Uint8:
		return float64(v.data[idx])
	case Int16:
		return float64(int16(binary.LittleEndian.Uint16(v.data[idx*2:])))
	case Float32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(v.data[idx*4:])))
	}
	return 0
}

// Value returns the rescaled (physical-unit) value at (x, y, z)
func (v *Volume) Value(x, y, z int) float64 {
	return v.rescaleSlope*v.Raw(x, y, z) + v.rescaleIntercept
}
