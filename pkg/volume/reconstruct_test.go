package volume

import (
	"bytes"
	"encoding/binary"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/medview.go/pkg/dicom/module"
)

// ctSlice builds a signed 16-bit test image positioned along Z
func ctSlice(rows, cols int, z float64, fill int16) *module.Image {
	im := &module.Image{
		Rows:                rows,
		Columns:             cols,
		BitsAllocated:       16,
		BitsStored:          16,
		PixelRepresentation: 1,
		RescaleSlope:        1.0,
		RescaleIntercept:    0.0,
		PixelSpacingRow:     1.0,
		PixelSpacingCol:     1.0,
		Position:            [3]float64{0, 0, z},
		HasPosition:         true,
	}
	im.PixelData = make([]byte, rows*cols*2)
	for i := 0; i < rows*cols; i++ {
		binary.LittleEndian.PutUint16(im.PixelData[i*2:], uint16(fill))
	}
	return im
}

func TestReconstruct_EmptySeries(t *testing.T) {
	_, err := Reconstruct(nil)
	var eerr *EmptySeriesError
	require.ErrorAs(t, err, &eerr)
}

func TestReconstruct_InconsistentRows(t *testing.T) {
	images := []*module.Image{
		ctSlice(16, 16, 0, 0),
		ctSlice(32, 16, 1, 0),
	}
	_, err := Reconstruct(images)
	var gerr *InconsistentGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, 1, gerr.Index)
	assert.Equal(t, "rows", gerr.Field)
}

func TestReconstruct_InconsistentRescale(t *testing.T) {
	a := ctSlice(16, 16, 0, 0)
	b := ctSlice(16, 16, 1, 0)
	b.RescaleIntercept = -1024
	_, err := Reconstruct([]*module.Image{a, b})
	var gerr *InconsistentGeometryError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "rescale", gerr.Field)
}

func TestReconstruct_SingleSlice(t *testing.T) {
	im := ctSlice(256, 256, 0, -1024)
	im.RescaleIntercept = -1024.0
	im.PixelSpacingRow = 0.7
	im.PixelSpacingCol = 0.7

	vol, err := Reconstruct([]*module.Image{im})
	require.NoError(t, err)

	assert.Equal(t, 256, vol.Width())
	assert.Equal(t, 256, vol.Height())
	assert.Equal(t, 1, vol.Depth())
	assert.Equal(t, Int16, vol.SampleType())
	assert.Equal(t, 256*256*2, vol.NumBytes())

	sx, sy, sz := vol.Spacing()
	assert.Equal(t, 0.7, sx)
	assert.Equal(t, 0.7, sy)
	assert.Equal(t, 1.0, sz, "single slice falls back to 1.0 mm")

	px, py, _ := vol.PhysicalSize()
	assert.InDelta(t, 179.2, px, 1e-9)
	assert.InDelta(t, 179.2, py, 1e-9)

	slope, icept := vol.Rescale()
	assert.Equal(t, 1.0, slope)
	assert.Equal(t, -1024.0, icept)
	assert.Equal(t, -2048.0, vol.Value(0, 0, 0), "stored -1024 shifted by the intercept")
}

// TestReconstruct_OrderInvariance feeds the same slices in shuffled
// orders and expects bit-identical volume buffers.
func TestReconstruct_OrderInvariance(t *testing.T) {
	const n = 20
	images := make([]*module.Image, n)
	for i := range images {
		images[i] = ctSlice(128, 128, float64(i)*0.7, int16(i*100))
	}

	ref, err := Reconstruct(images)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		shuffled := make([]*module.Image, n)
		copy(shuffled, images)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		vol, err := Reconstruct(shuffled)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(ref.Data(), vol.Data()), "trial %d", trial)
	}
}

func TestReconstruct_DominantAxis(t *testing.T) {
	// Sagittal-style stack: positions advance along X, Z constant
	images := make([]*module.Image, 4)
	for i := range images {
		im := ctSlice(8, 8, 0, int16(i))
		im.Position = [3]float64{float64(3-i) * 2.0, 5, 5}
		images[i] = im
	}

	vol, err := Reconstruct(images)
	require.NoError(t, err)

	// Slice at depth 0 is the one with the smallest X position (fill 3)
	assert.Equal(t, 3.0, vol.Raw(0, 0, 0))
	assert.Equal(t, 0.0, vol.Raw(0, 0, 3))

	_, _, sz := vol.Spacing()
	assert.Equal(t, 2.0, sz)
}

func TestReconstruct_SliceLocationFallback(t *testing.T) {
	images := make([]*module.Image, 3)
	for i := range images {
		im := ctSlice(8, 8, 0, int16(i))
		im.HasPosition = false
		im.SliceLocation = float64(2 - i)
		im.HasSliceLocation = true
		images[i] = im
	}

	vol, err := Reconstruct(images)
	require.NoError(t, err)
	assert.Equal(t, 2.0, vol.Raw(0, 0, 0))
	assert.Equal(t, 0.0, vol.Raw(0, 0, 2))
}

func TestReconstruct_InstanceNumberFallback(t *testing.T) {
	images := make([]*module.Image, 3)
	for i := range images {
		im := ctSlice(8, 8, 0, int16(i))
		im.HasPosition = false
		im.InstanceNumber = 3 - i
		images[i] = im
	}

	vol, err := Reconstruct(images)
	require.NoError(t, err)
	assert.Equal(t, 2.0, vol.Raw(0, 0, 0))

	// No positional information: default depth spacing
	_, _, sz := vol.Spacing()
	assert.Equal(t, 1.0, sz)
}

func TestReconstruct_MedianSpacing(t *testing.T) {
	// Deltas 0.7, 0.7, 2.1: one gap, median still 0.7
	zs := []float64{0, 0.7, 1.4, 3.5}
	images := make([]*module.Image, len(zs))
	for i, z := range zs {
		images[i] = ctSlice(8, 8, z, 0)
	}

	vol, err := Reconstruct(images)
	require.NoError(t, err)
	_, _, sz := vol.Spacing()
	assert.InDelta(t, 0.7, sz, 1e-9)
}

func TestReconstruct_StableTies(t *testing.T) {
	// Identical positions: input order is preserved
	a := ctSlice(8, 8, 0, 1)
	b := ctSlice(8, 8, 0, 2)
	c := ctSlice(8, 8, 0, 3)

	vol, err := Reconstruct([]*module.Image{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 1.0, vol.Raw(0, 0, 0))
	assert.Equal(t, 2.0, vol.Raw(0, 0, 1))
	assert.Equal(t, 3.0, vol.Raw(0, 0, 2))
}

func TestReconstruct_UnsupportedBits(t *testing.T) {
	im := ctSlice(8, 8, 0, 0)
	im.BitsAllocated = 12
	im.PixelData = make([]byte, im.SliceBytes())
	_, err := Reconstruct([]*module.Image{im})
	require.Error(t, err)
}

func TestOrder(t *testing.T) {
	a := ctSlice(8, 8, 2, 0)
	b := ctSlice(8, 8, 0, 0)
	c := ctSlice(8, 8, 1, 0)

	ordered := Order([]*module.Image{a, b, c})
	require.Len(t, ordered, 3)
	assert.Same(t, b, ordered[0])
	assert.Same(t, c, ordered[1])
	assert.Same(t, a, ordered[2])
}
