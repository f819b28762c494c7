package volume

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/jpfielding/medview.go/pkg/dicom/module"
)

// Reconstruct assembles an ordered collection of images from one series
// into a single contiguous volume.
//
// Slices are ordered primarily by the slice-position coordinate along
// the series' dominant axis when every image carries a position, else
// by slice location, else by instance number; ties keep the original
// input order. The result is therefore deterministic regardless of how
// the inputs were ordered.
//
// Depth spacing is the median delta between consecutive sorted
// positions. Non-uniform spacing is tolerated, not corrected: the
// volume pretends slices are uniformly spaced at the median, a known
// accuracy limitation for irregular acquisitions.
func Reconstruct(images []*module.Image) (*Volume, error) {
	if len(images) == 0 {
		return nil, &EmptySeriesError{}
	}

	first := images[0]
	if err := checkGeometry(images, first); err != nil {
		return nil, err
	}

	st, err := sampleTypeFor(first)
	if err != nil {
		return nil, err
	}

	ordered, positions := sortSlices(images)

	sliceBytes := first.SliceBytes()
	data := make([]byte, 0, sliceBytes*len(ordered))
	for _, im := range ordered {
		data = append(data, im.PixelData...)
	}

	vol, err := newVolume(first.Columns, first.Rows, len(ordered), st, data)
	if err != nil {
		return nil, err
	}
	vol.spacingX = first.PixelSpacingCol
	vol.spacingY = first.PixelSpacingRow
	vol.spacingZ = depthSpacing(positions)
	vol.rescaleSlope = first.RescaleSlope
	vol.rescaleIntercept = first.RescaleIntercept
	vol.windowCenter = first.WindowCenter
	vol.windowWidth = first.WindowWidth
	return vol, nil
}

// checkGeometry asserts per-slice properties against the first image
func checkGeometry(images []*module.Image, first *module.Image) error {
	for i, im := range images {
		switch {
		case im.Rows != first.Rows:
			return geomErr(i, "rows", first.Rows, im.Rows)
		case im.Columns != first.Columns:
			return geomErr(i, "columns", first.Columns, im.Columns)
		case im.BitsAllocated != first.BitsAllocated:
			return geomErr(i, "bits allocated", first.BitsAllocated, im.BitsAllocated)
		case im.PixelRepresentation != first.PixelRepresentation:
			return geomErr(i, "pixel representation", first.PixelRepresentation, im.PixelRepresentation)
		}
		if im.RescaleSlope != first.RescaleSlope || im.RescaleIntercept != first.RescaleIntercept {
			return &InconsistentGeometryError{
				Index: i,
				Field: "rescale",
				Want:  fmt.Sprintf("%g/%g", first.RescaleSlope, first.RescaleIntercept),
				Got:   fmt.Sprintf("%g/%g", im.RescaleSlope, im.RescaleIntercept),
			}
		}
		if len(im.PixelData) != first.SliceBytes() {
			return geomErr(i, "pixel buffer length", first.SliceBytes(), len(im.PixelData))
		}
	}
	return nil
}

func geomErr(i int, field string, want, got int) error {
	return &InconsistentGeometryError{
		Index: i,
		Field: field,
		Want:  fmt.Sprintf("%d", want),
		Got:   fmt.Sprintf("%d", got),
	}
}

// Order returns the images in the deterministic acquisition order the
// reconstructor uses, without assembling a volume.
func Order(images []*module.Image) []*module.Image {
	ordered, _ := sortSlices(images)
	return ordered
}

// sortSlices orders images deterministically and returns the sorted
// collection plus the per-slice ordering coordinate (NaN-free when a
// positional sort was used, nil otherwise).
func sortSlices(images []*module.Image) ([]*module.Image, []float64) {
	type keyed struct {
		im  *module.Image
		key float64
	}

	keys := make([]keyed, len(images))
	positional := false

	switch {
	case allHavePositions(images):
		axis := dominantAxis(images)
		for i, im := range images {
			keys[i] = keyed{im: im, key: im.Position[axis]}
		}
		positional = true
	case allHaveSliceLocations(images):
		for i, im := range images {
			keys[i] = keyed{im: im, key: im.SliceLocation}
		}
		positional = true
	default:
		for i, im := range images {
			keys[i] = keyed{im: im, key: float64(im.InstanceNumber)}
		}
	}

	// Stable: ties keep original input order
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].key < keys[j].key })

	ordered := make([]*module.Image, len(keys))
	var positions []float64
	if positional {
		positions = make([]float64, len(keys))
	}
	for i, k := range keys {
		ordered[i] = k.im
		if positional {
			positions[i] = k.key
		}
	}
	return ordered, positions
}

func allHavePositions(images []*module.Image) bool {
	for _, im := range images {
		if !im.HasPosition {
			return false
		}
	}
	return true
}

func allHaveSliceLocations(images []*module.Image) bool {
	for _, im := range images {
		if !im.HasSliceLocation {
			return false
		}
	}
	return true
}

// dominantAxis picks the axis with the greatest positional extent
func dominantAxis(images []*module.Image) int {
	var lo, hi [3]float64
	for a := 0; a < 3; a++ {
		lo[a], hi[a] = math.Inf(1), math.Inf(-1)
	}
	for _, im := range images {
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], im.Position[a])
			hi[a] = math.Max(hi[a], im.Position[a])
		}
	}
	axis, best := 2, -1.0
	for a := 0; a < 3; a++ {
		if ext := hi[a] - lo[a]; ext > best {
			axis, best = a, ext
		}
	}
	return axis
}

// depthSpacing is the median absolute delta between consecutive sorted
// positions, defaulting to 1.0 mm when fewer than two are known.
func depthSpacing(positions []float64) float64 {
	if len(positions) < 2 {
		return 1.0
	}
	deltas := make([]float64, 0, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		deltas = append(deltas, math.Abs(positions[i]-positions[i-1]))
	}
	sort.Float64s(deltas)
	med := stat.Quantile(0.5, stat.Empirical, deltas, nil)
	if med <= 0 {
		return 1.0
	}
	return med
}

func sampleTypeFor(im *module.Image) (SampleType, error) {
	switch im.BitsAllocated {
	case 8:
		return Uint8, nil
	case 16:
		// Unsigned 16-bit data also lands here; the rescale intercept
		// conventionally recenters it.
		return Int16, nil
	case 32:
		return Float32, nil
	}
	return 0, fmt.Errorf("volume: unsupported bits allocated %d", im.BitsAllocated)
}
