package volume

import "fmt"

// EmptySeriesError indicates reconstruction was asked to assemble an
// empty image collection.
type EmptySeriesError struct{}

func (e *EmptySeriesError) Error() string {
	return "volume: cannot reconstruct from an empty series"
}

// InconsistentGeometryError indicates the images of a series disagree
// on a property that must be uniform across slices.
type InconsistentGeometryError struct {
	Index int    // offending image position in the input
	Field string // property that differs
	Want  string
	Got   string
}

func (e *InconsistentGeometryError) Error() string {
	return fmt.Sprintf("volume: image %d disagrees on %s: want %s, got %s", e.Index, e.Field, e.Want, e.Got)
}

// IndexOutOfRangeError indicates a slice index outside [0, sliceCount)
type IndexOutOfRangeError struct {
	Plane Plane
	Index int
	Count int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("volume: %s slice index %d out of range [0,%d)", e.Plane, e.Index, e.Count)
}
