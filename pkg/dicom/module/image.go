package module

// Image represents a single 2D instance: its pixel buffer plus the
// geometry needed to place the slice in a reconstructed volume.
// PixelData holds host-order (little endian) sample bytes; the mapper
// normalizes byte order when a file was big endian.
type Image struct {
	SOPInstanceUID string
	InstanceNumber int

	Rows                int
	Columns             int
	BitsAllocated       int
	BitsStored          int
	PixelRepresentation int // 0 = unsigned, 1 = two's complement

	RescaleSlope     float64
	RescaleIntercept float64

	// Pixel spacing in mm, row then column
	PixelSpacingRow float64
	PixelSpacingCol float64

	// Position of the slice origin in patient space, when present
	Position    [3]float64
	HasPosition bool

	SliceLocation    float64
	HasSliceLocation bool

	WindowCenter float64
	WindowWidth  float64

	PixelData []byte
}

// Signed reports whether samples are two's complement
func (im *Image) Signed() bool {
	return im.PixelRepresentation == 1
}

// BytesPerSample returns the storage width of one sample
func (im *Image) BytesPerSample() int {
	return im.BitsAllocated / 8
}

// SliceBytes returns the expected pixel buffer length
func (im *Image) SliceBytes() int {
	return im.Rows * im.Columns * im.BytesPerSample()
}
