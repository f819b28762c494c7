// Package forge generates synthetic CT series, for tests and for
// exercising the import and render paths without patient data.
package forge

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jpfielding/medview.go/pkg/dicom"
	"github.com/jpfielding/medview.go/pkg/dicom/tag"
	"github.com/jpfielding/medview.go/pkg/dicom/transfer"
)

// Phantom computes the stored sample at a voxel
type Phantom func(x, y, z int, p SeriesParams) int16

// SeriesParams describes a synthetic series
type SeriesParams struct {
	Rows    int
	Columns int
	Slices  int

	PatientID   string
	PatientName string // PN format, caret separated

	PixelSpacing float64 // mm, both axes
	SliceSpacing float64 // mm between slices

	RescaleSlope     float64
	RescaleIntercept float64
	WindowCenter     float64
	WindowWidth      float64

	Phantom Phantom
}

func (p SeriesParams) withDefaults() SeriesParams {
	if p.Rows == 0 {
		p.Rows = 128
	}
	if p.Columns == 0 {
		p.Columns = 128
	}
	if p.Slices == 0 {
		p.Slices = 16
	}
	if p.PatientID == "" {
		p.PatientID = "PHANTOM-001"
	}
	if p.PatientName == "" {
		p.PatientName = "Phantom^Forge"
	}
	if p.PixelSpacing == 0 {
		p.PixelSpacing = 0.7
	}
	if p.SliceSpacing == 0 {
		p.SliceSpacing = 1.0
	}
	if p.RescaleSlope == 0 {
		p.RescaleSlope = 1.0
	}
	if p.WindowWidth == 0 {
		p.WindowCenter, p.WindowWidth = 40, 400
	}
	if p.Phantom == nil {
		p.Phantom = SpherePhantom
	}
	return p
}

// SpherePhantom is a dense ball in a softer shell, dim background
func SpherePhantom(x, y, z int, p SeriesParams) int16 {
	cx := float64(p.Columns-1) / 2
	cy := float64(p.Rows-1) / 2
	cz := float64(p.Slices-1) / 2
	// Normalized radial distance
	dx := (float64(x) - cx) / math.Max(cx, 1)
	dy := (float64(y) - cy) / math.Max(cy, 1)
	dz := (float64(z) - cz) / math.Max(cz, 1)
	r := math.Sqrt(dx*dx + dy*dy + dz*dz)
	switch {
	case r < 0.3:
		return 1000
	case r < 0.6:
		return 200
	default:
		return -1000
	}
}

// GenerateUID derives a UID under the UUID arc (2.25) per the standard
func GenerateUID() string {
	u := uuid.New()
	var n big.Int
	n.SetBytes(u[:])
	return "2.25." + n.String()
}

// Series encodes each synthetic slice as a complete file in Explicit
// VR Little Endian, in acquisition order.
func Series(p SeriesParams) ([][]byte, error) {
	p = p.withDefaults()

	studyUID := GenerateUID()
	seriesUID := GenerateUID()

	files := make([][]byte, 0, p.Slices)
	for z := 0; z < p.Slices; z++ {
		pixels := make([]int16, p.Rows*p.Columns)
		for y := 0; y < p.Rows; y++ {
			for x := 0; x < p.Columns; x++ {
				pixels[y*p.Columns+x] = p.Phantom(x, y, z, p)
			}
		}

		ds, err := dicom.NewDataset(
			dicom.WithFileMeta("1.2.840.10008.5.1.4.1.1.2", GenerateUID(), string(transfer.ExplicitVRLittleEndian)),
			dicom.WithElement(tag.SOPClassUID, "1.2.840.10008.5.1.4.1.1.2"),
			dicom.WithElement(tag.SOPInstanceUID, GenerateUID()),
			dicom.WithElement(tag.PatientName, p.PatientName),
			dicom.WithElement(tag.PatientID, p.PatientID),
			dicom.WithElement(tag.StudyInstanceUID, studyUID),
			dicom.WithElement(tag.SeriesInstanceUID, seriesUID),
			dicom.WithElement(tag.Modality, "CT"),
			dicom.WithElement(tag.InstanceNumber, z+1),
			dicom.WithElement(tag.Rows, p.Rows),
			dicom.WithElement(tag.Columns, p.Columns),
			dicom.WithElement(tag.BitsAllocated, 16),
			dicom.WithElement(tag.BitsStored, 16),
			dicom.WithElement(tag.HighBit, 15),
			dicom.WithElement(tag.PixelRepresentation, 1),
			dicom.WithElement(tag.SamplesPerPixel, 1),
			dicom.WithElement(tag.PhotometricInterpretation, "MONOCHROME2"),
			dicom.WithElement(tag.RescaleSlope, p.RescaleSlope),
			dicom.WithElement(tag.RescaleIntercept, p.RescaleIntercept),
			dicom.WithElement(tag.PixelSpacing, []float64{p.PixelSpacing, p.PixelSpacing}),
			dicom.WithElement(tag.ImagePositionPatient, []float64{0, 0, float64(z) * p.SliceSpacing}),
			dicom.WithElement(tag.SliceLocation, float64(z)*p.SliceSpacing),
			dicom.WithElement(tag.WindowCenter, p.WindowCenter),
			dicom.WithElement(tag.WindowWidth, p.WindowWidth),
			dicom.WithElement(tag.PixelData, pixels),
		)
		if err != nil {
			return nil, fmt.Errorf("forge: building slice %d: %w", z, err)
		}

		var buf bytes.Buffer
		if _, err := dicom.Write(&buf, ds); err != nil {
			return nil, fmt.Errorf("forge: encoding slice %d: %w", z, err)
		}
		files = append(files, buf.Bytes())
	}
	return files, nil
}

// WriteSeries materializes a synthetic series into a directory
func WriteSeries(dir string, p SeriesParams) ([]string, error) {
	files, err := Series(p)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	paths := make([]string, len(files))
	for i, data := range files {
		path := filepath.Join(dir, fmt.Sprintf("slice_%04d.dcm", i))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}
