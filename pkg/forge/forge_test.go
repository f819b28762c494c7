package forge

import (
	"encoding/binary"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/medview.go/pkg/dicom"
	"github.com/jpfielding/medview.go/pkg/dicom/tag"
)

func TestGenerateUID(t *testing.T) {
	a := GenerateUID()
	b := GenerateUID()
	assert.True(t, strings.HasPrefix(a, "2.25."))
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, len(a), 64, "UID length limit")
}

func TestSeries_RoundTrip(t *testing.T) {
	// Odd dimensions put a voxel exactly at the phantom center
	files, err := Series(SeriesParams{Rows: 9, Columns: 9, Slices: 3})
	require.NoError(t, err)
	require.Len(t, files, 3)

	ds, err := dicom.Parse(files[1])
	require.NoError(t, err)

	patient, _, series, img, err := dicom.MapDataset(ds)
	require.NoError(t, err)

	assert.Equal(t, "PHANTOM-001", patient.ID)
	assert.Equal(t, "CT", series.Modality)
	assert.Equal(t, 9, img.Rows)
	assert.Equal(t, 16, img.BitsAllocated)
	assert.True(t, img.Signed())
	assert.Equal(t, 2, img.InstanceNumber)
	require.True(t, img.HasPosition)
	assert.Equal(t, 1.0, img.Position[2], "middle slice at z spacing 1.0")

	// Center voxel of the middle slice sits in the dense core
	center := (4*9 + 4) * 2
	v := int16(binary.LittleEndian.Uint16(img.PixelData[center:]))
	assert.Equal(t, int16(1000), v)

	// Corner voxel is background
	corner := int16(binary.LittleEndian.Uint16(img.PixelData[0:]))
	assert.Equal(t, int16(-1000), corner)
}

func TestSeries_SharedUIDs(t *testing.T) {
	files, err := Series(SeriesParams{Rows: 8, Columns: 8, Slices: 2})
	require.NoError(t, err)

	var study, series [2]string
	var sop [2]string
	for i, f := range files {
		ds, err := dicom.Parse(f)
		require.NoError(t, err)
		study[i], _ = ds.String(tag.StudyInstanceUID)
		series[i], _ = ds.String(tag.SeriesInstanceUID)
		sop[i], _ = ds.String(tag.SOPInstanceUID)
	}
	assert.Equal(t, study[0], study[1], "one study")
	assert.Equal(t, series[0], series[1], "one series")
	assert.NotEqual(t, sop[0], sop[1], "distinct instances")
}

func TestSpherePhantom(t *testing.T) {
	p := SeriesParams{Rows: 101, Columns: 101, Slices: 101}
	assert.Equal(t, int16(1000), SpherePhantom(50, 50, 50, p))
	assert.Equal(t, int16(200), SpherePhantom(75, 50, 50, p))
	assert.Equal(t, int16(-1000), SpherePhantom(0, 0, 0, p))
}

func TestWriteSeries(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteSeries(dir, SeriesParams{Rows: 8, Columns: 8, Slices: 2})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Contains(t, paths[0], "slice_0000.dcm")

	for _, p := range paths {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		_, err = dicom.Parse(data)
		require.NoError(t, err)
	}
}
