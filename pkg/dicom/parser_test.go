package dicom

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpfielding/medview.go/pkg/dicom/tag"
	"github.com/jpfielding/medview.go/pkg/dicom/transfer"
	"github.com/jpfielding/medview.go/pkg/dicom/vr"
)

// fileWith builds a minimal file: preamble, magic, a File Meta group
// declaring the transfer syntax, then the raw body bytes.
func fileWith(t *testing.T, ts transfer.Syntax, body []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	buf.Write(make([]byte, 128))
	buf.WriteString("DICM")
	buf.Write(explicitElement(t, tag.TransferSyntaxUID, "UI", paddedUID(string(ts))))
	buf.Write(body)
	return buf.Bytes()
}

func paddedUID(uid string) []byte {
	b := []byte(uid)
	if len(b)%2 != 0 {
		b = append(b, 0)
	}
	return b
}

// explicitElement encodes one element in explicit VR little endian
func explicitElement(t *testing.T, tg tag.Tag, code string, value []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, tg.Group)
	binary.Write(&buf, binary.LittleEndian, tg.Element)
	buf.WriteString(code)
	if vr.VR(code).IsShortLength() {
		binary.Write(&buf, binary.LittleEndian, uint16(len(value)))
	} else {
		buf.Write([]byte{0, 0})
		binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
	}
	buf.Write(value)
	return buf.Bytes()
}

// implicitElement encodes one element in implicit VR little endian
func implicitElement(t *testing.T, tg tag.Tag, value []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, tg.Group)
	binary.Write(&buf, binary.LittleEndian, tg.Element)
	binary.Write(&buf, binary.LittleEndian, uint32(len(value)))
	buf.Write(value)
	return buf.Bytes()
}

func TestParse_TruncatedPreamble(t *testing.T) {
	_, err := Parse(make([]byte, 64))
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestParse_BadMagic(t *testing.T) {
	data := make([]byte, 200)
	copy(data[128:], "NOPE")
	_, err := Parse(data)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 128, ferr.Offset)
}

func TestParse_LengthPastEnd(t *testing.T) {
	body := explicitElement(t, tag.PatientID, "LO", []byte("ABCD"))
	// Corrupt the declared length to run past the buffer
	file := fileWith(t, transfer.ExplicitVRLittleEndian, body)
	file[len(file)-6] = 0xFF // low byte of the 2-byte LO length
	_, err := Parse(file)
	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestParse_UnsupportedTransferSyntax(t *testing.T) {
	for _, ts := range []transfer.Syntax{
		transfer.JPEGLSLossless,
		transfer.JPEG2000,
		transfer.RLELossless,
		transfer.DeflatedExplicitVR,
		transfer.Syntax("1.2.3.4.not.a.syntax"),
	} {
		body := explicitElement(t, tag.PatientID, "LO", []byte("ABCD"))
		_, err := Parse(fileWith(t, ts, body))
		var uerr *UnsupportedTransferSyntaxError
		require.ErrorAs(t, err, &uerr, "syntax %s", ts)
		assert.Equal(t, string(ts), uerr.UID)
	}
}

func TestParse_ExplicitShortAndLongVRs(t *testing.T) {
	var body bytes.Buffer
	body.Write(explicitElement(t, tag.PatientName, "PN", []byte("Doe^John")))
	body.Write(explicitElement(t, tag.Rows, "US", []byte{0x00, 0x01})) // 256
	body.Write(explicitElement(t, tag.PixelData, "OW", []byte{1, 2, 3, 4, 5, 6}))

	ds, err := Parse(fileWith(t, transfer.ExplicitVRLittleEndian, body.Bytes()))
	require.NoError(t, err)

	name, ok := ds.String(tag.PatientName)
	require.True(t, ok)
	assert.Equal(t, "Doe^John", name)

	rows, ok := ds.Uint16(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, uint16(256), rows)

	px, ok := ds.Bytes(tag.PixelData)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, px)
	assert.Equal(t, transfer.ExplicitVRLittleEndian, ds.TransferSyntax())
}

func TestParse_ImplicitVR(t *testing.T) {
	var body bytes.Buffer
	body.Write(implicitElement(t, tag.Rows, []byte{0x80, 0x00})) // 128
	body.Write(implicitElement(t, tag.PatientID, []byte("PID1")))

	ds, err := Parse(fileWith(t, transfer.ImplicitVRLittleEndian, body.Bytes()))
	require.NoError(t, err)

	rows, ok := ds.Uint16(tag.Rows)
	require.True(t, ok)
	assert.Equal(t, uint16(128), rows)

	// VR resolved from the dictionary
	e, ok := ds.Get(tag.PatientID)
	require.True(t, ok)
	assert.Equal(t, vr.LO, e.VR)
}

func TestParse_DuplicateTagOverwrites(t *testing.T) {
	var body bytes.Buffer
	body.Write(explicitElement(t, tag.PatientID, "LO", []byte("OLD1")))
	body.Write(explicitElement(t, tag.PatientID, "LO", []byte("NEW1")))

	ds, err := Parse(fileWith(t, transfer.ExplicitVRLittleEndian, body.Bytes()))
	require.NoError(t, err)

	id, _ := ds.String(tag.PatientID)
	assert.Equal(t, "NEW1", id)
	// Overwrite, not append
	count := 0
	for _, tg := range ds.Tags() {
		if tg == tag.PatientID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestParse_InsertionOrderMirrorsFile(t *testing.T) {
	var body bytes.Buffer
	body.Write(explicitElement(t, tag.Rows, "US", []byte{0, 1}))
	body.Write(explicitElement(t, tag.PatientID, "LO", []byte("PID1")))
	body.Write(explicitElement(t, tag.Columns, "US", []byte{0, 1}))

	ds, err := Parse(fileWith(t, transfer.ExplicitVRLittleEndian, body.Bytes()))
	require.NoError(t, err)

	tags := ds.Tags()
	require.Len(t, tags, 4) // transfer syntax + 3 body elements
	assert.Equal(t, tag.Rows, tags[1])
	assert.Equal(t, tag.PatientID, tags[2])
	assert.Equal(t, tag.Columns, tags[3])
}

func TestParse_UndefinedLengthSequenceIsOpaque(t *testing.T) {
	var body bytes.Buffer
	// SQ with undefined length: one fixed-length item, then the
	// sequence delimiter
	sq := tag.New(0x0008, 0x1115)
	binary.Write(&body, binary.LittleEndian, sq.Group)
	binary.Write(&body, binary.LittleEndian, sq.Element)
	body.WriteString("SQ")
	body.Write([]byte{0, 0})
	binary.Write(&body, binary.LittleEndian, uint32(0xFFFFFFFF))

	var item bytes.Buffer
	item.Write(explicitElement(t, tag.SOPInstanceUID, "UI", paddedUID("1.2.3.4")))
	binary.Write(&body, binary.LittleEndian, uint16(0xFFFE))
	binary.Write(&body, binary.LittleEndian, uint16(0xE000))
	binary.Write(&body, binary.LittleEndian, uint32(item.Len()))
	body.Write(item.Bytes())
	binary.Write(&body, binary.LittleEndian, uint16(0xFFFE))
	binary.Write(&body, binary.LittleEndian, uint16(0xE0DD))
	binary.Write(&body, binary.LittleEndian, uint32(0))

	body.Write(explicitElement(t, tag.PatientID, "LO", []byte("PID1")))

	ds, err := Parse(fileWith(t, transfer.ExplicitVRLittleEndian, body.Bytes()))
	require.NoError(t, err)

	e, ok := ds.Get(sq)
	require.True(t, ok)
	assert.Equal(t, vr.SQ, e.VR)
	assert.NotEmpty(t, e.Value, "sequence stored as opaque bytes")

	// Elements after the sequence still parse
	id, ok := ds.String(tag.PatientID)
	require.True(t, ok)
	assert.Equal(t, "PID1", id)
}

func TestParse_Idempotent(t *testing.T) {
	var body bytes.Buffer
	body.Write(explicitElement(t, tag.PatientID, "LO", []byte("PID1")))
	body.Write(explicitElement(t, tag.Rows, "US", []byte{0, 1}))
	file := fileWith(t, transfer.ExplicitVRLittleEndian, body.Bytes())

	ds1, err := Parse(file)
	require.NoError(t, err)
	ds2, err := Parse(file)
	require.NoError(t, err)

	require.Equal(t, ds1.Tags(), ds2.Tags())
	for _, tg := range ds1.Tags() {
		e1, _ := ds1.Get(tg)
		e2, _ := ds2.Get(tg)
		assert.Equal(t, e1.VR, e2.VR)
		assert.Equal(t, e1.Value, e2.Value)
	}
}

// TestRoundTrip writes a dataset and parses it back, expecting
// identical tag/VR/value triples for both short and long VR classes.
func TestRoundTrip(t *testing.T) {
	ds, err := NewDataset(
		WithFileMeta("1.2.840.10008.5.1.4.1.1.2", "1.2.3.4", string(transfer.ExplicitVRLittleEndian)),
		WithElement(tag.PatientName, "Doe^Jane^Q"),
		WithElement(tag.PatientID, "PID9"),
		WithElement(tag.Rows, 256),
		WithElement(tag.Columns, 256),
		WithElement(tag.RescaleIntercept, -1024.0),
		WithElement(tag.PixelData, []uint16{1, 2, 3, 4}),
	)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := Write(&buf, ds)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	back, err := Parse(buf.Bytes())
	require.NoError(t, err)

	for _, tg := range ds.Tags() {
		want, _ := ds.Get(tg)
		got, ok := back.Get(tg)
		require.True(t, ok, "tag %s lost in round trip", tg)
		assert.Equal(t, want.VR, got.VR, "tag %s", tg)
		assert.Equal(t, want.Value, got.Value, "tag %s", tg)
	}
}
