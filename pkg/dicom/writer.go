package dicom

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

// WriteFile writes a dataset to a DICOM file
func WriteFile(path string, ds *Dataset) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return Write(f, ds)
}

// Write encodes a dataset using Explicit VR Little Endian: the 128-byte
// preamble, the DICM magic, then all elements in ascending tag order.
func Write(w io.Writer, ds *Dataset) (int64, error) {
	var buf bytes.Buffer
	buf.Write(make([]byte, preambleSize))
	buf.Write(magic)

	tags := ds.Tags()
	sort.Slice(tags, func(i, j int) bool { return tags[i].Less(tags[j]) })

	for _, t := range tags {
		e, _ := ds.Get(t)
		if err := writeElement(&buf, e); err != nil {
			return 0, fmt.Errorf("writing element %s: %w", t, err)
		}
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// writeElement encodes one element: tag, VR code, the short or long
// length field, then the raw value bytes.
func writeElement(buf *bytes.Buffer, e *Element) error {
	var hdr [8]byte
	binary.LittleEndian.PutUint16(hdr[0:], e.Tag.Group)
	binary.LittleEndian.PutUint16(hdr[2:], e.Tag.Element)
	buf.Write(hdr[:4])

	code := string(e.VR)
	if len(code) != 2 {
		code = "UN"
	}
	buf.WriteString(code)

	if e.VR.IsShortLength() {
		if len(e.Value) > 0xFFFF {
			return fmt.Errorf("value of %d bytes exceeds short VR %s length field", len(e.Value), e.VR)
		}
		binary.LittleEndian.PutUint16(hdr[0:], uint16(len(e.Value)))
		buf.Write(hdr[:2])
	} else {
		// 2 reserved bytes then 4-byte length
		buf.Write([]byte{0, 0})
		binary.LittleEndian.PutUint32(hdr[0:], uint32(len(e.Value)))
		buf.Write(hdr[:4])
	}

	buf.Write(e.Value)
	return nil
}
