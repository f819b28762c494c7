package dicom

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/medview.go/pkg/dicom/tag"
	"github.com/jpfielding/medview.go/pkg/dicom/transfer"
	"github.com/jpfielding/medview.go/pkg/dicom/vr"
)

// Tag alias to avoid qualifying every use
type Tag = tag.Tag

// Element represents a single data element: tag, VR, and raw value bytes
// exactly as they appeared on the wire. Multi-byte numeric values are
// decoded on demand using the dataset's byte order.
type Element struct {
	Tag   Tag
	VR    vr.VR
	Value []byte
}

// Dataset is an ordered tag to element mapping produced by Parse and
// never mutated afterwards. Insertion order mirrors file order; writing
// a duplicate tag overwrites the earlier element in place.
type Dataset struct {
	elements map[Tag]*Element
	order    []Tag
	byteOrd  binary.ByteOrder
	syntax   transfer.Syntax
}

func newDataset() *Dataset {
	return &Dataset{
		elements: make(map[Tag]*Element),
		byteOrd:  binary.LittleEndian,
		syntax:   transfer.ExplicitVRLittleEndian,
	}
}

func (ds *Dataset) put(e *Element) {
	if _, exists := ds.elements[e.Tag]; !exists {
		ds.order = append(ds.order, e.Tag)
	}
	ds.elements[e.Tag] = e
}

// Get returns the element stored under a tag
func (ds *Dataset) Get(t Tag) (*Element, bool) {
	e, ok := ds.elements[t]
	return e, ok
}

// Has returns true if the dataset contains the tag
func (ds *Dataset) Has(t Tag) bool {
	_, ok := ds.elements[t]
	return ok
}

// Len returns the number of elements
func (ds *Dataset) Len() int {
	return len(ds.elements)
}

// Tags returns all tags in file order
func (ds *Dataset) Tags() []Tag {
	out := make([]Tag, len(ds.order))
	copy(out, ds.order)
	return out
}

// TransferSyntax returns the syntax the dataset body was encoded with
func (ds *Dataset) TransferSyntax() transfer.Syntax {
	return ds.syntax
}

// ByteOrder returns the numeric byte order of the dataset body
func (ds *Dataset) ByteOrder() binary.ByteOrder {
	return ds.byteOrd
}

// String returns the character value of an element with trailing null
// and space padding removed.
func (ds *Dataset) String(t Tag) (string, bool) {
	e, ok := ds.elements[t]
	if !ok {
		return "", false
	}
	return trimPadding(string(e.Value)), true
}

// Strings returns a multi-valued character value split on backslashes
func (ds *Dataset) Strings(t Tag) ([]string, bool) {
	s, ok := ds.String(t)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, `\`)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

// Uint16 decodes a US element
func (ds *Dataset) Uint16(t Tag) (uint16, bool) {
	e, ok := ds.elements[t]
	if !ok || len(e.Value) < 2 {
		return 0, false
	}
	return ds.byteOrd.Uint16(e.Value), true
}

// Uint32 decodes a UL element
func (ds *Dataset) Uint32(t Tag) (uint32, bool) {
	e, ok := ds.elements[t]
	if !ok || len(e.Value) < 4 {
		return 0, false
	}
	return ds.byteOrd.Uint32(e.Value), true
}

// Int decodes an integer from US/UL/SS/SL binary values or an IS string
func (ds *Dataset) Int(t Tag) (int, bool) {
	e, ok := ds.elements[t]
	if !ok {
		return 0, false
	}
	if e.VR.IsString() {
		s := trimPadding(string(e.Value))
		i, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	switch e.VR {
	case vr.US:
		if len(e.Value) >= 2 {
			return int(ds.byteOrd.Uint16(e.Value)), true
		}
	case vr.SS:
		if len(e.Value) >= 2 {
			return int(int16(ds.byteOrd.Uint16(e.Value))), true
		}
	case vr.UL:
		if len(e.Value) >= 4 {
			return int(ds.byteOrd.Uint32(e.Value)), true
		}
	case vr.SL:
		if len(e.Value) >= 4 {
			return int(int32(ds.byteOrd.Uint32(e.Value))), true
		}
	}
	return 0, false
}

// Float64 decodes a single DS/FL/FD value. DS strings use the
// locale-invariant strconv parser; malformed content returns an error.
func (ds *Dataset) Float64(t Tag) (float64, bool, error) {
	e, ok := ds.elements[t]
	if !ok {
		return 0, false, nil
	}
	switch e.VR {
	case vr.FL:
		if len(e.Value) >= 4 {
			return float64(math.Float32frombits(ds.byteOrd.Uint32(e.Value))), true, nil
		}
	case vr.FD:
		if len(e.Value) >= 8 {
			return math.Float64frombits(ds.byteOrd.Uint64(e.Value)), true, nil
		}
	}
	s := trimPadding(string(e.Value))
	// Multi-valued DS: first component
	if i := strings.IndexByte(s, '\\'); i >= 0 {
		s = s[:i]
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, true, &MalformedValueError{Tag: t, Value: s}
	}
	return f, true, nil
}

// Float64s decodes a multi-valued DS element (backslash separated)
func (ds *Dataset) Float64s(t Tag) ([]float64, bool, error) {
	parts, ok := ds.Strings(t)
	if !ok {
		return nil, false, nil
	}
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, true, &MalformedValueError{Tag: t, Value: p}
		}
		out = append(out, f)
	}
	return out, true, nil
}

// Bytes returns a copy of the raw value bytes of an element
func (ds *Dataset) Bytes(t Tag) ([]byte, bool) {
	e, ok := ds.elements[t]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(e.Value))
	copy(out, e.Value)
	return out, true
}

func trimPadding(s string) string {
	for len(s) > 0 && (s[len(s)-1] == 0 || s[len(s)-1] == ' ') {
		s = s[:len(s)-1]
	}
	return s
}
