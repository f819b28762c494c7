package dicom

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jpfielding/medview.go/pkg/dicom/tag"
	"github.com/jpfielding/medview.go/pkg/dicom/vr"
)

// Option configures a Dataset during construction
type Option func(*Dataset) error

// NewDataset creates a Dataset with the given options. This is the
// construction path for datasets that will be written out; parsed
// datasets come from Parse and are never built by hand.
func NewDataset(opts ...Option) (*Dataset, error) {
	ds := newDataset()
	for _, opt := range opts {
		if err := opt(ds); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// WithElement adds a single element, encoding the value according to
// the tag's dictionary VR in little endian.
func WithElement(t tag.Tag, value interface{}) Option {
	return func(ds *Dataset) error {
		elemVR := vr.UN
		if e, ok := tag.Lookup(t); ok {
			elemVR = vr.VR(e.VR)
		}
		return withTyped(ds, t, elemVR, value)
	}
}

// WithTypedElement adds an element under an explicit VR, for tags
// outside the dictionary or tests that need a specific encoding.
func WithTypedElement(t tag.Tag, elemVR vr.VR, value interface{}) Option {
	return func(ds *Dataset) error {
		return withTyped(ds, t, elemVR, value)
	}
}

// WithFileMeta adds the standard File Meta Information elements
func WithFileMeta(sopClassUID, sopInstanceUID, transferSyntax string) Option {
	return func(ds *Dataset) error {
		opts := []Option{
			WithElement(tag.MediaStorageSOPClassUID, sopClassUID),
			WithElement(tag.MediaStorageSOPInstanceUID, sopInstanceUID),
			WithElement(tag.TransferSyntaxUID, transferSyntax),
			WithElement(tag.ImplementationClassUID, "1.2.826.0.1.3680043.8.498.1"),
			WithElement(tag.ImplementationVersionName, "GO_MEDVIEW"),
		}
		for _, opt := range opts {
			if err := opt(ds); err != nil {
				return err
			}
		}
		return nil
	}
}

func withTyped(ds *Dataset, t tag.Tag, elemVR vr.VR, value interface{}) error {
	raw, err := encodeValue(value, elemVR)
	if err != nil {
		return fmt.Errorf("encoding %s %s: %w", t, tag.Keyword(t), err)
	}
	ds.put(&Element{Tag: t, VR: elemVR, Value: raw})
	return nil
}

// encodeValue converts a typed value to raw little-endian value bytes.
// String values are padded to even length per the standard.
func encodeValue(v interface{}, elemVR vr.VR) ([]byte, error) {
	if v == nil {
		return []byte{}, nil
	}
	switch val := v.(type) {
	case string:
		return padString(val, elemVR), nil
	case []string:
		return padString(strings.Join(val, `\`), elemVR), nil
	case uint16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, val)
		return b, nil
	case []uint16:
		b := make([]byte, len(val)*2)
		for i, u := range val {
			binary.LittleEndian.PutUint16(b[i*2:], u)
		}
		return b, nil
	case int16:
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(val))
		return b, nil
	case []int16:
		b := make([]byte, len(val)*2)
		for i, s := range val {
			binary.LittleEndian.PutUint16(b[i*2:], uint16(s))
		}
		return b, nil
	case uint32:
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, val)
		return b, nil
	case int:
		switch elemVR {
		case vr.US:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(val))
			return b, nil
		case vr.SS:
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(int16(val)))
			return b, nil
		case vr.UL, vr.SL:
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, uint32(val))
			return b, nil
		case vr.IS:
			return padString(strconv.Itoa(val), elemVR), nil
		}
		return nil, fmt.Errorf("int not encodable as VR %s", elemVR)
	case float64:
		switch elemVR {
		case vr.DS:
			return padString(strconv.FormatFloat(val, 'g', -1, 64), elemVR), nil
		case vr.FL:
			b := make([]byte, 4)
			binary.LittleEndian.PutUint32(b, math.Float32bits(float32(val)))
			return b, nil
		case vr.FD:
			b := make([]byte, 8)
			binary.LittleEndian.PutUint64(b, math.Float64bits(val))
			return b, nil
		}
		return nil, fmt.Errorf("float64 not encodable as VR %s", elemVR)
	case []float64:
		if elemVR == vr.DS {
			parts := make([]string, len(val))
			for i, f := range val {
				parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
			}
			return padString(strings.Join(parts, `\`), elemVR), nil
		}
		return nil, fmt.Errorf("[]float64 not encodable as VR %s", elemVR)
	case []byte:
		if len(val)%2 != 0 {
			val = append(val, 0)
		}
		return val, nil
	}
	return nil, fmt.Errorf("unsupported value type %T for VR %s", v, elemVR)
}

func padString(s string, elemVR vr.VR) []byte {
	b := []byte(s)
	if len(b)%2 != 0 {
		// UIDs pad with null, other strings with space
		if elemVR == vr.UI {
			b = append(b, 0)
		} else {
			b = append(b, ' ')
		}
	}
	return b
}
