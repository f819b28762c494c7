package dicom

import (
	"encoding/binary"
	"fmt"

	"github.com/jpfielding/medview.go/pkg/dicom/tag"
	"github.com/jpfielding/medview.go/pkg/dicom/transfer"
	"github.com/jpfielding/medview.go/pkg/dicom/vr"
)

const preambleSize = 128

var magic = []byte("DICM")

// Parse decodes a complete DICOM file from a byte slice into a Dataset.
// It is a pure function: identical bytes always produce identical
// datasets and the input is never modified.
//
// The 128-byte preamble is skipped, the DICM magic verified, and the
// File Meta group (always explicit VR little endian) read to discover
// the active transfer syntax, which governs decoding for the rest of
// the file. Sequences are stored as opaque byte ranges.
func Parse(data []byte) (*Dataset, error) {
	if len(data) < preambleSize+len(magic) {
		return nil, &FormatError{Offset: len(data), Reason: fmt.Sprintf("file truncated: %d bytes, need at least %d", len(data), preambleSize+len(magic))}
	}
	if string(data[preambleSize:preambleSize+len(magic)]) != string(magic) {
		return nil, &FormatError{Offset: preambleSize, Reason: "missing DICM magic"}
	}

	p := &parser{
		data: data,
		pos:  preambleSize + len(magic),
		// File Meta is always explicit VR little endian
		explicitVR: true,
		byteOrd:    binary.LittleEndian,
		inMeta:     true,
	}
	ds := newDataset()

	for p.pos < len(p.data) {
		if p.inMeta && !p.peekFileMeta() {
			// Leaving group 0002: switch decoding to the declared syntax
			if err := p.switchSyntax(ds); err != nil {
				return nil, err
			}
		}
		elem, err := p.readElement()
		if err != nil {
			return nil, err
		}
		ds.put(elem)
	}

	return ds, nil
}

type parser struct {
	data       []byte
	pos        int
	explicitVR bool
	byteOrd    binary.ByteOrder
	inMeta     bool
}

// peekFileMeta reports whether the next tag still belongs to group 0002
// without consuming it.
func (p *parser) peekFileMeta() bool {
	if p.pos+2 > len(p.data) {
		return false
	}
	return binary.LittleEndian.Uint16(p.data[p.pos:]) == 0x0002
}

// switchSyntax applies the transfer syntax declared in the File Meta
// group to the remainder of the file.
func (p *parser) switchSyntax(ds *Dataset) error {
	p.inMeta = false
	uid, ok := ds.String(tag.TransferSyntaxUID)
	if !ok {
		// No File Meta declaration: fall back to implicit VR little endian
		uid = string(transfer.ImplicitVRLittleEndian)
	}
	ts := transfer.FromUID(uid)
	if !ts.Known() || ts.IsEncapsulated() || ts == transfer.DeflatedExplicitVR {
		return &UnsupportedTransferSyntaxError{UID: uid, Name: ts.Name()}
	}
	p.explicitVR = ts.IsExplicitVR()
	if ts.IsLittleEndian() {
		p.byteOrd = binary.LittleEndian
	} else {
		p.byteOrd = binary.BigEndian
	}
	ds.syntax = ts
	ds.byteOrd = p.byteOrd
	return nil
}

func (p *parser) readElement() (*Element, error) {
	start := p.pos
	t, err := p.readTag()
	if err != nil {
		return nil, err
	}

	var elemVR vr.VR
	var length uint32

	if p.explicitVR {
		code, err := p.take(2)
		if err != nil {
			return nil, err
		}
		elemVR = vr.VR(code)
		if elemVR.IsShortLength() {
			b, err := p.take(2)
			if err != nil {
				return nil, err
			}
			length = uint32(p.byteOrd.Uint16(b))
		} else {
			// 2 reserved bytes then a 4-byte length
			if _, err := p.take(2); err != nil {
				return nil, err
			}
			b, err := p.take(4)
			if err != nil {
				return nil, err
			}
			length = p.byteOrd.Uint32(b)
		}
	} else {
		if e, ok := tag.Lookup(t); ok {
			elemVR = vr.VR(e.VR)
		} else {
			elemVR = vr.UN
		}
		b, err := p.take(4)
		if err != nil {
			return nil, err
		}
		length = p.byteOrd.Uint32(b)
	}

	var value []byte
	if length == 0xFFFFFFFF {
		// Undefined length: capture the opaque byte range up to the
		// matching sequence delimiter. No recursive descent.
		value, err = p.scanUndefined()
		if err != nil {
			return nil, err
		}
	} else {
		if int(length) < 0 || p.pos+int(length) > len(p.data) {
			return nil, &FormatError{
				Offset: start,
				Reason: fmt.Sprintf("element %s declares %d value bytes past end of buffer", t, length),
			}
		}
		value = p.data[p.pos : p.pos+int(length)]
		p.pos += int(length)
	}

	return &Element{Tag: t, VR: elemVR, Value: value}, nil
}

func (p *parser) readTag() (Tag, error) {
	b, err := p.take(4)
	if err != nil {
		return Tag{}, err
	}
	return Tag{Group: p.byteOrd.Uint16(b), Element: p.byteOrd.Uint16(b[2:])}, nil
}

// scanUndefined walks items until the sequence delimitation item,
// returning the raw bytes between the element header and the delimiter.
func (p *parser) scanUndefined() ([]byte, error) {
	start := p.pos
	for {
		t, err := p.readTag()
		if err != nil {
			return nil, err
		}
		if t.Group == 0xFFFE {
			b, err := p.take(4)
			if err != nil {
				return nil, err
			}
			itemLen := p.byteOrd.Uint32(b)
			switch t.Element {
			case 0xE0DD: // sequence delimitation
				return p.data[start : p.pos-8], nil
			case 0xE00D: // item delimitation
				continue
			case 0xE000: // item
				if itemLen != 0xFFFFFFFF {
					if p.pos+int(itemLen) > len(p.data) {
						return nil, &FormatError{Offset: p.pos, Reason: fmt.Sprintf("item declares %d bytes past end of buffer", itemLen)}
					}
					p.pos += int(itemLen)
				}
				continue
			default:
				return nil, &FormatError{Offset: p.pos, Reason: fmt.Sprintf("unexpected delimiter tag %s", t)}
			}
		}

		// Nested element inside an undefined-length item: consume its
		// header and value using the active encoding.
		var length uint32
		if p.explicitVR {
			code, err := p.take(2)
			if err != nil {
				return nil, err
			}
			if vr.VR(code).IsShortLength() {
				b, err := p.take(2)
				if err != nil {
					return nil, err
				}
				length = uint32(p.byteOrd.Uint16(b))
			} else {
				if _, err := p.take(2); err != nil {
					return nil, err
				}
				b, err := p.take(4)
				if err != nil {
					return nil, err
				}
				length = p.byteOrd.Uint32(b)
			}
		} else {
			b, err := p.take(4)
			if err != nil {
				return nil, err
			}
			length = p.byteOrd.Uint32(b)
		}

		if length == 0xFFFFFFFF {
			if _, err := p.scanUndefined(); err != nil {
				return nil, err
			}
			continue
		}
		if p.pos+int(length) > len(p.data) {
			return nil, &FormatError{Offset: p.pos, Reason: fmt.Sprintf("nested element %s declares %d bytes past end of buffer", t, length)}
		}
		p.pos += int(length)
	}
}

func (p *parser) take(n int) ([]byte, error) {
	if p.pos+n > len(p.data) {
		return nil, &FormatError{Offset: p.pos, Reason: fmt.Sprintf("need %d bytes, %d remain", n, len(p.data)-p.pos)}
	}
	b := p.data[p.pos : p.pos+n]
	p.pos += n
	return b, nil
}
