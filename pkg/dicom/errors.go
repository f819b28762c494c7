package dicom

import (
	"fmt"

	"github.com/jpfielding/medview.go/pkg/dicom/tag"
)

// FormatError indicates the byte stream is not a well-formed DICOM file:
// short preamble, bad magic, or an element length running past the buffer.
type FormatError struct {
	Offset int
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("dicom: malformed file at offset %d: %s", e.Offset, e.Reason)
}

// UnsupportedTransferSyntaxError indicates the file declares a transfer
// syntax whose pixel data this codec cannot decode (compressed syntaxes).
type UnsupportedTransferSyntaxError struct {
	UID  string
	Name string
}

func (e *UnsupportedTransferSyntaxError) Error() string {
	return fmt.Sprintf("dicom: unsupported transfer syntax %s (%s)", e.UID, e.Name)
}

// MissingRequiredTagError names a required attribute absent from a dataset.
type MissingRequiredTagError struct {
	Tag tag.Tag
}

func (e *MissingRequiredTagError) Error() string {
	return fmt.Sprintf("dicom: missing required tag %s %s", e.Tag, tag.Keyword(e.Tag))
}

// MalformedValueError indicates an attribute's value bytes cannot be
// interpreted under its VR (typically a non-numeric decimal string).
type MalformedValueError struct {
	Tag   tag.Tag
	Value string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("dicom: malformed value %q for tag %s %s", e.Value, e.Tag, tag.Keyword(e.Tag))
}
