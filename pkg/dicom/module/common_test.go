package module

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePersonName(t *testing.T) {
	tests := []struct {
		in   string
		want PersonName
	}{
		{"Doe", PersonName{FamilyName: "Doe"}},
		{"Doe^Jane", PersonName{FamilyName: "Doe", GivenName: "Jane"}},
		{"Doe^Jane^Q", PersonName{FamilyName: "Doe", GivenName: "Jane", MiddleName: "Q"}},
		{"Doe^Jane^Q^Dr", PersonName{FamilyName: "Doe", GivenName: "Jane", MiddleName: "Q", Prefix: "Dr"}},
		{"Doe^Jane^Q^Dr^III", PersonName{FamilyName: "Doe", GivenName: "Jane", MiddleName: "Q", Prefix: "Dr", Suffix: "III"}},
		// Components past the fifth are ignored
		{"a^b^c^d^e^f^g", PersonName{FamilyName: "a", GivenName: "b", MiddleName: "c", Prefix: "d", Suffix: "e"}},
		{"", PersonName{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParsePersonName(tt.in), "input %q", tt.in)
	}
}

func TestPersonNameString(t *testing.T) {
	pn := PersonName{FamilyName: "Doe", GivenName: "Jane"}
	assert.Equal(t, "Doe^Jane", pn.String())
	assert.Equal(t, "Jane Doe", pn.Display())

	only := PersonName{FamilyName: "Doe"}
	assert.Equal(t, "Doe", only.String())
	assert.Equal(t, "Doe", only.Display())
}

func TestParseDate(t *testing.T) {
	d := ParseDate("19840321")
	assert.Equal(t, Date{Year: 1984, Month: 3, Day: 21}, d)
	assert.Equal(t, "19840321", d.String())
	assert.False(t, d.IsZero())

	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("1984").IsZero())
	assert.True(t, ParseDate("198403XX").IsZero())
}

func TestNewDate(t *testing.T) {
	d := NewDate(time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "20260823", d.String())
}

func TestImageSampleLayout(t *testing.T) {
	img := &Image{Rows: 4, Columns: 8, BitsAllocated: 16, PixelRepresentation: 1}
	assert.True(t, img.Signed())
	assert.Equal(t, 2, img.BytesPerSample())
	assert.Equal(t, 64, img.SliceBytes())

	img8 := &Image{Rows: 4, Columns: 8, BitsAllocated: 8}
	assert.False(t, img8.Signed())
	assert.Equal(t, 1, img8.BytesPerSample())
	assert.Equal(t, 32, img8.SliceBytes())
}
