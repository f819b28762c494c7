package transfer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxProperties(t *testing.T) {
	assert.False(t, ImplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ImplicitVRLittleEndian.IsLittleEndian())

	assert.True(t, ExplicitVRLittleEndian.IsExplicitVR())
	assert.True(t, ExplicitVRLittleEndian.IsLittleEndian())

	assert.True(t, ExplicitVRBigEndian.IsExplicitVR())
	assert.False(t, ExplicitVRBigEndian.IsLittleEndian())
}

func TestIsEncapsulated(t *testing.T) {
	assert.False(t, ExplicitVRLittleEndian.IsEncapsulated())
	for _, s := range []Syntax{JPEGBaseline, JPEGLSLossless, JPEG2000, RLELossless} {
		assert.True(t, s.IsEncapsulated(), "%s", s)
	}
}

func TestKnown(t *testing.T) {
	assert.True(t, ImplicitVRLittleEndian.Known())
	assert.True(t, RLELossless.Known())
	assert.False(t, Syntax("1.2.3.4").Known())
}

func TestFromUID(t *testing.T) {
	assert.Equal(t, ExplicitVRLittleEndian, FromUID("1.2.840.10008.1.2.1"))
	assert.False(t, FromUID("not-a-uid").Known())
}

func TestName(t *testing.T) {
	assert.Equal(t, "Explicit VR Little Endian", ExplicitVRLittleEndian.Name())
	assert.Equal(t, "1.2.3", Syntax("1.2.3").Name(), "unknown UIDs name themselves")
}
