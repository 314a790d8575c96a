package bitio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUnsigned(t *testing.T) {
	buf := []byte{0b10110100, 0b11001010}
	assert.Equal(t, uint32(0b1011), GetUnsigned(buf, 0, 4))
	assert.Equal(t, uint32(0b0100), GetUnsigned(buf, 4, 4))
	assert.Equal(t, uint32(0b0100_1100), GetUnsigned(buf, 4, 8))
	assert.Equal(t, uint32(0), GetUnsigned(buf, 0, 0))
	assert.Equal(t, uint32(0), GetUnsigned(buf, 0, 33))
}

func TestGetSigned(t *testing.T) {
	buf := make([]byte, 4)
	SetUnsigned(buf, 0, 8, 0xFF) // -1 in 8-bit two's complement
	assert.Equal(t, int32(-1), GetSigned(buf, 0, 8))

	buf2 := make([]byte, 4)
	SetUnsigned(buf2, 0, 8, 0x7F)
	assert.Equal(t, int32(127), GetSigned(buf2, 0, 8))
}

func TestGetSigned38(t *testing.T) {
	buf := make([]byte, 5)
	SetSigned(buf, 0, 32, -100)
	SetUnsigned(buf, 32, 6, 5)
	got := GetSigned38(buf, 0)
	assert.Equal(t, float64(-100)*64.0+5.0, got)
}

func TestGetSignMagnitude(t *testing.T) {
	buf := make([]byte, 4)
	// sign bit set, magnitude 5
	SetUnsigned(buf, 0, 1, 1)
	SetUnsigned(buf, 1, 10, 5)
	assert.Equal(t, -5.0, GetSignMagnitude(buf, 0, 11))

	buf2 := make([]byte, 4)
	SetUnsigned(buf2, 0, 1, 0)
	SetUnsigned(buf2, 1, 10, 7)
	assert.Equal(t, 7.0, GetSignMagnitude(buf2, 0, 11))
}

func TestGetUnsigned64(t *testing.T) {
	buf := make([]byte, 8)
	for i := 0; i < 64; i++ {
		if i%3 == 0 {
			SetUnsigned(buf, i, 1, 1)
		}
	}
	v := GetUnsigned64(buf, 0, 64)
	var want uint64
	for i := 0; i < 64; i++ {
		want <<= 1
		if i%3 == 0 {
			want |= 1
		}
	}
	assert.Equal(t, want, v)
	assert.Equal(t, uint64(0), GetUnsigned64(buf, 0, 65))
}

func TestSetUnsignedRoundTrip(t *testing.T) {
	buf := make([]byte, 4)
	SetUnsigned(buf, 3, 12, 0xABC&0xFFF)
	assert.Equal(t, uint32(0xABC), GetUnsigned(buf, 3, 12))
}
