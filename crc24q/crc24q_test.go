package crc24q

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChecksumEmpty(t *testing.T) {
	assert.Equal(t, uint32(0), Checksum(nil, 0))
}

func TestChecksumDeterministic(t *testing.T) {
	buf := []byte{0xD3, 0x00, 0x13, 0x3E, 0xD7, 0xD3, 0x02, 0x02, 0x98, 0x0E, 0xDE, 0xEF, 0x34, 0xB4, 0xBD, 0x62, 0xAC, 0x09, 0x41, 0x98, 0x6F, 0x33, 0x36, 0x0B, 0x98}
	a := Checksum(buf, len(buf))
	b := Checksum(buf, len(buf))
	assert.Equal(t, a, b)
}

func TestChecksumSensitiveToBitFlip(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	orig := Checksum(buf, len(buf))
	buf[2] ^= 0x01
	flipped := Checksum(buf, len(buf))
	assert.NotEqual(t, orig, flipped)
}

func TestChecksumPrefixIndependence(t *testing.T) {
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	full := Checksum(buf, 4)
	prefix := Checksum(buf, 2)
	assert.NotEqual(t, full, prefix)
}
