package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxb-gnss/rtcm3decode/bitio"
)

func TestDecodeStation1005ArpPosition(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(152, func(f []byte) {
		setMsgType(f, 1005)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 555)
		pos += 12
		bitio.SetUnsigned(f, pos, 6, 7) // ITRF realization
		pos += 6 + 4
		bitio.SetSigned(f, pos, 32, 10000) // x, scaled by 64 + 6-bit fraction
		bitio.SetUnsigned(f, pos+32, 6, 0)
		pos += 38 + 2
		bitio.SetSigned(f, pos, 32, -20000)
		bitio.SetUnsigned(f, pos+32, 6, 0)
		pos += 38 + 2
		bitio.SetSigned(f, pos, 32, 30000)
		bitio.SetUnsigned(f, pos+32, 6, 0)
	})

	status := feed(s, frame)

	assert.Equal(t, StatusStation, status)
	assert.Equal(t, 555, s.Station().ID)
	assert.Equal(t, 7, s.Station().Itrf)
	assert.InDelta(t, 10000*64.0*0.0001, s.Station().Pos[0], 1e-9)
	assert.InDelta(t, -20000*64.0*0.0001, s.Station().Pos[1], 1e-9)
	assert.InDelta(t, 30000*64.0*0.0001, s.Station().Pos[2], 1e-9)
}

func TestDecodeStation1006AntennaHeight(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(168, func(f []byte) {
		setMsgType(f, 1006)
		pos := 24 + 12 + 12 + 6 + 4 + 38 + 2 + 38 + 2 + 38
		bitio.SetUnsigned(f, pos, 16, 12345) // antenna height, scaled 0.0001
	})

	status := feed(s, frame)

	assert.Equal(t, StatusStation, status)
	assert.True(t, s.Station().HgtValid)
	assert.InDelta(t, 1.2345, s.Station().Del[2], 1e-9)
}

func TestDecodeStation1008Descriptors(t *testing.T) {
	s := newTestSession()
	ant := "TRM59800.80"
	serial := "12345"
	payloadBits := 12 + 12 + 8 + len(ant)*8 + 8 + len(serial)*8
	frame := buildFrame(payloadBits, func(f []byte) {
		setMsgType(f, 1008)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 42)
		pos += 12
		pos = writeDescriptor(f, pos, ant)
		writeDescriptor(f, pos, serial)
	})

	status := feed(s, frame)

	assert.Equal(t, StatusStation, status)
	assert.Equal(t, ant, s.Station().AntennaDes)
	assert.Equal(t, serial, s.Station().AntSerial)
}

func writeDescriptor(frame []byte, pos int, str string) int {
	bitio.SetUnsigned(frame, pos, 8, uint32(len(str)))
	pos += 8
	for i := 0; i < len(str); i++ {
		bitio.SetUnsigned(frame, pos, 8, uint32(str[i]))
		pos += 8
	}
	return pos
}
