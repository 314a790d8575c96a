package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

func TestDecodeSSRClockGPS(t *testing.T) {
	s := newTestSession()
	const bits = 12 + 20 + 4 + 1 + 4 + 16 + 4 + 6 + 6 + 22 + 21 + 27
	frame := buildFrame(bits, func(f []byte) {
		setMsgType(f, 1058) // GPS SSR clock
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 20, 100000) // GPS TOW
		pos += 20
		bitio.SetUnsigned(f, pos, 4, 5) // update interval index -> 30s
		pos += 4
		bitio.SetUnsigned(f, pos, 1, 0) // sync=false
		pos++
		bitio.SetUnsigned(f, pos, 4, 3) // IOD SSR
		pos += 4
		pos += 16 + 4 // provider, solution
		bitio.SetUnsigned(f, pos, 6, 1) // nsat
		pos += 6

		bitio.SetUnsigned(f, pos, 6, 5) // prn
		pos += 6
		bitio.SetSigned(f, pos, 22, 1000) // dclk[0], *1e-4
		pos += 22
		bitio.SetSigned(f, pos, 21, 500) // dclk[1], *1e-6
		pos += 21
		bitio.SetSigned(f, pos, 27, 2000) // dclk[2], *2e-8
	})

	status := feed(s, frame)

	assert.Equal(t, StatusSSR, status)
	sat := satsys.SatNo(satsys.GPS, 5)
	r, ok := s.SSR(sat)
	if assert.True(t, ok) {
		assert.InDelta(t, 0.1, r.Dclk[0], 1e-9)
		assert.InDelta(t, 0.0005, r.Dclk[1], 1e-9)
		assert.InDelta(t, 0.00004, r.Dclk[2], 1e-9)
		assert.Equal(t, 30.0, r.Udi[SsrClock])
		assert.Equal(t, 3, r.Iod[SsrClock])
	}
}

func TestDecodeIGSSSRCodeBiasGalileo(t *testing.T) {
	s := newTestSession()
	const bits = 12 + 3 + 8 + 20 + 4 + 1 + 4 + 16 + 4 + 6 + 6 + 5 + 5 + 14
	frame := buildFrame(bits, func(f []byte) {
		setMsgType(f, 4076)
		pos := 24 + 12
		pos += 3 // version
		bitio.SetUnsigned(f, pos, 8, 65) // subtype 65: GAL code bias
		pos += 8
		bitio.SetUnsigned(f, pos, 20, 50000)
		pos += 20
		bitio.SetUnsigned(f, pos, 4, 0) // udi index 0 -> 1s
		pos += 4
		bitio.SetUnsigned(f, pos, 1, 0) // sync
		pos++
		bitio.SetUnsigned(f, pos, 4, 2) // iod
		pos += 4
		pos += 16 + 4 // provider, solution
		bitio.SetUnsigned(f, pos, 6, 1) // nsat
		pos += 6

		bitio.SetUnsigned(f, pos, 6, 3) // prn (igs uses 6-bit PRN field)
		pos += 6
		bitio.SetUnsigned(f, pos, 5, 1) // nbias
		pos += 5
		bitio.SetUnsigned(f, pos, 5, 2) // mode 2 -> ssrSigGAL[2] = CodeL1C
		pos += 5
		bitio.SetSigned(f, pos, 14, 500) // bias, *0.01
	})

	status := feed(s, frame)

	assert.Equal(t, StatusSSR, status)
	sat := satsys.SatNo(satsys.GAL, 3)
	r, ok := s.SSR(sat)
	if assert.True(t, ok) {
		bias, present := r.CBias[satsys.CodeL1C]
		if assert.True(t, present) {
			assert.InDelta(t, 5.0, bias, 1e-9)
		}
	}
}
