package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

func TestDecodeLegacyGPSBasicObservation(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(118, func(f []byte) {
		setMsgType(f, 1001)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 777)
		pos += 12
		bitio.SetUnsigned(f, pos, 30, 100000) // tow, ms
		pos += 30
		bitio.SetUnsigned(f, pos, 1, 0) // sync=false, terminates the epoch
		pos++
		bitio.SetUnsigned(f, pos, 5, 1) // nsat
		pos += 5

		bitio.SetUnsigned(f, pos, 6, 5) // prn
		pos += 6
		bitio.SetUnsigned(f, pos, 1, 0) // C/A code
		pos++
		bitio.SetUnsigned(f, pos, 24, 12345670)
		pos += 24
		bitio.SetSigned(f, pos, 20, 1000)
		pos += 20
		bitio.SetUnsigned(f, pos, 7, 3)
	})

	status := feed(s, frame)

	assert.Equal(t, StatusObs, status)
	sat := satsys.SatNo(satsys.GPS, 5)
	obs, ok := s.Epoch().Data[sat]
	if assert.True(t, ok) {
		assert.InDelta(t, 12345670*0.02, obs.P[0], 1e-6)
		assert.Equal(t, satsys.CodeL1C, obs.Code[0])
		freq := satsys.Code2Freq(satsys.GPS, satsys.CodeL1C, 0)
		pr1 := 12345670 * 0.02
		wantCycles := pr1*freq/299792458.0 + 1000.0*0.0005*freq/299792458.0
		assert.InDelta(t, wantCycles, obs.L[0], 1e-6)
		assert.Equal(t, uint8(0), obs.LLI[0])
	}
	assert.True(t, s.Epoch().Terminated)
}

func TestDecodeLegacyGPSUnknownStationErrors(t *testing.T) {
	s, err := NewSession("-STA=1", fakeClock{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	frame := buildFrame(60, func(f []byte) {
		setMsgType(f, 1001)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 999) // doesn't match -STA filter
		pos += 12
		bitio.SetUnsigned(f, pos, 30, 0)
		pos += 30
		bitio.SetUnsigned(f, pos, 1, 1)
		pos += 1
		bitio.SetUnsigned(f, pos, 5, 0)
	})

	status := feed(s, frame)

	assert.Equal(t, StatusError, status)
}

func TestDecodeLegacyGlonassFCN(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(121, func(f []byte) {
		setMsgType(f, 1009)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 1)
		pos += 12
		bitio.SetUnsigned(f, pos, 27, 50000) // tod, ms
		pos += 27
		bitio.SetUnsigned(f, pos, 1, 0)
		pos++
		bitio.SetUnsigned(f, pos, 5, 1)
		pos += 5

		bitio.SetUnsigned(f, pos, 6, 3) // slot
		pos += 6
		bitio.SetUnsigned(f, pos, 1, 0)
		pos++
		bitio.SetUnsigned(f, pos, 5, 7+2) // fcn field = fcn+7, fcn=2
		pos += 5
		bitio.SetUnsigned(f, pos, 25, 10000000)
		pos += 25
		bitio.SetSigned(f, pos, 20, 0)
		pos += 20
		bitio.SetUnsigned(f, pos, 7, 0)
	})

	status := feed(s, frame)

	assert.Equal(t, StatusObs, status)
	sat := satsys.SatNo(satsys.GLO, 3)
	obs, ok := s.Epoch().Data[sat]
	if assert.True(t, ok) {
		assert.InDelta(t, 10000000*0.02, obs.P[0], 1e-6)
	}
}
