package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

func TestDecodeMSM4GPSSingleSatelliteSingleSignal(t *testing.T) {
	s := newTestSession()
	const prn = 5
	const sigSlot = 2 // msmSigTable[GPS][1] == "1C"

	frame := buildFrame(236, func(f []byte) {
		setMsgType(f, 1074) // GPS MSM4
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 12, 100) // station id
		pos += 12
		bitio.SetUnsigned(f, pos, 30, 100000) // tow
		pos += 30
		bitio.SetUnsigned(f, pos, 1, 0) // sync=false
		pos++
		bitio.SetUnsigned(f, pos, 3, 0) // iod
		pos += 3
		pos += 7 + 2 + 2 + 1 + 3 // reserved

		satMaskStart := pos
		bitio.SetUnsigned(f, satMaskStart+prn-1, 1, 1)
		pos += 64

		sigMaskStart := pos
		bitio.SetUnsigned(f, sigMaskStart+sigSlot-1, 1, 1)
		pos += 32

		bitio.SetUnsigned(f, pos, 1, 1) // single cell, on
		pos++

		bitio.SetUnsigned(f, pos, 8, 10) // range (integer ms)
		pos += 8
		bitio.SetUnsigned(f, pos, 10, 100) // range (fine)
		pos += 10
		bitio.SetSigned(f, pos, 15, 500) // pseudorange fine
		pos += 15
		bitio.SetSigned(f, pos, 22, 7000) // carrier phase fine
		pos += 22
		bitio.SetUnsigned(f, pos, 4, 5) // lock
		pos += 4
		bitio.SetUnsigned(f, pos, 1, 0) // half-cycle ambiguity
		pos++
		bitio.SetUnsigned(f, pos, 6, 40) // CNR
	})

	status := feed(s, frame)

	assert.Equal(t, StatusObs, status)
	sat := satsys.SatNo(satsys.GPS, prn)
	obs, ok := s.Epoch().Data[sat]
	if !assert.True(t, ok) {
		return
	}

	rng := 10.0*rangeMs + 100.0*p2_10*rangeMs
	wantPR := rng + 500.0*p2_24*rangeMs
	wantCPRange := rng + 7000.0*p2_29*rangeMs
	freq := satsys.Code2Freq(satsys.GPS, satsys.CodeL1C, -8)
	wantCP := wantCPRange * freq / 299792458.0

	assert.Equal(t, satsys.CodeL1C, obs.Code[0])
	assert.InDelta(t, wantPR, obs.P[0], 1e-6)
	assert.InDelta(t, wantCP, obs.L[0], 1e-6)
	assert.Equal(t, uint16(160), obs.SNR[0]) // round(40*4)
	assert.Equal(t, uint8(0), obs.LLI[0])
}

func TestDecodeMSMHeaderRejectsOversizedCellCount(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(169, func(f []byte) {
		setMsgType(f, 1074)
		pos := 24 + 12
		pos += 12 + 30 + 1 + 3 + 15 // header prefix

		satMaskStart := pos
		for i := 0; i < 9; i++ { // 9 satellites
			bitio.SetUnsigned(f, satMaskStart+i, 1, 1)
		}
		pos += 64

		sigMaskStart := pos
		for i := 0; i < 8; i++ { // 8 signals -> 72 cells > 64
			bitio.SetUnsigned(f, sigMaskStart+i, 1, 1)
		}
	})

	status := feed(s, frame)

	assert.Equal(t, StatusError, status)
}
