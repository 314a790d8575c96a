package decode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

func TestDecodeEphGPSWeekRolloverAndCommit(t *testing.T) {
	s := newTestSession()
	frame := buildFrame(487, func(f []byte) {
		setMsgType(f, 1019)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 6, 5) // prn
		pos += 6
		bitio.SetUnsigned(f, pos, 10, 2200%1024) // week, modulo-1024
		pos += 10
		pos += 4 + 2 + 14 // sva, code, idot
		bitio.SetUnsigned(f, pos, 8, 10) // iode
		pos += 8
		bitio.SetUnsigned(f, pos, 16, 100) // toc, *16s
		pos += 16
		pos += 8 + 16 + 22 // f2, f1, f0
		bitio.SetUnsigned(f, pos, 10, 10) // iodc
		pos += 10
		pos += 16 + 16 + 32 + 16 // crs, deln, m0, cuc
		pos += 32                          // ecc
		pos += 16                          // cus
		bitio.SetUnsigned(f, pos, 32, 2000) // sqrtA
		pos += 32
		bitio.SetUnsigned(f, pos, 16, 100) // toes, *16s
	})

	status := feed(s, frame)

	assert.Equal(t, StatusEphemeris, status)
	sat := satsys.SatNo(satsys.GPS, 5)
	eph, ok := s.Ephemeris(sat)
	if assert.True(t, ok) {
		assert.Equal(t, 2200, eph.Week)
		assert.Equal(t, 10, eph.Iode)
		assert.Equal(t, 10, eph.Iodc)
		assert.InDelta(t, 0, gnsstime.Sub(eph.Toe, gnsstime.GpsT2Time(2200, 1600)), 1e-9)
		assert.InDelta(t, 4.0, eph.Fit, 1e-9)
	}

	// Replaying the identical frame must not re-signal an update (same
	// iode/iodc), per the commit write-policy.
	status2 := feed(s, frame)
	assert.Equal(t, StatusNone, status2)
}

func galileoCommonFrame(mt int, prn int, extraBits int, fill func(f []byte, pos int)) []byte {
	const common = 476
	return buildFrame(common+extraBits, func(f []byte) {
		setMsgType(f, mt)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 6, uint32(prn))
		pos += 6
		bitio.SetUnsigned(f, pos, 12, 1024) // GST week
		pos += 12
		bitio.SetUnsigned(f, pos, 10, 7) // iode
		pos += 10
		fill(f, pos)
	})
}

func TestDecodeGalileoFNavAndINavUseDistinctSlots(t *testing.T) {
	s := newTestSession()
	prn := 9

	fnav := galileoCommonFrame(1045, prn, 13, func(f []byte, pos int) {})
	status := feed(s, fnav)
	assert.Equal(t, StatusEphemeris, status)

	inav := galileoCommonFrame(1046, prn, 26, func(f []byte, pos int) {})
	status = feed(s, inav)
	assert.Equal(t, StatusEphemeris, status)

	sat := satsys.SatNo(satsys.GAL, prn)
	fnavEph, fnavOk := s.Ephemeris(sat)
	inavEph, inavOk := s.EphemerisINav(sat)

	if assert.True(t, fnavOk) && assert.True(t, inavOk) {
		assert.Equal(t, 1, fnavEph.Code, "F/NAV commits to the F/NAV slot with Code=1")
		assert.Equal(t, 0, inavEph.Code, "I/NAV commits to the I/NAV slot with Code=0")
		assert.Equal(t, 7, fnavEph.Iode)
		assert.Equal(t, 7, inavEph.Iode)
	}
}

func TestDecodeEphBeiDouCommitsEphemeris(t *testing.T) {
	s := newTestSession()
	const bits = 12 + 6 + 13 + 4 + 14 + 5 + 17 + 11 + 22 + 24 + 5 + 18 + 16 + 32 + 18 + 32 + 18 + 32 + 17 + 18 + 32 + 18 + 32 + 18 + 32 + 24 + 10 + 10 + 1
	frame := buildFrame(bits, func(f []byte) {
		setMsgType(f, 1042)
		pos := 24 + 12
		bitio.SetUnsigned(f, pos, 6, 4) // prn
	})

	status := feed(s, frame)

	assert.Equal(t, StatusEphemeris, status)
	sat := satsys.SatNo(satsys.CMP, 4)
	_, ok := s.Ephemeris(sat)
	assert.True(t, ok)
}
