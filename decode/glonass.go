package decode

import (
	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

// decodeEphGlonass implements message 1020 (spec.md §4.I): UTC-day based
// week origin, sign-magnitude position/velocity/acceleration, and a
// tb-derived toe with day rollover.
func (s *Session) decodeEphGlonass(frame []byte) int {
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	var e GlonassEphemeris
	e.Frq = int(bitio.GetUnsigned(frame, pos, 5)) - 7
	pos += 5
	pos += 6 // almanac health, P1 reserved bits, not modeled
	tk := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	bn := int(bitio.GetUnsigned(frame, pos, 1))
	pos++
	pos++ // P2
	tb := int(bitio.GetUnsigned(frame, pos, 7))
	pos += 7

	velX := bitio.GetSignMagnitude(frame, pos, 24) * p2(-20) * 1000
	pos += 24
	posX := bitio.GetSignMagnitude(frame, pos, 27) * p2(-11) * 1000
	pos += 27
	accX := bitio.GetSignMagnitude(frame, pos, 5) * p2(-30) * 1000
	pos += 5
	velY := bitio.GetSignMagnitude(frame, pos, 24) * p2(-20) * 1000
	pos += 24
	posY := bitio.GetSignMagnitude(frame, pos, 27) * p2(-11) * 1000
	pos += 27
	accY := bitio.GetSignMagnitude(frame, pos, 5) * p2(-30) * 1000
	pos += 5
	velZ := bitio.GetSignMagnitude(frame, pos, 24) * p2(-20) * 1000
	pos += 24
	posZ := bitio.GetSignMagnitude(frame, pos, 27) * p2(-11) * 1000
	pos += 27
	accZ := bitio.GetSignMagnitude(frame, pos, 5) * p2(-30) * 1000
	pos += 5

	pos++ // P3
	gamn := bitio.GetSignMagnitude(frame, pos, 11) * p2(-40)
	pos += 11
	pos += 3 // MP, Ml3
	taun := bitio.GetSignMagnitude(frame, pos, 22) * p2(-30)
	pos += 22
	dtaun := bitio.GetSignMagnitude(frame, pos, 5) * p2(-30)
	pos += 5
	age := int(bitio.GetUnsigned(frame, pos, 5))

	sat := satsys.SatNo(satsys.GLO, prn)
	if sat == 0 {
		s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in glonass ephemeris")
		return StatusError
	}

	toe := glonassTimeFromTb(s.currentOrNowGPS(), tb)

	e.Sat = sat
	e.Iode = tb & 0x7F
	e.Svh = bn
	e.Age = age
	e.Pos = [3]float64{posX, posY, posZ}
	e.Vel = [3]float64{velX, velY, velZ}
	e.Acc = [3]float64{accX, accY, accZ}
	e.Taun = taun
	e.Gamn = gamn
	e.DTaun = dtaun
	e.Toe = toe
	e.Tof = gnsstime.AdjGlonassTod(s.currentOrNowGPS(), float64(tk))

	if prev, ok := s.geph[sat]; ok && !s.opt.EphAll {
		if prev.Iode == e.Iode {
			return StatusNone
		}
	}
	s.geph[sat] = &e
	return StatusEphemeris
}

// glonassTimeFromTb converts the 7-bit tb field (spec.md §4.I: "toe
// derived from tb*900-10800s with day rollover") to an absolute time
// anchored near the current epoch.
func glonassTimeFromTb(ref gnsstime.Time, tb int) gnsstime.Time {
	sec := float64(tb)*900.0 - 10800.0
	return gnsstime.AdjGlonassTod(ref, sec)
}

// decodeGlonassBias implements the supplemental message 1230
// (SPEC_FULL.md §12): per-station GLONASS code-phase bias corrections.
func (s *Session) decodeGlonassBias(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	if err := s.testStationID(staID); err != nil {
		s.log.WithError(err).Debug("rtcm3: glonass bias header rejected")
		return StatusError
	}
	mask := int(bitio.GetUnsigned(frame, pos, 4))
	pos += 4
	pos += 3 // reserved

	var b GlonassBias
	b.Valid = true
	if mask&0x8 != 0 {
		b.L1CABias = float64(bitio.GetSigned(frame, pos, 16)) * 0.02
	}
	pos += 16
	if mask&0x4 != 0 {
		b.L1PBias = float64(bitio.GetSigned(frame, pos, 16)) * 0.02
	}
	pos += 16
	if mask&0x2 != 0 {
		b.L2CABias = float64(bitio.GetSigned(frame, pos, 16)) * 0.02
	}
	pos += 16
	if mask&0x1 != 0 {
		b.L2PBias = float64(bitio.GetSigned(frame, pos, 16)) * 0.02
	}

	s.gloBias = b
	return StatusStation
}
