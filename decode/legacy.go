package decode

import (
	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

// Scale constants for legacy RTK observation messages (spec.md §6).
const (
	prUnitGPS = 299792.458
	prUnitGlo = 599584.916
)

// Sentinel values meaning "carrier phase absent" (spec.md §9 "expose
// these as named constants"): the wire values 0xFFF80000/0xFFFFE000 are
// the minimum representable values of the 20-bit and 14-bit signed
// fields respectively, i.e. -2^19 and -2^13.
const (
	sentinelPPR1 int32 = -524288
	sentinelPR21 int32 = -8192
)

// l2CodeTable maps the 2-bit L2 code indicator to an observation code
// (spec.md §4.G).
var l2CodeTable = [4]satsys.Code{satsys.CodeL2X, satsys.CodeL2P, satsys.CodeL2D, satsys.CodeL2W}

// legacyHeader is the common header shape of spec.md §4.G.
type legacyHeader struct {
	staID int
	sync  bool
	nsat  int
}

func (s *Session) decodeLegacyHeader(frame []byte, glonass bool) (legacyHeader, gnsstime.Time, int, error) {
	var h legacyHeader
	pos := 24 + 12
	h.staID = int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12

	if err := s.testStationID(h.staID); err != nil {
		return h, gnsstime.Time{}, 0, err
	}

	var t gnsstime.Time
	if glonass {
		tod := float64(bitio.GetUnsigned(frame, pos, 27)) * 0.001
		pos += 27
		t = gnsstime.AdjGlonassTod(s.currentOrNowGPS(), tod)
	} else {
		tow := float64(bitio.GetUnsigned(frame, pos, 30)) * 0.001
		pos += 30
		t = gnsstime.AdjGpsTow(s.currentOrNowGPS(), tow)
	}

	h.sync = bitio.GetUnsigned(frame, pos, 1) != 0
	pos++
	h.nsat = int(bitio.GetUnsigned(frame, pos, 5))
	pos += 5

	s.newEpochIfNeeded(t)
	if !h.sync {
		s.epoch.Terminated = true
	}
	return h, t, pos, nil
}

func (s *Session) currentOrNowGPS() gnsstime.Time {
	zero := gnsstime.Time{}
	if s.epoch != nil && s.epoch.Time != zero {
		return s.epoch.Time
	}
	return gnsstime.Utc2GpsT(s.clock.Now())
}

// testStationID implements spec.md §3's station-ID consistency invariant
// and §7's StationMismatch error.
func (s *Session) testStationID(staID int) error {
	if s.opt.StationSet && staID != s.opt.StationID {
		return errStationFiltered
	}
	if !s.stationIDSet {
		s.sta.ID = staID
		s.stationIDSet = true
		return nil
	}
	if s.sta.ID != staID {
		s.sta.ID = 0
		s.stationIDSet = false
		return errStationMismatch
	}
	return nil
}

func (s *Session) decodeLegacyGPS(frame []byte, mt MessageType) int {
	ext := mt == MT1002 || mt == MT1004
	hasL2 := mt == MT1003 || mt == MT1004

	h, _, pos, err := s.decodeLegacyHeader(frame, false)
	if err != nil {
		s.log.WithError(err).Debug("rtcm3: legacy gps header rejected")
		return StatusError
	}

	for i := 0; i < h.nsat; i++ {
		prn := int(bitio.GetUnsigned(frame, pos, 6))
		pos += 6
		sys := satsys.GPS
		if prn >= 40 {
			sys = satsys.SBS
			prn += 80
		}
		sat := satsys.SatNo(sys, prn)
		if sat == 0 {
			s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in legacy obs")
			pos += legacySatBlockBits(ext, hasL2)
			continue
		}

		code1 := bitio.GetUnsigned(frame, pos, 1)
		pos++
		pr1 := float64(bitio.GetUnsigned(frame, pos, 24)) * 0.02
		pos += 24
		ppr1 := bitio.GetSigned(frame, pos, 20)
		pos += 20
		lock1 := int(bitio.GetUnsigned(frame, pos, 7))
		pos += 7
		var amb float64
		var cnr1 float64
		if ext {
			amb = float64(bitio.GetUnsigned(frame, pos, 8)) * prUnitGPS
			pos += 8
			cnr1 = float64(bitio.GetUnsigned(frame, pos, 8)) * 0.25
			pos += 8
		}
		pr1 += amb

		obs := s.epoch.obsIndex(sat)
		obs.P[0] = pr1
		code := satsys.CodeL1C
		if code1 != 0 {
			code = satsys.CodeL1P
		}
		obs.Code[0] = code
		freq := satsys.Code2Freq(sys, code, 0)
		if ppr1 != sentinelPPR1 && freq > 0 {
			cyclesRaw := float64(ppr1) * 0.0005 * freq / 299792458.0
			obs.L[0] = pr1*freq/299792458.0 + s.adjCP(sat, 0, cyclesRaw)
		}
		obs.LLI[0] = uint8(s.lossOfLock(sat, 0, lock1))
		if ext {
			obs.SNR[0] = snRatio(cnr1)
		}

		if hasL2 {
			code2 := int(bitio.GetUnsigned(frame, pos, 2))
			pos += 2
			pr21 := bitio.GetSigned(frame, pos, 14)
			pos += 14
			ppr2 := bitio.GetSigned(frame, pos, 20)
			pos += 20
			lock2 := int(bitio.GetUnsigned(frame, pos, 7))
			pos += 7
			var cnr2 float64
			if ext {
				cnr2 = float64(bitio.GetUnsigned(frame, pos, 8)) * 0.25
				pos += 8
			}
			if pr21 != sentinelPR21 {
				obs.P[1] = pr1 + float64(pr21)*0.02
			}
			c2 := l2CodeTable[code2]
			obs.Code[1] = c2
			freq2 := satsys.Code2Freq(sys, c2, 0)
			if ppr2 != sentinelPPR1 && freq2 > 0 {
				cyclesRaw := float64(ppr2) * 0.0005 * freq2 / 299792458.0
				obs.L[1] = pr1*freq2/299792458.0 + s.adjCP(sat, 1, cyclesRaw)
			}
			obs.LLI[1] = uint8(s.lossOfLock(sat, 1, lock2))
			if ext {
				obs.SNR[1] = snRatio(cnr2)
			}
		}
	}
	return StatusObs
}

func (s *Session) decodeLegacyGlonass(frame []byte, mt MessageType) int {
	ext := mt == MT1010 || mt == MT1012
	hasL2 := mt == MT1011 || mt == MT1012

	h, _, pos, err := s.decodeLegacyHeader(frame, true)
	if err != nil {
		s.log.WithError(err).Debug("rtcm3: legacy glonass header rejected")
		return StatusError
	}

	for i := 0; i < h.nsat; i++ {
		prn := int(bitio.GetUnsigned(frame, pos, 6))
		pos += 6
		sys := satsys.GLO
		if prn >= 40 {
			sys = satsys.SBS
			prn += 80
		}
		sat := satsys.SatNo(sys, prn)

		code1 := bitio.GetUnsigned(frame, pos, 1)
		pos++
		fcnField := int(bitio.GetUnsigned(frame, pos, 5))
		pos += 5
		fcn := fcnField - 7

		pr1 := float64(bitio.GetUnsigned(frame, pos, 25)) * 0.02
		pos += 25
		ppr1 := bitio.GetSigned(frame, pos, 20)
		pos += 20
		lock1 := int(bitio.GetUnsigned(frame, pos, 7))
		pos += 7
		var amb float64
		var cnr1 float64
		if ext {
			amb = float64(bitio.GetUnsigned(frame, pos, 7)) * prUnitGlo
			pos += 7
			cnr1 = float64(bitio.GetUnsigned(frame, pos, 8)) * 0.25
			pos += 8
		}
		pr1 += amb

		if sat == 0 {
			pos += legacyGlonassTail(ext, hasL2)
			continue
		}
		obs := s.epoch.obsIndex(sat)
		code := satsys.CodeL1C
		if code1 != 0 {
			code = satsys.CodeL1P
		}
		obs.P[0] = pr1
		obs.Code[0] = code
		freq := satsys.Code2Freq(sys, code, fcn)
		if ppr1 != sentinelPPR1 && freq > 0 {
			cyclesRaw := float64(ppr1) * 0.0005 * freq / 299792458.0
			obs.L[0] = pr1*freq/299792458.0 + s.adjCP(sat, 0, cyclesRaw)
		}
		obs.LLI[0] = uint8(s.lossOfLock(sat, 0, lock1))
		if ext {
			obs.SNR[0] = snRatio(cnr1)
		}

		if hasL2 {
			code2 := int(bitio.GetUnsigned(frame, pos, 2))
			pos += 2
			pr21 := bitio.GetSigned(frame, pos, 14)
			pos += 14
			ppr2 := bitio.GetSigned(frame, pos, 20)
			pos += 20
			lock2 := int(bitio.GetUnsigned(frame, pos, 7))
			pos += 7
			var cnr2 float64
			if ext {
				cnr2 = float64(bitio.GetUnsigned(frame, pos, 8)) * 0.25
				pos += 8
			}
			if pr21 != sentinelPR21 {
				obs.P[1] = pr1 + float64(pr21)*0.02
			}
			c2 := satsys.CodeL2P
			if code2 == 0 {
				c2 = satsys.CodeL2C
			}
			obs.Code[1] = c2
			freq2 := satsys.Code2Freq(sys, c2, fcn)
			if ppr2 != sentinelPPR1 && freq2 > 0 {
				cyclesRaw := float64(ppr2) * 0.0005 * freq2 / 299792458.0
				obs.L[1] = pr1*freq2/299792458.0 + s.adjCP(sat, 1, cyclesRaw)
			}
			obs.LLI[1] = uint8(s.lossOfLock(sat, 1, lock2))
			if ext {
				obs.SNR[1] = snRatio(cnr2)
			}
		}
	}
	return StatusObs
}

func legacySatBlockBits(ext, hasL2 bool) int {
	n := 1 + 24 + 20 + 7
	if ext {
		n += 8 + 8
	}
	if hasL2 {
		n += 2 + 14 + 20 + 7
		if ext {
			n += 8
		}
	}
	return n
}

func legacyGlonassTail(ext, hasL2 bool) int {
	n := 0
	if hasL2 {
		n += 2 + 14 + 20 + 7
		if ext {
			n += 8
		}
	}
	return n
}
