package decode

import (
	"math"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

// p2 returns 2^n for negative n, the scale-factor convention the RTCM3
// ephemeris messages use throughout (spec.md §4.I).
func p2(n int) float64 { return math.Ldexp(1, n) }

// commitEphemeris applies spec.md §4.I's write policy: replace the
// stored ephemeris only if iode (and iodc, where meaningful) differ,
// unless -EPHALL forces unconditional replacement. Returns StatusNone if
// the update was suppressed as stale.
func (s *Session) commitEphemeris(table map[int]*Ephemeris, e *Ephemeris, compareIodc bool) int {
	prev, ok := table[e.Sat]
	if ok && !s.opt.EphAll {
		same := prev.Iode == e.Iode
		if compareIodc {
			same = same && prev.Iodc == e.Iodc
		}
		if same {
			return StatusNone
		}
	}
	table[e.Sat] = e
	return StatusEphemeris
}

func (s *Session) decodeEphGPS(frame []byte) int {
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	var e Ephemeris
	e.Week = int(bitio.GetUnsigned(frame, pos, 10))
	pos += 10
	e.Sva = int(bitio.GetUnsigned(frame, pos, 4))
	pos += 4
	e.Code = int(bitio.GetUnsigned(frame, pos, 2))
	pos += 2
	idot := float64(bitio.GetSigned(frame, pos, 14)) * p2(-43) * math.Pi
	pos += 14
	e.Iode = int(bitio.GetUnsigned(frame, pos, 8))
	pos += 8
	toc := float64(bitio.GetUnsigned(frame, pos, 16)) * 16.0
	pos += 16
	e.F2 = float64(bitio.GetSigned(frame, pos, 8)) * p2(-55)
	pos += 8
	e.F1 = float64(bitio.GetSigned(frame, pos, 16)) * p2(-43)
	pos += 16
	e.F0 = float64(bitio.GetSigned(frame, pos, 22)) * p2(-31)
	pos += 22
	e.Iodc = int(bitio.GetUnsigned(frame, pos, 10))
	pos += 10
	e.Crs = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	deln := float64(bitio.GetSigned(frame, pos, 16)) * p2(-43) * math.Pi
	pos += 16
	m0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cuc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	ecc := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-33)
	pos += 32
	e.Cus = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	sqrtA := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-19)
	pos += 32
	e.Toes = float64(bitio.GetUnsigned(frame, pos, 16)) * 16.0
	pos += 16
	e.Cic = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	omg0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cis = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	i0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Crc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	omg := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	omgd := float64(bitio.GetSigned(frame, pos, 24)) * p2(-43) * math.Pi
	pos += 24
	tgd := float64(bitio.GetSigned(frame, pos, 8)) * p2(-31)
	pos += 8
	svh := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	fitFlag := bitio.GetUnsigned(frame, pos, 1)

	sys := satsys.GPS
	if prn >= 40 {
		sys = satsys.SBS
		prn += 80
	}
	sat := satsys.SatNo(sys, prn)
	if sat == 0 {
		s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in gps ephemeris")
		return StatusError
	}

	week := gnsstime.AdjGpsWeek(s.clock, e.Week)
	e.Sat = sat
	e.Idot = idot
	e.Deln = deln
	e.M0 = m0
	e.E = ecc
	e.A = sqrtA * sqrtA
	e.OMG0 = omg0
	e.I0 = i0
	e.Omg = omg
	e.OMGd = omgd
	e.Tgd[0] = tgd
	e.Svh = svh
	e.Week = week
	e.Toe = gnsstime.GpsT2Time(week, e.Toes)
	e.Toc = gnsstime.GpsT2Time(week, toc)
	if fitFlag != 0 {
		e.Fit = 0
	} else {
		e.Fit = 4
	}

	return s.commitEphemeris(s.nav, &e, true)
}

func (s *Session) decodeEphQZSS(frame []byte) int {
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 4)) + 192
	pos += 4
	toc := float64(bitio.GetUnsigned(frame, pos, 16)) * 16.0
	pos += 16
	var e Ephemeris
	e.F2 = float64(bitio.GetSigned(frame, pos, 8)) * p2(-55)
	pos += 8
	e.F1 = float64(bitio.GetSigned(frame, pos, 16)) * p2(-43)
	pos += 16
	e.F0 = float64(bitio.GetSigned(frame, pos, 22)) * p2(-31)
	pos += 22
	e.Iode = int(bitio.GetUnsigned(frame, pos, 8))
	pos += 8
	e.Crs = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	deln := float64(bitio.GetSigned(frame, pos, 16)) * p2(-43) * math.Pi
	pos += 16
	m0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cuc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	ecc := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-33)
	pos += 32
	e.Cus = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	sqrtA := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-19)
	pos += 32
	e.Toes = float64(bitio.GetUnsigned(frame, pos, 16)) * 16.0
	pos += 16
	e.Cic = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	omg0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cis = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	i0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Crc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	omg := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	omgd := float64(bitio.GetSigned(frame, pos, 24)) * p2(-43) * math.Pi
	pos += 24
	idot := float64(bitio.GetSigned(frame, pos, 14)) * p2(-43) * math.Pi
	pos += 14
	e.Code = int(bitio.GetUnsigned(frame, pos, 2))
	pos += 2
	week := int(bitio.GetUnsigned(frame, pos, 10))
	pos += 10
	pos += 4 // URA index
	svh := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	tgd := float64(bitio.GetSigned(frame, pos, 8)) * p2(-31)
	pos += 8
	e.Iodc = int(bitio.GetUnsigned(frame, pos, 10))

	sat := satsys.SatNo(satsys.QZS, prn)
	if sat == 0 {
		s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in qzss ephemeris")
		return StatusError
	}
	w := gnsstime.AdjGpsWeek(s.clock, week)
	e.Sat = sat
	e.Idot = idot
	e.Deln = deln
	e.M0 = m0
	e.E = ecc
	e.A = sqrtA * sqrtA
	e.OMG0 = omg0
	e.I0 = i0
	e.Omg = omg
	e.OMGd = omgd
	e.Tgd[0] = tgd
	e.Svh = svh
	e.Week = w
	e.Toe = gnsstime.GpsT2Time(w, e.Toes)
	e.Toc = gnsstime.GpsT2Time(w, toc)

	return s.commitEphemeris(s.nav, &e, true)
}

func (s *Session) decodeGalileo(frame []byte, fnav bool) int {
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	var e Ephemeris
	week := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	e.Iode = int(bitio.GetUnsigned(frame, pos, 10))
	pos += 10
	e.Sva = int(bitio.GetUnsigned(frame, pos, 8))
	pos += 8
	idot := float64(bitio.GetSigned(frame, pos, 14)) * p2(-43) * math.Pi
	pos += 14
	toc := float64(bitio.GetUnsigned(frame, pos, 14)) * 60.0
	pos += 14
	e.F2 = float64(bitio.GetSigned(frame, pos, 6)) * p2(-59)
	pos += 6
	e.F1 = float64(bitio.GetSigned(frame, pos, 21)) * p2(-46)
	pos += 21
	e.F0 = float64(bitio.GetSigned(frame, pos, 31)) * p2(-34)
	pos += 31
	e.Crs = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	deln := float64(bitio.GetSigned(frame, pos, 16)) * p2(-43) * math.Pi
	pos += 16
	m0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cuc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	ecc := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-33)
	pos += 32
	e.Cus = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	sqrtA := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-19)
	pos += 32
	e.Toes = float64(bitio.GetUnsigned(frame, pos, 14)) * 60.0
	pos += 14
	e.Cic = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	omg0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cis = float64(bitio.GetSigned(frame, pos, 16)) * p2(-29)
	pos += 16
	i0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Crc = float64(bitio.GetSigned(frame, pos, 16)) * p2(-5)
	pos += 16
	omg := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	omgd := float64(bitio.GetSigned(frame, pos, 24)) * p2(-43) * math.Pi
	pos += 24

	e.Sat = satsys.SatNo(satsys.GAL, prn)
	if e.Sat == 0 {
		s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in galileo ephemeris")
		return StatusError
	}
	e.Idot = idot
	e.Deln = deln
	e.M0 = m0
	e.E = ecc
	e.A = sqrtA * sqrtA
	e.OMG0 = omg0
	e.I0 = i0
	e.Omg = omg
	e.OMGd = omgd
	e.Week = gnsstime.GalWeekToGpsWeek(week)
	e.Toe = gnsstime.GstT2Time(week, e.Toes)
	e.Toc = gnsstime.GstT2Time(week, toc)

	if fnav {
		bgdE5a := float64(bitio.GetSigned(frame, pos, 10)) * p2(-32)
		pos += 10
		e5aHS := int(bitio.GetUnsigned(frame, pos, 2))
		pos += 2
		e5aDVS := int(bitio.GetUnsigned(frame, pos, 1))

		e.Tgd[0] = bgdE5a
		e.Svh = (e5aHS << 4) | (e5aDVS << 3)
		e.Code = 1
		return s.commitEphemeris(s.nav, &e, false)
	}

	bgdE1E5a := float64(bitio.GetSigned(frame, pos, 10)) * p2(-32)
	pos += 10
	bgdE1E5b := float64(bitio.GetSigned(frame, pos, 10)) * p2(-32)
	pos += 10
	e5bHS := int(bitio.GetUnsigned(frame, pos, 2))
	pos += 2
	e5bDVS := int(bitio.GetUnsigned(frame, pos, 1))
	pos++
	e1HS := int(bitio.GetUnsigned(frame, pos, 2))
	pos += 2
	e1DVS := int(bitio.GetUnsigned(frame, pos, 1))

	e.Tgd[0] = bgdE1E5a
	e.Tgd[1] = bgdE1E5b
	e.Svh = (e5bHS << 7) | (e5bDVS << 6) | (e1HS << 1) | e1DVS
	e.Code = 0
	return s.commitEphemeris(s.navINav, &e, false)
}

func (s *Session) decodeEphGalileoFNav(frame []byte) int {
	return s.decodeGalileoFNav(frame)
}

func (s *Session) decodeEphGalileoINav(frame []byte) int {
	return s.decodeGalileo(frame, false)
}

// decodeGalileoFNav is split from decodeGalileo's shared field layout so
// F/NAV writes into the F/NAV slot (spec.md §4.I keeps the two Galileo
// signal sets in independent navigation slots).
func (s *Session) decodeGalileoFNav(frame []byte) int {
	return s.decodeGalileo(frame, true)
}

func (s *Session) decodeEphBeiDou(frame []byte) int {
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	var e Ephemeris
	week := int(bitio.GetUnsigned(frame, pos, 13))
	pos += 13
	e.Sva = int(bitio.GetUnsigned(frame, pos, 4))
	pos += 4
	idot := float64(bitio.GetSigned(frame, pos, 14)) * p2(-43) * math.Pi
	pos += 14
	aode := int(bitio.GetUnsigned(frame, pos, 5))
	pos += 5
	toc := float64(bitio.GetUnsigned(frame, pos, 17)) * 8.0
	pos += 17
	e.F2 = float64(bitio.GetSigned(frame, pos, 11)) * p2(-66)
	pos += 11
	e.F1 = float64(bitio.GetSigned(frame, pos, 22)) * p2(-50)
	pos += 22
	e.F0 = float64(bitio.GetSigned(frame, pos, 24)) * p2(-33)
	pos += 24
	aodc := int(bitio.GetUnsigned(frame, pos, 5))
	pos += 5
	e.Crs = float64(bitio.GetSigned(frame, pos, 18)) * p2(-6)
	pos += 18
	deln := float64(bitio.GetSigned(frame, pos, 16)) * p2(-43) * math.Pi
	pos += 16
	m0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cuc = float64(bitio.GetSigned(frame, pos, 18)) * p2(-31)
	pos += 18
	ecc := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-33)
	pos += 32
	e.Cus = float64(bitio.GetSigned(frame, pos, 18)) * p2(-31)
	pos += 18
	sqrtA := float64(bitio.GetUnsigned(frame, pos, 32)) * p2(-19)
	pos += 32
	toes := float64(bitio.GetUnsigned(frame, pos, 17)) * 8.0
	pos += 17
	e.Cic = float64(bitio.GetSigned(frame, pos, 18)) * p2(-31)
	pos += 18
	omg0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Cis = float64(bitio.GetSigned(frame, pos, 18)) * p2(-31)
	pos += 18
	i0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	e.Crc = float64(bitio.GetSigned(frame, pos, 18)) * p2(-6)
	pos += 18
	omg := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32
	omgd := float64(bitio.GetSigned(frame, pos, 24)) * p2(-43) * math.Pi
	pos += 24
	tgd1 := float64(bitio.GetSigned(frame, pos, 10)) * 1e-10
	pos += 10
	tgd2 := float64(bitio.GetSigned(frame, pos, 10)) * 1e-10
	pos += 10
	svh := int(bitio.GetUnsigned(frame, pos, 1))

	sat := satsys.SatNo(satsys.CMP, prn)
	if sat == 0 {
		s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in beidou ephemeris")
		return StatusError
	}
	bdtWeek := gnsstime.AdjBdtWeek(s.clock, week)
	bdtToe := gnsstime.BDT2Time(bdtWeek, toes)
	bdtToc := gnsstime.BDT2Time(bdtWeek, toc)

	e.Sat = sat
	e.Iode = aode
	e.Iodc = aodc
	e.Idot = idot
	e.Deln = deln
	e.M0 = m0
	e.E = ecc
	e.A = sqrtA * sqrtA
	e.OMG0 = omg0
	e.I0 = i0
	e.Omg = omg
	e.OMGd = omgd
	e.Tgd[0] = tgd1
	e.Tgd[1] = tgd2
	e.Svh = svh
	e.Week = bdtWeek
	e.Toes = toes
	e.Toe = gnsstime.BDT2GpsT(bdtToe)
	e.Toc = gnsstime.BDT2GpsT(bdtToc)

	if prev, ok := s.nav[sat]; ok && !s.opt.EphAll {
		if prev.Iode == aode && prev.Iodc == aodc && gnsstime.Sub(prev.Toe, e.Toe) == 0 {
			return StatusNone
		}
	}
	s.nav[sat] = &e
	return StatusEphemeris
}

func (s *Session) decodeEphIRNSS(frame []byte) int {
	// Supplemental: NavIC/IRNSS shares the GPS-shaped ephemeris fields
	// (SPEC_FULL.md §12); it is not in spec.md's named message set.
	pos := 24 + 12
	prn := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	var e Ephemeris
	week := int(bitio.GetUnsigned(frame, pos, 10))
	pos += 10
	pos += 22 // URA, af0 msb placeholder skipped for the supplemental decoder
	idot := float64(bitio.GetSigned(frame, pos, 22)) * p2(-43) * math.Pi
	pos += 22
	e.Iode = int(bitio.GetUnsigned(frame, pos, 8))
	pos += 8
	pos += 10
	toc := float64(bitio.GetUnsigned(frame, pos, 16)) * 16.0
	pos += 16
	e.F2 = float64(bitio.GetSigned(frame, pos, 8)) * p2(-55)
	pos += 8
	e.F1 = float64(bitio.GetSigned(frame, pos, 16)) * p2(-43)
	pos += 16
	e.F0 = float64(bitio.GetSigned(frame, pos, 22)) * p2(-31)
	pos += 22
	e.Crs = float64(bitio.GetSigned(frame, pos, 15)) * p2(-4)
	pos += 15
	deln := float64(bitio.GetSigned(frame, pos, 17)) * p2(-41) * math.Pi
	pos += 17
	m0 := float64(bitio.GetSigned(frame, pos, 32)) * p2(-31) * math.Pi
	pos += 32

	sat := satsys.SatNo(satsys.IRN, prn)
	if sat == 0 {
		return StatusError
	}
	w := gnsstime.AdjGpsWeek(s.clock, week)
	e.Sat = sat
	e.Idot = idot
	e.Deln = deln
	e.M0 = m0
	e.Week = w
	e.Toc = gnsstime.GpsT2Time(w, toc)
	return s.commitEphemeris(s.nav, &e, false)
}
