// Package satsys implements the system+PRN <-> opaque satellite index
// registry and the observation-code / frequency-band tables RTCM3
// decoders use to interpret signal identifiers.
package satsys

// System is an exhaustive tagged set of the satellite systems this module
// understands. System 0 (None) is the zero value and marks "no satellite".
type System int

const (
	None System = iota
	GPS
	GLO
	GAL
	QZS
	CMP
	IRN
	LEO
	SBS
)

func (s System) String() string {
	switch s {
	case GPS:
		return "GPS"
	case GLO:
		return "GLO"
	case GAL:
		return "GAL"
	case QZS:
		return "QZS"
	case CMP:
		return "CMP"
	case IRN:
		return "IRN"
	case LEO:
		return "LEO"
	case SBS:
		return "SBS"
	default:
		return "NONE"
	}
}

// prnRange describes one system's PRN/slot range; its offset within the
// opaque satellite index space follows from order below.
type prnRange struct {
	min, max int
}

var ranges = map[System]prnRange{
	GPS: {1, 32},
	GLO: {1, 27},
	GAL: {1, 36},
	QZS: {193, 202},
	CMP: {1, 63},
	IRN: {1, 14},
	LEO: {1, 10},
	SBS: {120, 158},
}

// order fixes the contiguous-block ordering of the opaque satellite index
// space: GPS, GLO, GAL, QZS, CMP, IRN, LEO, SBS.
var order = []System{GPS, GLO, GAL, QZS, CMP, IRN, LEO, SBS}

func count(s System) int {
	r := ranges[s]
	return r.max - r.min + 1
}

// MaxSat is the size of the opaque satellite index space (index 0 is
// reserved for "invalid").
var MaxSat = func() int {
	n := 0
	for _, s := range order {
		n += count(s)
	}
	return n
}()

// SatNo maps (system, prn) to an opaque satellite index in [1, MaxSat],
// or 0 if prn is out of that system's range. prn <= 0 always maps to 0.
func SatNo(sys System, prn int) int {
	if prn <= 0 {
		return 0
	}
	r, ok := ranges[sys]
	if !ok || prn < r.min || prn > r.max {
		return 0
	}
	offset := 0
	for _, s := range order {
		if s == sys {
			break
		}
		offset += count(s)
	}
	return offset + prn - r.min + 1
}

// SysPrn is the inverse of SatNo: given an opaque satellite index, return
// its system and PRN/slot number. Returns (None, 0) for sat outside
// [1, MaxSat].
func SysPrn(sat int) (System, int) {
	if sat <= 0 || sat > MaxSat {
		return None, 0
	}
	offset := 0
	for _, s := range order {
		n := count(s)
		if sat <= offset+n {
			return s, ranges[s].min + sat - offset - 1
		}
		offset += n
	}
	return None, 0
}
