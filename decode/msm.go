package decode

import (
	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

const rangeMs = 299792458.0 * 0.001 // range of 1ms light-travel time (m)

// msm sentinel values: the minimum representable value of each signed
// field width, meaning "absent" (spec.md §4.K).
const (
	sentinelPR15 int32 = -16384
	sentinelCP22 int32 = -2097152
	sentinelRate14 int32 = -8192
	sentinelRateFine15 int32 = -16384
	sentinelPR20 int32 = -524288
	sentinelCP24 int32 = -8388608
)

// msmSigTable mirrors the teacher's msm_sig_* tables (same index order):
// the RINEX-3 observation code for each of the 32 MSM signal-mask slots,
// per constellation (spec.md §4.K "Signal-index assignment").
var msmSigTable = map[satsys.System][32]string{
	satsys.GPS: {
		"", "1C", "1P", "1W", "", "", "", "2C", "2P", "2W", "", "",
		"", "", "2S", "2L", "2X", "", "", "", "", "5I", "5Q", "5X",
		"", "", "", "", "", "1S", "1L", "1X",
	},
	satsys.GLO: {
		"", "1C", "1P", "", "", "", "", "2C", "2P", "", "", "",
		"", "", "", "", "", "", "", "", "", "", "", "",
		"", "", "", "", "", "", "", "",
	},
	satsys.GAL: {
		"", "1C", "1A", "1B", "1X", "1Z", "", "6C", "6A", "6B", "6X", "6Z",
		"", "7I", "7Q", "7X", "", "8I", "8Q", "8X", "", "5I", "5Q", "5X",
		"", "", "", "", "", "", "", "",
	},
	satsys.QZS: {
		"", "1C", "", "", "", "", "", "", "6S", "6L", "6X", "",
		"", "", "2S", "2L", "2X", "", "", "", "", "5I", "5Q", "5X",
		"", "", "", "", "", "1S", "1L", "1X",
	},
	satsys.SBS: {
		"", "1C", "", "", "", "", "", "", "", "", "", "",
		"", "", "", "", "", "", "", "", "", "5I", "5Q", "5X",
		"", "", "", "", "", "", "", "",
	},
	satsys.CMP: {
		"", "2I", "2Q", "2X", "", "", "", "6I", "6Q", "6X", "", "",
		"", "7I", "7Q", "7X", "", "", "", "", "", "5D", "5P", "5X",
		"", "", "", "", "", "1D", "1P", "1X",
	},
}

// msmVariantOf maps an MSM message type to (variant 1-7, constellation).
// Variants 1-3 and the MSM0 placeholder are counted but not decoded
// (spec.md §4.K Non-goals: "MSM1-3 are out of scope").
func msmVariantOf(ctype int) (n int, sys satsys.System, ok bool) {
	switch {
	case ctype >= 1071 && ctype <= 1077:
		return ctype - 1070, satsys.GPS, true
	case ctype >= 1081 && ctype <= 1087:
		return ctype - 1080, satsys.GLO, true
	case ctype >= 1091 && ctype <= 1097:
		return ctype - 1090, satsys.GAL, true
	case ctype >= 1101 && ctype <= 1107:
		return ctype - 1100, satsys.SBS, true
	case ctype >= 1111 && ctype <= 1117:
		return ctype - 1110, satsys.QZS, true
	case ctype >= 1121 && ctype <= 1127:
		return ctype - 1120, satsys.CMP, true
	}
	return 0, satsys.None, false
}

// msmHeader is the common header of spec.md §4.K: station id, epoch
// time, satellite mask (up to 64 satellites), signal mask (up to 32
// signals), and the nsat*nsig cell mask, bounded by the <=64 invariant.
type msmHeader struct {
	sync     bool
	iod      int
	sats     []int // 1-based PRN/slot per mask bit set
	sigMask  []int // 1-based signal-mask index per mask bit set
	cellMask []bool
}

func (s *Session) decodeMSMHeader(frame []byte, sys satsys.System) (msmHeader, gnsstime.Time, int, error) {
	var h msmHeader
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	if err := s.testStationID(staID); err != nil {
		return h, gnsstime.Time{}, 0, err
	}

	var t gnsstime.Time
	switch sys {
	case satsys.GLO:
		pos += 3 // day of week, not modeled separately
		tod := float64(bitio.GetUnsigned(frame, pos, 27)) * 0.001
		pos += 27
		t = gnsstime.AdjGlonassTod(s.currentOrNowGPS(), tod)
	case satsys.CMP:
		tow := float64(bitio.GetUnsigned(frame, pos, 30))*0.001 + 14.0 // BDT -> GPST
		pos += 30
		t = gnsstime.AdjGpsTow(s.currentOrNowGPS(), tow)
	default:
		tow := float64(bitio.GetUnsigned(frame, pos, 30)) * 0.001
		pos += 30
		t = gnsstime.AdjGpsTow(s.currentOrNowGPS(), tow)
	}

	h.sync = bitio.GetUnsigned(frame, pos, 1) != 0
	pos++
	h.iod = int(bitio.GetUnsigned(frame, pos, 3))
	pos += 3
	pos += 7 + 2 + 2 + 1 + 3 // cumulative session time, clock steering, external clock, smoothing, smoothing interval

	for j := 1; j <= 64; j++ {
		if bitio.GetUnsigned(frame, pos, 1) != 0 {
			h.sats = append(h.sats, j)
		}
		pos++
	}
	for j := 1; j <= 32; j++ {
		if bitio.GetUnsigned(frame, pos, 1) != 0 {
			h.sigMask = append(h.sigMask, j)
		}
		pos++
	}
	if len(h.sats)*len(h.sigMask) > 64 {
		return h, t, 0, errMsmCellCount
	}
	h.cellMask = make([]bool, len(h.sats)*len(h.sigMask))
	for j := range h.cellMask {
		h.cellMask[j] = bitio.GetUnsigned(frame, pos, 1) != 0
		pos++
	}

	s.newEpochIfNeeded(t)
	if !h.sync {
		s.epoch.Terminated = true
	}
	return h, t, pos, nil
}

// msmSignalIndex reproduces the teacher's SigIndex: among signals sharing
// a frequency-band slot, keep only the highest-priority one in the NFreq
// "main" slots, spilling the rest into the NExtra "extended" slots (or
// dropping them once those fill up too).
func msmSignalIndex(sys satsys.System, codes []satsys.Code, opt string) []int {
	idx := make([]int, len(codes))
	priHigh := make([]int, NSlots)
	winner := make([]int, NSlots) // 1-based index into codes, 0 = none
	extend := make([]bool, len(codes))

	for i, c := range codes {
		if c == satsys.CodeNone {
			continue
		}
		bandIdx := satsys.Code2Idx(sys, c) - 1
		if bandIdx < 0 || bandIdx >= NFreq {
			extend[i] = true
			continue
		}
		pri := satsys.CodePriority(sys, c, opt)
		if pri > priHigh[bandIdx] {
			if winner[bandIdx] > 0 {
				extend[winner[bandIdx]-1] = true
			}
			priHigh[bandIdx] = pri
			winner[bandIdx] = i + 1
			idx[i] = bandIdx
		} else {
			extend[i] = true
		}
	}
	for bandIdx, w := range winner {
		if w > 0 {
			idx[w-1] = bandIdx
		}
	}
	nex := 0
	for i, c := range codes {
		if c == satsys.CodeNone || !extend[i] {
			continue
		}
		if nex < NExtra {
			idx[i] = NFreq + nex
			nex++
		} else {
			idx[i] = -1
		}
	}
	return idx
}

// msmCell holds one decoded (satellite, signal) cell's payload, in the
// order the header's cell mask enumerates them.
type msmCell struct {
	pr, cp, rateFine float64
	lock             int
	half             bool
	cnr              float64
}

const (
	absentFine  = -1e16
	p2_10       = 1.0 / 1024
	p2_24       = 1.0 / 16777216
	p2_29       = 1.0 / 536870912
	p2_31       = 1.0 / 2147483648
)

// decodeMSM implements MSM4-MSM7 (spec.md §4.K). MSM1-3 are out of scope
// (counted but undecoded); unrecognized variants return StatusNone.
func (s *Session) decodeMSM(frame []byte, n int, sys satsys.System) int {
	if n < 4 {
		return StatusNone
	}
	h, _, pos, err := s.decodeMSMHeader(frame, sys)
	if err != nil {
		s.log.WithError(err).Debug("rtcm3: msm header rejected")
		return StatusError
	}

	nsat, nsig := len(h.sats), len(h.sigMask)
	rng := make([]float64, nsat)
	rateCoarse := make([]float64, nsat)
	extInfo := make([]int, nsat)
	ncell := 0
	for _, on := range h.cellMask {
		if on {
			ncell++
		}
	}
	cells := make([]msmCell, ncell)
	for i := range cells {
		cells[i].pr, cells[i].cp, cells[i].rateFine = absentFine, absentFine, absentFine
	}

	hasRate := n == 5 || n == 7
	hiRes := n == 6 || n == 7

	for j := 0; j < nsat; j++ {
		v := int(bitio.GetUnsigned(frame, pos, 8))
		pos += 8
		if v != 255 {
			rng[j] = float64(v) * rangeMs
		}
	}
	if hasRate {
		for j := 0; j < nsat; j++ {
			extInfo[j] = int(bitio.GetUnsigned(frame, pos, 4))
			pos += 4
		}
	}
	for j := 0; j < nsat; j++ {
		v := int(bitio.GetUnsigned(frame, pos, 10))
		pos += 10
		if rng[j] != 0 {
			rng[j] += float64(v) * p2_10 * rangeMs
		}
	}
	if hasRate {
		for j := 0; j < nsat; j++ {
			v := bitio.GetSigned(frame, pos, 14)
			pos += 14
			if v != sentinelRate14 {
				rateCoarse[j] = float64(v)
			}
		}
	}

	prBits, cpBits := 15, 22
	prScale, cpScale := p2_24, p2_29
	prSentinel, cpSentinel := sentinelPR15, sentinelCP22
	if hiRes {
		prBits, cpBits = 20, 24
		prScale, cpScale = p2_29, p2_31
		prSentinel, cpSentinel = sentinelPR20, sentinelCP24
	}
	for j := 0; j < ncell; j++ {
		v := bitio.GetSigned(frame, pos, prBits)
		pos += prBits
		if v != prSentinel {
			cells[j].pr = float64(v) * prScale * rangeMs
		}
	}
	for j := 0; j < ncell; j++ {
		v := bitio.GetSigned(frame, pos, cpBits)
		pos += cpBits
		if v != cpSentinel {
			cells[j].cp = float64(v) * cpScale * rangeMs
		}
	}
	lockBits := 4
	cnrBits := 6
	if hiRes {
		lockBits, cnrBits = 10, 10
	}
	for j := 0; j < ncell; j++ {
		cells[j].lock = int(bitio.GetUnsigned(frame, pos, lockBits))
		pos += lockBits
	}
	for j := 0; j < ncell; j++ {
		cells[j].half = bitio.GetUnsigned(frame, pos, 1) != 0
		pos++
	}
	for j := 0; j < ncell; j++ {
		v := float64(bitio.GetUnsigned(frame, pos, cnrBits))
		pos += cnrBits
		if hiRes {
			cells[j].cnr = v * 0.0625
		} else {
			cells[j].cnr = v
		}
	}
	if hasRate {
		for j := 0; j < ncell; j++ {
			v := bitio.GetSigned(frame, pos, 15)
			pos += 15
			if v != sentinelRateFine15 {
				cells[j].rateFine = float64(v) * 0.0001
			}
		}
	}

	s.saveMsmObs(sys, h, rng, rateCoarse, extInfo, cells, hasRate)
	return StatusObs
}

// saveMsmObs implements the teacher's SaveMsmObs: resolve each signal
// mask slot to a RINEX code and frequency-band slot, pick the winning
// signal per slot, then write pseudorange/carrier-phase/Doppler/SNR/LLI
// into the current epoch's per-satellite observation.
func (s *Session) saveMsmObs(sys satsys.System, h msmHeader, rng, rateCoarse []float64, extInfo []int, cells []msmCell, hasRate bool) {
	sigTable, ok := msmSigTable[sys]
	codes := make([]satsys.Code, len(h.sigMask))
	for i, m := range h.sigMask {
		if !ok || m < 1 || m > 32 {
			continue
		}
		codes[i] = satsys.Obs2Code(sigTable[m-1])
		if codes[i] == satsys.CodeNone {
			s.log.WithField("sys", sys.String()).WithField("signal_id", m).Debug("rtcm3: unknown msm signal id")
		}
	}
	slot := msmSignalIndex(sys, codes, s.opt.Raw)

	cell := 0
	for i, prn := range h.sats {
		switch sys {
		case satsys.QZS:
			prn += 192
		case satsys.SBS:
			prn += 119
		}
		sat := satsys.SatNo(sys, prn)
		if sat == 0 {
			s.log.WithField("prn", prn).Debug("rtcm3: invalid satellite in msm")
			cell += len(h.sigMask)
			continue
		}

		fcn := -8
		if sys == satsys.GLO {
			switch {
			case hasRate && extInfo[i] <= 13:
				fcn = extInfo[i] - 7
			case s.geph[sat] != nil:
				fcn = s.geph[sat].Frq
			}
		}

		var obs *Observation
		for k := 0; k < len(h.sigMask); k++ {
			on := h.cellMask[i*len(h.sigMask)+k]
			if !on {
				continue
			}
			c := cells[cell]
			cell++

			idx := slot[k]
			if idx < 0 || codes[k] == satsys.CodeNone {
				continue
			}
			if obs == nil {
				obs = s.epoch.obsIndex(sat)
			}

			freq := satsys.Code2Freq(sys, codes[k], fcn)
			if sys == satsys.GLO && fcn < -7 {
				freq = 0
			}
			if rng[i] != 0 && c.pr > -1e12 {
				obs.P[idx] = rng[i] + c.pr
			}
			if rng[i] != 0 && c.cp > -1e12 && freq > 0 {
				obs.L[idx] = (rng[i] + c.cp) * freq / 299792458.0
			}
			if hasRate && c.rateFine > -1e12 {
				obs.D[idx] = -(rateCoarse[i] + c.rateFine) * freq / 299792458.0
			}
			lli := s.lossOfLock(sat, idx, c.lock)
			if c.half {
				lli |= 3
			}
			obs.LLI[idx] = uint8(lli)
			obs.SNR[idx] = snRatio(c.cnr)
			obs.Code[idx] = codes[k]
		}
	}
}
