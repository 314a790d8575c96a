// Package decode implements the RTCM3 stream framer, message dispatcher,
// and per-message-family decoders (spec.md §4.E-§4.L) around a single
// mutable Session (the "control record" of spec.md §3).
package decode

import (
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

// NFreq is the number of "main" frequency slots an observation carries;
// NExtra is the number of additional "extended" slots for a second code
// on the same band (spec.md §4.K "Signal-index assignment").
const (
	NFreq  = 3
	NExtra = 2
	NSlots = NFreq + NExtra
)

// MaxObs bounds the number of satellites carried in one observation
// epoch.
const MaxObs = 96

// Observation holds one satellite's decoded signals for the current
// epoch.
type Observation struct {
	Sat  int
	Code [NSlots]satsys.Code
	P    [NSlots]float64 // pseudorange (m), 0 = absent
	L    [NSlots]float64 // carrier phase (cycles), 0 = absent
	D    [NSlots]float64 // Doppler (Hz), 0 = absent
	SNR  [NSlots]uint16  // signal/noise ratio, SnrUnit per count
	LLI  [NSlots]uint8   // loss-of-lock indicator bitfield
}

// SnrUnit is the scale of the stored SNR count (spec.md §4.L snratio).
const SnrUnit = 0.25 // dB-Hz per count: snRatio stores round(snr*4)

// Epoch is one decoded observation batch: the epoch time and the
// per-satellite observation set, addressed by opaque satellite index
// (spec.md §3 "sliding observation buffer").
type Epoch struct {
	Time       gnsstime.Time
	Data       map[int]*Observation
	Terminated bool // true once a sync=0 frame has closed this batch
}

func newEpoch() *Epoch {
	return &Epoch{Data: make(map[int]*Observation, MaxObs)}
}

// obsIndex returns the existing Observation for sat, allocating a new
// zeroed one if needed (spec.md §4.L "obsindex").
func (e *Epoch) obsIndex(sat int) *Observation {
	if o, ok := e.Data[sat]; ok {
		return o
	}
	o := &Observation{Sat: sat}
	for i := range o.Code {
		o.Code[i] = satsys.CodeNone
	}
	e.Data[sat] = o
	return o
}

// Ephemeris is the common broadcast-ephemeris record for GPS, QZSS,
// Galileo and BeiDou (spec.md §4.I).
type Ephemeris struct {
	Sat        int
	Iode, Iodc int
	Sva        int
	Svh        int
	Week       int
	Code       int
	Flag       int
	Toe, Toc   gnsstime.Time
	Toes       float64
	Fit        float64
	A, E, I0, OMG0, Omg, M0, Deln, OMGd, Idot float64
	Crc, Crs, Cuc, Cus, Cic, Cis              float64
	F0, F1, F2                                float64
	Tgd                                        [6]float64
}

// GlonassEphemeris is GLONASS's distinct position/velocity/acceleration
// ephemeris shape (spec.md §4.I).
type GlonassEphemeris struct {
	Sat           int
	Iode          int
	Frq           int
	Svh, Sva, Age int
	Toe, Tof      gnsstime.Time
	Pos, Vel, Acc [3]float64
	Taun, Gamn    float64
	DTaun         float64
}

// Station is the single station descriptor the control record holds
// (spec.md §4.H).
type Station struct {
	ID         int
	Name       string
	Pos        [3]float64 // ECEF ARP (m)
	Itrf       int
	DelType    int
	Del        [3]float64 // antenna delta
	HgtValid   bool
	AntennaDes string
	AntSerial  string
	RecType    string
	RecVersion string
	RecSerial  string
}

// SSR is the per-satellite state-space-representation record: six
// spec.md-named subkinds plus the supplemental phase-bias kind of
// SPEC_FULL.md §12, each with independent timestamp/update-interval/
// issue-of-data bookkeeping (spec.md §4.J).
type SSR struct {
	T0       [7]gnsstime.Time
	Udi      [7]float64
	Iod      [7]int
	Refd     bool
	Iode     int
	IodCrc   int
	Deph     [3]float64 // orbit: radial/along/cross delta (m)
	Ddeph    [3]float64 // orbit rate (m/s)
	Dclk     [3]float64 // clock polynomial c0,c1,c2
	Ura      int
	HrClk    float64
	CBias    map[satsys.Code]float64
	PBias    map[satsys.Code]float64
	StdPBias map[satsys.Code]float64
	YawAngle float64
	YawRate  float64
	Update   bool
}

// SSR subkind indices into SSR.T0/Udi/Iod.
const (
	SsrOrbit = iota
	SsrClock
	SsrHrClock
	SsrUra
	SsrCodeBias
	SsrCombined
	SsrPhaseBias
)

func newSSR() *SSR {
	return &SSR{CBias: map[satsys.Code]float64{}, PBias: map[satsys.Code]float64{}, StdPBias: map[satsys.Code]float64{}}
}

// GlonassBias is the supplemental per-station GLONASS code-phase bias
// record (message 1230, SPEC_FULL.md §12).
type GlonassBias struct {
	Valid              bool
	L1CABias, L1PBias  float64
	L2CABias, L2PBias  float64
}

// Stats holds per-message-type counters, keyed by (type-1000) for
// 1001-1299 and by (type-4070) for the 4070-4099 proprietary range, with
// a catch-all slot for everything else (spec.md §4.F).
type Stats struct {
	ByType   [300]uint64
	ByIgs    [30]uint64
	CatchAll uint64
}

func (s *Stats) record(msgType int) {
	switch {
	case msgType > 1000 && msgType < 1300:
		s.ByType[msgType-1000]++
	case msgType >= 4070 && msgType < 4100:
		s.ByIgs[msgType-4070]++
	default:
		s.CatchAll++
	}
}
