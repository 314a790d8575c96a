package decode

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fxb-gnss/rtcm3decode/gnsstime"
	"github.com/fxb-gnss/rtcm3decode/rtcmopt"
	"github.com/fxb-gnss/rtcm3decode/satsys"
)

// frameState is the framer's explicit state enum (spec.md §9 Design
// Notes: "reimplementations should use a proper state enum" instead of
// the teacher's implicit Nbyte byte counter).
type frameState int

const (
	stateIdle frameState = iota
	stateLen1
	stateLen2
	stateBody
)

const maxFrameBytes = 3 + 1023 + 3 // header + max payload + crc

// lockState is the per-(satellite,frequency-slot) continuation state
// spec.md §4.L needs for carrier-phase rollover reconstruction and
// loss-of-lock detection.
type lockState struct {
	cp       float64
	cpValid  bool
	lock     int
	lockSeen bool
}

// Session is the control record of spec.md §3: the single mutable entity
// every decoder reads and writes. Its lifecycle is "create, feed bytes
// for a session, discard" (spec.md §3 "Lifecycle") — there is no
// persistent state across Sessions.
type Session struct {
	id uuid.UUID

	// framing state (spec.md §4.E)
	state   frameState
	buf     [maxFrameBytes]byte
	fill    int
	msgLen  int

	// decoded-content state (spec.md §3)
	epoch    *Epoch
	nav      map[int]*Ephemeris       // keyed by opaque satellite index (GPS/QZS/GAL F-NAV slot)
	navINav  map[int]*Ephemeris       // Galileo I/NAV uses a distinct slot from F/NAV for the same satellite
	geph     map[int]*GlonassEphemeris // keyed by opaque satellite index of the GLONASS slot
	sta      Station
	ssr      map[int]*SSR // keyed by opaque satellite index
	gloBias  GlonassBias
	locks    map[[2]int]*lockState // [sat][freq-slot]

	stationIDSet bool

	opt   rtcmopt.Options
	clock gnsstime.Clock
	log   *logrus.Entry

	Stats Stats
}

// NewSession constructs a Session with the given options string and
// wall-clock source (use gnsstime.SystemClock{} in production; inject a
// fake Clock in tests for deterministic rollover resolution, per
// spec.md §5/§9).
func NewSession(options string, clock gnsstime.Clock, log *logrus.Entry) (*Session, error) {
	opt, err := rtcmopt.Parse(options)
	if err != nil {
		return nil, err
	}
	if log == nil {
		logger := logrus.New()
		logger.SetOutput(discardWriter{})
		log = logrus.NewEntry(logger)
	}
	id := uuid.New()
	return &Session{
		id:      id,
		epoch:   newEpoch(),
		nav:     map[int]*Ephemeris{},
		navINav: map[int]*Ephemeris{},
		geph:    map[int]*GlonassEphemeris{},
		ssr:     map[int]*SSR{},
		locks:   map[[2]int]*lockState{},
		opt:     opt,
		clock:   clock,
		log:     log.WithField("session", id.String()),
	}, nil
}

// ID returns the session's correlation identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Epoch returns the most recently (or currently) buffered observation
// epoch.
func (s *Session) Epoch() *Epoch { return s.epoch }

// Station returns the current station descriptor.
func (s *Session) Station() Station { return s.sta }

// Ephemeris returns the stored GPS/QZS/Galileo-FNAV/BeiDou ephemeris for
// an opaque satellite index, if any.
func (s *Session) Ephemeris(sat int) (*Ephemeris, bool) {
	e, ok := s.nav[sat]
	return e, ok
}

// EphemerisINav returns the Galileo I/NAV ephemeris slot, distinct from
// the F/NAV one (spec.md §4.I).
func (s *Session) EphemerisINav(sat int) (*Ephemeris, bool) {
	e, ok := s.navINav[sat]
	return e, ok
}

// GlonassEphemeris returns the stored GLONASS ephemeris for a slot
// number.
func (s *Session) GlonassEphemeris(slot int) (*GlonassEphemeris, bool) {
	g, ok := s.geph[satsys.SatNo(satsys.GLO, slot)]
	return g, ok
}

// SSR returns the stored SSR record for an opaque satellite index.
func (s *Session) SSR(sat int) (*SSR, bool) {
	r, ok := s.ssr[sat]
	return r, ok
}

func (s *Session) ssrFor(sat int) *SSR {
	r, ok := s.ssr[sat]
	if !ok {
		r = newSSR()
		s.ssr[sat] = r
	}
	return r
}

func (s *Session) lockFor(sat, slot int) *lockState {
	key := [2]int{sat, slot}
	l, ok := s.locks[key]
	if !ok {
		l = &lockState{}
		s.locks[key] = l
	}
	return l
}

// adjCP implements spec.md §4.L "adjcp": resolve the 1500-cycle rollover
// of the relative (phase minus range) cycle count legacy messages carry;
// callers add the pseudorange term to get the carrier phase.
func (s *Session) adjCP(sat, slot int, cp float64) float64 {
	l := s.lockFor(sat, slot)
	if !l.cpValid {
		l.cp = cp
		l.cpValid = true
		return cp
	}
	switch {
	case cp < l.cp-750:
		cp += 1500
	case cp > l.cp+750:
		cp -= 1500
	}
	l.cp = cp
	return cp
}

// lossOfLock implements spec.md §4.L "lossoflock".
func (s *Session) lossOfLock(sat, slot, lock int) int {
	l := s.lockFor(sat, slot)
	lli := 0
	if l.lockSeen && ((lock == 0 && l.lock == 0) || lock < l.lock) {
		lli = 1
	} else if !l.lockSeen && lock == 0 {
		lli = 1
	}
	l.lock = lock
	l.lockSeen = true
	return lli
}

// snRatio implements spec.md §4.L "snratio": round(snr*4) clipped to
// [0,255], stored in quarter-dB-Hz units.
func snRatio(snr float64) uint16 {
	v := int(snr*4.0 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint16(v)
}

// newEpochIfNeeded clears the observation buffer when the decoded time
// differs from the buffered one by more than 1ns, or the previous batch
// was terminated by a sync=0 frame (spec.md §3 invariant, §4.K epoch
// handling).
func (s *Session) newEpochIfNeeded(t gnsstime.Time) {
	if s.epoch.Terminated || gnsstimeDiffNs(s.epoch.Time, t) {
		s.epoch = newEpoch()
	}
	s.epoch.Time = t
}

func gnsstimeDiffNs(a, b gnsstime.Time) bool {
	d := gnsstime.Sub(a, b)
	if d < 0 {
		d = -d
	}
	return d > 1e-9
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
