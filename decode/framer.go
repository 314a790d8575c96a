package decode

import (
	"bufio"
	"io"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/crc24q"
)

const preamble = 0xD3

// Status codes returned by PutByte, per spec.md §4.E/§6.
const (
	StatusNone       = 0  // no message yet
	StatusError      = -1 // frame consumed, content invalid
	StatusObs        = 1  // observation epoch updated
	StatusEphemeris  = 2  // ephemeris updated
	StatusStation    = 5  // station/antenna descriptor updated
	StatusSSR        = 10 // SSR record updated
	StatusEOF        = -2 // file-stream wrapper: end of input
)

// PutByte is the byte-stream input operation of spec.md §6: feed one
// byte, get back a status code. This is the only entry point decoders
// are driven through; the framer is a purely reactive state machine
// (spec.md §9 "re-architect as a proper state enum").
func (s *Session) PutByte(b byte) int {
	switch s.state {
	case stateIdle:
		if b != preamble {
			return StatusNone
		}
		s.buf[0] = b
		s.fill = 1
		s.state = stateLen1
		return StatusNone

	case stateLen1:
		s.buf[1] = b
		s.fill = 2
		s.state = stateLen2
		return StatusNone

	case stateLen2:
		s.buf[2] = b
		s.fill = 3
		s.msgLen = int(bitio.GetUnsigned(s.buf[:3], 14, 10)) + 3
		if s.msgLen < 3 || s.msgLen > maxFrameBytes-3 {
			s.resetFramer()
			return StatusError
		}
		s.state = stateBody
		return StatusNone

	case stateBody:
		s.buf[s.fill] = b
		s.fill++
		if s.fill < s.msgLen+3 {
			return StatusNone
		}
		frame := s.buf[:s.fill]
		n := s.msgLen
		s.resetFramer()

		if crc24q.Checksum(frame, n) != bitio.GetUnsigned(frame, n*8, 24) {
			s.log.Debug("rtcm3: crc mismatch, discarding frame")
			return StatusNone
		}
		return s.dispatch(frame[:n])
	}
	return StatusNone
}

func (s *Session) resetFramer() {
	s.state = stateIdle
	s.fill = 0
	s.msgLen = 0
}

// ReadFile is the file-stream convenience wrapper of spec.md §6: it
// drives PutByte up to 4096 times or until a non-zero status, surfacing
// that status; on EOF it returns StatusEOF. Callers that invoke ReadFile
// repeatedly against the same underlying stream must pass the same
// *bufio.Reader each time, so bytes pre-fetched into its buffer are not
// discarded between calls.
func (s *Session) ReadFile(br *bufio.Reader) int {
	for i := 0; i < 4096; i++ {
		b, err := br.ReadByte()
		if err == io.EOF {
			return StatusEOF
		}
		if err != nil {
			return StatusError
		}
		if ret := s.PutByte(b); ret != StatusNone {
			return ret
		}
	}
	return StatusNone
}
