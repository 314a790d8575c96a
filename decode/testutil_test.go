package decode

import (
	"github.com/sirupsen/logrus"

	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/crc24q"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
)

// buildFrame assembles a complete RTCM3 frame (preamble, length, payload,
// CRC-24Q trailer) so tests can drive PutByte the way a real byte stream
// would. fillBits sets payload fields using absolute bit positions that
// include the 3-byte header, matching every decoder's "pos := 24+12" style.
func buildFrame(payloadBits int, fillBits func(frame []byte)) []byte {
	payloadLen := (payloadBits + 7) / 8
	frame := make([]byte, 3+payloadLen+3)
	frame[0] = preamble
	bitio.SetUnsigned(frame, 14, 10, uint32(payloadLen))
	fillBits(frame)
	crc := crc24q.Checksum(frame, 3+payloadLen)
	bitio.SetUnsigned(frame, (3+payloadLen)*8, 24, crc)
	return frame
}

// feed drives every byte of frame through PutByte and returns the status
// of the final byte (the one that completes the frame).
func feed(s *Session, frame []byte) int {
	status := StatusNone
	for _, b := range frame {
		status = s.PutByte(b)
	}
	return status
}

func newTestSession() *Session {
	logger := logrus.New()
	logger.SetOutput(discardWriter{})
	s, err := NewSession("", fakeClock{}, logrus.NewEntry(logger))
	if err != nil {
		panic(err)
	}
	return s
}

// fakeClock pins the wall clock so week/day rollover disambiguation is
// deterministic across tests.
type fakeClock struct{ t gnsstime.Time }

func (f fakeClock) Now() gnsstime.Time {
	if f.t.Sec == 0 {
		return gnsstime.GpsT2Utc(gnsstime.GpsT2Time(2200, 100000))
	}
	return f.t
}
