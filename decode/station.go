package decode

import "github.com/fxb-gnss/rtcm3decode/bitio"

const maxDescriptorLen = 31

// readDescriptor reads an 8-bit-length-prefixed ASCII string, truncated
// at maxDescriptorLen characters (spec.md §4.H, §9 "String fields"), and
// returns the bit position after it.
func readDescriptor(frame []byte, pos int) (string, int) {
	n := int(bitio.GetUnsigned(frame, pos, 8))
	pos += 8
	buf := make([]byte, 0, n)
	for i := 0; i < n; i++ {
		c := byte(bitio.GetUnsigned(frame, pos, 8))
		pos += 8
		if len(buf) < maxDescriptorLen {
			buf = append(buf, c)
		}
	}
	return string(buf), pos
}

func (s *Session) decodeStation1005(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	itrf := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	pos += 4 // GPS/GLO/GAL/reference-station indicator bits, not modeled separately

	x := bitio.GetSigned38(frame, pos)
	pos += 38
	pos += 2 // single-receiver-oscillator + reserved
	y := bitio.GetSigned38(frame, pos)
	pos += 38
	pos += 2
	z := bitio.GetSigned38(frame, pos)

	s.sta.ID = staID
	s.sta.Itrf = itrf
	s.sta.Pos = [3]float64{x * 0.0001, y * 0.0001, z * 0.0001}
	s.sta.DelType = 0
	return StatusStation
}

func (s *Session) decodeStation1006(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	itrf := int(bitio.GetUnsigned(frame, pos, 6))
	pos += 6
	pos += 4

	x := bitio.GetSigned38(frame, pos)
	pos += 38
	pos += 2
	y := bitio.GetSigned38(frame, pos)
	pos += 38
	pos += 2
	z := bitio.GetSigned38(frame, pos)
	pos += 38

	height := float64(bitio.GetUnsigned(frame, pos, 16)) * 0.0001

	s.sta.ID = staID
	s.sta.Itrf = itrf
	s.sta.Pos = [3]float64{x * 0.0001, y * 0.0001, z * 0.0001}
	s.sta.Del[2] = height
	s.sta.HgtValid = true
	s.sta.DelType = 0
	return StatusStation
}

func (s *Session) decodeStation1007(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	des, pos2 := readDescriptor(frame, pos)
	_ = pos2

	s.sta.ID = staID
	s.sta.AntennaDes = des
	return StatusStation
}

func (s *Session) decodeStation1008(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	des, pos2 := readDescriptor(frame, pos)
	serial, _ := readDescriptor(frame, pos2)

	s.sta.ID = staID
	s.sta.AntennaDes = des
	s.sta.AntSerial = serial
	return StatusStation
}

func (s *Session) decodeStation1033(frame []byte) int {
	pos := 24 + 12
	staID := int(bitio.GetUnsigned(frame, pos, 12))
	pos += 12
	des, pos := readDescriptor(frame, pos)
	serial, pos := readDescriptor(frame, pos)
	recType, pos := readDescriptor(frame, pos)
	recVer, pos := readDescriptor(frame, pos)
	recSerial, _ := readDescriptor(frame, pos)

	s.sta.ID = staID
	s.sta.AntennaDes = des
	s.sta.AntSerial = serial
	s.sta.RecType = recType
	s.sta.RecVersion = recVer
	s.sta.RecSerial = recSerial
	return StatusStation
}
