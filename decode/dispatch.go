package decode

import (
	"github.com/fxb-gnss/rtcm3decode/bitio"
	"github.com/fxb-gnss/rtcm3decode/gnsstime"
)

// MessageType is the exhaustive enum spec.md §9 asks for in place of the
// teacher's 90-case switch over a bare int.
type MessageType int

const (
	MT1001 MessageType = 1001 // GPS L1 obs
	MT1002 MessageType = 1002
	MT1003 MessageType = 1003 // GPS L1&L2 obs
	MT1004 MessageType = 1004
	MT1005 MessageType = 1005 // station ARP
	MT1006 MessageType = 1006 // station ARP + antenna height
	MT1007 MessageType = 1007 // antenna descriptor
	MT1008 MessageType = 1008 // antenna descriptor + serial
	MT1009 MessageType = 1009 // GLONASS L1 obs
	MT1010 MessageType = 1010
	MT1011 MessageType = 1011 // GLONASS L1&L2 obs
	MT1012 MessageType = 1012
	MT1019 MessageType = 1019 // GPS ephemeris
	MT1020 MessageType = 1020 // GLONASS ephemeris
	MT1033 MessageType = 1033 // receiver/antenna descriptor
	MT1041 MessageType = 1041 // NavIC/IRNSS ephemeris (supplemental, SPEC_FULL.md §12)
	MT1042 MessageType = 1042 // BeiDou ephemeris
	MT1044 MessageType = 1044 // QZSS ephemeris
	MT1045 MessageType = 1045 // Galileo F/NAV ephemeris
	MT1046 MessageType = 1046 // Galileo I/NAV ephemeris
	MT1057 MessageType = 1057 // GPS SSR orbit
	MT1058 MessageType = 1058 // GPS SSR clock
	MT1059 MessageType = 1059 // GPS SSR code bias
	MT1060 MessageType = 1060 // GPS SSR combined
	MT1061 MessageType = 1061 // GPS SSR URA
	MT1062 MessageType = 1062 // GPS SSR high-rate clock
	MT1063 MessageType = 1063 // GLONASS SSR orbit
	MT1064 MessageType = 1064
	MT1065 MessageType = 1065
	MT1066 MessageType = 1066
	MT1067 MessageType = 1067
	MT1068 MessageType = 1068
	MT1071 MessageType = 1071 // GPS MSM1 (unsupported, counted only)
	MT1074 MessageType = 1074 // GPS MSM4
	MT1075 MessageType = 1075 // GPS MSM5
	MT1076 MessageType = 1076 // GPS MSM6
	MT1077 MessageType = 1077 // GPS MSM7
	MT1084 MessageType = 1084 // GLONASS MSM4
	MT1085 MessageType = 1085
	MT1086 MessageType = 1086
	MT1087 MessageType = 1087
	MT1094 MessageType = 1094 // Galileo MSM4
	MT1095 MessageType = 1095
	MT1096 MessageType = 1096
	MT1097 MessageType = 1097
	MT1104 MessageType = 1104 // SBAS MSM4
	MT1105 MessageType = 1105
	MT1106 MessageType = 1106
	MT1107 MessageType = 1107
	MT1114 MessageType = 1114 // QZSS MSM4
	MT1115 MessageType = 1115
	MT1116 MessageType = 1116
	MT1117 MessageType = 1117
	MT1124 MessageType = 1124 // BeiDou MSM4
	MT1125 MessageType = 1125
	MT1126 MessageType = 1126
	MT1127 MessageType = 1127
	MT1230 MessageType = 1230 // GLONASS code-phase biases (supplemental, SPEC_FULL.md §12)
	MT63   MessageType = 63   // BeiDou ephemeris draft alias for 1042
	MT4076 MessageType = 4076 // IGS SSR envelope: Galileo/QZSS/BeiDou/SBAS SSR + all-constellation phase bias (supplemental, SPEC_FULL.md §12)
)

// dispatch reads the 12-bit message type and routes the validated frame
// to its decoder, per spec.md §4.F. Unknown types are counted and return
// StatusNone; message 63 aliases 1042.
func (s *Session) dispatch(frame []byte) int {
	if len(frame) < 5 {
		// Not enough bytes to hold the 12-bit message-type field
		// (bits 24-35): too short to dispatch, but still a
		// well-formed (CRC-valid) frame per spec.md §8 Scenario A.
		s.Stats.CatchAll++
		return StatusNone
	}
	ctype := int(bitio.GetUnsigned(frame, 24, 12))
	s.Stats.record(ctype)

	if s.opt.RealTimeMode {
		s.epoch.Time = gnsstime.Utc2GpsT(s.clock.Now())
	}

	switch MessageType(ctype) {
	case MT1001, MT1002, MT1003, MT1004:
		return s.decodeLegacyGPS(frame, MessageType(ctype))
	case MT1009, MT1010, MT1011, MT1012:
		return s.decodeLegacyGlonass(frame, MessageType(ctype))
	case MT1005:
		return s.decodeStation1005(frame)
	case MT1006:
		return s.decodeStation1006(frame)
	case MT1007:
		return s.decodeStation1007(frame)
	case MT1008:
		return s.decodeStation1008(frame)
	case MT1033:
		return s.decodeStation1033(frame)
	case MT1019:
		return s.decodeEphGPS(frame)
	case MT1020:
		return s.decodeEphGlonass(frame)
	case MT1041:
		return s.decodeEphIRNSS(frame)
	case MT1042, MT63:
		return s.decodeEphBeiDou(frame)
	case MT1044:
		return s.decodeEphQZSS(frame)
	case MT1045:
		return s.decodeEphGalileoFNav(frame)
	case MT1046:
		return s.decodeEphGalileoINav(frame)
	case MT1230:
		return s.decodeGlonassBias(frame)
	case MT4076:
		return s.decodeIGSSSR(frame)
	}

	if sk, sys, ok := ssrKindOf(ctype); ok {
		return s.decodeSSR(frame, sk, sys)
	}
	if n, sys, ok := msmVariantOf(ctype); ok {
		return s.decodeMSM(frame, n, sys)
	}

	s.log.WithField("type", ctype).Debug("rtcm3: unsupported message type")
	return StatusNone
}
