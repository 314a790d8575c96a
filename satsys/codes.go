package satsys

import "strings"

// Code enumerates the RINEX-3 observation codes these constellations use,
// in the same order as the teacher's obscodes table so that the numeric
// value of Code matches the teacher's CODE_??? constants and any external
// replay data keyed on that numbering stays comparable.
type Code uint8

const (
	CodeNone Code = iota
	CodeL1C
	CodeL1P
	CodeL1W
	CodeL1Y
	CodeL1M
	CodeL1N
	CodeL1S
	CodeL1L
	CodeL1E
	CodeL1A
	CodeL1B
	CodeL1X
	CodeL1Z
	CodeL2C
	CodeL2D
	CodeL2S
	CodeL2L
	CodeL2X
	CodeL2P
	CodeL2W
	CodeL2Y
	CodeL2M
	CodeL2N
	CodeL5I
	CodeL5Q
	CodeL5X
	CodeL7I
	CodeL7Q
	CodeL7X
	CodeL6A
	CodeL6B
	CodeL6C
	CodeL6X
	CodeL6Z
	CodeL6S
	CodeL6L
	CodeL8L
	CodeL8Q
	CodeL8X
	CodeL2I
	CodeL2Q
	CodeL6I
	CodeL6Q
	CodeL3I
	CodeL3Q
	CodeL3X
	CodeL1I
	CodeL1Q
	CodeL5A
	CodeL5B
	CodeL5C
	CodeL9A
	CodeL9B
	CodeL9C
	CodeL9X
	CodeL1D
	CodeL5D
	CodeL5P
	CodeL5Z
	CodeL6E
	CodeL7D
	CodeL7P
	CodeL7Z
	CodeL8D
	CodeL8P
	CodeL4A
	CodeL4B
	CodeL4X
)

// codeStrings mirrors the teacher's obscodes table verbatim (same index
// order), the two-character RINEX-3 code string for each Code.
var codeStrings = [...]string{
	"", "1C", "1P", "1W", "1Y", "1M", "1N", "1S", "1L", "1E",
	"1A", "1B", "1X", "1Z", "2C", "2D", "2S", "2L", "2X", "2P",
	"2W", "2Y", "2M", "2N", "5I", "5Q", "5X", "7I", "7Q", "7X",
	"6A", "6B", "6C", "6X", "6Z", "6S", "6L", "8L", "8Q", "8X",
	"2I", "2Q", "6I", "6Q", "3I", "3Q", "3X", "1I", "1Q", "5A",
	"5B", "5C", "9A", "9B", "9C", "9X", "1D", "5D", "5P", "5Z",
	"6E", "7D", "7P", "7Z", "8D", "8P", "4A", "4B", "4X",
}

// Obs2Code converts a two-character RINEX-3 observation code string to a
// Code, or CodeNone if it is not recognized.
func Obs2Code(obs string) Code {
	for i, s := range codeStrings {
		if s == obs {
			return Code(i)
		}
	}
	return CodeNone
}

// String is the inverse of Obs2Code.
func (c Code) String() string {
	if int(c) >= len(codeStrings) {
		return ""
	}
	return codeStrings[c]
}

// band is the frequency-band id a code belongs to: 1=L1/E1, 2=L2/B1,
// 3=L5/E5a, 4=L6/LEX/B3, 5=E5b/B2, 6=E5a+b, 7=GLO L3.
type band int

const (
	bandNone band = 0
	band1    band = 1
	band2    band = 2
	band5    band = 3
	band6    band = 4
	band7    band = 5
	band8    band = 6
)

// Code2Idx returns the frequency-band index (1..6, 7 for GLONASS L3,
// 9 for NavIC S band, 0 if unmapped) for a
// code under the given system, per spec.md §4.D's band table.
func Code2Idx(sys System, c Code) int {
	s := c.String()
	if s == "" {
		return 0
	}
	switch sys {
	case GPS, QZS, SBS:
		switch s[0] {
		case '1':
			return 1
		case '2':
			return 2
		case '5':
			return 3
		}
	case GLO:
		switch s[0] {
		case '1':
			return 1
		case '2':
			return 2
		case '3':
			return 7
		}
	case GAL:
		switch s[0] {
		case '1':
			return 1
		case '7':
			return 5
		case '5':
			return 3
		case '6':
			return 4
		case '8':
			return 6
		}
	case CMP:
		switch s[0] {
		case '2', '1':
			return 1
		case '7':
			return 5
		case '5':
			return 3
		case '6':
			return 4
		}
	case IRN:
		switch s[0] {
		case '5':
			return 3
		case '9':
			return 9
		}
	}
	return 0
}

// carrierFreq is the nominal carrier frequency for each band, by system.
// GLONASS FDMA bands are frequency-channel dependent and handled
// separately in Code2Freq.
var carrierFreq = map[System]map[int]float64{
	GPS: {1: 1.57542e9, 2: 1.22760e9, 3: 1.17645e9},
	GAL: {1: 1.57542e9, 3: 1.17645e9, 4: 1.27875e9, 5: 1.20714e9, 6: 1.191795e9},
	QZS: {1: 1.57542e9, 2: 1.22760e9, 3: 1.17645e9, 4: 1.27875e9},
	SBS: {1: 1.57542e9, 3: 1.17645e9},
	CMP: {1: 1.561098e9, 2: 1.561098e9, 3: 1.17645e9, 4: 1.26852e9, 5: 1.20714e9},
	IRN: {3: 1.17645e9, 9: 2.492028e9},
}

// GLONASS FDMA base frequencies and channel spacing (Hz).
const (
	freq1Glo = 1.602000e9
	dfrq1Glo = 0.562500e6
	freq2Glo = 1.246000e9
	dfrq2Glo = 0.437500e6
)

// Code2Freq returns the carrier frequency in Hz for a (system, code)
// pair. fcn is the GLONASS frequency channel number (ignored otherwise).
func Code2Freq(sys System, c Code, fcn int) float64 {
	idx := Code2Idx(sys, c)
	if idx == 0 {
		return 0
	}
	if sys == GLO {
		switch idx {
		case 1:
			return freq1Glo + dfrq1Glo*float64(fcn)
		case 2:
			return freq2Glo + dfrq2Glo*float64(fcn)
		default:
			return 0
		}
	}
	if m, ok := carrierFreq[sys]; ok {
		return m[idx]
	}
	return 0
}

// codePriority mirrors the teacher's codepris table: for each system and
// band index (1-based here, 0 unused), a string of code letters in
// descending priority order.
var codePriority = map[System][7]string{
	GPS: {"", "CPYWMNSL", "PYWCMNDLSX", "IQX", "", "", ""},
	GLO: {"", "CPABX", "PCABX", "IQX", "", "", ""},
	GAL: {"", "CABXZ", "", "IQX", "ABCXZ", "IQX", "IQX"},
	QZS: {"", "CLSXZ", "LSX", "IQXDPZ", "LSXEZ", "", ""},
	SBS: {"", "C", "", "IQX", "", "", ""},
	CMP: {"", "IQXDPAN", "IQXDPZ", "DPX", "IQXA", "IQXDPZ", ""},
	IRN: {"", "ABCX", "", "ABCX", "", "", "ABCX"},
}

var optionTag = map[System]string{
	GPS: "-GL",
	GLO: "-RL",
	GAL: "-EL",
	QZS: "-JL",
	SBS: "-SL",
	CMP: "-CL",
	IRN: "-IL",
}

// CodePriority returns the priority (0-15, 15 highest via a hard option
// override, 0 = disabled/unknown) of code within sys, honoring -GLxx /
// -RLxx / ... option overrides in opt.
func CodePriority(sys System, c Code, opt string) int {
	tag, ok := optionTag[sys]
	if !ok {
		return 0
	}
	idx := Code2Idx(sys, c)
	if idx == 0 {
		return 0
	}
	obs := c.String()
	if obs == "" {
		return 0
	}

	for _, tok := range strings.Fields(opt) {
		if !strings.HasPrefix(tok, tag) || len(tok) < len(tag)+2 {
			continue
		}
		forced := tok[len(tag):]
		if len(forced) < 2 || forced[0] != obs[0] {
			continue
		}
		if forced[1] == obs[1] {
			return 15
		}
		return 0
	}

	pris := codePriority[sys]
	if idx >= len(pris) {
		return 0
	}
	pos := strings.IndexByte(pris[idx], obs[1])
	if pos < 0 {
		return 0
	}
	return 14 - pos
}
