// Package rtcmopt parses the RTCM3 decoder's whitespace-separated options
// string (spec.md §6) into a validated struct, rather than re-parsing the
// raw string at every decode site the way the teacher's decoder does
// (it calls strings.Index/fmt.Sscanf on the raw option string inline in
// test_staid and GetCodePri, FengXuebin-gnssgo/src/rtcm3.go).
package rtcmopt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Options is the validated, decode-ready form of the options string.
type Options struct {
	// EphAll stores every ephemeris update, including ones whose
	// issue-of-data is unchanged from what is already buffered.
	EphAll bool

	// StationID, when StationSet is true, rejects any frame whose
	// station id does not match.
	StationID    int  `validate:"gte=0,lte=4095"`
	StationSet   bool
	RealTimeMode bool // -RT_INP: reset the buffered epoch to host time every frame

	// CodePriorityOverrides maps an option tag ("-GL", "-RL", ...) to the
	// forced two-character code that follows it.
	CodePriorityOverrides map[string]string `validate:"dive,len=2"`

	// Raw is the original string, kept for logging and for passing
	// through to collaborators (satsys.CodePriority) that still take the
	// wire-compatible string form directly.
	Raw string
}

var validate = validator.New()

// Parse parses a whitespace-separated options string into Options and
// validates it. An empty string is a valid, all-default Options.
func Parse(raw string) (Options, error) {
	opt := Options{
		CodePriorityOverrides: map[string]string{},
		Raw:                   raw,
	}
	for _, tok := range strings.Fields(raw) {
		switch {
		case tok == "-EPHALL":
			opt.EphAll = true
		case tok == "-RT_INP":
			opt.RealTimeMode = true
		case strings.HasPrefix(tok, "-STA="):
			n, err := strconv.Atoi(strings.TrimPrefix(tok, "-STA="))
			if err != nil {
				return opt, fmt.Errorf("rtcmopt: invalid -STA= value %q: %w", tok, err)
			}
			opt.StationID = n
			opt.StationSet = true
		default:
			for _, tag := range []string{"-GL", "-RL", "-EL", "-JL", "-CL", "-SL", "-IL"} {
				if strings.HasPrefix(tok, tag) && len(tok) == len(tag)+2 {
					opt.CodePriorityOverrides[tag] = tok[len(tag):]
				}
			}
		}
	}
	if err := validate.Struct(opt); err != nil {
		return opt, fmt.Errorf("rtcmopt: %w", err)
	}
	return opt, nil
}
