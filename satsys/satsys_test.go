package satsys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatNoRoundTrip(t *testing.T) {
	sat := SatNo(GPS, 5)
	assert.NotZero(t, sat)
	sys, prn := SysPrn(sat)
	assert.Equal(t, GPS, sys)
	assert.Equal(t, 5, prn)
}

func TestSatNoOutOfRange(t *testing.T) {
	assert.Zero(t, SatNo(GPS, 0))
	assert.Zero(t, SatNo(GPS, 33))
	assert.Zero(t, SatNo(GPS, -1))
}

func TestSatNoDistinctSystemsDoNotCollide(t *testing.T) {
	seen := map[int]System{}
	for _, sys := range order {
		r := ranges[sys]
		for prn := r.min; prn <= r.max; prn++ {
			sat := SatNo(sys, prn)
			assert.NotZero(t, sat)
			if other, ok := seen[sat]; ok {
				t.Fatalf("satellite index %d collides between %v and %v", sat, other, sys)
			}
			seen[sat] = sys
		}
	}
}

func TestObs2CodeRoundTrip(t *testing.T) {
	c := Obs2Code("1C")
	assert.Equal(t, CodeL1C, c)
	assert.Equal(t, "1C", c.String())
	assert.Equal(t, CodeNone, Obs2Code("??"))
}

func TestCode2Idx(t *testing.T) {
	assert.Equal(t, 1, Code2Idx(GPS, CodeL1C))
	assert.Equal(t, 2, Code2Idx(GPS, CodeL2C))
	assert.Equal(t, 3, Code2Idx(GPS, CodeL5I))
	assert.Equal(t, 0, Code2Idx(GPS, CodeNone))
}

func TestCode2FreqGlonassFDMA(t *testing.T) {
	f0 := Code2Freq(GLO, CodeL1C, 0)
	f1 := Code2Freq(GLO, CodeL1C, 1)
	assert.InDelta(t, 1.602e9, f0, 1e6)
	assert.Greater(t, f1, f0)
}

func TestCodePriorityOverride(t *testing.T) {
	base := CodePriority(GPS, CodeL1C, "")
	assert.Greater(t, base, 0)
	forced := CodePriority(GPS, CodeL1W, "-GL1C")
	assert.Zero(t, forced)
	forcedMatch := CodePriority(GPS, CodeL1C, "-GL1C")
	assert.Equal(t, 15, forcedMatch)
}
