package gnsstime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGpsTimeRoundTrip(t *testing.T) {
	tm := GpsT2Time(2200, 123456.5)
	week, tow := Time2GpsT(tm)
	assert.Equal(t, 2200, week)
	assert.InDelta(t, 123456.5, tow, 1e-6)
}

func TestBdtGpsConversion(t *testing.T) {
	gps := GpsT2Time(2200, 100000)
	bdt := GpsT2BDT(gps)
	back := BDT2GpsT(bdt)
	assert.InDelta(t, 0, Sub(gps, back), 1e-9)
	assert.InDelta(t, -14.0, Sub(bdt, gps), 1e-9)
}

func TestGalWeekToGpsWeek(t *testing.T) {
	assert.Equal(t, 3224, GalWeekToGpsWeek(2200))
}

func TestUtcLeapSecondRoundTrip(t *testing.T) {
	utc := FromCalendar(2020, 3, 15, 12, 0, 0)
	gps := Utc2GpsT(utc)
	back := GpsT2Utc(gps)
	assert.InDelta(t, 0, Sub(utc, back), 1e-9)
	// GPS time is 18s ahead of UTC after 2017-01-01.
	assert.InDelta(t, 18.0, Sub(gps, utc), 1e-9)
}

type fixedClock struct{ t Time }

func (f fixedClock) Now() Time { return f.t }

func TestAdjGpsWeekNearestRollover(t *testing.T) {
	// Current week 2200; message carries a modulo-1024 week of 152
	// (2200 mod 1024 = 152), which should resolve back to 2200.
	now := GpsT2Time(2200, 0)
	clk := fixedClock{t: GpsT2Utc(now)}
	got := AdjGpsWeek(clk, 2200%1024)
	assert.Equal(t, 2200, got)
}

func TestAdjGpsTowRollover(t *testing.T) {
	prev := GpsT2Time(2200, 604700) // near end of week
	got := AdjGpsTow(prev, 50)      // wraps to the next week
	week, tow := Time2GpsT(got)
	assert.Equal(t, 2201, week)
	assert.InDelta(t, 50.0, tow, 1e-6)
}

func TestAdjGlonassTodNoRollover(t *testing.T) {
	prev := GpsT2Time(2200, 100000)
	// prev's Moscow-local time-of-day is (100000+10800) mod 86400 = 24400;
	// passing that same tod back should reproduce prev exactly.
	got := AdjGlonassTod(prev, 24400)
	assert.InDelta(t, 0, Sub(prev, got), 1e-9)
}

func TestAdjGlonassTodForwardRollover(t *testing.T) {
	prev := GpsT2Time(2200, 100000) // Moscow tod 24400
	// a tod that only makes sense as the next day's (24400-50000=-25600,
	// i.e. 60400 once wrapped) should roll forward by one day.
	got := AdjGlonassTod(prev, -25600)
	assert.InDelta(t, 36000, Sub(got, prev), 1e-9)
}
