package rtcmopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmpty(t *testing.T) {
	opt, err := Parse("")
	require.NoError(t, err)
	assert.False(t, opt.EphAll)
	assert.False(t, opt.StationSet)
}

func TestParseFlags(t *testing.T) {
	opt, err := Parse("-EPHALL -RT_INP -STA=1234 -GL1C")
	require.NoError(t, err)
	assert.True(t, opt.EphAll)
	assert.True(t, opt.RealTimeMode)
	assert.True(t, opt.StationSet)
	assert.Equal(t, 1234, opt.StationID)
	assert.Equal(t, "1C", opt.CodePriorityOverrides["-GL"])
}

func TestParseInvalidStation(t *testing.T) {
	_, err := Parse("-STA=notanumber")
	assert.Error(t, err)
}

func TestParseStationOutOfRange(t *testing.T) {
	_, err := Parse("-STA=99999")
	assert.Error(t, err)
}
