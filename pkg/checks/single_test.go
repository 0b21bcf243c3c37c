package checks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeCheck(t *testing.T) {
	cache := singleStationCache(vals(0, 10, -5), 0, 0)

	flags := RangeCheck(cache, -50, 50)
	require.Len(t, flags, 1)
	assert.Equal(t, "s1", flags[0].Tag)
	assert.Equal(t, []Flag{Pass, Pass, Pass}, flags[0].Flags)
}

func TestRangeCheckBounds(t *testing.T) {
	cache := singleStationCache(vals(-51, -50, 50, 51), 0, 0)

	flags := RangeCheck(cache, -50, 50)
	assert.Equal(t, []Flag{Fail, Pass, Pass, Fail}, flags[0].Flags)
}

func TestRangeCheckGap(t *testing.T) {
	values := vals(0, 1)
	values[0] = nil
	cache := singleStationCache(values, 0, 0)

	flags := RangeCheck(cache, -50, 50)
	assert.Equal(t, []Flag{DataMissing, Pass}, flags[0].Flags)
}

func TestSpecialValuesCheck(t *testing.T) {
	cache := singleStationCache(vals(1, -999, 3), 0, 0)

	flags := SpecialValuesCheck(cache, []float64{-999, 9999})
	assert.Equal(t, []Flag{Pass, Fail, Pass}, flags[0].Flags)
}

func TestSingleChecksRespectContextWindow(t *testing.T) {
	// Context rows must not be flagged even by pointwise checks.
	cache := singleStationCache(vals(1000, 0, 1000), 1, 1)

	flags := RangeCheck(cache, -50, 50)
	assert.Equal(t, []Flag{Pass}, flags[0].Flags)
}

func TestFlagEncodingIsStable(t *testing.T) {
	// Wire contract; renumbering breaks external consumers.
	assert.Equal(t, Flag(0), Pass)
	assert.Equal(t, Flag(1), Fail)
	assert.Equal(t, Flag(2), Warn)
	assert.Equal(t, Flag(3), Inconclusive)
	assert.Equal(t, Flag(4), Invalid)
	assert.Equal(t, Flag(5), DataMissing)
	assert.Equal(t, Flag(6), Isolated)

	if _, err := FlagFromRaw(7); err == nil {
		t.Error("FlagFromRaw(7) should fail")
	}
	if _, err := FlagFromRaw(-1); err == nil {
		t.Error("FlagFromRaw(-1) should fail")
	}
}
