package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPToNextDefaults(t *testing.T) {
	curve := DefaultXPCurve()
	assert.Equal(t, 200, curve.XPToNext(1))
	assert.Equal(t, 250, curve.XPToNext(2))
	// 312.5 rounds half to even.
	assert.Equal(t, 312, curve.XPToNext(3))
}

func TestXPToNextFlooredAtOne(t *testing.T) {
	curve := XPCurve{BaseXP: 1, GrowthRate: 0.1}
	for level := 1; level <= 20; level++ {
		assert.GreaterOrEqual(t, curve.XPToNext(level), 1, "level %d", level)
	}
}

func TestXPToNextRejectsLevelZero(t *testing.T) {
	assert.Panics(t, func() { DefaultXPCurve().XPToNext(0) })
}

func TestLevelFromXP(t *testing.T) {
	curve := DefaultXPCurve()
	level, bank, err := curve.LevelFromXP(1, 200+250+10)
	require.NoError(t, err)
	assert.Equal(t, 3, level)
	assert.Equal(t, 10, bank)

	level, bank, err = curve.LevelFromXP(1, 199)
	require.NoError(t, err)
	assert.Equal(t, 1, level)
	assert.Equal(t, 199, bank)
}

func TestLevelFromXPStopsAtGrantLimit(t *testing.T) {
	flat := XPCurve{BaseXP: 1, GrowthRate: 0.5}

	level, bank, err := flat.LevelFromXP(1, MaxLevelsPerGrant)
	require.NoError(t, err)
	assert.Equal(t, 1+MaxLevelsPerGrant, level)
	assert.Equal(t, 0, bank)

	_, _, err = flat.LevelFromXP(1, math.MaxInt)
	assert.ErrorIs(t, err, ErrTooManyLevels)
}

func TestXPToNextSaturatesAtMaxInt(t *testing.T) {
	curve := DefaultXPCurve()
	assert.Equal(t, math.MaxInt, curve.XPToNext(500))
	assert.Equal(t, math.MaxInt, curve.XPToNext(math.MaxInt))
}

func TestPointsOnLevel(t *testing.T) {
	rule := DefaultStatPointRule()
	cases := map[int]int{2: 5, 5: 7, 9: 5, 10: 8, 15: 7, 20: 8}
	for level, want := range cases {
		assert.Equal(t, want, rule.PointsOnLevel(level), "level %d", level)
	}
}

func TestPointsForRange(t *testing.T) {
	rule := DefaultStatPointRule()
	assert.Equal(t, 15, rule.PointsForRange(1, 4))
	assert.Equal(t, 12, rule.PointsForRange(4, 6))
	assert.Equal(t, 0, rule.PointsForRange(6, 6))
	assert.Equal(t, 0, rule.PointsForRange(6, 2))
}

func TestClassBonusIsLinearInLevels(t *testing.T) {
	stats := map[string]int{"F": 3}
	ClassPerLevelBonus{"F": 2, "V": 1}.ApplyForLevels(stats, 2, 5)
	assert.Equal(t, map[string]int{"F": 9, "V": 3}, stats)

	ClassPerLevelBonus{"F": 2}.ApplyForLevels(stats, 5, 5)
	assert.Equal(t, 9, stats["F"])
}
