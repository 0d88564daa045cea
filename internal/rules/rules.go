// Package rules holds the stateless progression formulas: the exponential
// XP curve, the stat point award schedule and linear class bonuses.
package rules

import (
	"errors"
	"fmt"
	"math"
)

// MaxLevelsPerGrant bounds the levels a single grant may cross.
const MaxLevelsPerGrant = 1000

// ErrTooManyLevels is returned when a grant would cross more than
// MaxLevelsPerGrant levels.
var ErrTooManyLevels = errors.New("rules: grant crosses too many levels")

// XPCurve computes the experience needed to leave a level:
// round(BaseXP * GrowthRate^(level-1)), floored at 1.
type XPCurve struct {
	BaseXP     int     `json:"base_xp" yaml:"base_xp"`
	GrowthRate float64 `json:"growth_rate" yaml:"growth_rate"`
}

// DefaultXPCurve is 200 xp at level 1, growing 25% per level.
func DefaultXPCurve() XPCurve {
	return XPCurve{BaseXP: 200, GrowthRate: 1.25}
}

// XPToNext panics for level < 1; callers never hold such a level.
func (c XPCurve) XPToNext(level int) int {
	if level < 1 {
		panic(fmt.Sprintf("rules: level must be >= 1, got %d", level))
	}
	raw := math.RoundToEven(float64(c.BaseXP) * math.Pow(c.GrowthRate, float64(level-1)))
	if raw >= math.MaxInt {
		return math.MaxInt
	}
	need := int(raw)
	if need < 1 {
		return 1
	}
	return need
}

// LevelFromXP spends xpBank on consecutive levels starting at level and
// returns the reached level and the leftover bank. It fails with
// ErrTooManyLevels instead of crossing more than MaxLevelsPerGrant levels.
func (c XPCurve) LevelFromXP(level, xpBank int) (int, int, error) {
	start := level
	for {
		need := c.XPToNext(level)
		if xpBank < need {
			return level, xpBank, nil
		}
		if level-start >= MaxLevelsPerGrant {
			return start, 0, ErrTooManyLevels
		}
		xpBank -= need
		level++
	}
}

// StatPointRule awards unspent stat points on reaching a level.
type StatPointRule struct {
	BasePerLevel int `json:"base_per_level" yaml:"base_per_level"`
	BonusEvery5  int `json:"bonus_every_5" yaml:"bonus_every_5"`
	BonusEvery10 int `json:"bonus_every_10" yaml:"bonus_every_10"`
}

// DefaultStatPointRule is +5 per level, +2 on multiples of 5, +1 more on
// multiples of 10.
func DefaultStatPointRule() StatPointRule {
	return StatPointRule{BasePerLevel: 5, BonusEvery5: 2, BonusEvery10: 1}
}

// PointsOnLevel is the award for reaching level.
func (r StatPointRule) PointsOnLevel(level int) int {
	pts := r.BasePerLevel
	if level%5 == 0 {
		pts += r.BonusEvery5
	}
	if level%10 == 0 {
		pts += r.BonusEvery10
	}
	return pts
}

// PointsForRange sums PointsOnLevel over (from, to].
func (r StatPointRule) PointsForRange(from, to int) int {
	total := 0
	for level := from + 1; level <= to; level++ {
		total += r.PointsOnLevel(level)
	}
	return total
}

// ClassPerLevelBonus is a stat-id -> delta table applied once per level gained.
type ClassPerLevelBonus map[string]int

// ApplyForLevels adds delta*(to-from) to each stat in stats.
func (b ClassPerLevelBonus) ApplyForLevels(stats map[string]int, from, to int) {
	if to <= from {
		return
	}
	gained := to - from
	for statID, delta := range b {
		stats[statID] += delta * gained
	}
}
