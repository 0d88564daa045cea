package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/rules"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// Env supplies the clock and id source to domain operations.
type Env struct {
	Now   func() time.Time
	NewID utils.IDGenerator
}

// DefaultEnv uses wall-clock UTC time and random ids.
func DefaultEnv() Env {
	return Env{
		Now:   func() time.Time { return time.Now().UTC() },
		NewID: utils.NewID,
	}
}

func (e Env) event(actor string, kind models.EventKind, payload models.Payload) models.EventLogEntry {
	return models.NewEvent(e.Now(), actor, kind, payload)
}

const levelUpEffect = "level_up"

// GrantXPAndLevel banks amount and levels the character up as far as the
// bank allows. A non-positive amount is a no-op. Grants that would overflow
// the bank or cross more than rules.MaxLevelsPerGrant levels fail without
// touching c.
func GrantXPAndLevel(env Env, c *models.Character, amount int, curve rules.XPCurve, rule rules.StatPointRule, class models.ClassDefinition) ([]models.SystemMessage, []models.EventLogEntry, error) {
	if amount <= 0 {
		return nil, nil, nil
	}
	if amount > math.MaxInt-c.XP {
		return nil, nil, apperrors.NewDomainError("XP amount is too large")
	}
	oldLevel := c.Level
	newLevel, bank, err := curve.LevelFromXP(c.Level, c.XP+amount)
	if errors.Is(err, rules.ErrTooManyLevels) {
		return nil, nil, apperrors.NewDomainError(fmt.Sprintf("A single grant may cross at most %d levels", rules.MaxLevelsPerGrant))
	}
	if err != nil {
		return nil, nil, err
	}
	c.Level = newLevel
	c.XP = bank

	events := []models.EventLogEntry{env.event(models.ActorSystem, models.EventXPGranted, models.Payload{
		"character_id": c.ID,
		"amount":       amount,
		"old_level":    oldLevel,
		"new_level":    newLevel,
	})}
	messages, levelEvents := applyLevels(env, c, oldLevel, newLevel, rule, class)
	return messages, append(events, levelEvents...), nil
}

// GrantLevels raises the level directly, leaving the xp bank untouched.
// At most rules.MaxLevelsPerGrant levels may be granted at once.
func GrantLevels(env Env, c *models.Character, levels int, rule rules.StatPointRule, class models.ClassDefinition) ([]models.SystemMessage, []models.EventLogEntry, error) {
	if levels <= 0 {
		return nil, nil, nil
	}
	if levels > rules.MaxLevelsPerGrant || c.Level > math.MaxInt-levels {
		return nil, nil, apperrors.NewDomainError(fmt.Sprintf("A single grant may cross at most %d levels", rules.MaxLevelsPerGrant))
	}
	oldLevel := c.Level
	c.Level = oldLevel + levels
	messages, events := applyLevels(env, c, oldLevel, c.Level, rule, class)
	return messages, events, nil
}

// applyLevels awards points and class bonuses for (from, to] and emits one
// level.up event and one alert message per level crossed.
func applyLevels(env Env, c *models.Character, from, to int, rule rules.StatPointRule, class models.ClassDefinition) ([]models.SystemMessage, []models.EventLogEntry) {
	if to <= from {
		return nil, nil
	}
	c.UnspentStatPoints += rule.PointsForRange(from, to)
	class.PerLevelBonus.ApplyForLevels(c.Stats, from, to)

	messages := make([]models.SystemMessage, 0, to-from)
	events := make([]models.EventLogEntry, 0, to-from)
	for level := from + 1; level <= to; level++ {
		points := rule.PointsOnLevel(level)
		events = append(events, env.event(models.ActorSystem, models.EventLevelUp, models.Payload{
			"character_id":       c.ID,
			"new_level":          level,
			"stat_points_gained": points,
		}))
		effect := levelUpEffect
		messages = append(messages, models.SystemMessage{
			ID:          env.NewID("msg"),
			CreatedAt:   env.Now(),
			Severity:    models.SeverityAlert,
			Title:       "LEVEL UP",
			Body:        fmt.Sprintf("Reached level %d. Stat points gained: %d.", level, points),
			Collapsible: false,
			Choices:     []models.ChoiceOption{},
			Sound:       models.SeverityAlert,
			Effect:      &effect,
		})
	}
	return messages, events
}
