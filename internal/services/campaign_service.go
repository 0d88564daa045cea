package services

import (
	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/rules"
)

// CampaignService applies one actor intent to a campaign state and returns
// the unsequenced events describing the change. Every method checks the
// role first and validates before it mutates, so a returned error means
// the state was left untouched.
//
// A CampaignService is bound to one state and is not safe for concurrent
// use; CampaignCoordinator hands each intent a fresh service over a clone.
type CampaignService struct {
	state *models.CampaignState
	env   Env
}

func NewCampaignService(state *models.CampaignState, env Env) *CampaignService {
	return &CampaignService{state: state, env: env}
}

// State returns the bound state.
func (s *CampaignService) State() *models.CampaignState { return s.state }

func (s *CampaignService) character() *models.Character { return &s.state.Character }

func (s *CampaignService) classDef() (models.ClassDefinition, error) {
	c, ok := s.state.ClassDef()
	if !ok {
		return models.ClassDefinition{}, apperrors.NewDomainError("Class definition not found")
	}
	return c, nil
}

func (s *CampaignService) emit(role Role, kind models.EventKind, payload models.Payload) []models.EventLogEntry {
	return []models.EventLogEntry{s.env.event(string(role), kind, payload)}
}

// appendMessages stores generated messages and announces each one.
func (s *CampaignService) appendMessages(role Role, messages []models.SystemMessage) []models.EventLogEntry {
	events := make([]models.EventLogEntry, 0, len(messages))
	for _, msg := range messages {
		s.state.SystemMessages = append(s.state.SystemMessages, msg)
		events = append(events, s.env.event(string(role), models.EventMessageSent, models.Payload{
			"character_id": s.state.Character.ID,
			"message_id":   msg.ID,
			"title":        msg.Title,
			"message":      msg.Clone(),
		}))
	}
	return events
}

// GrantXP banks xp for the character; level-ups add messages.
func (s *CampaignService) GrantXP(role Role, amount int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	class, err := s.classDef()
	if err != nil {
		return nil, err
	}
	settings := s.state.Settings
	messages, events, err := GrantXPAndLevel(s.env, s.character(), amount, settings.XPCurve, settings.StatRule, class)
	if err != nil {
		return nil, err
	}
	return append(events, s.appendMessages(role, messages)...), nil
}

// GrantLevels raises the level without touching xp.
func (s *CampaignService) GrantLevels(role Role, levels int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if levels <= 0 {
		return nil, apperrors.NewDomainError("Levels must be greater than zero")
	}
	class, err := s.classDef()
	if err != nil {
		return nil, err
	}
	messages, events, err := GrantLevels(s.env, s.character(), levels, s.state.Settings.StatRule, class)
	if err != nil {
		return nil, err
	}
	return append(events, s.appendMessages(role, messages)...), nil
}

// AllocateStatPoints spends unspent points on one stat.
func (s *CampaignService) AllocateStatPoints(role Role, statID string, amount int) ([]models.EventLogEntry, error) {
	c := s.character()
	if err := ensureActingPlayer(role, c); err != nil {
		return nil, err
	}
	if statID == "" {
		return nil, apperrors.NewDomainError("Stat id is required")
	}
	if amount <= 0 {
		return nil, apperrors.NewDomainError("Amount must be greater than zero")
	}
	if amount > c.UnspentStatPoints {
		return nil, apperrors.NewDomainError("Not enough unspent stat points")
	}
	c.Stats[statID] += amount
	c.UnspentStatPoints -= amount
	return s.emit(role, models.EventStatAllocated, models.Payload{
		"character_id":     c.ID,
		"stat_id":          statID,
		"amount":           amount,
		"new_value":        c.Stats[statID],
		"remaining_points": c.UnspentStatPoints,
	}), nil
}

// SettingsUpdate carries the parts of the settings to replace; nil parts
// are left alone.
type SettingsUpdate struct {
	XPCurve       *rules.XPCurve
	StatRule      *rules.StatPointRule
	SheetSections []models.SheetSection
}

// UpdateSettings replaces the provided parts. With nothing provided it
// returns no events.
func (s *CampaignService) UpdateSettings(role Role, update SettingsUpdate) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if c := update.XPCurve; c != nil && (c.BaseXP <= 0 || c.GrowthRate <= 0) {
		return nil, apperrors.NewDomainError("XP curve needs positive base_xp and growth_rate")
	}
	if r := update.StatRule; r != nil && (r.BasePerLevel < 0 || r.BonusEvery5 < 0 || r.BonusEvery10 < 0) {
		return nil, apperrors.NewDomainError("Stat point rule values must not be negative")
	}

	payload := models.Payload{}
	if update.XPCurve != nil {
		s.state.Settings.XPCurve = *update.XPCurve
		payload["xp_curve"] = *update.XPCurve
	}
	if update.StatRule != nil {
		s.state.Settings.StatRule = *update.StatRule
		payload["stat_rule"] = *update.StatRule
	}
	if update.SheetSections != nil {
		sections := models.NormalizeSheetSections(update.SheetSections)
		s.state.Settings.SheetSections = sections
		payload["sheet_sections"] = append([]models.SheetSection{}, sections...)
	}
	if len(payload) == 0 {
		return nil, nil
	}
	return s.emit(role, models.EventSettingsUpdated, payload), nil
}

// UpdateClassPerLevelBonus replaces a class's per-level stat table.
func (s *CampaignService) UpdateClassPerLevelBonus(role Role, classID string, bonus map[string]int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	class, ok := s.state.Classes[classID]
	if !ok {
		return nil, apperrors.NewDomainError("Class not found")
	}
	table := rules.ClassPerLevelBonus{}
	for stat, delta := range bonus {
		table[stat] = delta
	}
	class.PerLevelBonus = table
	s.state.Classes[classID] = class
	copied := rules.ClassPerLevelBonus{}
	for stat, delta := range table {
		copied[stat] = delta
	}
	return s.emit(role, models.EventClassBonusUpdated, models.Payload{
		"class_id":        classID,
		"per_level_bonus": copied,
	}), nil
}

// SetFrozen blocks or unblocks player actions.
func (s *CampaignService) SetFrozen(role Role, frozen bool) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	c := s.character()
	c.Frozen = frozen
	return s.emit(role, models.EventPlayerFreeze, models.Payload{
		"character_id": c.ID,
		"frozen":       frozen,
	}), nil
}

// UpdateCurrency sets a currency to an absolute value.
func (s *CampaignService) UpdateCurrency(role Role, currencyID string, value int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if currencyID == "" {
		return nil, apperrors.NewDomainError("Currency id is required")
	}
	c := s.character()
	old := c.Currencies[currencyID]
	c.Currencies[currencyID] = value
	return s.emit(role, models.EventCurrencyUpdated, models.Payload{
		"character_id": c.ID,
		"currency_id":  currencyID,
		"old_value":    old,
		"new_value":    value,
		"delta":        value - old,
	}), nil
}

// UpdateResource sets a resource pool; unknown resources start at (0, 0).
func (s *CampaignService) UpdateResource(role Role, resourceID string, current, max int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if resourceID == "" {
		return nil, apperrors.NewDomainError("Resource id is required")
	}
	c := s.character()
	old := c.Resources[resourceID]
	c.Resources[resourceID] = models.NewResourcePool(current, max)
	return s.emit(role, models.EventResourceUpdated, models.Payload{
		"character_id": c.ID,
		"resource_id":  resourceID,
		"old_current":  old.Current(),
		"old_max":      old.Max(),
		"current":      current,
		"max":          max,
		"delta":        current - old.Current(),
	}), nil
}

// UpdateReputation sets a reputation to an absolute value.
func (s *CampaignService) UpdateReputation(role Role, reputationID string, value int) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if reputationID == "" {
		return nil, apperrors.NewDomainError("Reputation id is required")
	}
	c := s.character()
	old := c.Reputations[reputationID]
	c.Reputations[reputationID] = value
	return s.emit(role, models.EventReputationUpdated, models.Payload{
		"character_id":  c.ID,
		"reputation_id": reputationID,
		"old_value":     old,
		"new_value":     value,
		"delta":         value - old,
	}), nil
}
