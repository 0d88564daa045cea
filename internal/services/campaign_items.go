package services

import (
	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// UpsertItemTemplate stores tpl, generating an id when it has none.
func (s *CampaignService) UpsertItemTemplate(role Role, tpl models.ItemTemplate) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if tpl.Name == "" {
		return nil, apperrors.NewDomainError("Item template name is required")
	}
	if tpl.ID == "" {
		tpl.ID = s.env.NewID("item_tpl")
	}
	if tpl.TwoHanded && tpl.ItemType != models.ItemTypeWeapon {
		tpl.TwoHanded = false
	}
	tpl = tpl.Clone()
	if !tpl.ItemType.Valid() {
		tpl.ItemType = models.ItemTypeMisc
	}
	if !tpl.Rarity.Valid() {
		tpl.Rarity = models.RarityWhite
	}
	s.state.ItemTemplates[tpl.ID] = tpl
	return s.emit(role, models.EventItemTemplateUpserted, models.Payload{
		"template": tpl.Clone(),
	}), nil
}

// UpsertMessageTemplate stores a reusable message draft.
func (s *CampaignService) UpsertMessageTemplate(role Role, tpl models.MessageTemplate) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if tpl.ID == "" {
		tpl.ID = s.env.NewID("msg_tpl")
	}
	if !tpl.Severity.Valid() {
		tpl.Severity = models.SeverityInfo
	}
	s.state.MessageTemplates[tpl.ID] = tpl
	return s.emit(role, models.EventMessageTemplateUpserted, models.Payload{
		"template": tpl,
	}), nil
}

// AddItemInstance gives the character a new instance of a catalog item.
func (s *CampaignService) AddItemInstance(role Role, templateID string, qty int, customName *string) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if _, ok := s.state.ItemTemplates[templateID]; !ok {
		return nil, apperrors.NewDomainError("Item template not found")
	}
	if qty <= 0 {
		return nil, apperrors.NewDomainError("Quantity must be greater than zero")
	}
	c := s.character()
	inst := models.ItemInstance{
		ID:         s.env.NewID("item"),
		TemplateID: templateID,
		Qty:        qty,
		Meta:       map[string]any{},
	}
	if customName != nil && *customName != "" {
		name := *customName
		inst.CustomName = &name
	}
	c.Inventory[inst.ID] = inst
	return s.emit(role, models.EventInventoryAdded, models.Payload{
		"character_id":     c.ID,
		"item_instance_id": inst.ID,
		"template_id":      templateID,
		"qty":              qty,
	}), nil
}

// RemoveItemInstance unequips the instance from every slot, then drops it.
func (s *CampaignService) RemoveItemInstance(role Role, instanceID string) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	c := s.character()
	if _, ok := c.Inventory[instanceID]; !ok {
		return nil, apperrors.NewDomainError("Item instance not found in inventory")
	}
	before := c.Equipment.Copy()
	c.Equipment.Clear(instanceID)
	events := UnequipEvents(s.env, string(role), c.ID, before, c.Equipment)
	delete(c.Inventory, instanceID)
	return append(events, s.env.event(string(role), models.EventInventoryRemoved, models.Payload{
		"character_id":     c.ID,
		"item_instance_id": instanceID,
	})), nil
}

// EquipItem equips directly. Displaced items are reported as unequipped
// before the equip event.
func (s *CampaignService) EquipItem(role Role, instanceID string, slot models.EquipmentSlot) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, apperrors.NewEquipError("Unknown equipment slot")
	}
	class, err := s.classDef()
	if err != nil {
		return nil, err
	}
	c := s.character()
	before := c.Equipment.Copy()
	equipped, err := EquipItem(s.env, c, class, s.state.ItemTemplates, instanceID, slot)
	if err != nil {
		return nil, err
	}
	return append(UnequipEvents(s.env, string(role), c.ID, before, c.Equipment), equipped...), nil
}

// RequestEquipItem records the player's wish for the host to review. It
// never touches equipment.
func (s *CampaignService) RequestEquipItem(role Role, instanceID string, slot models.EquipmentSlot) ([]models.EventLogEntry, error) {
	c := s.character()
	if err := ensureActingPlayer(role, c); err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, apperrors.NewEquipError("Unknown equipment slot")
	}
	if _, ok := c.Inventory[instanceID]; !ok {
		return nil, apperrors.NewEquipError("Item instance not found in inventory")
	}
	return s.emit(role, models.EventEquipmentRequested, models.Payload{
		"character_id":     c.ID,
		"item_instance_id": instanceID,
		"slot":             string(slot),
	}), nil
}

// AbilityScope selects which ability map an ability operation targets.
type AbilityScope string

const (
	ScopeLibrary   AbilityScope = "library"
	ScopeCharacter AbilityScope = "character"
)

func (s *CampaignService) abilityTarget(scope AbilityScope) (map[string]models.Ability, error) {
	switch scope {
	case ScopeLibrary:
		return s.state.Abilities, nil
	case ScopeCharacter:
		return s.state.Character.Abilities, nil
	}
	return nil, apperrors.NewDomainError("Unknown ability scope")
}

// UpsertAbility adds or replaces an ability in the library or on the character.
func (s *CampaignService) UpsertAbility(role Role, scope AbilityScope, ability models.Ability) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	target, err := s.abilityTarget(scope)
	if err != nil {
		return nil, err
	}
	if ability.ID == "" {
		ability.ID = s.env.NewID("ability")
	}
	kind := models.EventAbilityAdded
	if _, exists := target[ability.ID]; exists {
		kind = models.EventAbilityUpdated
	}
	target[ability.ID] = ability.Clone()
	return s.emit(role, kind, models.Payload{
		"character_id": s.state.Character.ID,
		"scope":        string(scope),
		"ability_id":   ability.ID,
		"ability":      ability.Clone(),
	}), nil
}

// RemoveAbility deletes an ability; removing a missing id still reports.
func (s *CampaignService) RemoveAbility(role Role, scope AbilityScope, abilityID string) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	target, err := s.abilityTarget(scope)
	if err != nil {
		return nil, err
	}
	delete(target, abilityID)
	return s.emit(role, models.EventAbilityRemoved, models.Payload{
		"character_id": s.state.Character.ID,
		"scope":        string(scope),
		"ability_id":   abilityID,
	}), nil
}
