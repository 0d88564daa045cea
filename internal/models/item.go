// internal/models/item.go
package models

import "github.com/Noty-chan/aether-journal/internal/rules"

// ItemTemplate is host-authored catalog data shared by many instances.
type ItemTemplate struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	ItemType          ItemType       `json:"item_type"`
	Rarity            Rarity         `json:"rarity"`
	Description       string         `json:"description"`
	IconKey           *string        `json:"icon_key"`
	EquipSlots        SlotList       `json:"equip_slots"`
	TwoHanded         bool           `json:"two_handed"`
	StatMods          map[string]int `json:"stat_mods"`
	GrantedAbilityIDs []string       `json:"granted_ability_ids"`
	Tags              []string       `json:"tags"`
}

// IsTwoHandedWeapon reports the only combination that occupies both weapon slots.
func (t ItemTemplate) IsTwoHandedWeapon() bool {
	return t.ItemType == ItemTypeWeapon && t.TwoHanded
}

func (t *ItemTemplate) normalize() {
	if !t.ItemType.Valid() {
		t.ItemType = ItemTypeMisc
	}
	if !t.Rarity.Valid() {
		t.Rarity = RarityWhite
	}
	if t.EquipSlots == nil {
		t.EquipSlots = SlotList{}
	}
	if t.StatMods == nil {
		t.StatMods = map[string]int{}
	}
	if t.GrantedAbilityIDs == nil {
		t.GrantedAbilityIDs = []string{}
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
}

// ClassDefinition restricts equipment and grants per-level stat bonuses.
// Empty allow-lists mean unrestricted.
type ClassDefinition struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Description      string                   `json:"description"`
	AllowedItemTypes ItemTypeList             `json:"allowed_item_types"`
	AllowedSlots     SlotList                 `json:"allowed_slots"`
	PerLevelBonus    rules.ClassPerLevelBonus `json:"per_level_bonus"`
}

func (c *ClassDefinition) normalize() {
	if c.AllowedItemTypes == nil {
		c.AllowedItemTypes = ItemTypeList{}
	}
	if c.AllowedSlots == nil {
		c.AllowedSlots = SlotList{}
	}
	if c.PerLevelBonus == nil {
		c.PerLevelBonus = rules.ClassPerLevelBonus{}
	}
}
