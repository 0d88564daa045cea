package services

import (
	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// CanEquip applies the class item-type gate, the class slot gate and the
// template slot gate. Empty allow-lists pass.
func CanEquip(class models.ClassDefinition, tpl models.ItemTemplate, slot models.EquipmentSlot) bool {
	if len(class.AllowedItemTypes) > 0 && !class.AllowedItemTypes.Contains(tpl.ItemType) {
		return false
	}
	if len(class.AllowedSlots) > 0 && !class.AllowedSlots.Contains(slot) {
		return false
	}
	if len(tpl.EquipSlots) > 0 && !tpl.EquipSlots.Contains(slot) {
		return false
	}
	return true
}

// EquipItem places an inventory instance into slot. A two-handed weapon
// fills both weapon slots; a one-handed item placed over a two-handed one
// clears both weapon slots first. Replaced occupants are not reported here,
// see UnequipEvents.
func EquipItem(env Env, c *models.Character, class models.ClassDefinition, templates map[string]models.ItemTemplate, instanceID string, slot models.EquipmentSlot) ([]models.EventLogEntry, error) {
	inst, ok := c.Inventory[instanceID]
	if !ok {
		return nil, apperrors.NewEquipError("Item instance not found in inventory")
	}
	tpl, ok := templates[inst.TemplateID]
	if !ok {
		return nil, apperrors.NewEquipError("Item template not found")
	}
	if !CanEquip(class, tpl, slot) {
		return nil, apperrors.NewEquipError("Class restrictions or slot incompatibility")
	}

	if tpl.IsTwoHandedWeapon() {
		if !slot.IsWeapon() {
			return nil, apperrors.NewEquipError("Two-handed weapon must be equipped in a weapon slot")
		}
		c.Equipment[models.SlotWeapon1] = inst.ID
		c.Equipment[models.SlotWeapon2] = inst.ID
	} else {
		if slot.IsWeapon() {
			cur, other := c.Equipment[slot], c.Equipment[slot.OtherWeapon()]
			if cur != "" && cur == other {
				c.Equipment[models.SlotWeapon1] = ""
				c.Equipment[models.SlotWeapon2] = ""
			}
		}
		c.Equipment[slot] = inst.ID
	}

	return []models.EventLogEntry{env.event(models.ActorSystem, models.EventEquipmentEquipped, models.Payload{
		"character_id":     c.ID,
		"item_instance_id": inst.ID,
		"template_id":      tpl.ID,
		"slot":             string(slot),
	})}, nil
}

// UnequipEvents diffs two slot maps and reports every slot whose previous
// occupant is gone, in slot order.
func UnequipEvents(env Env, actor string, characterID string, before, after models.EquipmentState) []models.EventLogEntry {
	var events []models.EventLogEntry
	for _, slot := range models.AllSlots {
		prev := before[slot]
		if prev == "" || prev == after[slot] {
			continue
		}
		events = append(events, env.event(actor, models.EventEquipmentUnequipped, models.Payload{
			"character_id":     characterID,
			"item_instance_id": prev,
			"slot":             string(slot),
		}))
	}
	return events
}

// equippedTemplates yields each distinct equipped instance's template once.
func equippedTemplates(c *models.Character, templates map[string]models.ItemTemplate) []models.ItemTemplate {
	seen := make(map[string]bool)
	var out []models.ItemTemplate
	for _, slot := range models.AllSlots {
		id := c.Equipment[slot]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		inst, ok := c.Inventory[id]
		if !ok {
			continue
		}
		if tpl, ok := templates[inst.TemplateID]; ok {
			out = append(out, tpl)
		}
	}
	return out
}

// DeriveEquipmentStatMods sums stat modifiers of equipped items.
func DeriveEquipmentStatMods(c *models.Character, templates map[string]models.ItemTemplate) map[string]int {
	mods := map[string]int{}
	for _, tpl := range equippedTemplates(c, templates) {
		for stat, v := range tpl.StatMods {
			mods[stat] += v
		}
	}
	return mods
}

// DeriveEquipmentGrantedAbilities copies library abilities granted by
// equipped items into the equipment category, tagged with their source item.
func DeriveEquipmentGrantedAbilities(c *models.Character, templates map[string]models.ItemTemplate, library map[string]models.Ability, categoryID string) map[string]models.Ability {
	granted := map[string]models.Ability{}
	for _, tpl := range equippedTemplates(c, templates) {
		for _, abilityID := range tpl.GrantedAbilityIDs {
			base, ok := library[abilityID]
			if !ok {
				continue
			}
			ab := base.Clone()
			ab.CategoryID = categoryID
			ab.Source = "item:" + tpl.ID
			granted[abilityID] = ab
		}
	}
	return granted
}
