// internal/models/enums.go
package models

import "encoding/json"

// Rarity is an item template's rarity tier.
type Rarity string

const (
	RarityGray   Rarity = "gray"
	RarityWhite  Rarity = "white"
	RarityGreen  Rarity = "green"
	RarityBlue   Rarity = "blue"
	RarityPurple Rarity = "purple"
	RarityOrange Rarity = "orange"
	RarityRed    Rarity = "red"
)

var rarities = map[Rarity]bool{
	RarityGray: true, RarityWhite: true, RarityGreen: true, RarityBlue: true,
	RarityPurple: true, RarityOrange: true, RarityRed: true,
}

func (r Rarity) Valid() bool { return rarities[r] }

// UnmarshalJSON falls back to white for unknown tiers.
func (r *Rarity) UnmarshalJSON(data []byte) error {
	*r = Rarity(decodeEnum(data))
	if !r.Valid() {
		*r = RarityWhite
	}
	return nil
}

// MessageSeverity also selects the sound channel of a system message.
type MessageSeverity string

const (
	SeverityInfo    MessageSeverity = "info"
	SeverityWarning MessageSeverity = "warning"
	SeverityAlert   MessageSeverity = "alert"
)

func (s MessageSeverity) Valid() bool {
	return s == SeverityInfo || s == SeverityWarning || s == SeverityAlert
}

func (s *MessageSeverity) UnmarshalJSON(data []byte) error {
	*s = MessageSeverity(decodeEnum(data))
	if !s.Valid() {
		*s = SeverityInfo
	}
	return nil
}

// EquipmentSlot is one of the eight fixed slots of a character.
type EquipmentSlot string

const (
	SlotWeapon1 EquipmentSlot = "weapon_1"
	SlotWeapon2 EquipmentSlot = "weapon_2"
	SlotHead    EquipmentSlot = "head"
	SlotTorso   EquipmentSlot = "torso"
	SlotLegs    EquipmentSlot = "legs"
	SlotBoots   EquipmentSlot = "boots"
	SlotRing1   EquipmentSlot = "ring_1"
	SlotRing2   EquipmentSlot = "ring_2"
)

// AllSlots lists every slot in display order.
var AllSlots = []EquipmentSlot{
	SlotWeapon1, SlotWeapon2, SlotHead, SlotTorso, SlotLegs, SlotBoots, SlotRing1, SlotRing2,
}

func (s EquipmentSlot) Valid() bool {
	for _, slot := range AllSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// IsWeapon reports whether s is one of the two weapon slots.
func (s EquipmentSlot) IsWeapon() bool {
	return s == SlotWeapon1 || s == SlotWeapon2
}

// OtherWeapon returns the opposite weapon slot. Only meaningful for weapon slots.
func (s EquipmentSlot) OtherWeapon() EquipmentSlot {
	if s == SlotWeapon1 {
		return SlotWeapon2
	}
	return SlotWeapon1
}

// ParseEquipmentSlot validates a slot name coming from a client.
func ParseEquipmentSlot(name string) (EquipmentSlot, bool) {
	s := EquipmentSlot(name)
	return s, s.Valid()
}

// SlotList drops unknown slot names when decoded.
type SlotList []EquipmentSlot

func (l SlotList) Contains(slot EquipmentSlot) bool {
	for _, s := range l {
		if s == slot {
			return true
		}
	}
	return false
}

func (l SlotList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]EquipmentSlot(l))
}

func (l *SlotList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = SlotList{}
		return nil
	}
	out := make(SlotList, 0, len(raw))
	for _, item := range raw {
		if slot := EquipmentSlot(decodeEnum(item)); slot.Valid() {
			out = append(out, slot)
		}
	}
	*l = out
	return nil
}

// ItemType is the category of an item template.
type ItemType string

const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeQuest      ItemType = "quest"
	ItemTypeMisc       ItemType = "misc"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeWeapon, ItemTypeArmor, ItemTypeAccessory, ItemTypeConsumable, ItemTypeQuest, ItemTypeMisc:
		return true
	}
	return false
}

// UnmarshalJSON falls back to misc for unknown types.
func (t *ItemType) UnmarshalJSON(data []byte) error {
	*t = ItemType(decodeEnum(data))
	if !t.Valid() {
		*t = ItemTypeMisc
	}
	return nil
}

// ItemTypeList drops unknown item types when decoded.
type ItemTypeList []ItemType

func (l ItemTypeList) Contains(t ItemType) bool {
	for _, v := range l {
		if v == t {
			return true
		}
	}
	return false
}

func (l ItemTypeList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]ItemType(l))
}

func (l *ItemTypeList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = ItemTypeList{}
		return nil
	}
	out := make(ItemTypeList, 0, len(raw))
	for _, item := range raw {
		if t := ItemType(decodeEnum(item)); t.Valid() {
			out = append(out, t)
		}
	}
	*l = out
	return nil
}

// QuestStatus is the lifecycle state of a started quest.
type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
	QuestHidden    QuestStatus = "hidden"
)

func (s QuestStatus) Valid() bool {
	switch s {
	case QuestActive, QuestCompleted, QuestFailed, QuestHidden:
		return true
	}
	return false
}

// Terminal reports whether entering s stamps a completion time.
func (s QuestStatus) Terminal() bool {
	return s == QuestCompleted || s == QuestFailed
}

func (s *QuestStatus) UnmarshalJSON(data []byte) error {
	*s = QuestStatus(decodeEnum(data))
	if !s.Valid() {
		*s = QuestActive
	}
	return nil
}

// decodeEnum returns the string value of a JSON scalar, or "" when data is
// not a string.
func decodeEnum(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ""
	}
	return s
}
