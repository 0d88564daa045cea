// internal/models/character.go
package models

import (
	"encoding/json"
)

// ResourcePool is a (current, max) pair, stored as a two element JSON list.
type ResourcePool [2]int

func NewResourcePool(current, max int) ResourcePool { return ResourcePool{current, max} }

func (p ResourcePool) Current() int { return p[0] }
func (p ResourcePool) Max() int     { return p[1] }

// EquipmentState maps every slot to the instance id it holds; an empty
// string means the slot is free.
type EquipmentState map[EquipmentSlot]string

// NewEquipmentState returns a state with every slot present and empty.
func NewEquipmentState() EquipmentState {
	eq := make(EquipmentState, len(AllSlots))
	for _, slot := range AllSlots {
		eq[slot] = ""
	}
	return eq
}

// Get returns the instance id in slot, or "".
func (e EquipmentState) Get(slot EquipmentSlot) string { return e[slot] }

// Clear empties every slot holding instanceID.
func (e EquipmentState) Clear(instanceID string) {
	for slot, id := range e {
		if id == instanceID {
			e[slot] = ""
		}
	}
}

// Copy returns an independent copy that always contains all slots.
func (e EquipmentState) Copy() EquipmentState {
	out := NewEquipmentState()
	for slot, id := range e {
		out[slot] = id
	}
	return out
}

// MarshalJSON writes every slot, empty ones as null.
func (e EquipmentState) MarshalJSON() ([]byte, error) {
	raw := make(map[string]*string, len(AllSlots))
	for _, slot := range AllSlots {
		if id := e[slot]; id != "" {
			v := id
			raw[string(slot)] = &v
		} else {
			raw[string(slot)] = nil
		}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON ignores unknown slot names.
func (e *EquipmentState) UnmarshalJSON(data []byte) error {
	out := NewEquipmentState()
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err == nil {
		for key, value := range raw {
			slot := EquipmentSlot(key)
			if !slot.Valid() || value == nil {
				continue
			}
			out[slot] = *value
		}
	}
	*e = out
	return nil
}

// ItemInstance is a concrete item owned by the character.
type ItemInstance struct {
	ID         string         `json:"id"`
	TemplateID string         `json:"template_id"`
	Qty        int            `json:"qty"`
	CustomName *string        `json:"custom_name"`
	Bound      bool           `json:"bound"`
	Meta       map[string]any `json:"meta"`
}

// Inventory maps instance id to instance.
type Inventory map[string]ItemInstance

// AbilityCategory groups abilities on the character sheet.
type AbilityCategory struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Hidden      bool   `json:"hidden"`
}

// Ability is a skill, either in the campaign library or on the character.
type Ability struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Active      bool    `json:"active"`
	Hidden      bool    `json:"hidden"`
	CooldownS   *int    `json:"cooldown_s"`
	Cost        *string `json:"cost"`
	Source      string  `json:"source"`
}

// Character is the single player character of a campaign.
type Character struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	ClassID           string                  `json:"class_id"`
	Level             int                     `json:"level"`
	XP                int                     `json:"xp"`
	UnspentStatPoints int                     `json:"unspent_stat_points"`
	Stats             map[string]int          `json:"stats"`
	Resources         map[string]ResourcePool `json:"resources"`
	Currencies        map[string]int          `json:"currencies"`
	Reputations       map[string]int          `json:"reputations"`
	Equipment         EquipmentState          `json:"equipment"`
	Inventory         Inventory               `json:"inventory"`
	Abilities         map[string]Ability      `json:"abilities"`
	Frozen            bool                    `json:"frozen"`
}

// NewCharacter returns a level 1 character with empty collections.
func NewCharacter(id, name, classID string) Character {
	c := Character{ID: id, Name: name, ClassID: classID, Level: 1}
	c.normalize()
	return c
}

func (c *Character) normalize() {
	if c.Level < 1 {
		c.Level = 1
	}
	if c.XP < 0 {
		c.XP = 0
	}
	if c.UnspentStatPoints < 0 {
		c.UnspentStatPoints = 0
	}
	if c.Stats == nil {
		c.Stats = map[string]int{}
	}
	if c.Resources == nil {
		c.Resources = map[string]ResourcePool{}
	}
	if c.Currencies == nil {
		c.Currencies = map[string]int{}
	}
	if c.Reputations == nil {
		c.Reputations = map[string]int{}
	}
	c.Equipment = c.Equipment.Copy()
	if c.Inventory == nil {
		c.Inventory = Inventory{}
	}
	for id, inst := range c.Inventory {
		if inst.Meta == nil {
			inst.Meta = map[string]any{}
			c.Inventory[id] = inst
		}
	}
	if c.Abilities == nil {
		c.Abilities = map[string]Ability{}
	}
}
