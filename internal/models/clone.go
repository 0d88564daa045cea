package models

import "time"

// Clone returns a deep copy; no map, slice or pointer is shared with s.
func (s *CampaignState) Clone() *CampaignState {
	out := &CampaignState{
		ID:                s.ID,
		Character:         s.Character.Clone(),
		Classes:           make(map[string]ClassDefinition, len(s.Classes)),
		ItemTemplates:     make(map[string]ItemTemplate, len(s.ItemTemplates)),
		QuestTemplates:    make(map[string]QuestTemplate, len(s.QuestTemplates)),
		MessageTemplates:  make(map[string]MessageTemplate, len(s.MessageTemplates)),
		AbilityCategories: make(map[string]AbilityCategory, len(s.AbilityCategories)),
		Abilities:         make(map[string]Ability, len(s.Abilities)),
		ActiveQuests:      make([]QuestInstance, 0, len(s.ActiveQuests)),
		SystemMessages:    make([]SystemMessage, 0, len(s.SystemMessages)),
		Chats:             make(map[string]ChatThread, len(s.Chats)),
		Contacts:          make(map[string]ChatContact, len(s.Contacts)),
		FriendRequests:    make(map[string]FriendRequest, len(s.FriendRequests)),
		Settings:          s.Settings,
	}
	out.Settings.SheetSections = append([]SheetSection{}, s.Settings.SheetSections...)
	for id, c := range s.Classes {
		out.Classes[id] = c.Clone()
	}
	for id, t := range s.ItemTemplates {
		out.ItemTemplates[id] = t.Clone()
	}
	for id, q := range s.QuestTemplates {
		out.QuestTemplates[id] = q.Clone()
	}
	for id, m := range s.MessageTemplates {
		out.MessageTemplates[id] = m
	}
	for id, c := range s.AbilityCategories {
		out.AbilityCategories[id] = c
	}
	for id, a := range s.Abilities {
		out.Abilities[id] = a.Clone()
	}
	for _, q := range s.ActiveQuests {
		out.ActiveQuests = append(out.ActiveQuests, q.Clone())
	}
	for _, m := range s.SystemMessages {
		out.SystemMessages = append(out.SystemMessages, m.Clone())
	}
	for id, c := range s.Chats {
		out.Chats[id] = c.Clone()
	}
	for id, c := range s.Contacts {
		c.LinkPayload = CloneMap(c.LinkPayload)
		out.Contacts[id] = c
	}
	for id, r := range s.FriendRequests {
		r.AcceptedAt = cloneTime(r.AcceptedAt)
		out.FriendRequests[id] = r
	}
	return out
}

func (c Character) Clone() Character {
	out := c
	out.Stats = cloneInts(c.Stats)
	out.Resources = make(map[string]ResourcePool, len(c.Resources))
	for k, v := range c.Resources {
		out.Resources[k] = v
	}
	out.Currencies = cloneInts(c.Currencies)
	out.Reputations = cloneInts(c.Reputations)
	out.Equipment = c.Equipment.Copy()
	out.Inventory = make(Inventory, len(c.Inventory))
	for id, inst := range c.Inventory {
		out.Inventory[id] = inst.Clone()
	}
	out.Abilities = make(map[string]Ability, len(c.Abilities))
	for id, a := range c.Abilities {
		out.Abilities[id] = a.Clone()
	}
	return out
}

func (i ItemInstance) Clone() ItemInstance {
	out := i
	out.CustomName = cloneString(i.CustomName)
	out.Meta = CloneMap(i.Meta)
	return out
}

func (a Ability) Clone() Ability {
	out := a
	if a.CooldownS != nil {
		v := *a.CooldownS
		out.CooldownS = &v
	}
	out.Cost = cloneString(a.Cost)
	return out
}

func (t ItemTemplate) Clone() ItemTemplate {
	out := t
	out.IconKey = cloneString(t.IconKey)
	out.EquipSlots = append(SlotList{}, t.EquipSlots...)
	out.StatMods = cloneInts(t.StatMods)
	if out.StatMods == nil {
		out.StatMods = map[string]int{}
	}
	out.GrantedAbilityIDs = append([]string{}, t.GrantedAbilityIDs...)
	out.Tags = append([]string{}, t.Tags...)
	return out
}

func (c ClassDefinition) Clone() ClassDefinition {
	out := c
	out.AllowedItemTypes = append(ItemTypeList{}, c.AllowedItemTypes...)
	out.AllowedSlots = append(SlotList{}, c.AllowedSlots...)
	out.PerLevelBonus = cloneInts(c.PerLevelBonus)
	if out.PerLevelBonus == nil {
		out.PerLevelBonus = map[string]int{}
	}
	return out
}

// CloneObjectives copies objectives so edits to one list never reach the other.
func CloneObjectives(in []Objective) []Objective {
	out := make([]Objective, len(in))
	for i, o := range in {
		if o.Progress != nil {
			p := *o.Progress
			o.Progress = &p
		}
		out[i] = o
	}
	return out
}

func (q QuestTemplate) Clone() QuestTemplate {
	out := q
	out.Objectives = CloneObjectives(q.Objectives)
	out.Rewards = CloneMap(q.Rewards)
	return out
}

func (q QuestInstance) Clone() QuestInstance {
	out := q
	out.Objectives = CloneObjectives(q.Objectives)
	out.CompletedAt = cloneTime(q.CompletedAt)
	return out
}

func (m SystemMessage) Clone() SystemMessage {
	out := m
	out.Choices = make([]ChoiceOption, len(m.Choices))
	for i, c := range m.Choices {
		c.Payload = CloneMap(c.Payload)
		out.Choices[i] = c
	}
	out.ChosenOptionID = cloneString(m.ChosenOptionID)
	out.Effect = cloneString(m.Effect)
	return out
}

func (c ChatThread) Clone() ChatThread {
	out := c
	out.Messages = make([]ChatMessage, len(c.Messages))
	for i, msg := range c.Messages {
		links := make([]ChatLink, len(msg.Links))
		for j, l := range msg.Links {
			l.Payload = CloneMap(l.Payload)
			links[j] = l
		}
		msg.Links = links
		out.Messages[i] = msg
	}
	return out
}

// CloneMap deep copies a JSON-like value map. A nil map stays nil.
func CloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func cloneInts[M ~map[string]int](in M) M {
	if in == nil {
		return nil
	}
	out := make(M, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
