// internal/models/campaign.go
package models

import (
	"sort"

	"github.com/Noty-chan/aether-journal/internal/rules"
)

const (
	DefaultClassID             = "adventurer"
	DefaultEquipmentCategoryID = "equipment"
)

// SheetSection controls the order and visibility of character sheet blocks.
type SheetSection struct {
	Key     string `json:"key" yaml:"key"`
	Title   string `json:"title" yaml:"title"`
	Visible bool   `json:"visible" yaml:"visible"`
	Order   int    `json:"order" yaml:"order"`
}

// DefaultSheetSections is the layout a fresh or migrated campaign starts with.
func DefaultSheetSections() []SheetSection {
	return []SheetSection{
		{Key: "stats", Title: "Stats", Visible: true, Order: 1},
		{Key: "resources", Title: "Resources", Visible: true, Order: 2},
		{Key: "currencies", Title: "Currencies", Visible: true, Order: 3},
		{Key: "reputations", Title: "Reputations", Visible: true, Order: 4},
	}
}

// NormalizeSheetSections drops sections without a key, keeps the first of
// duplicated keys and sorts by order. Ties keep their input order.
func NormalizeSheetSections(in []SheetSection) []SheetSection {
	seen := make(map[string]bool, len(in))
	out := make([]SheetSection, 0, len(in))
	for _, section := range in {
		if section.Key == "" || seen[section.Key] {
			continue
		}
		seen[section.Key] = true
		out = append(out, section)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// CampaignSettings holds the tunable progression rules.
type CampaignSettings struct {
	XPCurve             rules.XPCurve       `json:"xp_curve"`
	StatRule            rules.StatPointRule `json:"stat_rule"`
	EquipmentCategoryID string              `json:"equipment_category_id"`
	SheetSections       []SheetSection      `json:"sheet_sections"`
}

func DefaultCampaignSettings() CampaignSettings {
	return CampaignSettings{
		XPCurve:             rules.DefaultXPCurve(),
		StatRule:            rules.DefaultStatPointRule(),
		EquipmentCategoryID: DefaultEquipmentCategoryID,
		SheetSections:       DefaultSheetSections(),
	}
}

// CampaignState is the aggregate root. It is only mutated through the
// services package, on a private clone, before being published.
type CampaignState struct {
	ID                string                     `json:"id"`
	Character         Character                  `json:"character"`
	Classes           map[string]ClassDefinition `json:"classes"`
	ItemTemplates     map[string]ItemTemplate    `json:"item_templates"`
	QuestTemplates    map[string]QuestTemplate   `json:"quest_templates"`
	MessageTemplates  map[string]MessageTemplate `json:"message_templates"`
	AbilityCategories map[string]AbilityCategory `json:"ability_categories"`
	Abilities         map[string]Ability         `json:"abilities"`
	ActiveQuests      []QuestInstance            `json:"active_quests"`
	SystemMessages    []SystemMessage            `json:"system_messages"`
	Chats             map[string]ChatThread      `json:"chats"`
	Contacts          map[string]ChatContact     `json:"contacts"`
	FriendRequests    map[string]FriendRequest   `json:"friend_requests"`
	Settings          CampaignSettings           `json:"settings"`
}

// NewDefaultCampaignState builds the campaign used for a missing or
// recovered store: one adventurer class, one level 1 character and the
// equipment ability category.
func NewDefaultCampaignState(newID func(prefix string) string) *CampaignState {
	state := &CampaignState{
		ID:        newID("campaign"),
		Character: NewCharacter(newID("char"), "Hero", DefaultClassID),
		Classes: map[string]ClassDefinition{
			DefaultClassID: {ID: DefaultClassID, Name: "Adventurer"},
		},
		AbilityCategories: map[string]AbilityCategory{
			DefaultEquipmentCategoryID: {ID: DefaultEquipmentCategoryID, Name: "Equipment"},
		},
		Settings: DefaultCampaignSettings(),
	}
	state.Normalize()
	return state
}

// Normalize fills nil collections and repairs values the decoder cannot
// enforce, so that encode(decode(x)) is stable.
func (s *CampaignState) Normalize() {
	s.Character.normalize()
	if s.Classes == nil {
		s.Classes = map[string]ClassDefinition{}
	}
	for id, c := range s.Classes {
		c.normalize()
		s.Classes[id] = c
	}
	if s.ItemTemplates == nil {
		s.ItemTemplates = map[string]ItemTemplate{}
	}
	for id, t := range s.ItemTemplates {
		t.normalize()
		s.ItemTemplates[id] = t
	}
	if s.QuestTemplates == nil {
		s.QuestTemplates = map[string]QuestTemplate{}
	}
	for id, q := range s.QuestTemplates {
		q.normalize()
		s.QuestTemplates[id] = q
	}
	if s.MessageTemplates == nil {
		s.MessageTemplates = map[string]MessageTemplate{}
	}
	for id, m := range s.MessageTemplates {
		if !m.Severity.Valid() {
			m.Severity = SeverityInfo
			s.MessageTemplates[id] = m
		}
	}
	if s.AbilityCategories == nil {
		s.AbilityCategories = map[string]AbilityCategory{}
	}
	if s.Abilities == nil {
		s.Abilities = map[string]Ability{}
	}
	if s.ActiveQuests == nil {
		s.ActiveQuests = []QuestInstance{}
	}
	for i := range s.ActiveQuests {
		s.ActiveQuests[i].normalize()
	}
	if s.SystemMessages == nil {
		s.SystemMessages = []SystemMessage{}
	}
	for i := range s.SystemMessages {
		s.SystemMessages[i].normalize()
	}
	if s.Chats == nil {
		s.Chats = map[string]ChatThread{}
	}
	for id, c := range s.Chats {
		c.normalize()
		s.Chats[id] = c
	}
	if s.Contacts == nil {
		s.Contacts = map[string]ChatContact{}
	}
	for id, c := range s.Contacts {
		if c.LinkPayload == nil {
			c.LinkPayload = map[string]any{}
			s.Contacts[id] = c
		}
	}
	if s.FriendRequests == nil {
		s.FriendRequests = map[string]FriendRequest{}
	}
	if s.Settings.EquipmentCategoryID == "" {
		s.Settings.EquipmentCategoryID = DefaultEquipmentCategoryID
	}
	if s.Settings.XPCurve.BaseXP <= 0 || s.Settings.XPCurve.GrowthRate <= 0 {
		s.Settings.XPCurve = rules.DefaultXPCurve()
	}
	s.Settings.SheetSections = NormalizeSheetSections(s.Settings.SheetSections)
	if len(s.Settings.SheetSections) == 0 {
		s.Settings.SheetSections = DefaultSheetSections()
	}
}

// IsEmpty reports whether the host has authored nothing yet.
func (s *CampaignState) IsEmpty() bool {
	return len(s.ItemTemplates) == 0 &&
		len(s.QuestTemplates) == 0 &&
		len(s.MessageTemplates) == 0 &&
		len(s.ActiveQuests) == 0 &&
		len(s.SystemMessages) == 0 &&
		len(s.Chats) == 0 &&
		len(s.Contacts) == 0
}

// ClassDef returns the character's class definition.
func (s *CampaignState) ClassDef() (ClassDefinition, bool) {
	c, ok := s.Classes[s.Character.ClassID]
	return c, ok
}

// FindMessage returns the index of the system message with id, or -1.
func (s *CampaignState) FindMessage(id string) int {
	for i := range s.SystemMessages {
		if s.SystemMessages[i].ID == id {
			return i
		}
	}
	return -1
}

// FindQuest returns the index of the quest instance with id, or -1.
func (s *CampaignState) FindQuest(id string) int {
	for i := range s.ActiveQuests {
		if s.ActiveQuests[i].ID == id {
			return i
		}
	}
	return -1
}
