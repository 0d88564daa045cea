package services

import (
	"sort"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// Link target kinds accepted in chat messages.
const (
	LinkNPC   = "npc"
	LinkQuest = "quest"
	LinkItem  = "item"
)

// LinkRef is an unresolved chat link as sent by a client.
type LinkRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Linkable is one entry of the link picker.
type Linkable struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Linkables lists what chat messages may link to, grouped by kind.
type Linkables struct {
	NPCs   []Linkable `json:"npcs"`
	Quests []Linkable `json:"quests"`
	Items  []Linkable `json:"items"`
}

// ListLinkables builds the link picker catalog from the state.
func ListLinkables(state *models.CampaignState) Linkables {
	out := Linkables{NPCs: []Linkable{}, Quests: []Linkable{}, Items: []Linkable{}}
	for id, c := range state.Contacts {
		out.NPCs = append(out.NPCs, Linkable{Type: LinkNPC, ID: id, Label: c.DisplayName})
	}
	for id, q := range state.QuestTemplates {
		out.Quests = append(out.Quests, Linkable{Type: LinkQuest, ID: id, Label: q.Name})
	}
	for id, t := range state.ItemTemplates {
		out.Items = append(out.Items, Linkable{Type: LinkItem, ID: id, Label: t.Name})
	}
	sortLinkables(out.NPCs)
	sortLinkables(out.Quests)
	sortLinkables(out.Items)
	return out
}

func sortLinkables(items []Linkable) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Label != items[j].Label {
			return items[i].Label < items[j].Label
		}
		return items[i].ID < items[j].ID
	})
}

// ResolveChatLinks turns client references into stored links, rejecting
// targets that do not exist.
func ResolveChatLinks(state *models.CampaignState, refs []LinkRef) ([]models.ChatLink, error) {
	links := make([]models.ChatLink, 0, len(refs))
	for _, ref := range refs {
		var title string
		switch ref.Type {
		case LinkNPC:
			c, ok := state.Contacts[ref.ID]
			if !ok {
				return nil, apperrors.NewDomainError("NPC not found")
			}
			title = c.DisplayName
		case LinkQuest:
			q, ok := state.QuestTemplates[ref.ID]
			if !ok {
				return nil, apperrors.NewDomainError("Quest not found")
			}
			title = q.Name
		case LinkItem:
			t, ok := state.ItemTemplates[ref.ID]
			if !ok {
				return nil, apperrors.NewDomainError("Item not found")
			}
			title = t.Name
		default:
			return nil, apperrors.NewDomainError("Unsupported link type")
		}
		links = append(links, models.ChatLink{
			Kind:    ref.Type,
			Title:   title,
			Payload: map[string]any{"id": ref.ID},
		})
	}
	return links, nil
}

// DerivedEquipment is the read-only view of what equipped items add.
type DerivedEquipment struct {
	StatMods         map[string]int            `json:"stat_mods"`
	GrantedAbilities map[string]models.Ability `json:"granted_abilities"`
}

// DeriveEquipment computes stat and ability contributions of equipment.
func DeriveEquipment(state *models.CampaignState) DerivedEquipment {
	c := &state.Character
	return DerivedEquipment{
		StatMods: DeriveEquipmentStatMods(c, state.ItemTemplates),
		GrantedAbilities: DeriveEquipmentGrantedAbilities(c, state.ItemTemplates, state.Abilities,
			state.Settings.EquipmentCategoryID),
	}
}
