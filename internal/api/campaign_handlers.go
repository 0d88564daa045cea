// internal/api/campaign_handlers.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/services"
)

// ========================================
// Items and equipment
// ========================================

// UpsertItemTemplate adds or replaces an item template.
func (h *Handler) UpsertItemTemplate(c *gin.Context) {
	var tpl models.ItemTemplate
	if !h.bind(c, &tpl) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpsertItemTemplate(role, tpl)
	})
}

type addItemRequest struct {
	TemplateID string  `json:"template_id" binding:"required"`
	Qty        *int    `json:"qty"`
	CustomName *string `json:"custom_name"`
}

// AddItemInstance puts a new instance of a template into the inventory.
func (h *Handler) AddItemInstance(c *gin.Context) {
	var req addItemRequest
	if !h.bind(c, &req) {
		return
	}
	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.AddItemInstance(role, req.TemplateID, qty, req.CustomName)
	})
}

// RemoveItemInstance unequips and removes an inventory instance.
func (h *Handler) RemoveItemInstance(c *gin.Context) {
	role := RoleFromContext(c)
	instanceID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.RemoveItemInstance(role, instanceID)
	})
}

type equipRequest struct {
	ItemInstanceID string `json:"item_instance_id" binding:"required"`
	Slot           string `json:"slot" binding:"required"`
}

// EquipItem equips an instance on behalf of the host.
func (h *Handler) EquipItem(c *gin.Context) {
	var req equipRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.EquipItem(role, req.ItemInstanceID, models.EquipmentSlot(req.Slot))
	})
}

// RequestEquip records the player's equip request.
func (h *Handler) RequestEquip(c *gin.Context) {
	var req equipRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.RequestEquipItem(role, req.ItemInstanceID, models.EquipmentSlot(req.Slot))
	})
}

type abilityRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	CategoryID  string  `json:"category_id"`
	Active      *bool   `json:"active"`
	Hidden      bool    `json:"hidden"`
	CooldownS   *int    `json:"cooldown_s"`
	Cost        *string `json:"cost"`
	Source      string  `json:"source"`
	Scope       string  `json:"scope"`
}

// UpsertAbility adds or replaces an ability in the library or on the character.
func (h *Handler) UpsertAbility(c *gin.Context) {
	var req abilityRequest
	if !h.bind(c, &req) {
		return
	}
	ability := models.Ability{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Active:      req.Active == nil || *req.Active,
		Hidden:      req.Hidden,
		CooldownS:   req.CooldownS,
		Cost:        req.Cost,
		Source:      req.Source,
	}
	if ability.Source == "" {
		ability.Source = "manual"
	}
	scope := abilityScope(req.Scope)
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpsertAbility(role, scope, ability)
	})
}

// RemoveAbility deletes an ability; the scope query defaults to character.
func (h *Handler) RemoveAbility(c *gin.Context) {
	scope := abilityScope(c.Query("scope"))
	role := RoleFromContext(c)
	abilityID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.RemoveAbility(role, scope, abilityID)
	})
}

func abilityScope(raw string) services.AbilityScope {
	if raw == "" {
		return services.ScopeCharacter
	}
	return services.AbilityScope(raw)
}

// ========================================
// Quests and system messages
// ========================================

type assignQuestRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

// AssignQuest starts a quest from a template.
func (h *Handler) AssignQuest(c *gin.Context) {
	var req assignQuestRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.AssignQuest(role, req.TemplateID)
	})
}

type questStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateQuestStatus moves a started quest to a new status.
func (h *Handler) UpdateQuestStatus(c *gin.Context) {
	var req questStatusRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	questID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateQuestStatus(role, questID, models.QuestStatus(req.Status))
	})
}

type messageRequest struct {
	Title       string                `json:"title"`
	Body        string                `json:"body"`
	Severity    string                `json:"severity"`
	Collapsible *bool                 `json:"collapsible"`
	Choices     []models.ChoiceOption `json:"choices"`
	Effect      *string               `json:"effect"`
}

// SendSystemMessage shows a host notice to the player.
func (h *Handler) SendSystemMessage(c *gin.Context) {
	var req messageRequest
	if !h.bind(c, &req) {
		return
	}
	severity := models.MessageSeverity(req.Severity)
	if req.Severity == "" {
		severity = models.SeverityInfo
	}
	if !severity.Valid() {
		h.rh.BadRequest(c, "Unknown message severity")
		return
	}
	draft := services.MessageDraft{
		Title:       req.Title,
		Body:        req.Body,
		Severity:    severity,
		Collapsible: req.Collapsible == nil || *req.Collapsible,
		Choices:     req.Choices,
		Effect:      req.Effect,
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.SendSystemMessage(role, draft)
	})
}

// UpsertMessageTemplate adds or replaces a reusable message draft.
func (h *Handler) UpsertMessageTemplate(c *gin.Context) {
	var tpl models.MessageTemplate
	if !h.bind(c, &tpl) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpsertMessageTemplate(role, tpl)
	})
}

type choiceRequest struct {
	OptionID string `json:"option_id" binding:"required"`
}

// ChooseMessageOption records the player's answer to a choice message.
func (h *Handler) ChooseMessageOption(c *gin.Context) {
	var req choiceRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	messageID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.ChooseMessageOption(role, messageID, req.OptionID)
	})
}

// ========================================
// Contacts and chats
// ========================================

type contactRequest struct {
	DisplayName string         `json:"display_name" binding:"required"`
	LinkPayload map[string]any `json:"link_payload"`
}

// AddChatContact creates an npc contact.
func (h *Handler) AddChatContact(c *gin.Context) {
	var req contactRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.AddChatContact(role, req.DisplayName, req.LinkPayload)
	})
}

type friendRequestRequest struct {
	ContactID string `json:"contact_id" binding:"required"`
}

// SendFriendRequest has a contact ask the character for friendship.
func (h *Handler) SendFriendRequest(c *gin.Context) {
	var req friendRequestRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.SendFriendRequest(role, req.ContactID)
	})
}

// AcceptFriendRequest opens the chat with the requesting contact.
func (h *Handler) AcceptFriendRequest(c *gin.Context) {
	role := RoleFromContext(c)
	requestID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.AcceptFriendRequest(role, requestID)
	})
}

type chatMessageRequest struct {
	Text            string             `json:"text"`
	Links           []services.LinkRef `json:"links"`
	SenderContactID string             `json:"sender_contact_id"`
}

// SendChatMessage posts into a thread. Links are resolved against the
// state the intent runs on; players always speak as the character.
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req chatMessageRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	chatID := c.Param("id")
	sender := req.SenderContactID
	if role == services.RolePlayer {
		sender = ""
	}
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		links, err := services.ResolveChatLinks(svc.State(), req.Links)
		if err != nil {
			return nil, err
		}
		return svc.SendChatMessage(role, chatID, req.Text, links, sender)
	})
}
