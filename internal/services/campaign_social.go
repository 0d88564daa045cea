package services

import (
	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// AssignQuest starts a quest from a template.
func (s *CampaignService) AssignQuest(role Role, templateID string) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	tpl, ok := s.state.QuestTemplates[templateID]
	if !ok {
		return nil, apperrors.NewQuestError("Quest template not found")
	}
	if err := EnsureQuestNotDuplicated(s.state.ActiveQuests, templateID); err != nil {
		return nil, err
	}
	quest := StartQuest(s.env.NewID("quest"), tpl, s.env.Now())
	s.state.ActiveQuests = append(s.state.ActiveQuests, quest)
	return s.emit(role, models.EventQuestAssigned, models.Payload{
		"character_id": s.state.Character.ID,
		"quest_id":     quest.ID,
		"template_id":  templateID,
		"quest":        quest.Clone(),
	}), nil
}

// UpdateQuestStatus moves a started quest to status.
func (s *CampaignService) UpdateQuestStatus(role Role, questID string, status models.QuestStatus) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperrors.NewQuestError("Unknown quest status")
	}
	idx := s.state.FindQuest(questID)
	if idx < 0 {
		return nil, apperrors.NewQuestError("Quest instance not found")
	}
	quest := &s.state.ActiveQuests[idx]
	SetQuestStatus(quest, status, s.env.Now())
	return s.emit(role, models.EventQuestStatus, models.Payload{
		"character_id": s.state.Character.ID,
		"quest_id":     quest.ID,
		"status":       string(status),
		"quest":        quest.Clone(),
	}), nil
}

// MessageDraft is the host's input for a system message. Choices without
// an id get one.
type MessageDraft struct {
	Title       string
	Body        string
	Severity    models.MessageSeverity
	Collapsible bool
	Choices     []models.ChoiceOption
	Effect      *string
}

// SendSystemMessage shows a notice, optionally with choices, to the player.
func (s *CampaignService) SendSystemMessage(role Role, draft MessageDraft) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if draft.Title == "" && draft.Body == "" {
		return nil, apperrors.NewDomainError("Message title or body is required")
	}
	severity := draft.Severity
	if !severity.Valid() {
		severity = models.SeverityInfo
	}
	choices := make([]models.ChoiceOption, 0, len(draft.Choices))
	seen := map[string]bool{}
	for _, opt := range draft.Choices {
		opt.Payload = models.CloneMap(opt.Payload)
		if opt.Payload == nil {
			opt.Payload = map[string]any{}
		}
		if opt.ID == "" {
			opt.ID = s.env.NewID("opt")
		}
		if seen[opt.ID] {
			return nil, apperrors.NewDomainError("Duplicate choice option id")
		}
		seen[opt.ID] = true
		choices = append(choices, opt)
	}
	msg := models.SystemMessage{
		ID:          s.env.NewID("msg"),
		CreatedAt:   s.env.Now(),
		Severity:    severity,
		Title:       draft.Title,
		Body:        draft.Body,
		Collapsible: draft.Collapsible,
		Choices:     choices,
		Sound:       severity,
	}
	if draft.Effect != nil && *draft.Effect != "" {
		effect := *draft.Effect
		msg.Effect = &effect
	}
	return s.appendMessages(role, []models.SystemMessage{msg}), nil
}

// ChooseMessageOption answers a choice message once.
func (s *CampaignService) ChooseMessageOption(role Role, messageID, optionID string) ([]models.EventLogEntry, error) {
	if err := ensureActingPlayer(role, s.character()); err != nil {
		return nil, err
	}
	idx := s.state.FindMessage(messageID)
	if idx < 0 {
		return nil, apperrors.NewDomainError("Message not found")
	}
	msg := &s.state.SystemMessages[idx]
	if err := ChooseMessageOption(msg, optionID); err != nil {
		return nil, err
	}
	return s.emit(role, models.EventMessageChoice, models.Payload{
		"character_id":     s.state.Character.ID,
		"message_id":       msg.ID,
		"option_id":        optionID,
		"chosen_option_id": *msg.ChosenOptionID,
		"message":          msg.Clone(),
	}), nil
}

// AddChatContact registers an NPC the player may befriend.
func (s *CampaignService) AddChatContact(role Role, displayName string, linkPayload map[string]any) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if displayName == "" {
		return nil, apperrors.NewDomainError("Display name is required")
	}
	contact := models.ChatContact{
		ID:          s.env.NewID("contact"),
		DisplayName: displayName,
		LinkPayload: models.CloneMap(linkPayload),
	}
	if contact.LinkPayload == nil {
		contact.LinkPayload = map[string]any{}
	}
	s.state.Contacts[contact.ID] = contact
	return s.emit(role, models.EventChatContactAdded, models.Payload{
		"contact_id":   contact.ID,
		"display_name": contact.DisplayName,
	}), nil
}

// SendFriendRequest offers a contact's friendship. A contact can have one
// pending request and one open chat at a time.
func (s *CampaignService) SendFriendRequest(role Role, contactID string) ([]models.EventLogEntry, error) {
	if err := EnsureHost(role); err != nil {
		return nil, err
	}
	if _, ok := s.state.Contacts[contactID]; !ok {
		return nil, apperrors.NewDomainError("Chat contact not found")
	}
	for _, req := range s.state.FriendRequests {
		if req.ContactID == contactID && !req.Accepted {
			return nil, apperrors.NewDomainError("Friend request already pending for this contact")
		}
	}
	for _, chat := range s.state.Chats {
		if chat.ContactID == contactID && chat.Opened {
			return nil, apperrors.NewDomainError("Chat with this contact already opened")
		}
	}
	req := models.FriendRequest{
		ID:        s.env.NewID("req"),
		ContactID: contactID,
		CreatedAt: s.env.Now(),
	}
	s.state.FriendRequests[req.ID] = req
	return s.emit(role, models.EventChatFriendRequestSent, models.Payload{
		"request_id": req.ID,
		"contact_id": contactID,
	}), nil
}

// AcceptFriendRequest accepts once and opens the contact's chat thread,
// creating it if needed.
func (s *CampaignService) AcceptFriendRequest(role Role, requestID string) ([]models.EventLogEntry, error) {
	if err := ensureActingPlayer(role, s.character()); err != nil {
		return nil, err
	}
	req, ok := s.state.FriendRequests[requestID]
	if !ok {
		return nil, apperrors.NewDomainError("Friend request not found")
	}
	if req.Accepted {
		return nil, apperrors.NewDomainError("Friend request already accepted")
	}
	now := s.env.Now()
	req.Accepted = true
	req.AcceptedAt = &now
	s.state.FriendRequests[req.ID] = req

	chat := s.chatForContact(req.ContactID)
	chat.Opened = true
	s.state.Chats[chat.ID] = chat
	return s.emit(role, models.EventChatFriendRequestAccepted, models.Payload{
		"request_id": req.ID,
		"contact_id": req.ContactID,
		"chat_id":    chat.ID,
	}), nil
}

func (s *CampaignService) chatForContact(contactID string) models.ChatThread {
	for _, chat := range s.state.Chats {
		if chat.ContactID == contactID {
			return chat
		}
	}
	return models.ChatThread{
		ID:        s.env.NewID("chat"),
		ContactID: contactID,
		Messages:  []models.ChatMessage{},
	}
}

// SendChatMessage posts into a thread. A player always speaks as the
// character; the host must speak as the thread's contact.
func (s *CampaignService) SendChatMessage(role Role, chatID, text string, links []models.ChatLink, senderContactID string) ([]models.EventLogEntry, error) {
	switch role {
	case RoleHost:
	case RolePlayer:
		if err := EnsurePlayerCanAct(s.character()); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewPermissionError("Unknown actor role")
	}
	chat, ok := s.state.Chats[chatID]
	if !ok {
		return nil, apperrors.NewDomainError("Chat thread not found")
	}

	var sender string
	if role == RolePlayer {
		if !chat.Opened {
			return nil, apperrors.NewDomainError("Chat thread is not open yet")
		}
		sender = s.state.Character.ID
	} else {
		if senderContactID == "" {
			return nil, apperrors.NewDomainError("Sender contact required")
		}
		if _, ok := s.state.Contacts[senderContactID]; !ok {
			return nil, apperrors.NewDomainError("Sender contact not found")
		}
		if senderContactID != chat.ContactID {
			return nil, apperrors.NewDomainError("Sender does not match chat contact")
		}
		sender = senderContactID
	}

	stored := make([]models.ChatLink, len(links))
	for i, l := range links {
		l.Payload = models.CloneMap(l.Payload)
		if l.Payload == nil {
			l.Payload = map[string]any{}
		}
		stored[i] = l
	}
	msg := models.ChatMessage{
		ID:              s.env.NewID("chatmsg"),
		ChatID:          chatID,
		SenderContactID: sender,
		Text:            text,
		CreatedAt:       s.env.Now(),
		Links:           stored,
	}
	chat.Messages = append(chat.Messages, msg)
	s.state.Chats[chatID] = chat

	payloadLinks := make([]models.ChatLink, len(stored))
	for i, l := range stored {
		l.Payload = models.CloneMap(l.Payload)
		payloadLinks[i] = l
	}
	return s.emit(role, models.EventChatMessage, models.Payload{
		"chat_id":           chatID,
		"message_id":        msg.ID,
		"sender_contact_id": sender,
		"text":              text,
		"links":             payloadLinks,
	}), nil
}
