package models

import "time"

// ChatContact is an NPC or entity the player can chat with.
type ChatContact struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	LinkPayload map[string]any `json:"link_payload"`
}

// FriendRequest targets a contact and is accepted at most once.
type FriendRequest struct {
	ID         string     `json:"id"`
	ContactID  string     `json:"contact_id"`
	CreatedAt  time.Time  `json:"created_at"`
	Accepted   bool       `json:"accepted"`
	AcceptedAt *time.Time `json:"accepted_at"`
}

// ChatLink is a resolved reference to a quest, item or npc.
type ChatLink struct {
	Kind    string         `json:"kind"`
	Title   string         `json:"title"`
	Summary string         `json:"summary"`
	Payload map[string]any `json:"payload"`
}

// ChatMessage is a single line in a thread.
type ChatMessage struct {
	ID              string     `json:"id"`
	ChatID          string     `json:"chat_id"`
	SenderContactID string     `json:"sender_contact_id"`
	Text            string     `json:"text"`
	CreatedAt       time.Time  `json:"created_at"`
	Links           []ChatLink `json:"links"`
}

// ChatThread is the one conversation kept per contact.
type ChatThread struct {
	ID        string        `json:"id"`
	ContactID string        `json:"contact_id"`
	Opened    bool          `json:"opened"`
	Messages  []ChatMessage `json:"messages"`
}

func (c *ChatThread) normalize() {
	if c.Messages == nil {
		c.Messages = []ChatMessage{}
	}
	for i := range c.Messages {
		if c.Messages[i].Links == nil {
			c.Messages[i].Links = []ChatLink{}
		}
		for j := range c.Messages[i].Links {
			if c.Messages[i].Links[j].Payload == nil {
				c.Messages[i].Links[j].Payload = map[string]any{}
			}
		}
	}
}
