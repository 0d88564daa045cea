// internal/models/event.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind is the closed vocabulary of event log entries. The string
// values are part of the persisted and wire format.
type EventKind string

const (
	EventXPGranted                 EventKind = "xp.granted"
	EventLevelUp                   EventKind = "level.up"
	EventInventoryAdded            EventKind = "inventory.added"
	EventInventoryRemoved          EventKind = "inventory.removed"
	EventEquipmentEquipped         EventKind = "equipment.equipped"
	EventEquipmentUnequipped       EventKind = "equipment.unequipped"
	EventEquipmentRequested        EventKind = "equipment.requested"
	EventQuestAssigned             EventKind = "quest.assigned"
	EventQuestStatus               EventKind = "quest.status"
	EventMessageSent               EventKind = "message.sent"
	EventMessageChoice             EventKind = "message.choice"
	EventPlayerFreeze              EventKind = "player.freeze"
	EventCurrencyUpdated           EventKind = "currency.updated"
	EventResourceUpdated           EventKind = "resource.updated"
	EventReputationUpdated         EventKind = "reputation.updated"
	EventAbilityAdded              EventKind = "ability.added"
	EventAbilityUpdated            EventKind = "ability.updated"
	EventAbilityRemoved            EventKind = "ability.removed"
	EventSettingsUpdated           EventKind = "settings.updated"
	EventClassBonusUpdated         EventKind = "class.per_level_bonus.updated"
	EventItemTemplateUpserted      EventKind = "item.template.upserted"
	EventMessageTemplateUpserted   EventKind = "message.template.upserted"
	EventStatAllocated             EventKind = "stat.allocated"
	EventChatContactAdded          EventKind = "chat.contact.added"
	EventChatFriendRequestSent     EventKind = "chat.friend_request.sent"
	EventChatFriendRequestAccepted EventKind = "chat.friend_request.accepted"
	EventChatMessage               EventKind = "chat.message"
)

// EventKinds lists every kind in declaration order.
var EventKinds = []EventKind{
	EventXPGranted, EventLevelUp, EventInventoryAdded, EventInventoryRemoved,
	EventEquipmentEquipped, EventEquipmentUnequipped, EventEquipmentRequested,
	EventQuestAssigned, EventQuestStatus, EventMessageSent, EventMessageChoice,
	EventPlayerFreeze, EventCurrencyUpdated, EventResourceUpdated, EventReputationUpdated,
	EventAbilityAdded, EventAbilityUpdated, EventAbilityRemoved, EventSettingsUpdated,
	EventClassBonusUpdated, EventItemTemplateUpserted, EventMessageTemplateUpserted,
	EventStatAllocated, EventChatContactAdded, EventChatFriendRequestSent,
	EventChatFriendRequestAccepted, EventChatMessage,
}

var eventKindSet = func() map[EventKind]bool {
	m := make(map[EventKind]bool, len(EventKinds))
	for _, k := range EventKinds {
		m[k] = true
	}
	return m
}()

func (k EventKind) Valid() bool { return eventKindSet[k] }

// ParseEventKind rejects strings outside the vocabulary.
func ParseEventKind(s string) (EventKind, error) {
	k := EventKind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown event kind %q", s)
	}
	return k, nil
}

func (k *EventKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("event kind: %w", err)
	}
	parsed, err := ParseEventKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Payload is the kind-specific body of an event.
type Payload = map[string]any

// Actor of events raised by domain rules rather than a client role.
const ActorSystem = "system"

// EventLogEntry is an immutable fact. Seq is 0 until the repository
// sequences the entry.
type EventLogEntry struct {
	Seq     int       `json:"seq"`
	TS      time.Time `json:"ts"`
	Actor   string    `json:"actor"`
	Kind    EventKind `json:"kind"`
	Payload Payload   `json:"payload"`
}

// NewEvent returns an unsequenced entry.
func NewEvent(ts time.Time, actor string, kind EventKind, payload Payload) EventLogEntry {
	if payload == nil {
		payload = Payload{}
	}
	return EventLogEntry{TS: ts, Actor: actor, Kind: kind, Payload: payload}
}
