package storage

import (
	"encoding/json"
	"fmt"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
)

// TemplatesBundle carries the host-authored template catalogs.
type TemplatesBundle struct {
	SchemaVersion    int                               `json:"schema_version"`
	ItemTemplates    map[string]models.ItemTemplate    `json:"item_templates"`
	QuestTemplates   map[string]models.QuestTemplate   `json:"quest_templates"`
	MessageTemplates map[string]models.MessageTemplate `json:"message_templates"`
}

// LogBundle carries the event log.
type LogBundle struct {
	SchemaVersion int               `json:"schema_version"`
	Events        []json.RawMessage `json:"events"`
	LastSeq       *int              `json:"last_seq"`
}

// ChatsBundle carries contacts, threads and friend requests.
type ChatsBundle struct {
	SchemaVersion  int                             `json:"schema_version"`
	Contacts       map[string]models.ChatContact   `json:"contacts"`
	Chats          map[string]models.ChatThread    `json:"chats"`
	FriendRequests map[string]models.FriendRequest `json:"friend_requests"`
}

// ExportData returns the whole store document.
func (r *JSONRepository) ExportData() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	content, err := json.MarshalIndent(r.doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode campaign store: %w", err)
	}
	return content, nil
}

// ImportData replaces the whole store. The payload must contain a snapshot
// object and pass the store schema after migration.
func (r *JSONRepository) ImportData(raw []byte) error {
	root, reason := parseDocument(raw)
	if reason != "" {
		return apperrors.NewValidationError("Invalid import payload: "+reason, nil)
	}
	if _, ok := root["snapshot"].(map[string]any); !ok {
		return apperrors.NewValidationError("Missing snapshot", nil)
	}
	ensureSchema(root)
	if err := validateStore(root); err != nil {
		return apperrors.NewValidationError("Import payload does not match the store schema", err)
	}
	doc, err := decodeDocument(root)
	if err != nil {
		return apperrors.NewValidationError("Invalid import payload", err)
	}
	doc.RecoveryReason = ""

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.install(doc); err != nil {
		return err
	}
	r.logger.Info("Campaign store imported", map[string]interface{}{
		"events":   len(r.events),
		"last_seq": r.doc.LastSeq,
	})
	return nil
}

// ExportTemplates returns the template catalogs.
func (r *JSONRepository) ExportTemplates() TemplatesBundle {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.doc.Snapshot.Clone()
	return TemplatesBundle{
		SchemaVersion:    r.doc.SchemaVersion,
		ItemTemplates:    s.ItemTemplates,
		QuestTemplates:   s.QuestTemplates,
		MessageTemplates: s.MessageTemplates,
	}
}

// ImportTemplates replaces all three template catalogs; a missing catalog
// becomes empty.
func (r *JSONRepository) ImportTemplates(raw []byte) error {
	var bundle TemplatesBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return apperrors.NewValidationError("Invalid templates payload", err)
	}
	return r.replaceSnapshot(func(s *models.CampaignState) {
		s.ItemTemplates = bundle.ItemTemplates
		s.QuestTemplates = bundle.QuestTemplates
		s.MessageTemplates = bundle.MessageTemplates
	})
}

// ExportLog returns the raw event log.
func (r *JSONRepository) ExportLog() LogBundle {
	r.mu.Lock()
	defer r.mu.Unlock()
	lastSeq := r.doc.LastSeq
	events := make([]json.RawMessage, len(r.doc.Events))
	copy(events, r.doc.Events)
	return LogBundle{SchemaVersion: r.doc.SchemaVersion, Events: events, LastSeq: &lastSeq}
}

// ImportLog replaces the event log. Entries that are not objects are
// dropped. last_seq never ends below the highest imported seq or the
// previous last_seq, so later appends cannot reuse a number.
func (r *JSONRepository) ImportLog(raw []byte) error {
	var bundle LogBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return apperrors.NewValidationError("Invalid log payload", err)
	}
	events := make([]json.RawMessage, 0, len(bundle.Events))
	for _, e := range bundle.Events {
		var probe map[string]json.RawMessage
		if json.Unmarshal(e, &probe) != nil || probe == nil {
			continue
		}
		events = append(events, e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	lastSeq := 0
	if bundle.LastSeq != nil {
		lastSeq = *bundle.LastSeq
	}
	next := &storeDocument{
		SchemaVersion:  CurrentSchemaVersion,
		Snapshot:       r.doc.Snapshot,
		Events:         events,
		LastSeq:        lastSeq,
		RecoveryReason: r.doc.RecoveryReason,
	}
	return r.install(next)
}

// ExportChats returns the social part of the snapshot.
func (r *JSONRepository) ExportChats() ChatsBundle {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.doc.Snapshot.Clone()
	return ChatsBundle{
		SchemaVersion:  r.doc.SchemaVersion,
		Contacts:       s.Contacts,
		Chats:          s.Chats,
		FriendRequests: s.FriendRequests,
	}
}

// ImportChats replaces contacts, threads and friend requests.
func (r *JSONRepository) ImportChats(raw []byte) error {
	var bundle ChatsBundle
	if err := json.Unmarshal(raw, &bundle); err != nil {
		return apperrors.NewValidationError("Invalid chats payload", err)
	}
	return r.replaceSnapshot(func(s *models.CampaignState) {
		s.Contacts = bundle.Contacts
		s.Chats = bundle.Chats
		s.FriendRequests = bundle.FriendRequests
	})
}

func (r *JSONRepository) replaceSnapshot(edit func(s *models.CampaignState)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := r.doc.Snapshot.Clone()
	edit(snapshot)
	snapshot.Normalize()
	next := *r.doc
	next.Snapshot = snapshot
	if err := r.write(&next); err != nil {
		return err
	}
	r.doc = &next
	return nil
}
