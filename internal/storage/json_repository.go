package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// storeDocument is the single file holding a campaign: the latest snapshot
// next to the full event log. Events stay raw so entries this build cannot
// parse survive a rewrite.
type storeDocument struct {
	SchemaVersion  int                   `json:"schema_version"`
	Snapshot       *models.CampaignState `json:"snapshot"`
	Events         []json.RawMessage     `json:"events"`
	LastSeq        int                   `json:"last_seq"`
	RecoveryReason string                `json:"recovery_reason,omitempty"`
}

// EventIndexer mirrors appended events into a secondary store.
type EventIndexer interface {
	Index(events []models.EventLogEntry) error
	Rebuild(events []models.EventLogEntry) error
}

// Option configures a JSONRepository.
type Option func(*JSONRepository)

// WithEventIndex mirrors every appended event into idx.
func WithEventIndex(idx EventIndexer) Option {
	return func(r *JSONRepository) { r.index = idx }
}

// WithIDGenerator sets the id source for default campaigns.
func WithIDGenerator(gen utils.IDGenerator) Option {
	return func(r *JSONRepository) { r.newID = gen }
}

// WithClock sets the clock used to name corrupt-store backups.
func WithClock(now func() time.Time) Option {
	return func(r *JSONRepository) { r.now = now }
}

// JSONRepository stores one campaign in a JSON file. A missing file is
// created with the default campaign; a corrupt one is backed up and
// replaced by the default campaign, so loading never fails on bad data.
type JSONRepository struct {
	mu     sync.Mutex
	files  *FileStorage
	name   string
	doc    *storeDocument
	events []models.EventLogEntry

	index   EventIndexer
	newID   utils.IDGenerator
	now     func() time.Time
	logger  *utils.Logger
	metrics *utils.MetricsCollector
}

// NewJSONRepository opens or creates the store at path.
func NewJSONRepository(path string, opts ...Option) (*JSONRepository, error) {
	files, err := NewFileStorage(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	r := &JSONRepository{
		files:   files,
		name:    filepath.Base(path),
		newID:   utils.NewID,
		now:     time.Now,
		logger:  utils.GetLogger(),
		metrics: utils.GetMetricsCollector(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.read(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the store file location.
func (r *JSONRepository) Path() string {
	return r.files.Path(r.name)
}

// read loads the file into memory, creating or recovering it as needed.
func (r *JSONRepository) read() error {
	raw, err := r.files.ReadFile(r.name)
	if os.IsNotExist(err) {
		r.logger.Info("Creating campaign store", map[string]interface{}{"path": r.Path()})
		return r.install(r.defaultDocument(""))
	}
	if err != nil {
		return fmt.Errorf("read campaign store: %w", err)
	}

	root, reason := parseDocument(raw)
	if reason != "" {
		return r.recoverStore(reason)
	}
	migrated := ensureSchema(root)
	if _, ok := root["snapshot"].(map[string]any); !ok {
		return r.recoverStore("missing snapshot")
	}
	if err := validateStore(root); err != nil {
		return r.recoverStore("schema violation: " + err.Error())
	}
	doc, err := decodeDocument(root)
	if err != nil {
		return r.recoverStore("undecodable snapshot: " + err.Error())
	}

	r.doc = doc
	r.events = parseEvents(doc.Events)
	if reconcileLastSeq(doc, r.events) {
		migrated = true
	}
	if migrated {
		r.logger.Info("Migrated campaign store", map[string]interface{}{
			"path":           r.Path(),
			"schema_version": CurrentSchemaVersion,
		})
		if err := r.write(doc); err != nil {
			return err
		}
	}
	r.rebuildIndex()
	return nil
}

// parseDocument decodes raw into a generic object, returning a recovery
// reason when that is impossible.
func parseDocument(raw []byte) (map[string]any, string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, "invalid json"
	}
	root, ok := generic.(map[string]any)
	if !ok {
		return nil, "root is not an object"
	}
	return root, ""
}

func decodeDocument(root map[string]any) (*storeDocument, error) {
	raw, err := json.Marshal(root)
	if err != nil {
		return nil, err
	}
	var doc storeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Snapshot == nil {
		return nil, fmt.Errorf("snapshot is null")
	}
	doc.Snapshot.Normalize()
	if doc.Events == nil {
		doc.Events = []json.RawMessage{}
	}
	return &doc, nil
}

// parseEvents skips entries that cannot be decoded and orders the rest by seq.
func parseEvents(raws []json.RawMessage) []models.EventLogEntry {
	out := make([]models.EventLogEntry, 0, len(raws))
	for _, raw := range raws {
		var e models.EventLogEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

func (r *JSONRepository) defaultDocument(reason string) *storeDocument {
	return &storeDocument{
		SchemaVersion:  CurrentSchemaVersion,
		Snapshot:       models.NewDefaultCampaignState(r.newID),
		Events:         []json.RawMessage{},
		RecoveryReason: reason,
	}
}

func (r *JSONRepository) recoverStore(reason string) error {
	suffix := ".corrupt-" + r.now().UTC().Format("20060102150405")
	backup, err := r.files.Backup(r.name, suffix)
	if err != nil {
		r.logger.Error("Failed to back up corrupt campaign store", map[string]interface{}{
			"path":  r.Path(),
			"error": err.Error(),
		})
	}
	r.metrics.IncrementCounter(utils.MetricStoreRecoveries)
	r.logger.Warn("Campaign store was corrupt, starting from default campaign", map[string]interface{}{
		"reason": reason,
		"backup": backup,
	})
	return r.install(r.defaultDocument(reason))
}

func (r *JSONRepository) write(doc *storeDocument) error {
	content, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode campaign store: %w", err)
	}
	if err := r.files.WriteFile(r.name, content); err != nil {
		return fmt.Errorf("write campaign store: %w", err)
	}
	return nil
}

// install writes doc and makes it current. last_seq never drops below the
// value of the store being replaced, so numbers handed to observers are
// not assigned again.
func (r *JSONRepository) install(doc *storeDocument) error {
	events := parseEvents(doc.Events)
	reconcileLastSeq(doc, events)
	if r.doc != nil && r.doc.LastSeq > doc.LastSeq {
		doc.LastSeq = r.doc.LastSeq
	}
	if err := r.write(doc); err != nil {
		return err
	}
	r.doc = doc
	r.events = events
	r.rebuildIndex()
	return nil
}

// reconcileLastSeq lifts last_seq to the highest stored seq.
func reconcileLastSeq(doc *storeDocument, events []models.EventLogEntry) bool {
	if n := len(events); n > 0 && events[n-1].Seq > doc.LastSeq {
		doc.LastSeq = events[n-1].Seq
		return true
	}
	return false
}

func (r *JSONRepository) rebuildIndex() {
	if r.index == nil {
		return
	}
	if err := r.index.Rebuild(r.events); err != nil {
		r.logger.Warn("Failed to rebuild event index", map[string]interface{}{"error": err.Error()})
	}
}

// Load returns a copy of the stored campaign.
func (r *JSONRepository) Load() (*models.CampaignState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.Snapshot.Clone(), nil
}

// RecoveryReason is set when the store was rebuilt from a corrupt file.
func (r *JSONRepository) RecoveryReason() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.RecoveryReason
}

// LastSeq returns the highest sequence number ever assigned.
func (r *JSONRepository) LastSeq() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.LastSeq
}

// Save replaces the snapshot, keeping the event log.
func (r *JSONRepository) Save(state *models.CampaignState) error {
	_, err := r.Commit(state, nil)
	return err
}

// AppendEvents sequences events from last_seq+1 and persists them.
func (r *JSONRepository) AppendEvents(events []models.EventLogEntry) ([]models.EventLogEntry, error) {
	return r.commit(nil, events)
}

// Commit sequences events and writes them together with state in a single
// file replace. Returned events carry their seq and JSON-shaped payloads,
// identical to what ListEvents yields later.
func (r *JSONRepository) Commit(state *models.CampaignState, events []models.EventLogEntry) ([]models.EventLogEntry, error) {
	if state == nil {
		return nil, apperrors.NewValidationError("campaign state is required", nil)
	}
	return r.commit(state, events)
}

func (r *JSONRepository) commit(state *models.CampaignState, events []models.EventLogEntry) ([]models.EventLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq := r.doc.LastSeq
	raws := make([]json.RawMessage, 0, len(events))
	sequenced := make([]models.EventLogEntry, 0, len(events))
	for _, e := range events {
		seq++
		e.Seq = seq
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode event %s: %w", e.Kind, err)
		}
		var stored models.EventLogEntry
		if err := json.Unmarshal(raw, &stored); err != nil {
			return nil, fmt.Errorf("decode event %s: %w", e.Kind, err)
		}
		raws = append(raws, raw)
		sequenced = append(sequenced, stored)
	}

	snapshot := r.doc.Snapshot
	if state != nil {
		snapshot = state.Clone()
	}
	next := &storeDocument{
		SchemaVersion:  CurrentSchemaVersion,
		Snapshot:       snapshot,
		Events:         append(slices.Clip(r.doc.Events), raws...),
		LastSeq:        seq,
		RecoveryReason: r.doc.RecoveryReason,
	}
	if err := r.write(next); err != nil {
		return nil, err
	}
	r.doc = next
	r.events = append(slices.Clip(r.events), sequenced...)

	if len(sequenced) > 0 {
		r.logger.Debug("Events appended", map[string]interface{}{
			"from_seq": sequenced[0].Seq,
			"to_seq":   seq,
		})
		if r.index != nil {
			if err := r.index.Index(sequenced); err != nil {
				r.logger.Warn("Failed to index events", map[string]interface{}{"error": err.Error()})
			}
		}
	}
	return slices.Clone(sequenced), nil
}

// ListEvents returns the events with seq > afterSeq in ascending order.
func (r *JSONRepository) ListEvents(afterSeq int) []models.EventLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := sort.Search(len(r.events), func(i int) bool { return r.events[i].Seq > afterSeq })
	return slices.Clone(r.events[i:])
}
