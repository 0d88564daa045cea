package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Noty-chan/aether-journal/internal/auth"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/storage"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router      *gin.Engine
	repo        *storage.JSONRepository
	coordinator *services.CampaignCoordinator
	ws          *WebSocketManager
	host        string
	player      string
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

type eventsData struct {
	Events []models.EventLogEntry `json:"events"`
}

func newTestServer(t *testing.T, withIndex bool) *testServer {
	t.Helper()

	var opts []storage.Option
	var index *storage.EventIndex
	if withIndex {
		var err error
		index, err = storage.OpenEventIndex(filepath.Join(t.TempDir(), "events.db"))
		require.NoError(t, err)
		t.Cleanup(func() { index.Close() })
		opts = append(opts, storage.WithEventIndex(index))
	}
	opts = append(opts, storage.WithIDGenerator(utils.SequentialIDs()), storage.WithClock(func() time.Time { return fixedNow }))

	repo, err := storage.NewJSONRepository(filepath.Join(t.TempDir(), "campaign.json"), opts...)
	require.NoError(t, err)
	coordinator, err := services.NewCampaignCoordinator(repo, services.Env{
		Now:   func() time.Time { return fixedNow },
		NewID: utils.SequentialIDs(),
	})
	require.NoError(t, err)

	ws := NewWebSocketManager(repo.ListEvents, 16, time.Minute)
	ws.Start()
	t.Cleanup(ws.Close)
	coordinator.SetPublisher(ws)

	s := &testServer{repo: repo, coordinator: coordinator, ws: ws}
	s.router = NewRouter(Dependencies{
		Coordinator: coordinator,
		Repository:  repo,
		Index:       index,
		Pairing:     auth.NewPairingManager(),
		WebSocket:   ws,
	}, true)

	var hostResp struct {
		HostToken string `json:"host_token"`
	}
	s.decode(t, s.do(t, http.MethodPost, "/api/host/pairing", "", gin.H{"pin": "1234"}), &hostResp)
	s.host = hostResp.HostToken

	var playerResp struct {
		PlayerToken string `json:"player_token"`
	}
	s.decode(t, s.do(t, http.MethodPost, "/api/player/pairing", "", gin.H{"pin": "1234"}), &playerResp)
	s.player = playerResp.PlayerToken

	require.NotEmpty(t, s.host)
	require.NotEmpty(t, s.player)
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// decode asserts a 200 envelope and unmarshals its data into out.
func (s *testServer) decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.True(t, env.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

func (s *testServer) events(t *testing.T, method, path, token string, body interface{}) []models.EventLogEntry {
	t.Helper()
	var data eventsData
	s.decode(t, s.do(t, method, path, token, body), &data)
	return data.Events
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.False(t, env.Success)
	require.NotNil(t, env.Error)
	return env.Error
}

func kinds(events []models.EventLogEntry) []models.EventKind {
	out := make([]models.EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func TestAuthorization(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		code   string
	}{
		{"missing token", http.MethodGet, "/api/snapshot", "", http.StatusUnauthorized, ErrorUnauthorized},
		{"unknown token", http.MethodGet, "/api/snapshot", "forged.token", http.StatusUnauthorized, ErrorUnauthorized},
		{"player on host route", http.MethodPost, "/api/host/grant-xp", s.player, http.StatusForbidden, ErrorForbidden},
		{"host on player route", http.MethodPost, "/api/player/stats/allocate", s.host, http.StatusForbidden, ErrorForbidden},
		{"host without token", http.MethodGet, "/api/host/export", "", http.StatusUnauthorized, ErrorUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, gin.H{"amount": 10, "stat_id": "str"})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, errorOf(t, w).Code)
		})
	}

	w := s.do(t, http.MethodPost, "/api/player/pairing", "", gin.H{"pin": "0000"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "PIN mismatch", errorOf(t, w).Message)

	w = s.do(t, http.MethodPost, "/api/host/pairing", "", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHostPairingRevokesTokens(t *testing.T) {
	s := newTestServer(t, false)
	s.do(t, http.MethodPost, "/api/host/pairing", "", gin.H{"pin": "9999"})

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/snapshot", s.host, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/api/snapshot", s.player, nil).Code)
}

func TestGrantXPCommitsAndReturnsSequencedEvents(t *testing.T) {
	s := newTestServer(t, false)

	events := s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 250})
	assert.Equal(t, []models.EventKind{models.EventXPGranted, models.EventLevelUp, models.EventMessageSent}, kinds(events))
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
		assert.True(t, fixedNow.Equal(e.TS))
	}

	var snap struct {
		Snapshot models.CampaignState      `json:"snapshot"`
		LastSeq  int                       `json:"last_seq"`
		Derived  services.DerivedEquipment `json:"derived"`
	}
	s.decode(t, s.do(t, http.MethodGet, "/api/snapshot", s.player, nil), &snap)
	assert.Equal(t, 3, snap.LastSeq)
	assert.Equal(t, 2, snap.Snapshot.Character.Level)
	assert.Equal(t, 50, snap.Snapshot.Character.XP)
	assert.Len(t, snap.Snapshot.SystemMessages, 1)
	assert.NotNil(t, snap.Derived.StatMods)

	var logged eventsData
	s.decode(t, s.do(t, http.MethodGet, "/api/events?after_seq=1", s.player, nil), &logged)
	assert.Equal(t, []int{2, 3}, []int{logged.Events[0].Seq, logged.Events[1].Seq})

	w := s.do(t, http.MethodGet, "/api/events?after_seq=-1", s.player, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Empty(t, s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 0}))
	assert.Equal(t, 3, s.repo.LastSeq())
}

func TestOversizedXPGrantLeavesStoreLoadable(t *testing.T) {
	s := newTestServer(t, false)
	s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 1})
	s.events(t, http.MethodPost, "/api/host/currencies", s.host, gin.H{"currency_id": "gold", "value": 500})

	w := s.do(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": math.MaxInt})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorDomain, errorOf(t, w).Code)

	w = s.do(t, http.MethodPost, "/api/host/grant-levels", s.host, gin.H{"levels": math.MaxInt - 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	reopened, err := storage.NewJSONRepository(s.repo.Path())
	require.NoError(t, err)
	assert.Empty(t, reopened.RecoveryReason())
	assert.Equal(t, 2, reopened.LastSeq())
	state, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, state.Character.XP)
	assert.Equal(t, 1, state.Character.Level)
	assert.Equal(t, 500, state.Character.Currencies["gold"])
}

func TestDomainErrorsMapToStatusAndCode(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		status int
		code   string
	}{
		{"unknown item template", http.MethodPost, "/api/host/inventory", s.host, gin.H{"template_id": "nope"}, http.StatusBadRequest, ErrorDomain},
		{"unknown instance", http.MethodPost, "/api/host/equip", s.host, gin.H{"item_instance_id": "nope", "slot": "head"}, http.StatusBadRequest, ErrorEquip},
		{"unknown slot", http.MethodPost, "/api/host/equip", s.host, gin.H{"item_instance_id": "nope", "slot": "tail"}, http.StatusBadRequest, ErrorEquip},
		{"unknown quest template", http.MethodPost, "/api/host/quests", s.host, gin.H{"template_id": "nope"}, http.StatusBadRequest, ErrorQuest},
		{"unknown quest status", http.MethodPost, "/api/host/quests/q/status", s.host, gin.H{"status": "lost"}, http.StatusBadRequest, ErrorQuest},
		{"no unspent points", http.MethodPost, "/api/player/stats/allocate", s.player, gin.H{"stat_id": "str", "amount": 1}, http.StatusBadRequest, ErrorDomain},
		{"unknown severity", http.MethodPost, "/api/host/messages", s.host, gin.H{"title": "x", "severity": "loud"}, http.StatusBadRequest, ErrorBadRequest},
		{"malformed body", http.MethodPost, "/api/host/grant-levels", s.host, []byte("{"), http.StatusBadRequest, ErrorBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, errorOf(t, w).Code)
		})
	}
	assert.Zero(t, s.repo.LastSeq(), "rejected intents must not log events")
}

func TestFrozenPlayerIsForbidden(t *testing.T) {
	s := newTestServer(t, false)
	s.events(t, http.MethodPost, "/api/host/grant-levels", s.host, gin.H{"levels": 1})

	events := s.events(t, http.MethodPost, "/api/host/freeze", s.host, gin.H{"frozen": true})
	require.Len(t, events, 1)
	assert.Equal(t, models.EventPlayerFreeze, events[0].Kind)

	w := s.do(t, http.MethodPost, "/api/player/stats/allocate", s.player, gin.H{"stat_id": "str", "amount": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	s.events(t, http.MethodPost, "/api/host/freeze", s.host, gin.H{"frozen": false})
	events = s.events(t, http.MethodPost, "/api/player/stats/allocate", s.player, gin.H{"stat_id": "str", "amount": 2})
	require.Len(t, events, 1)
	assert.Equal(t, "str", events[0].Payload["stat_id"])

	w = s.do(t, http.MethodPost, "/api/host/freeze", s.host, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemAndEquipFlow(t *testing.T) {
	s := newTestServer(t, false)

	events := s.events(t, http.MethodPost, "/api/host/items", s.host, gin.H{
		"name":        "Greatsword",
		"item_type":   "weapon",
		"two_handed":  true,
		"equip_slots": []string{"weapon_1", "weapon_2"},
		"stat_mods":   gin.H{"str": 3},
	})
	require.Len(t, events, 1)
	tplID := "item_tpl_1"
	assert.Equal(t, models.EventItemTemplateUpserted, events[0].Kind)

	events = s.events(t, http.MethodPost, "/api/host/inventory", s.host, gin.H{"template_id": tplID})
	require.Len(t, events, 1)
	instanceID, _ := events[0].Payload["item_instance_id"].(string)
	require.NotEmpty(t, instanceID)
	assert.EqualValues(t, 1, events[0].Payload["qty"])

	events = s.events(t, http.MethodPost, "/api/player/equip-request", s.player, gin.H{"item_instance_id": instanceID, "slot": "weapon_1"})
	assert.Equal(t, []models.EventKind{models.EventEquipmentRequested}, kinds(events))

	events = s.events(t, http.MethodPost, "/api/host/equip", s.host, gin.H{"item_instance_id": instanceID, "slot": "weapon_1"})
	assert.Equal(t, []models.EventKind{models.EventEquipmentEquipped}, kinds(events))

	var snap struct {
		Snapshot models.CampaignState      `json:"snapshot"`
		Derived  services.DerivedEquipment `json:"derived"`
	}
	s.decode(t, s.do(t, http.MethodGet, "/api/snapshot", s.host, nil), &snap)
	assert.Equal(t, instanceID, snap.Snapshot.Character.Equipment[models.SlotWeapon2])
	assert.Equal(t, map[string]int{"str": 3}, snap.Derived.StatMods)

	events = s.events(t, http.MethodDelete, "/api/host/inventory/"+instanceID, s.host, nil)
	assert.Equal(t, []models.EventKind{
		models.EventEquipmentUnequipped,
		models.EventEquipmentUnequipped,
		models.EventInventoryRemoved,
	}, kinds(events))
}

func TestQuestAbilityAndSettingsRoutes(t *testing.T) {
	s := newTestServer(t, false)

	events := s.events(t, http.MethodPost, "/api/host/abilities", s.host, gin.H{"name": "Dash", "scope": "library"})
	require.Len(t, events, 1)
	assert.Equal(t, models.EventAbilityAdded, events[0].Kind)
	assert.Equal(t, "library", events[0].Payload["scope"])
	abilityID, _ := events[0].Payload["ability_id"].(string)

	events = s.events(t, http.MethodDelete, "/api/host/abilities/"+abilityID+"?scope=library", s.host, nil)
	assert.Equal(t, []models.EventKind{models.EventAbilityRemoved}, kinds(events))

	w := s.do(t, http.MethodPost, "/api/host/abilities", s.host, gin.H{"name": "Dash", "scope": "pocket"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	events = s.events(t, http.MethodPost, "/api/host/settings", s.host, gin.H{
		"xp_curve": gin.H{"base_xp": 100, "growth_rate": 1.5},
	})
	assert.Equal(t, []models.EventKind{models.EventSettingsUpdated}, kinds(events))
	assert.Empty(t, s.events(t, http.MethodPost, "/api/host/settings", s.host, gin.H{}))

	w = s.do(t, http.MethodPost, "/api/host/settings", s.host, gin.H{"xp_curve": gin.H{"base_xp": 0, "growth_rate": 1.5}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	events = s.events(t, http.MethodPost, "/api/host/classes/adventurer/per-level-bonus", s.host, gin.H{"per_level_bonus": gin.H{"str": 1}})
	assert.Equal(t, []models.EventKind{models.EventClassBonusUpdated}, kinds(events))

	events = s.events(t, http.MethodPost, "/api/host/currencies", s.host, gin.H{"currency_id": "gold", "value": 12})
	assert.Equal(t, []models.EventKind{models.EventCurrencyUpdated}, kinds(events))
	events = s.events(t, http.MethodPost, "/api/host/resources", s.host, gin.H{"resource_id": "hp", "current": 5, "maximum": 10})
	assert.Equal(t, []models.EventKind{models.EventResourceUpdated}, kinds(events))
	events = s.events(t, http.MethodPost, "/api/host/reputations", s.host, gin.H{"reputation_id": "guild", "value": -3})
	assert.Equal(t, []models.EventKind{models.EventReputationUpdated}, kinds(events))

	events = s.events(t, http.MethodPost, "/api/host/message-templates", s.host, gin.H{"name": "Intro", "title": "Hello"})
	assert.Equal(t, []models.EventKind{models.EventMessageTemplateUpserted}, kinds(events))
}

func TestChoiceMessageRoundTrip(t *testing.T) {
	s := newTestServer(t, false)

	events := s.events(t, http.MethodPost, "/api/host/messages", s.host, gin.H{
		"title":   "Crossroads",
		"body":    "Left or right?",
		"choices": []gin.H{{"id": "left", "label": "Left"}, {"id": "right", "label": "Right"}},
	})
	require.Len(t, events, 1)
	messageID, _ := events[0].Payload["message_id"].(string)
	require.NotEmpty(t, messageID)

	events = s.events(t, http.MethodPost, "/api/player/messages/"+messageID+"/choice", s.player, gin.H{"option_id": "left"})
	assert.Equal(t, []models.EventKind{models.EventMessageChoice}, kinds(events))

	w := s.do(t, http.MethodPost, "/api/player/messages/"+messageID+"/choice", s.player, gin.H{"option_id": "right"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSocialFlowAndLinks(t *testing.T) {
	s := newTestServer(t, false)

	s.events(t, http.MethodPost, "/api/host/items", s.host, gin.H{"id": "item_tpl_map", "name": "Old Map"})
	events := s.events(t, http.MethodPost, "/api/host/contacts", s.host, gin.H{"display_name": "Mira"})
	contactID, _ := events[0].Payload["contact_id"].(string)

	events = s.events(t, http.MethodPost, "/api/host/friend-requests", s.host, gin.H{"contact_id": contactID})
	requestID, _ := events[0].Payload["request_id"].(string)

	events = s.events(t, http.MethodPost, "/api/player/friend-requests/"+requestID+"/accept", s.player, nil)
	chatID, _ := events[0].Payload["chat_id"].(string)
	require.NotEmpty(t, chatID)

	var catalog services.Linkables
	s.decode(t, s.do(t, http.MethodGet, "/api/player/linkables", s.player, nil), &catalog)
	assert.Equal(t, []services.Linkable{{Type: "npc", ID: contactID, Label: "Mira"}}, catalog.NPCs)
	assert.Equal(t, []services.Linkable{{Type: "item", ID: "item_tpl_map", Label: "Old Map"}}, catalog.Items)

	events = s.events(t, http.MethodPost, "/api/host/chats/"+chatID+"/messages", s.host, gin.H{
		"text":              "Found this",
		"sender_contact_id": contactID,
		"links":             []gin.H{{"type": "item", "id": "item_tpl_map"}},
	})
	assert.Equal(t, []models.EventKind{models.EventChatMessage}, kinds(events))

	w := s.do(t, http.MethodPost, "/api/player/chats/"+chatID+"/messages", s.player, gin.H{
		"text":  "Where?",
		"links": []gin.H{{"type": "quest", "id": "missing"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Quest not found", errorOf(t, w).Message)

	events = s.events(t, http.MethodPost, "/api/player/chats/"+chatID+"/messages", s.player, gin.H{"text": "Thanks"})
	require.Len(t, events, 1)
	assert.Equal(t, "player", events[0].Actor)
}

func TestExportImportRoundTrip(t *testing.T) {
	s := newTestServer(t, false)
	s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 250})

	w := s.do(t, http.MethodGet, "/api/host/export", s.host, nil)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	exported := []byte(env.Data)

	s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 10})
	require.Equal(t, 4, s.repo.LastSeq())

	s.decode(t, s.do(t, http.MethodPost, "/api/host/import", s.host, exported), nil)
	assert.Equal(t, 4, s.repo.LastSeq(), "last_seq never moves backwards")
	assert.Len(t, s.repo.ListEvents(0), 3)
	assert.Equal(t, 50, s.coordinator.Snapshot().Character.XP)

	w = s.do(t, http.MethodPost, "/api/host/import", s.host, []byte(`{"events": []}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ErrorValidation, errorOf(t, w).Code)

	var templates storage.TemplatesBundle
	s.decode(t, s.do(t, http.MethodGet, "/api/host/export/templates", s.host, nil), &templates)
	templates.ItemTemplates = map[string]models.ItemTemplate{"item_tpl_x": {ID: "item_tpl_x", Name: "X"}}
	s.decode(t, s.do(t, http.MethodPost, "/api/host/import/templates", s.host, templates), nil)
	assert.Contains(t, s.coordinator.Snapshot().ItemTemplates, "item_tpl_x")
	assert.Equal(t, 4, s.repo.LastSeq())

	w = s.do(t, http.MethodGet, "/api/host/export/archive", s.host, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/zstd", w.Header().Get("Content-Type"))
	archive := w.Body.Bytes()

	levelEvents := s.events(t, http.MethodPost, "/api/host/grant-levels", s.host, gin.H{"levels": 1})
	require.Len(t, levelEvents, 2)
	assert.Equal(t, 5, levelEvents[0].Seq)
	s.decode(t, s.do(t, http.MethodPost, "/api/host/import/archive", s.host, archive), nil)
	assert.Equal(t, 2, s.coordinator.Snapshot().Character.Level)
	assert.Equal(t, 6, s.repo.LastSeq())

	next := s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 1})
	require.Len(t, next, 1)
	assert.Equal(t, 7, next[0].Seq)
}

func TestEventSearch(t *testing.T) {
	s := newTestServer(t, false)
	w := s.do(t, http.MethodGet, "/api/host/events/search", s.host, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrorEventIndexDisabled, errorOf(t, w).Code)

	s = newTestServer(t, true)
	s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 250})
	s.events(t, http.MethodPost, "/api/host/currencies", s.host, gin.H{"currency_id": "gold", "value": 5})

	var found eventsData
	s.decode(t, s.do(t, http.MethodGet, "/api/host/events/search?kind=currency.updated", s.host, nil), &found)
	require.Len(t, found.Events, 1)
	assert.Equal(t, 4, found.Events[0].Seq)
	assert.Equal(t, "host", found.Events[0].Actor)

	s.decode(t, s.do(t, http.MethodGet, "/api/host/events/search?after_seq=1&limit=2", s.host, nil), &found)
	assert.Equal(t, []int{2, 3}, []int{found.Events[0].Seq, found.Events[1].Seq})

	w = s.do(t, http.MethodGet, "/api/host/events/search?kind=bogus", s.host, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(t, http.MethodGet, "/api/host/events/search?limit=0", s.host, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsAndStatus(t *testing.T) {
	s := newTestServer(t, false)
	s.events(t, http.MethodPost, "/api/host/grant-xp", s.host, gin.H{"amount": 5})

	var metrics map[string]interface{}
	s.decode(t, s.do(t, http.MethodGet, "/api/host/metrics", s.host, nil), &metrics)
	assert.NotEmpty(t, metrics)

	var status map[string]interface{}
	s.decode(t, s.do(t, http.MethodGet, "/api/ws/status", s.host, nil), &status)
	assert.Contains(t, status, "connections")
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/api/ws/status", s.player, nil).Code)
}
