// internal/api/handlers.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Noty-chan/aether-journal/internal/auth"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/rules"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/storage"
	"github.com/Noty-chan/aether-journal/internal/utils"
)

// Handler serves the campaign API.
type Handler struct {
	coordinator *services.CampaignCoordinator
	repo        *storage.JSONRepository
	index       *storage.EventIndex
	pairing     *auth.PairingManager
	ws          *WebSocketManager
	rh          *ResponseHelper
	logger      *utils.Logger
	metrics     *utils.MetricsCollector
}

// Dependencies are the services the handlers run against. Index may be nil.
type Dependencies struct {
	Coordinator *services.CampaignCoordinator
	Repository  *storage.JSONRepository
	Index       *storage.EventIndex
	Pairing     *auth.PairingManager
	WebSocket   *WebSocketManager
}

// NewHandler creates a Handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		coordinator: deps.Coordinator,
		repo:        deps.Repository,
		index:       deps.Index,
		pairing:     deps.Pairing,
		ws:          deps.WebSocket,
		rh:          NewResponseHelper(),
		logger:      utils.GetLogger(),
		metrics:     utils.GetMetricsCollector(),
	}
}

// eventsResponse is the body of every mutating endpoint.
type eventsResponse struct {
	Events []models.EventLogEntry `json:"events"`
}

// apply runs intent through the coordinator and answers with its events.
func (h *Handler) apply(c *gin.Context, intent services.Intent) {
	events, err := h.coordinator.Apply(c.Request.Context(), intent)
	if err != nil {
		h.rh.FromError(c, err)
		return
	}
	if events == nil {
		events = []models.EventLogEntry{}
	}
	h.rh.Success(c, eventsResponse{Events: events})
}

// bind decodes the JSON body into req, answering 400 on failure.
func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.rh.BadRequest(c, "Invalid request body", err.Error())
		return false
	}
	return true
}

// ========================================
// Pairing
// ========================================

type pairingRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// HostPairing sets the PIN and returns a host token.
func (h *Handler) HostPairing(c *gin.Context) {
	var req pairingRequest
	if !h.bind(c, &req) {
		return
	}
	token, err := h.pairing.SetPin(req.PIN)
	if err != nil {
		h.rh.FromError(c, err)
		return
	}
	h.rh.Success(c, gin.H{"host_token": token})
}

// PlayerPairing exchanges a matching PIN for a player token.
func (h *Handler) PlayerPairing(c *gin.Context) {
	var req pairingRequest
	if !h.bind(c, &req) {
		return
	}
	token, err := h.pairing.PairPlayer(req.PIN)
	if err != nil {
		h.logger.Info("Player pairing rejected", map[string]interface{}{"client_ip": c.ClientIP()})
		h.rh.FromError(c, err)
		return
	}
	h.rh.Success(c, gin.H{"player_token": token})
}

// ========================================
// Reads
// ========================================

type snapshotResponse struct {
	Snapshot *models.CampaignState     `json:"snapshot"`
	LastSeq  int                       `json:"last_seq"`
	Derived  services.DerivedEquipment `json:"derived"`
}

// GetSnapshot returns the campaign state, the seq it reflects and the
// equipment-derived view.
func (h *Handler) GetSnapshot(c *gin.Context) {
	var resp snapshotResponse
	h.coordinator.Read(func(state *models.CampaignState) {
		resp = snapshotResponse{
			Snapshot: state,
			LastSeq:  h.repo.LastSeq(),
			Derived:  services.DeriveEquipment(state),
		}
	})
	h.rh.Success(c, resp)
}

// ListEvents returns logged events with seq > after_seq.
func (h *Handler) ListEvents(c *gin.Context) {
	afterSeq, ok := parseAfterSeq(c)
	if !ok {
		h.rh.BadRequest(c, "after_seq must be a non-negative integer")
		return
	}
	h.rh.Success(c, eventsResponse{Events: h.repo.ListEvents(afterSeq)})
}

// ListLinkables returns what chat messages may link to.
func (h *Handler) ListLinkables(c *gin.Context) {
	h.rh.Success(c, services.ListLinkables(h.coordinator.Snapshot()))
}

// GetMetrics exposes the in-process counters.
func (h *Handler) GetMetrics(c *gin.Context) {
	h.rh.Success(c, h.metrics.GetMetrics())
}

// ========================================
// Progression
// ========================================

type grantXPRequest struct {
	Amount int `json:"amount"`
}

// GrantXP banks experience for the character.
func (h *Handler) GrantXP(c *gin.Context) {
	var req grantXPRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.GrantXP(role, req.Amount)
	})
}

type grantLevelsRequest struct {
	Levels int `json:"levels"`
}

// GrantLevels raises the character level directly.
func (h *Handler) GrantLevels(c *gin.Context) {
	var req grantLevelsRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.GrantLevels(role, req.Levels)
	})
}

type allocateStatsRequest struct {
	StatID string `json:"stat_id" binding:"required"`
	Amount int    `json:"amount"`
}

// AllocateStats spends unspent stat points.
func (h *Handler) AllocateStats(c *gin.Context) {
	var req allocateStatsRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.AllocateStatPoints(role, req.StatID, req.Amount)
	})
}

type settingsRequest struct {
	XPCurve       *rules.XPCurve        `json:"xp_curve"`
	StatRule      *rules.StatPointRule  `json:"stat_rule"`
	SheetSections []models.SheetSection `json:"sheet_sections"`
}

// UpdateSettings replaces the provided parts of the campaign settings.
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateSettings(role, services.SettingsUpdate{
			XPCurve:       req.XPCurve,
			StatRule:      req.StatRule,
			SheetSections: req.SheetSections,
		})
	})
}

type classBonusRequest struct {
	PerLevelBonus map[string]int `json:"per_level_bonus"`
}

// UpdateClassPerLevelBonus replaces a class's per-level stat bonus.
func (h *Handler) UpdateClassPerLevelBonus(c *gin.Context) {
	var req classBonusRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	classID := c.Param("id")
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateClassPerLevelBonus(role, classID, req.PerLevelBonus)
	})
}

type freezeRequest struct {
	Frozen *bool `json:"frozen" binding:"required"`
}

// SetFrozen locks or unlocks player actions.
func (h *Handler) SetFrozen(c *gin.Context) {
	var req freezeRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.SetFrozen(role, *req.Frozen)
	})
}

type currencyRequest struct {
	CurrencyID string `json:"currency_id"`
	Value      int    `json:"value"`
}

// UpdateCurrency sets a currency balance.
func (h *Handler) UpdateCurrency(c *gin.Context) {
	var req currencyRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateCurrency(role, req.CurrencyID, req.Value)
	})
}

type resourceRequest struct {
	ResourceID string `json:"resource_id"`
	Current    int    `json:"current"`
	Maximum    int    `json:"maximum"`
}

// UpdateResource sets a resource pool.
func (h *Handler) UpdateResource(c *gin.Context) {
	var req resourceRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateResource(role, req.ResourceID, req.Current, req.Maximum)
	})
}

type reputationRequest struct {
	ReputationID string `json:"reputation_id"`
	Value        int    `json:"value"`
}

// UpdateReputation sets a reputation standing.
func (h *Handler) UpdateReputation(c *gin.Context) {
	var req reputationRequest
	if !h.bind(c, &req) {
		return
	}
	role := RoleFromContext(c)
	h.apply(c, func(svc *services.CampaignService) ([]models.EventLogEntry, error) {
		return svc.UpdateReputation(role, req.ReputationID, req.Value)
	})
}
