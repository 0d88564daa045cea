// internal/api/router.go
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Noty-chan/aether-journal/internal/auth"
	"github.com/Noty-chan/aether-journal/internal/config"
	"github.com/Noty-chan/aether-journal/internal/di"
	"github.com/Noty-chan/aether-journal/internal/services"
	"github.com/Noty-chan/aether-journal/internal/storage"
)

// Container keys the router resolves.
const (
	ServiceCoordinator = "coordinator"
	ServiceRepository  = "repository"
	ServiceEventIndex  = "event_index"
	ServicePairing     = "pairing"
	ServiceWebSocket   = "websocket"
)

// SetupRouter builds the router from the services registered in the
// global container.
func SetupRouter() (*gin.Engine, error) {
	deps, err := DependenciesFromContainer(di.GetContainer())
	if err != nil {
		return nil, err
	}
	debug := true
	if cfg := config.GetCurrentConfig(); cfg != nil {
		debug = bool(cfg.DebugMode)
	}
	return NewRouter(deps, debug), nil
}

// DependenciesFromContainer resolves the handler dependencies. The event
// index is optional.
func DependenciesFromContainer(container *di.Container) (Dependencies, error) {
	var deps Dependencies
	var err error

	if deps.Coordinator, err = di.Resolve[*services.CampaignCoordinator](container, ServiceCoordinator); err != nil {
		return deps, err
	}
	if deps.Repository, err = di.Resolve[*storage.JSONRepository](container, ServiceRepository); err != nil {
		return deps, err
	}
	if deps.Pairing, err = di.Resolve[*auth.PairingManager](container, ServicePairing); err != nil {
		return deps, err
	}
	if deps.WebSocket, err = di.Resolve[*WebSocketManager](container, ServiceWebSocket); err != nil {
		return deps, err
	}
	deps.Index, _ = container.Get(ServiceEventIndex).(*storage.EventIndex)
	return deps, nil
}

// NewRouter wires every route onto a fresh engine.
func NewRouter(deps Dependencies, debug bool) *gin.Engine {
	var r *gin.Engine
	if debug {
		r = gin.Default()
	} else {
		gin.SetMode(gin.ReleaseMode)
		r = gin.New()
		r.Use(gin.Recovery())
	}
	r.Use(RequestID(), corsMiddleware())

	h := NewHandler(deps)
	host := RequireRole(deps.Pairing, services.RoleHost)
	player := RequireRole(deps.Pairing, services.RolePlayer)
	anyRole := RequireToken(deps.Pairing)

	r.GET("/ws", h.HandleWebSocket)

	api := r.Group("/api")
	{
		pairing := PairingRateLimit()
		api.POST("/host/pairing", pairing, h.HostPairing)
		api.POST("/player/pairing", pairing, h.PlayerPairing)

		api.GET("/snapshot", anyRole, h.GetSnapshot)
		api.GET("/events", anyRole, h.ListEvents)
		api.GET("/ws/status", host, h.GetWebSocketStatus)
	}

	hostGroup := api.Group("/host", host)
	{
		hostGroup.POST("/grant-xp", h.GrantXP)
		hostGroup.POST("/grant-levels", h.GrantLevels)
		hostGroup.POST("/settings", h.UpdateSettings)
		hostGroup.POST("/classes/:id/per-level-bonus", h.UpdateClassPerLevelBonus)

		hostGroup.POST("/items", h.UpsertItemTemplate)
		hostGroup.POST("/inventory", h.AddItemInstance)
		hostGroup.DELETE("/inventory/:id", h.RemoveItemInstance)
		hostGroup.POST("/equip", h.EquipItem)

		hostGroup.POST("/quests", h.AssignQuest)
		hostGroup.POST("/quests/:id/status", h.UpdateQuestStatus)
		hostGroup.POST("/messages", h.SendSystemMessage)
		hostGroup.POST("/message-templates", h.UpsertMessageTemplate)

		hostGroup.POST("/freeze", h.SetFrozen)
		hostGroup.POST("/currencies", h.UpdateCurrency)
		hostGroup.POST("/resources", h.UpdateResource)
		hostGroup.POST("/reputations", h.UpdateReputation)

		hostGroup.POST("/abilities", h.UpsertAbility)
		hostGroup.DELETE("/abilities/:id", h.RemoveAbility)

		hostGroup.POST("/contacts", h.AddChatContact)
		hostGroup.POST("/friend-requests", h.SendFriendRequest)
		hostGroup.GET("/linkables", h.ListLinkables)
		hostGroup.POST("/chats/:id/messages", h.SendChatMessage)

		hostGroup.GET("/export", h.ExportData)
		hostGroup.POST("/import", h.ImportData)
		hostGroup.GET("/export/templates", h.ExportTemplates)
		hostGroup.POST("/import/templates", h.ImportTemplates)
		hostGroup.GET("/export/log", h.ExportLog)
		hostGroup.POST("/import/log", h.ImportLog)
		hostGroup.GET("/export/chats", h.ExportChats)
		hostGroup.POST("/import/chats", h.ImportChats)
		hostGroup.GET("/export/archive", h.ExportArchive)
		hostGroup.POST("/import/archive", h.ImportArchive)

		hostGroup.GET("/events/search", h.SearchEvents)
		hostGroup.GET("/metrics", h.GetMetrics)
	}

	playerGroup := api.Group("/player", player)
	{
		playerGroup.POST("/equip-request", h.RequestEquip)
		playerGroup.POST("/stats/allocate", h.AllocateStats)
		playerGroup.POST("/messages/:id/choice", h.ChooseMessageOption)
		playerGroup.POST("/friend-requests/:id/accept", h.AcceptFriendRequest)
		playerGroup.GET("/linkables", h.ListLinkables)
		playerGroup.POST("/chats/:id/messages", h.SendChatMessage)
	}

	return r
}
