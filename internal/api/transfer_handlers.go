// internal/api/transfer_handlers.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
	"github.com/Noty-chan/aether-journal/internal/models"
	"github.com/Noty-chan/aether-journal/internal/storage"
)

const maxImportBody = 64 << 20

// readBody returns the raw request body, bounded by maxImportBody.
func (h *Handler) readBody(c *gin.Context) ([]byte, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBody)
	raw, err := c.GetRawData()
	if err != nil {
		h.rh.BadRequest(c, "Failed to read request body", err.Error())
		return nil, false
	}
	return raw, true
}

// runImport replaces part of the store while no intent runs. When the
// event log changed, observers are disconnected so they replay.
func (h *Handler) runImport(c *gin.Context, what string, logChanged bool, fn func() error) {
	if err := h.coordinator.Exclusive(fn); err != nil {
		h.rh.FromError(c, err)
		return
	}
	h.logger.Info("Import applied", map[string]interface{}{"what": what, "last_seq": h.repo.LastSeq()})
	if logChanged {
		h.ws.Resync("event log replaced")
	}
	h.rh.Success(c, gin.H{"status": "ok"})
}

// ExportData returns the whole store document.
func (h *Handler) ExportData(c *gin.Context) {
	raw, err := h.repo.ExportData()
	if err != nil {
		h.rh.FromError(c, err)
		return
	}
	h.rh.Success(c, json.RawMessage(raw))
}

// ImportData replaces the whole store.
func (h *Handler) ImportData(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	h.runImport(c, "data", true, func() error { return h.repo.ImportData(raw) })
}

// ExportTemplates returns the template catalogs.
func (h *Handler) ExportTemplates(c *gin.Context) {
	h.rh.Success(c, h.repo.ExportTemplates())
}

// ImportTemplates replaces the template catalogs.
func (h *Handler) ImportTemplates(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	h.runImport(c, "templates", false, func() error { return h.repo.ImportTemplates(raw) })
}

// ExportLog returns the event log.
func (h *Handler) ExportLog(c *gin.Context) {
	h.rh.Success(c, h.repo.ExportLog())
}

// ImportLog replaces the event log.
func (h *Handler) ImportLog(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	h.runImport(c, "log", true, func() error { return h.repo.ImportLog(raw) })
}

// ExportChats returns contacts, threads and friend requests.
func (h *Handler) ExportChats(c *gin.Context) {
	h.rh.Success(c, h.repo.ExportChats())
}

// ImportChats replaces contacts, threads and friend requests.
func (h *Handler) ImportChats(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	h.runImport(c, "chats", false, func() error { return h.repo.ImportChats(raw) })
}

// ExportArchive downloads the store as a zstd-compressed document.
func (h *Handler) ExportArchive(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.repo.WriteArchive(&buf); err != nil {
		h.rh.FromError(c, err)
		return
	}
	name := fmt.Sprintf("campaign-%s.json.zst", time.Now().UTC().Format("20060102-150405"))
	h.rh.DownloadResponse(c, buf.Bytes(), name, "application/zstd")
}

// ImportArchive replaces the store from a zstd archive body.
func (h *Handler) ImportArchive(c *gin.Context) {
	raw, ok := h.readBody(c)
	if !ok {
		return
	}
	h.runImport(c, "archive", true, func() error { return h.repo.ReadArchive(bytes.NewReader(raw)) })
}

// SearchEvents queries the SQLite event index.
func (h *Handler) SearchEvents(c *gin.Context) {
	if h.index == nil {
		h.rh.Error(c, http.StatusNotFound, ErrorEventIndexDisabled, "Event index is not enabled")
		return
	}

	query := storage.EventQuery{Actor: c.Query("actor")}
	if raw := c.Query("kind"); raw != "" {
		kind, err := models.ParseEventKind(raw)
		if err != nil {
			h.rh.FromError(c, apperrors.NewValidationError("Unknown event kind", err))
			return
		}
		query.Kind = kind
	}
	afterSeq, ok := parseAfterSeq(c)
	if !ok {
		h.rh.BadRequest(c, "after_seq must be a non-negative integer")
		return
	}
	query.AfterSeq = afterSeq
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 1000 {
			h.rh.BadRequest(c, "limit must be between 1 and 1000")
			return
		}
		query.Limit = limit
	}

	events, err := h.index.Query(c.Request.Context(), query)
	if err != nil {
		h.rh.FromError(c, apperrors.NewProcessingError("event index query failed", err))
		return
	}
	h.rh.Success(c, eventsResponse{Events: events})
}
