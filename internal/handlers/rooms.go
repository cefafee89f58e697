package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"relay-service/internal/relay"
	"relay-service/internal/telemetry"
)

// RoomHandler exposes the relay's room state to server-side callers: the
// room-owning service queries occupancy and triggers teardown here after a
// durable delete.
type RoomHandler struct {
	registry *relay.Registry
	router   *relay.Router
	audit    *telemetry.AuditEmitter
}

// NewRoomHandler builds a RoomHandler.
func NewRoomHandler(registry *relay.Registry, router *relay.Router, audit *telemetry.AuditEmitter) *RoomHandler {
	return &RoomHandler{registry: registry, router: router, audit: audit}
}

// Occupancy returns the number of connections currently joined to the room.
func (h *RoomHandler) Occupancy(c *gin.Context) {
	roomID := c.Param("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"room_id": roomID,
		"count":   h.registry.CountInRoom(roomID),
	})
}

// TearDown broadcasts the room deletion and drops every connection joined to
// the room. Idempotent: tearing down an empty or unknown room succeeds.
func (h *RoomHandler) TearDown(c *gin.Context) {
	roomID := c.Param("room_id")
	if roomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room id"})
		return
	}

	h.router.DeleteRoom(c.Request.Context(), roomID)
	h.audit.Emit(c.Request.Context(), "INFO", "room relay teardown: "+roomID, requestIDFromContext(c), userIDFromContext(c))
	c.Status(http.StatusNoContent)
}
