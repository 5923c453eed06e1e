package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"presencebot/internal/services"
)

type PresenceHandler struct {
	presence *services.PresenceService
}

func NewPresenceHandler(presence *services.PresenceService) *PresenceHandler {
	return &PresenceHandler{presence: presence}
}

// GET /healthz
func (h *PresenceHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"discordReady": h.presence.Ready(),
		"now":          time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/presence
func (h *PresenceHandler) GetPresence(c *gin.Context) {
	if !h.presence.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "discord_not_ready"})
		return
	}
	snap, err := h.presence.Snapshot(c.Request.Context())
	if err != nil {
		log.Printf("[presence][get][err] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, snap)
}
