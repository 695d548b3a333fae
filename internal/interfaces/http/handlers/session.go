// internal/interfaces/http/handlers/session.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lootportal/lootportal-api/internal/config"
)

const sessionCookie = "session_id"

// sessionID returns the caller's cart session, minting a cookie on first
// contact. The cookie lives as long as the persisted cart does.
func sessionID(c *gin.Context, cfg *config.Config) string {
	id, err := c.Cookie(sessionCookie)
	if err != nil || id == "" {
		id = uuid.New().String()
		c.SetCookie(sessionCookie, id, int(cfg.Cart.TTL.Seconds()), "/", "", cfg.IsProduction(), true)
	}
	return id
}
