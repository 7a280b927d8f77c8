package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/priyank071/scooty-rental/internal/services"
)

// WebSocketHandler attaches an authenticated client to the event hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, userType)
	}
}
