package competitions

import (
	"log"
	"net/http"

	"api/database"
	"api/models"
	"api/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// LiveUpdates upgrades the connection and streams submission and winner
// events for one competition until the client disconnects.
func LiveUpdates(c *gin.Context) {
	competitionID := c.Param("id")

	var competition models.Competition
	if err := database.DB.First(&competition, "id = ?", competitionID).Error; err != nil {
		respondWithError(c, http.StatusNotFound, ErrCompetitionNotFound)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	realtime.RegisterClient(competitionID, conn)
	defer func() {
		realtime.UnregisterClient(competitionID, conn)
		conn.Close()
	}()

	// Drain client frames; the connection is push-only
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
