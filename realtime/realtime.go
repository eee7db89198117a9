package realtime

import (
	"log"
	"sync"

	"api/models"

	"github.com/gorilla/websocket"
)

// Event types pushed to competition watchers
const (
	EventSubmissionCreated = "submission_created"
	EventSubmissionScored  = "submission_scored"
	EventSubmissionDeleted = "submission_deleted"
	EventWinnersProcessed  = "winners_processed"
)

// Event is pushed to every client watching a competition
type Event struct {
	CompetitionID string             `json:"competition_id"`
	Type          string             `json:"type"`
	Submission    *models.Submission `json:"submission,omitempty"`
	Winners       []models.Winner    `json:"winners,omitempty"`
}

var (
	competitionClients = make(map[string]map[*websocket.Conn]bool) // Map of competition ID to connected clients
	broadcast          = make(chan Event)
	mutex              sync.Mutex
)

// RegisterClient adds a WebSocket client watching a specific competition
func RegisterClient(competitionID string, conn *websocket.Conn) {
	mutex.Lock()
	if competitionClients[competitionID] == nil {
		competitionClients[competitionID] = make(map[*websocket.Conn]bool)
	}
	competitionClients[competitionID][conn] = true
	mutex.Unlock()
}

// UnregisterClient removes a WebSocket client from a specific competition
func UnregisterClient(competitionID string, conn *websocket.Conn) {
	mutex.Lock()
	if clients, exists := competitionClients[competitionID]; exists {
		delete(clients, conn)
		if len(clients) == 0 {
			delete(competitionClients, competitionID)
		}
	}
	mutex.Unlock()
}

// Broadcast sends an event to all clients watching its competition
func Broadcast(event Event) {
	select {
	case broadcast <- event:
	default:
		// No listener draining the channel yet; drop rather than block
	}
}

func handleBroadcast() {
	for event := range broadcast {
		mutex.Lock()
		if clients, exists := competitionClients[event.CompetitionID]; exists {
			for client := range clients {
				if err := client.WriteJSON(event); err != nil {
					log.Printf("WebSocket write error: %v", err)
					client.Close()
					delete(clients, client)
				}
			}
		}
		mutex.Unlock()
	}
}

func init() {
	go handleBroadcast()
}
