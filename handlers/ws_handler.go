package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	ws "github.com/studyspacehq/studyspace/websocket"
)

// ServeAvailability keeps a browsing client subscribed to a branch's live
// seat/locker availability until the socket drops.
func ServeAvailability(conn *websocket.Conn) {
	branchID, err := uuid.Parse(conn.Params("branchId"))
	if err != nil {
		conn.WriteJSON(map[string]string{"error": "Invalid branch ID"})
		conn.Close()
		return
	}

	client := &ws.Client{BranchID: branchID, Conn: conn}
	ws.Register <- client
	defer func() {
		ws.Unregister <- client
		conn.Close()
	}()

	// The stream is push-only; reads just detect disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
