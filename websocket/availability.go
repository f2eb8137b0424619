package websocket

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Browsing clients watch a branch's seat/locker map; reservations and
// releases are pushed to them so stale selections are retried early rather
// than at reserve time.
type Client struct {
	BranchID uuid.UUID
	Conn     *websocket.Conn
}

type AvailabilityEvent struct {
	BranchID     uuid.UUID `json:"branch_id"`
	ResourceType string    `json:"resource_type"` // seat | locker
	ResourceID   uuid.UUID `json:"resource_id"`
	Occupied     bool      `json:"occupied"`
}

var watchers = make(map[uuid.UUID]map[*websocket.Conn]bool)
var watchersMu sync.RWMutex

var Register = make(chan *Client)
var Unregister = make(chan *Client)
var Broadcast = make(chan AvailabilityEvent, 64)

func RunHub() {
	for {
		select {
		case client := <-Register:
			watchersMu.Lock()
			if watchers[client.BranchID] == nil {
				watchers[client.BranchID] = make(map[*websocket.Conn]bool)
			}
			watchers[client.BranchID][client.Conn] = true
			watchersMu.Unlock()
		case client := <-Unregister:
			watchersMu.Lock()
			if conns, ok := watchers[client.BranchID]; ok {
				delete(conns, client.Conn)
				if len(conns) == 0 {
					delete(watchers, client.BranchID)
				}
			}
			watchersMu.Unlock()
		case event := <-Broadcast:
			watchersMu.RLock()
			var dead []*websocket.Conn
			for conn := range watchers[event.BranchID] {
				if err := conn.WriteJSON(event); err != nil {
					log.Printf("Error pushing availability to watcher: %v", err)
					dead = append(dead, conn)
				}
			}
			watchersMu.RUnlock()

			if len(dead) > 0 {
				watchersMu.Lock()
				for _, conn := range dead {
					conn.Close()
					delete(watchers[event.BranchID], conn)
				}
				watchersMu.Unlock()
			}
		}
	}
}

// NotifyResourceChange publishes without blocking the booking path.
func NotifyResourceChange(branchID uuid.UUID, resourceType string, resourceID uuid.UUID, occupied bool) {
	select {
	case Broadcast <- AvailabilityEvent{
		BranchID:     branchID,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Occupied:     occupied,
	}:
	default:
		log.Println("⚠️ Availability broadcast buffer full, dropping event")
	}
}
