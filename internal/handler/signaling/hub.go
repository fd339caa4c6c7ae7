package signaling

import (
	"encoding/json"
	"sync"
)

// SignalMessage is the envelope relayed between peers in a consultation
// room. Payload is opaque to the server: SDP offers, answers and ICE
// candidates pass through untouched.
type SignalMessage struct {
	Type    string          `json:"type"`
	RoomID  string          `json:"room_id"`
	From    string          `json:"from,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Client message types.
const (
	MessageJoinRoom   = "join-room"
	MessageSignal     = "signal"
	MessageUserJoined = "user-joined"
	MessageUserLeft   = "user-left"
)

// Hub tracks consultation rooms, one per appointment. The server only
// relays; no media or signaling state is stored.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join adds a client to a room and notifies the peers already in it.
func (h *Hub) Join(client *Client, roomID string) {
	h.mu.Lock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][client] = struct{}{}
	client.roomID = roomID
	h.mu.Unlock()

	h.broadcast(client, &SignalMessage{
		Type:   MessageUserJoined,
		RoomID: roomID,
		From:   client.UserID,
	})
}

// Leave removes a client from its room and closes its send channel.
// Safe to call more than once.
func (h *Hub) Leave(client *Client) {
	h.mu.Lock()
	if client.left {
		h.mu.Unlock()
		return
	}
	client.left = true

	roomID := client.roomID
	if peers, ok := h.rooms[roomID]; ok {
		delete(peers, client)
		if len(peers) == 0 {
			delete(h.rooms, roomID)
		}
	}
	close(client.send)
	h.mu.Unlock()

	if roomID != "" {
		h.broadcast(client, &SignalMessage{
			Type:   MessageUserLeft,
			RoomID: roomID,
			From:   client.UserID,
		})
	}
}

// Relay forwards a signaling payload to every other peer in the
// sender's room.
func (h *Hub) Relay(sender *Client, msg *SignalMessage) {
	msg.From = sender.UserID
	msg.RoomID = sender.roomID
	h.broadcast(sender, msg)
}

func (h *Hub) broadcast(sender *Client, msg *SignalMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for peer := range h.rooms[sender.roomID] {
		if peer == sender {
			continue
		}
		select {
		case peer.send <- data:
		default:
			// Slow peer, drop the message rather than block the room.
		}
	}
}
