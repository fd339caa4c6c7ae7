package signaling

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID string) *Client {
	return &Client{
		UserID: userID,
		send:   make(chan []byte, 8),
	}
}

func recvMessage(t *testing.T, c *Client) *SignalMessage {
	t.Helper()
	select {
	case data := <-c.send:
		var msg SignalMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	default:
		t.Fatal("expected a message, got none")
		return nil
	}
}

func TestJoinNotifiesPeers(t *testing.T) {
	hub := NewHub()
	first := newTestClient("provider-1")
	second := newTestClient("patient-1")

	hub.Join(first, "appt-123")
	hub.Join(second, "appt-123")

	msg := recvMessage(t, first)
	assert.Equal(t, MessageUserJoined, msg.Type)
	assert.Equal(t, "patient-1", msg.From)
	assert.Equal(t, "appt-123", msg.RoomID)

	// The joiner gets no echo of its own join.
	assert.Empty(t, second.send)
}

func TestRelayReachesOnlyRoomPeers(t *testing.T) {
	hub := NewHub()
	sender := newTestClient("provider-1")
	peer := newTestClient("patient-1")
	outsider := newTestClient("patient-2")

	hub.Join(sender, "appt-123")
	hub.Join(peer, "appt-123")
	hub.Join(outsider, "appt-456")

	// Drain the join notification.
	<-sender.send

	hub.Relay(sender, &SignalMessage{
		Type:    MessageSignal,
		Payload: json.RawMessage(`{"sdp":"offer"}`),
	})

	msg := recvMessage(t, peer)
	assert.Equal(t, MessageSignal, msg.Type)
	assert.Equal(t, "provider-1", msg.From)
	assert.JSONEq(t, `{"sdp":"offer"}`, string(msg.Payload))

	assert.Empty(t, sender.send)
	assert.Empty(t, outsider.send)
}

func TestLeaveNotifiesRemainingPeers(t *testing.T) {
	hub := NewHub()
	leaving := newTestClient("patient-1")
	staying := newTestClient("provider-1")

	hub.Join(leaving, "appt-123")
	hub.Join(staying, "appt-123")
	<-leaving.send

	hub.Leave(leaving)

	msg := recvMessage(t, staying)
	assert.Equal(t, MessageUserLeft, msg.Type)
	assert.Equal(t, "patient-1", msg.From)

	// The send channel is closed on leave.
	_, open := <-leaving.send
	assert.False(t, open)
}

func TestLeaveIsIdempotent(t *testing.T) {
	hub := NewHub()
	client := newTestClient("patient-1")

	hub.Join(client, "appt-123")
	hub.Leave(client)
	hub.Leave(client)
}
