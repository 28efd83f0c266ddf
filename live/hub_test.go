package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRoomNames(t *testing.T) {
	assert.Equal(t, "court_3", CourtRoom(3))
	assert.Equal(t, "tournament_12", TournamentRoom(12))
	assert.Equal(t, "courts", CourtsRoom)
}

func TestBroadcastToRoom_DeliversToCourtSubscriber(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil, CourtRoom(7))
	hub.rooms[client.room] = map[*Client]bool{client: true}

	hub.BroadcastToRoom(CourtRoom(7), Message{
		Type:    "RESERVATION_CREATED",
		Payload: map[string]int{"court_id": 7},
	})

	select {
	case data := <-client.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "RESERVATION_CREATED", msg.Type)
		assert.Equal(t, "court_7", msg.Room)
	default:
		t.Fatal("no message delivered to court room subscriber")
	}
}

func TestBroadcastToRoom_OtherRoomNotDelivered(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil, CourtRoom(7))
	hub.rooms[client.room] = map[*Client]bool{client: true}

	hub.BroadcastToRoom(CourtRoom(8), Message{Type: "RESERVATION_CREATED"})

	select {
	case <-client.send:
		t.Fatal("message leaked into an unrelated room")
	default:
	}
}

func TestBroadcastToRoom_EmptyRoomIsNoop(t *testing.T) {
	hub := newTestHub()
	hub.BroadcastToRoom(CourtRoom(1), Message{Type: "RESERVATION_CANCELED"})
}

func TestBroadcastToRoom_SlowClientSkipped(t *testing.T) {
	hub := newTestHub()
	client := NewClient(hub, nil, CourtsRoom)
	hub.rooms[client.room] = map[*Client]bool{client: true}

	for i := 0; i < cap(client.send)+3; i++ {
		hub.BroadcastToRoom(CourtsRoom, Message{Type: "COURT_STATUS"})
	}
	assert.Len(t, client.send, cap(client.send))
}
