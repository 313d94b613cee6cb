package socket

import (
	"context"
	"encoding/json"

	"notesync/internal/note/model"
	"notesync/pkg/logger"
	"notesync/store"
)

// Hub fans note events out to every connected websocket client.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan model.NoteEvent
	Register   chan *Client
	Unregister chan *Client
	// Snapshot supplies the collection sent to a client when it joins.
	Snapshot func() []store.Note
	done     chan struct{}
}

func NewHub(snapshot func() []store.Note) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan model.NoteEvent, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Snapshot:   snapshot,
		done:       make(chan struct{}),
	}
}

// Publish queues ev for broadcast. It matches the signature expected by the
// event bus consumer.
func (h *Hub) Publish(ev model.NoteEvent) {
	select {
	case h.Broadcast <- ev:
	case <-h.done:
	}
}

func (h *Hub) register(c *Client) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregister(c *Client) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// Run owns the client set; it must be the only goroutine touching it.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.Register:
			h.clients[client] = true
			if h.Snapshot != nil {
				h.send(client, model.NoteEvent{Type: model.SnapshotType, Notes: h.Snapshot()})
			}
			logger.Sugar.Infof("Subscriber %s connected (%d total)", client.ID, len(h.clients))

		case client := <-h.Unregister:
			if h.clients[client] {
				h.remove(client)
				logger.Sugar.Infof("Subscriber %s disconnected (%d total)", client.ID, len(h.clients))
			}

		case ev := <-h.Broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				logger.Sugar.Errorf("Error marshalling broadcast message: %v", err)
				continue
			}
			for client := range h.clients {
				select {
				case client.Send <- payload:
				default:
					// A lagging client would block everyone else.
					logger.Sugar.Warnf("Subscriber %s's send buffer is full. Dropping it.", client.ID)
					h.remove(client)
				}
			}
		}
	}
}

func (h *Hub) send(client *Client, ev model.NoteEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logger.Sugar.Errorf("Error marshalling %s: %v", ev.Type, err)
		return
	}
	select {
	case client.Send <- payload:
	default:
		logger.Sugar.Warnf("Subscriber %s's send buffer was full during %s.", client.ID, ev.Type)
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.Send)
}
