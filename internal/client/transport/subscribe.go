package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"notesync/internal/note/model"

	"github.com/gorilla/websocket"
)

func (c *Client) wsURL() string {
	switch {
	case strings.HasPrefix(c.BaseURL, "https://"):
		return "wss://" + strings.TrimPrefix(c.BaseURL, "https://") + "/ws"
	case strings.HasPrefix(c.BaseURL, "http://"):
		return "ws://" + strings.TrimPrefix(c.BaseURL, "http://") + "/ws"
	}
	return c.BaseURL + "/ws"
}

// Subscribe streams note events from the server to handle until ctx is
// cancelled or the connection drops. A cancelled ctx is not an error.
func (c *Client) Subscribe(ctx context.Context, handle func(model.NoteEvent)) error {
	conn, _, err := c.Dialer.DialContext(ctx, c.wsURL(), nil)
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("subscribe: %w", err)
		}
		var ev model.NoteEvent
		if err := json.Unmarshal(payload, &ev); err != nil {
			return fmt.Errorf("subscribe: decode event: %w", err)
		}
		handle(ev)
	}
}
