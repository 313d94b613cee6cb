// Package transport talks to the note server over HTTP and websocket.
// Every call is a single attempt; there is no retry policy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"notesync/internal/note/model"
	"notesync/store"

	"github.com/gorilla/websocket"
)

var (
	ErrNotFound          = errors.New("note not found on server")
	ErrMalformedResponse = errors.New("server returned a malformed note list")
)

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server responded %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server responded %d", e.StatusCode)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
}

// New returns a client for the server at baseURL, e.g. http://localhost:3001.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
		Dialer:     websocket.DefaultDialer,
	}
}

func (c *Client) notesURL() string {
	return c.BaseURL + "/api/notes"
}

func (c *Client) noteURL(id int) string {
	return c.notesURL() + "/" + strconv.Itoa(id)
}

func (c *Client) List(ctx context.Context) ([]store.Note, error) {
	raw, err := c.send(ctx, http.MethodGet, c.notesURL(), nil)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %.64s", ErrMalformedResponse, raw)
	}
	var notes []store.Note
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if notes == nil {
		notes = []store.Note{}
	}
	return notes, nil
}

func (c *Client) Get(ctx context.Context, id int) (store.Note, error) {
	var note store.Note
	err := c.do(ctx, http.MethodGet, c.noteURL(id), nil, &note)
	return note, err
}

// Create sends content and importance only; the server assigns the id.
func (c *Client) Create(ctx context.Context, req model.CreateNoteRequest) (store.Note, error) {
	var note store.Note
	err := c.do(ctx, http.MethodPost, c.notesURL(), req, &note)
	return note, err
}

// Update replaces the note stored under id with note.
func (c *Client) Update(ctx context.Context, id int, note store.Note) (store.Note, error) {
	var updated store.Note
	err := c.do(ctx, http.MethodPut, c.noteURL(id), note, &updated)
	return updated, err
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, c.noteURL(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	payload, err := c.send(ctx, method, url, body)
	if err != nil {
		return err
	}
	if out == nil || len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, url, err)
	}
	return nil
}

// send performs one request and returns the body of a 2xx response.
func (c *Client) send(ctx context.Context, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s: %w", method, url, err)
	}
	return payload, nil
}

func errorMessage(body io.Reader) string {
	var resp model.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, 4096)).Decode(&resp); err != nil {
		return ""
	}
	return resp.Error
}
