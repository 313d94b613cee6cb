// Package controller keeps the client's view of the notes consistent with
// the server.
//
// Mutations are applied pessimistically: the local list only changes once the
// server has answered. Every reconciliation is keyed by note id against the
// list as it is when the response arrives, never against a copy taken when
// the request was sent, so responses that complete out of order only ever
// touch their own note.
package controller

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"notesync/internal/client/notify"
	"notesync/internal/client/transport"
	"notesync/internal/note/model"
	"notesync/store"

	"go.uber.org/zap"
)

var (
	ErrEmptyContent = errors.New("note content is empty")
	ErrUnknownNote  = errors.New("note is not in the local list")
)

// NoteClient is the part of the transport the controller depends on.
type NoteClient interface {
	List(ctx context.Context) ([]store.Note, error)
	Create(ctx context.Context, req model.CreateNoteRequest) (store.Note, error)
	Update(ctx context.Context, id int, note store.Note) (store.Note, error)
	Delete(ctx context.Context, id int) error
}

type Controller struct {
	client     NoteClient
	notifier   *notify.Notifier
	log        *zap.Logger
	importance func() bool

	mu      sync.Mutex
	notes   []store.Note
	draft   string
	showAll bool
}

type Option func(*Controller)

func WithLogger(log *zap.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func WithNotifier(n *notify.Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithNotifyTimeout sets how long error notifications stay visible.
func WithNotifyTimeout(d time.Duration) Option {
	return func(c *Controller) { c.notifier = notify.New(d) }
}

// WithImportance decides the importance flag of newly created notes.
// The default is a fair coin flip.
func WithImportance(fn func() bool) Option {
	return func(c *Controller) { c.importance = fn }
}

func New(client NoteClient, opts ...Option) *Controller {
	c := &Controller{
		client:     client,
		log:        zap.NewNop(),
		importance: func() bool { return rand.Float64() < 0.5 },
		showAll:    true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = notify.New(notify.DefaultTimeout)
	}
	return c
}

// Load replaces the local list with the server's collection. On any failure
// the list is left empty.
func (c *Controller) Load(ctx context.Context) error {
	notes, err := c.client.List(ctx)
	if err != nil {
		c.setNotes(nil)
		if errors.Is(err, transport.ErrMalformedResponse) {
			c.log.Error("server returned an invalid note list", zap.Error(err))
		} else {
			c.log.Error("failed to load notes", zap.Error(err))
		}
		c.notifier.Show("Failed to load notes")
		return err
	}
	c.setNotes(notes)
	c.log.Debug("loaded notes", zap.Int("count", len(notes)))
	return nil
}

// Create sends a new note with the given content. The server's copy, with
// its assigned id, is added to the list and the draft is cleared.
func (c *Controller) Create(ctx context.Context, content string) (store.Note, error) {
	if content == "" {
		return store.Note{}, ErrEmptyContent
	}

	c.mu.Lock()
	provisional := store.Note{ID: len(c.notes) + 1, Content: content, Important: c.importance()} // placeholder id, never sent
	c.mu.Unlock()

	important := provisional.Important
	created, err := c.client.Create(ctx, model.CreateNoteRequest{Content: provisional.Content, Important: &important})
	if err != nil {
		c.log.Error("failed to add note", zap.String("content", content), zap.Error(err))
		c.notifier.Show("Failed to add note")
		return store.Note{}, err
	}

	c.mu.Lock()
	c.upsertLocked(created)
	c.draft = ""
	c.mu.Unlock()
	return created, nil
}

// Submit creates a note from the current draft.
func (c *Controller) Submit(ctx context.Context) (store.Note, error) {
	return c.Create(ctx, c.Draft())
}

// ToggleImportance flips the importance of the note with the given id on
// the server. If the server rejects the change the note is dropped from the
// local list, since the server no longer vouches for it.
func (c *Controller) ToggleImportance(ctx context.Context, id int) (store.Note, error) {
	note, ok := c.find(id)
	if !ok {
		return store.Note{}, fmt.Errorf("%w: %d", ErrUnknownNote, id)
	}

	changed := note
	changed.Important = !note.Important

	returned, err := c.client.Update(ctx, id, changed)
	if err != nil {
		c.remove(id)
		if errors.Is(err, transport.ErrNotFound) {
			c.log.Warn("note was removed from server", zap.Int("id", id))
			c.notifier.Show(fmt.Sprintf("Note '%s' was already removed from server", note.Content))
		} else {
			c.log.Error("failed to update note", zap.Int("id", id), zap.Error(err))
			c.notifier.Show(fmt.Sprintf("Note '%s' could not be updated", note.Content))
		}
		return store.Note{}, err
	}

	c.mu.Lock()
	c.replaceLocked(id, returned)
	c.mu.Unlock()
	return returned, nil
}

// Delete removes the note on the server and then locally. A note the
// server no longer has counts as deleted.
func (c *Controller) Delete(ctx context.Context, id int) error {
	if err := c.client.Delete(ctx, id); err != nil && !errors.Is(err, transport.ErrNotFound) {
		c.log.Error("failed to delete note", zap.Int("id", id), zap.Error(err))
		c.notifier.Show("Failed to delete note")
		return err
	}
	c.remove(id)
	return nil
}

// Apply folds a server-pushed event into the local list.
func (c *Controller) Apply(ev model.NoteEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev.Type {
	case model.SnapshotType:
		c.notes = append([]store.Note(nil), ev.Notes...)
	case model.NoteCreatedType, model.NoteUpdatedType:
		c.upsertLocked(ev.Note)
	case model.NoteDeletedType:
		c.removeLocked(ev.Note.ID)
	default:
		c.log.Warn("ignoring unknown note event", zap.String("type", ev.Type))
	}
}

// Notes returns a copy of the local list.
func (c *Controller) Notes() []store.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]store.Note(nil), c.notes...)
}

// Visible returns the notes the presentation layer should render: all of
// them, or only the important ones when the filter is on.
func (c *Controller) Visible() []store.Note {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.showAll {
		return append([]store.Note(nil), c.notes...)
	}
	var out []store.Note
	for _, n := range c.notes {
		if n.Important {
			out = append(out, n)
		}
	}
	return out
}

func (c *Controller) ShowAll() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showAll
}

func (c *Controller) ToggleShowAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.showAll = !c.showAll
}

func (c *Controller) SetDraft(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft = s
}

func (c *Controller) Draft() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// Notification is the current transient error message, or "".
func (c *Controller) Notification() string {
	return c.notifier.Message()
}

func (c *Controller) Notifier() *notify.Notifier {
	return c.notifier
}

func (c *Controller) setNotes(notes []store.Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes = append([]store.Note(nil), notes...)
}

func (c *Controller) find(id int) (store.Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range c.notes {
		if n.ID == id {
			return n, true
		}
	}
	return store.Note{}, false
}

func (c *Controller) remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Controller) removeLocked(id int) {
	out := c.notes[:0:0]
	for _, n := range c.notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	c.notes = out
}

// replaceLocked swaps the note with the given id for note. A note that
// disappeared while the request was in flight stays gone.
func (c *Controller) replaceLocked(id int, note store.Note) {
	for i, n := range c.notes {
		if n.ID == id {
			c.notes[i] = note
			return
		}
	}
}

func (c *Controller) upsertLocked(note store.Note) {
	for i, n := range c.notes {
		if n.ID == note.ID {
			c.notes[i] = note
			return
		}
	}
	c.notes = append(c.notes, note)
}
