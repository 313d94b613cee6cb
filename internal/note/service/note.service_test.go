package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"notesync/internal/note/model"
	"notesync/internal/note/repository"
	"notesync/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.NoteEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev model.NoteEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newService(pub EventPublisher) *NoteService {
	return NewNoteService(repository.NewNoteRepository(store.SeedNotes()), pub)
}

func TestCreate(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)
	important := true

	note, err := svc.Create(context.Background(), model.CreateNoteRequest{Content: "new", Important: &important})
	require.NoError(t, err)
	assert.Equal(t, store.Note{ID: 4, Content: "new", Important: true}, note)
	assert.Len(t, svc.List(), 4)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.NoteCreatedType, pub.events[0].Type)
	assert.Equal(t, note, pub.events[0].Note)
}

func TestCreateDefaultsImportantToFalse(t *testing.T) {
	svc := newService(nil)
	note, err := svc.Create(context.Background(), model.CreateNoteRequest{Content: "plain"})
	require.NoError(t, err)
	assert.False(t, note.Important)
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)

	_, err := svc.Create(context.Background(), model.CreateNoteRequest{})
	assert.ErrorIs(t, err, ErrContentMissing)
	assert.Len(t, svc.List(), 3)
	assert.Empty(t, pub.events)
}

func TestGet(t *testing.T) {
	svc := newService(nil)

	note, err := svc.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "HTML is easy", note.Content)

	_, err = svc.Get(10)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdate(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)

	note, err := svc.Update(context.Background(), 2, model.UpdateNoteRequest{ID: 7, Content: "Browser can execute only JavaScript", Important: true})
	require.NoError(t, err)
	assert.Equal(t, 2, note.ID, "path id wins over body id")
	assert.True(t, note.Important)
	require.Len(t, pub.events, 1)
	assert.Equal(t, model.NoteUpdatedType, pub.events[0].Type)

	_, err = svc.Update(context.Background(), 9, model.UpdateNoteRequest{Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(context.Background(), 1, model.UpdateNoteRequest{})
	assert.ErrorIs(t, err, ErrContentMissing)
}

func TestDeleteIsIdempotent(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)

	svc.Delete(context.Background(), 1)
	svc.Delete(context.Background(), 1)
	assert.Len(t, svc.List(), 2)
	require.Len(t, pub.events, 1, "only the effective delete is published")
	assert.Equal(t, model.NoteDeletedType, pub.events[0].Type)
	assert.Equal(t, 1, pub.events[0].Note.ID)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	svc := newService(&recordingPublisher{err: errors.New("bus closed")})
	_, err := svc.Create(context.Background(), model.CreateNoteRequest{Content: "still saved"})
	require.NoError(t, err)
	assert.Len(t, svc.List(), 4)
}

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []model.NoteEvent
	require.NoError(t, bus.Consume(ctx, func(ev model.NoteEvent) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, ev)
	}))

	svc := newService(bus)
	_, err := svc.Create(ctx, model.CreateNoteRequest{Content: "one"})
	require.NoError(t, err)
	svc.Delete(ctx, 4)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, model.NoteCreatedType, got[0].Type)
	assert.Equal(t, model.NoteDeletedType, got[1].Type)
	assert.Equal(t, 4, got[1].Note.ID)
}

func TestConcurrentUpdatesPublishInCommitOrder(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newService(pub)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Update(context.Background(), 1, model.UpdateNoteRequest{Content: fmt.Sprintf("rev %d", i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stored, err := svc.Get(1)
	require.NoError(t, err)
	require.Len(t, pub.events, 50)
	assert.Equal(t, stored, pub.events[len(pub.events)-1].Note, "last event carries the committed value")
}
