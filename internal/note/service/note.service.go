package service

import (
	"context"
	"errors"
	"sync"

	"notesync/internal/note/model"
	"notesync/internal/note/repository"
	"notesync/pkg/logger"
	"notesync/store"
)

var (
	ErrNotFound       = errors.New("note not found")
	ErrContentMissing = errors.New("content missing")
)

// EventPublisher receives every committed change to the collection.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.NoteEvent) error
}

type NoteService struct {
	Repo   *repository.NoteRepository
	Events EventPublisher

	// writeMu serializes mutation and publish so events leave in commit order.
	writeMu sync.Mutex
}

func NewNoteService(repo *repository.NoteRepository, events EventPublisher) *NoteService {
	return &NoteService{Repo: repo, Events: events}
}

func (s *NoteService) List() []store.Note {
	return s.Repo.All()
}

func (s *NoteService) Get(id int) (store.Note, error) {
	note, ok := s.Repo.Get(id)
	if !ok {
		return store.Note{}, ErrNotFound
	}
	return note, nil
}

func (s *NoteService) Create(ctx context.Context, req model.CreateNoteRequest) (store.Note, error) {
	if req.Content == "" {
		return store.Note{}, ErrContentMissing
	}
	important := false
	if req.Important != nil {
		important = *req.Important
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	note := s.Repo.Create(req.Content, important)
	s.publish(ctx, model.NoteCreatedType, note)
	return note, nil
}

func (s *NoteService) Update(ctx context.Context, id int, req model.UpdateNoteRequest) (store.Note, error) {
	if req.Content == "" {
		return store.Note{}, ErrContentMissing
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	note, ok := s.Repo.Update(store.Note{ID: id, Content: req.Content, Important: req.Important})
	if !ok {
		return store.Note{}, ErrNotFound
	}
	s.publish(ctx, model.NoteUpdatedType, note)
	return note, nil
}

// Delete is idempotent: removing an absent note is not an error.
func (s *NoteService) Delete(ctx context.Context, id int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.Repo.Delete(id) {
		s.publish(ctx, model.NoteDeletedType, store.Note{ID: id})
	}
}

// publish never fails the request; the collection change is already committed.
func (s *NoteService) publish(ctx context.Context, eventType string, note store.Note) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, model.NoteEvent{Type: eventType, Note: note}); err != nil {
		logger.Sugar.Errorf("Failed to publish %s for note %d: %v", eventType, note.ID, err)
	}
}
