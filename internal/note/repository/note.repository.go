package repository

import (
	"sync"

	"notesync/pkg/logger"
	"notesync/store"
)

// NoteRepository owns the in-memory note collection. Each method is atomic
// with respect to the others.
type NoteRepository struct {
	mu     sync.Mutex
	notes  []store.Note
	lastID int
}

func NewNoteRepository(seed []store.Note) *NoteRepository {
	r := &NoteRepository{notes: make([]store.Note, 0, len(seed))}
	for _, n := range seed {
		r.notes = append(r.notes, n)
		if n.ID > r.lastID {
			r.lastID = n.ID
		}
	}
	return r
}

func (r *NoteRepository) All() []store.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]store.Note, len(r.notes))
	copy(out, r.notes)
	return out
}

func (r *NoteRepository) Get(id int) (store.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.notes[i], true
	}
	return store.Note{}, false
}

// Create appends a note under the next id: one more than the largest id
// ever issued, so ids freed by Delete are not handed out again.
func (r *NoteRepository) Create(content string, important bool) store.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID = max(r.lastID, r.maxID()) + 1
	note := store.Note{ID: r.lastID, Content: content, Important: important}
	r.notes = append(r.notes, note)
	logger.Sugar.Debugf("Created note %d", note.ID)
	return note
}

// Update replaces the stored note with the same id. It reports false when
// no such note exists.
func (r *NoteRepository) Update(note store.Note) (store.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(note.ID)
	if i < 0 {
		return store.Note{}, false
	}
	r.notes[i] = note
	return note, true
}

// Delete removes the note with the given id and reports whether it existed.
func (r *NoteRepository) Delete(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return false
	}
	r.notes = append(r.notes[:i:i], r.notes[i+1:]...)
	return true
}

func (r *NoteRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func (r *NoteRepository) indexOf(id int) int {
	for i, n := range r.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (r *NoteRepository) maxID() int {
	m := 0
	for _, n := range r.notes {
		m = max(m, n.ID)
	}
	return m
}
