package model

import "notesync/store"

const (
	NoteCreatedType = "NOTE_CREATED"
	NoteUpdatedType = "NOTE_UPDATED"
	NoteDeletedType = "NOTE_DELETED"
	SnapshotType    = "NOTES_SNAPSHOT"
)

type CreateNoteRequest struct {
	Content   string `json:"content"`
	Important *bool  `json:"important,omitempty"`
}

type UpdateNoteRequest struct {
	ID        int    `json:"id"`
	Content   string `json:"content"`
	Important bool   `json:"important"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// NoteEvent describes a committed change to the server collection.
// For deletions only Note.ID is meaningful. Snapshots carry the whole
// collection in Notes and are sent once to each new subscriber.
type NoteEvent struct {
	Type  string       `json:"type"`
	Note  store.Note   `json:"note"`
	Notes []store.Note `json:"notes,omitempty"`
}
