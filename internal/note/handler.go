package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"notesync/internal/note/model"
	"notesync/internal/note/service"
	"notesync/pkg/logger"
)

type NoteHandler struct {
	Service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{Service: service}
}

func (h *NoteHandler) GetNotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.List())
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	note, err := h.Service.Get(id)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req model.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	note, err := h.Service.Create(r.Context(), req)
	if errors.Is(err, service.ErrContentMissing) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		logger.Sugar.Errorf("Handler: Failed to create note: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, ok := noteID(r)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	var req model.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON")
		return
	}

	note, err := h.Service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, service.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		return
	case errors.Is(err, service.ErrContentMissing):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		logger.Sugar.Errorf("Handler: Failed to update note %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if id, ok := noteID(r); ok {
		h.Service.Delete(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// noteID parses the {id} path segment. Non-numeric ids match no note.
func noteID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Handler: Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}
