package router

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"notesync/internal/note/repository"
	"notesync/internal/note/service"
	"notesync/middleware"
	"notesync/socket"
	"notesync/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*httptest.Server, *service.NoteService) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>notes app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log('app')"), 0o644))

	svc := service.NewNoteService(repository.NewNoteRepository(store.SeedNotes()), nil)
	hub := socket.NewHub(svc.List)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	server := httptest.NewServer(Setup(svc, hub, dir))
	t.Cleanup(func() {
		server.Close()
		cancel()
	})
	return server, svc
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestListNotes(t *testing.T) {
	server, _ := setupServer(t)

	resp := do(t, http.MethodGet, server.URL+"/api/notes", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	assert.Equal(t, store.SeedNotes(), decode[[]store.Note](t, resp))
}

func TestGetNote(t *testing.T) {
	server, _ := setupServer(t)

	resp := do(t, http.MethodGet, server.URL+"/api/notes/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Browser can execute only JavaScript", decode[store.Note](t, resp).Content)

	for _, id := range []string{"99", "abc"} {
		resp = do(t, http.MethodGet, server.URL+"/api/notes/"+id, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, id)
	}
}

func TestCreateNote(t *testing.T) {
	server, _ := setupServer(t)

	resp := do(t, http.MethodPost, server.URL+"/api/notes", `{"content":"new","important":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, store.Note{ID: 4, Content: "new", Important: false}, decode[store.Note](t, resp))

	resp = do(t, http.MethodGet, server.URL+"/api/notes", "")
	assert.Len(t, decode[[]store.Note](t, resp), 4)
}

func TestCreateNoteContentMissing(t *testing.T) {
	server, svc := setupServer(t)

	for _, body := range []string{`{}`, `{"content":""}`, `{"important":true}`} {
		resp := do(t, http.MethodPost, server.URL+"/api/notes", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
		assert.Equal(t, map[string]string{"error": "content missing"}, decode[map[string]string](t, resp))
	}
	assert.Len(t, svc.List(), 3)

	resp := do(t, http.MethodPost, server.URL+"/api/notes", `{"content":`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateNote(t *testing.T) {
	server, _ := setupServer(t)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		resp := do(t, method, server.URL+"/api/notes/2", `{"id":2,"content":"Browser can execute only JavaScript","important":true}`)
		require.Equal(t, http.StatusOK, resp.StatusCode, method)
		assert.True(t, decode[store.Note](t, resp).Important)
	}

	resp := do(t, http.MethodPut, server.URL+"/api/notes/42", `{"id":42,"content":"gone","important":true}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteNoteIsIdempotent(t *testing.T) {
	server, svc := setupServer(t)

	for i := 0; i < 2; i++ {
		resp := do(t, http.MethodDelete, server.URL+"/api/notes/1", "")
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	}
	resp := do(t, http.MethodDelete, server.URL+"/api/notes/404", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, svc.List(), 2)
}

func TestSPAFallback(t *testing.T) {
	server, _ := setupServer(t)

	for _, p := range []string{"/", "/notes/important", "/api/unknown"} {
		resp := do(t, http.MethodGet, server.URL+p, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, p)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "notes app", p)
	}

	resp := do(t, http.MethodGet, server.URL+"/app.js", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "console.log('app')", string(body))
}

func TestCORSPreflight(t *testing.T) {
	server, _ := setupServer(t)

	resp := do(t, http.MethodOptions, server.URL+"/api/notes", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRecoverHidesFaultDetail(t *testing.T) {
	h := middleware.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("secret database password leaked")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}
