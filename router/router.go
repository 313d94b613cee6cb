package router

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	noteHandler "notesync/internal/note"
	"notesync/internal/note/service"
	"notesync/middleware"
	"notesync/socket"
)

func Setup(noteService *service.NoteService, hub *socket.Hub, staticDir string) http.Handler {
	mux := http.NewServeMux()

	// WebSocket
	mux.HandleFunc("GET /ws", func(w http.ResponseWriter, r *http.Request) {
		socket.ServeWs(hub, w, r)
	})

	// REST API
	notes := noteHandler.NewNoteHandler(noteService)

	mux.HandleFunc("GET /api/notes", notes.GetNotes)
	mux.HandleFunc("POST /api/notes", notes.CreateNote)
	mux.HandleFunc("GET /api/notes/{id}", notes.GetNote)
	mux.HandleFunc("PUT /api/notes/{id}", notes.UpdateNote)
	mux.HandleFunc("PATCH /api/notes/{id}", notes.UpdateNote)
	mux.HandleFunc("DELETE /api/notes/{id}", notes.DeleteNote)

	// Frontend, after all API routes.
	mux.Handle("GET /", SPAHandler(staticDir))

	return middleware.RequestID(middleware.Logging(middleware.Recover(middleware.CORSMiddleware(mux))))
}

// SPAHandler serves files from dir and falls back to dir/index.html for any
// path that does not name an existing file.
func SPAHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	index := filepath.Join(dir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := path.Clean("/" + r.URL.Path)
		if name != "/" && !strings.HasSuffix(name, "/") {
			if info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name))); err == nil && !info.IsDir() {
				files.ServeHTTP(w, r)
				return
			}
		}
		http.ServeFile(w, r, index)
	})
}
