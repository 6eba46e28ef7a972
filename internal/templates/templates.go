package templates

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"

	"chessview/internal/logging"
)

//go:embed *.html
var files embed.FS

var (
	mu     sync.RWMutex
	commit = "dev"
	pages  = template.Must(template.ParseFS(files, "*.html"))
)

// SetCommit sets the build commit shown in page footers.
func SetCommit(c string) {
	if c == "" {
		return
	}
	mu.Lock()
	commit = c
	mu.Unlock()
}

// Commit returns the build commit shown in page footers.
func Commit() string {
	mu.RLock()
	defer mu.RUnlock()
	return commit
}

type pageData struct {
	Commit    string
	SessionID string
	Platforms []string
}

// WriteHomeHTML serves the home page template
func WriteHomeHTML(w http.ResponseWriter) {
	write(w, "home.html", pageData{Commit: Commit()})
}

// WriteViewerHTML serves the viewer page for one session
func WriteViewerHTML(w http.ResponseWriter, sessionID string, platforms []string) {
	write(w, "viewer.html", pageData{Commit: Commit(), SessionID: sessionID, Platforms: platforms})
}

func write(w http.ResponseWriter, name string, data pageData) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Errorf("render %s: %v", name, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
