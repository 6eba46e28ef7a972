package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter registers every route of the viewer on a new router.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.Use(Logging)

	r.HandleFunc("/", h.HandleHome).Methods(http.MethodGet)
	r.HandleFunc("/new", h.HandleNew).Methods(http.MethodGet)
	r.HandleFunc("/api/library", h.HandleLibrary).Methods(http.MethodGet)
	r.HandleFunc("/api/stats", h.HandleStats).Methods(http.MethodGet)
	r.HandleFunc("/sse/{id}", h.HandleSSE).Methods(http.MethodGet)
	r.HandleFunc("/board/{id}.svg", h.HandleBoard).Methods(http.MethodGet)
	r.HandleFunc("/upload/{id}", h.HandleUpload).Methods(http.MethodPost)
	r.HandleFunc("/fetch/{id}", h.HandleFetch).Methods(http.MethodPost)
	r.HandleFunc("/select/{id}", h.HandleSelect).Methods(http.MethodPost)
	r.HandleFunc("/nav/{id}", h.HandleNav).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.HandlePage).Methods(http.MethodGet)
	return r
}
