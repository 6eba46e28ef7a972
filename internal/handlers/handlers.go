package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"chessview/internal/board"
	"chessview/internal/logging"
	"chessview/internal/replay"
	"chessview/internal/session"
	"chessview/internal/source"
	"chessview/internal/storage"
	"chessview/internal/templates"
)

// maxUpload bounds the size of an uploaded PGN file.
const maxUpload = 8 << 20

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Hub     *session.Hub
	Sources *source.Registry
	Store   *storage.Store

	mu      sync.Mutex
	gameIDs map[string]uuid.UUID
}

// NewHandler creates a new handler instance
func NewHandler(hub *session.Hub, sources *source.Registry, store *storage.Store) *Handler {
	return &Handler{
		Hub:     hub,
		Sources: sources,
		Store:   store,
		gameIDs: make(map[string]uuid.UUID),
	}
}

// HandleHome serves the home page
func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	templates.WriteHomeHTML(w)
}

// HandleNew creates a new viewer session and redirects to it. A
// ?game=<id> query opens a stored game in the new session.
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	target := "/" + uuid.NewString()
	if g := r.URL.Query().Get("game"); g != "" {
		target += "?game=" + url.QueryEscape(g)
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// HandlePage serves the viewer page of a session
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := h.Hub.Get(id)
	if g := r.URL.Query().Get("game"); g != "" {
		h.open(r.Context(), id, s, g)
	} else {
		h.restore(r.Context(), id, s)
	}
	templates.WriteViewerHTML(w, id, h.Sources.Platforms())
}

// open loads a game from the library into s.
func (h *Handler) open(ctx context.Context, sessionID string, s *session.Session, gameID string) {
	gid, err := uuid.Parse(gameID)
	if err != nil {
		return
	}
	g, err := h.Store.LoadGame(ctx, gid)
	if err != nil {
		logging.Debugf("open game %s: %v", gameID, err)
		return
	}
	if err := s.Load(g.Record()); err != nil {
		logging.Warnf("stored game %s does not replay: %v", gameID, err)
		return
	}
	h.track(sessionID, g.ID)
	h.saveCursor(ctx, sessionID, 0)
}

// restore brings back the game and position a session last saved, if
// the session has nothing loaded yet.
func (h *Handler) restore(ctx context.Context, sessionID string, s *session.Session) {
	if _, loaded := s.Record(); loaded {
		return
	}
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	cur, err := h.Store.LoadCursor(ctx, sid)
	if err != nil {
		return
	}
	if err := s.Load(cur.Game.Record()); err != nil {
		logging.Warnf("restore %s: %v", sessionID, err)
		return
	}
	_, _ = s.Navigate(session.OpGoTo, cur.Index)
	h.track(sessionID, cur.GameID)
}

// HandleSSE handles Server-Sent Events for real-time viewer updates
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	s := h.Hub.Get(mux.Vars(r)["id"])

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 16)
	s.AddWatcher(ch)

	s.Mu.Lock()
	initial, _ := json.Marshal(s.StateLocked())
	s.Mu.Unlock()

	_, _ = fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	s.Touch()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	defer s.RemoveWatcher(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// heartbeat
			_, _ = w.Write([]byte("data: {}\n\n"))
			flusher.Flush()
		case msg := <-ch:
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

// HandleUpload loads an uploaded PGN file. Every parsable game in the
// file becomes the game list and the first one is displayed.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := h.Hub.Get(id)
	s.Touch()

	r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
	file, hdr, err := r.FormFile("pgn")
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "missing pgn file"})
		return
	}
	defer file.Close()

	recs, err := source.ReadFile(hdr.Filename, file)
	if err == nil {
		err = s.Load(recs[0])
	}
	if err != nil {
		logging.Debugf("upload %s: %v", id, err)
		msg := source.UserMessage(err)
		s.Notify(session.MessageError, msg)
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": msg, "state": s.State()})
		return
	}
	s.SetGames(recs)
	s.Notify(session.MessageSuccess, "PGN loaded successfully!")

	h.remember(r.Context(), id, recs[0])
	for _, rec := range recs[1:] {
		h.persist(r.Context(), rec)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": s.State()})
}

// HandleFetch loads the recent games of a user. Only the most recent
// fetch of a session may replace its game list; the displayed game is
// kept whatever the outcome.
func (h *Handler) HandleFetch(w http.ResponseWriter, r *http.Request) {
	s := h.Hub.Get(mux.Vars(r)["id"])

	var body session.FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	s.Touch()

	token := s.BeginFetch()
	s.Notify(session.MessageLoading, "Fetching games...")

	games, err := h.Sources.Fetch(r.Context(), body.Platform, strings.TrimSpace(body.Username))
	if err != nil {
		msg := source.UserMessage(err)
		logging.Infof("fetch %s/%s: %v", body.Platform, body.Username, err)
		if s.Latest(token) {
			s.Notify(session.MessageError, msg)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": msg, "state": s.State()})
		return
	}

	if !s.CompleteFetch(token, games) {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "superseded by a newer request"})
		return
	}
	s.Notify(session.MessageSuccess, fmt.Sprintf("Found %d games", len(games)))

	for _, rec := range games {
		h.persist(r.Context(), rec)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": s.State()})
}

// HandleSelect loads a game from the session's list
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := h.Hub.Get(id)

	var body session.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	s.Touch()

	rec, err := s.Select(body.Index)
	if err != nil {
		msg := err.Error()
		if !errors.Is(err, session.ErrNoSuchGame) {
			msg = source.UserMessage(err)
			s.Notify(session.MessageError, msg)
		}
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": msg, "state": s.State()})
		return
	}
	h.remember(r.Context(), id, rec)
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": s.State()})
}

// HandleNav moves the session's cursor
func (h *Handler) HandleNav(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s := h.Hub.Get(id)

	var body session.NavRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	s.Touch()

	moved, err := s.Navigate(body.Op, body.Index)
	if err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": err.Error()})
		return
	}
	if moved {
		h.saveCursor(r.Context(), id, s.Index())
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "moved": moved, "state": s.State()})
}

// HandleBoard renders the displayed position as SVG
func (h *Handler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	s, ok := h.Hub.Lookup(mux.Vars(r)["id"])
	if !ok {
		http.NotFound(w, r)
		return
	}
	opts := board.Options{Flip: r.URL.Query().Get("flip") == "1"}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.Board.Render(w, opts); err != nil {
		logging.Errorf("render board %s: %v", s.ID, err)
	}
}

// LibraryEntry is a stored game as listed on the home page
type LibraryEntry struct {
	ID       string `json:"id"`
	White    string `json:"white"`
	Black    string `json:"black"`
	Result   string `json:"result"`
	Event    string `json:"event"`
	Date     string `json:"date"`
	Platform string `json:"platform"`
	Plies    int    `json:"plies"`
}

// HandleLibrary lists recently imported games
func (h *Handler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	games, err := h.Store.RecentGames(r.Context(), 20)
	if err != nil {
		logging.Errorf("recent games: %v", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "storage unavailable"})
		return
	}
	out := make([]LibraryEntry, 0, len(games))
	for _, g := range games {
		out = append(out, LibraryEntry{
			ID:       g.ID.String(),
			White:    g.White,
			Black:    g.Black,
			Result:   g.Result,
			Event:    g.Event,
			Date:     g.Date,
			Platform: g.Platform,
			Plies:    g.Plies,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "games": out})
}

// HandleStats returns storage counts
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.FetchStats(r.Context())
	if err != nil {
		logging.Errorf("stats: %v", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": "storage unavailable"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "stats": stats})
}

// persist stores rec in the library and returns its id.
func (h *Handler) persist(ctx context.Context, rec source.GameRecord) (uuid.UUID, bool) {
	if h.Store == nil {
		return uuid.Nil, false
	}
	seq, err := replay.FromPGN(rec.PGN)
	if err != nil {
		return uuid.Nil, false
	}
	gid, err := h.Store.SaveGame(ctx, rec, seq.Plies())
	if err != nil {
		logging.Warnf("save game %s: %v", rec.Title(), err)
		return uuid.Nil, false
	}
	return gid, true
}

// remember persists the game a session just loaded and records its
// starting cursor.
func (h *Handler) remember(ctx context.Context, sessionID string, rec source.GameRecord) {
	gid, ok := h.persist(ctx, rec)
	if !ok {
		return
	}
	h.track(sessionID, gid)
	h.saveCursor(ctx, sessionID, 0)
}

func (h *Handler) track(sessionID string, gameID uuid.UUID) {
	h.mu.Lock()
	h.gameIDs[sessionID] = gameID
	h.mu.Unlock()
}

func (h *Handler) saveCursor(ctx context.Context, sessionID string, index int) {
	h.mu.Lock()
	gid, ok := h.gameIDs[sessionID]
	h.mu.Unlock()
	if !ok {
		return
	}
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return
	}
	if err := h.Store.SaveCursor(ctx, sid, gid, index, time.Now()); err != nil {
		logging.Warnf("save cursor %s: %v", sessionID, err)
	}
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
