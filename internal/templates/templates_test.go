package templates

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteViewerHTMLEmbedsSession(t *testing.T) {
	SetCommit("abc1234")
	w := httptest.NewRecorder()
	WriteViewerHTML(w, "s-42", []string{"chesscom", "lichess"})

	body := w.Body.String()
	if w.Code != 200 {
		t.Fatalf("unexpected status %d", w.Code)
	}
	if !strings.Contains(body, `"s-42"`) {
		t.Fatalf("session id not embedded as a script string")
	}
	if !strings.Contains(body, `<option value="lichess">`) {
		t.Fatalf("platform options missing")
	}
	if !strings.Contains(body, "abc1234") {
		t.Fatalf("commit missing from footer")
	}
}

func TestWriteHomeHTML(t *testing.T) {
	w := httptest.NewRecorder()
	WriteHomeHTML(w)
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Chess Viewer") {
		t.Fatalf("home page not rendered")
	}
}

func TestSetCommitIgnoresEmpty(t *testing.T) {
	SetCommit("keep")
	SetCommit("")
	if Commit() != "keep" {
		t.Fatalf("empty commit overwrote previous value")
	}
}
