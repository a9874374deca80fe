package semantic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func newRouter(t *testing.T) (*fixture, chi.Router) {
	t.Helper()
	f := newFixture(t)
	r := chi.NewRouter()
	RegisterRoutes(r, f.svc)
	return f, r
}

func doJSON(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddMissingCommentID(t *testing.T) {
	_, r := newRouter(t)
	w := doJSON(t, r, "POST", "/index/add", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAddUnknownComment(t *testing.T) {
	_, r := newRouter(t)
	w := doJSON(t, r, "POST", "/index/add", `{"comment_id":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAddBlankComment(t *testing.T) {
	f, r := newRouter(t)
	id := f.addComment(t, "n1", "u1", " ")
	w := doJSON(t, r, "POST", "/index/add", `{"comment_id":"`+id+`"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank content, got %d", w.Code)
	}
}

func TestSearchValidation(t *testing.T) {
	f, r := newRouter(t)

	if w := doJSON(t, r, "GET", "/search?q=", ""); w.Code != http.StatusBadRequest {
		t.Errorf("blank query: expected 400, got %d", w.Code)
	}

	// Non-blank query against an empty index is also a 400, with a
	// distinguishable message.
	w := doJSON(t, r, "GET", "/search?q=coffee", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("empty index: expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "empty") {
		t.Errorf("empty-index error should mention the empty index: %s", w.Body.String())
	}
	_ = f
}

func TestRebuildWithoutComments(t *testing.T) {
	_, r := newRouter(t)
	w := doJSON(t, r, "POST", "/index/rebuild", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAddSearchResetFlow(t *testing.T) {
	f, r := newRouter(t)
	id := f.addComment(t, "n1", "u1", "amazing pour over technique")

	if w := doJSON(t, r, "POST", "/index/add", `{"comment_id":"`+id+`"}`); w.Code != http.StatusOK {
		t.Fatalf("add: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, "GET", "/search?q=amazing+pour+over+technique&top_k=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("search: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Query   string   `json:"query"`
		Results []Result `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].CommentID != id {
		t.Fatalf("unexpected results: %+v", body.Results)
	}
	if body.Results[0].Similarity < 0.99 {
		t.Errorf("exact-text similarity = %f", body.Results[0].Similarity)
	}

	if w := doJSON(t, r, "POST", "/index/reset", ""); w.Code != http.StatusOK {
		t.Fatalf("reset: expected 200, got %d", w.Code)
	}
	if w := doJSON(t, r, "GET", "/search?q=anything", ""); w.Code != http.StatusBadRequest {
		t.Errorf("search after reset: expected 400, got %d", w.Code)
	}
}

func TestRebuildHappyPath(t *testing.T) {
	f, r := newRouter(t)
	f.addComment(t, "n1", "u1", "one")
	f.addComment(t, "n1", "u2", "two")

	w := doJSON(t, r, "POST", "/index/rebuild", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var body map[string]int
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["indexed"] != 2 {
		t.Errorf("indexed = %d, want 2", body["indexed"])
	}
}
