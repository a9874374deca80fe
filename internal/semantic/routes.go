package semantic

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/qwei-dev/notelens/internal/vectorindex"
)

// RegisterRoutes mounts the index service API.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/index", func(r chi.Router) {
		r.Post("/rebuild", handleRebuild(svc))
		r.Post("/add", handleAdd(svc))
		r.Post("/reset", handleReset(svc))
	})
	r.Get("/search", handleSearch(svc))
}

// writeErr maps the pipeline's error taxonomy onto HTTP statuses:
// validation 400, unknown identifier 404, inconsistent index 409.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrBlankQuery),
		errors.Is(err, ErrNoContent),
		errors.Is(err, ErrNoComments),
		errors.Is(err, vectorindex.ErrEmptyIndex),
		errors.Is(err, vectorindex.ErrDimension):
		status = http.StatusBadRequest
	case errors.Is(err, ErrCommentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, vectorindex.ErrInconsistent):
		status = http.StatusConflict
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func handleRebuild(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := svc.Reindex(r.Context(), nil)
		if err != nil {
			writeErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]int{"indexed": count})
	}
}

type addRequest struct {
	CommentID string `json:"comment_id"`
}

func handleAdd(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if req.CommentID == "" {
			http.Error(w, `{"error":"comment_id is required"}`, http.StatusBadRequest)
			return
		}

		if err := svc.IndexComment(r.Context(), req.CommentID); err != nil {
			writeErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "indexed", "comment_id": req.CommentID})
	}
}

func handleSearch(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		topK := 0
		if v := r.URL.Query().Get("top_k"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				topK = n
			}
		}

		results, err := svc.Search(r.Context(), query, topK)
		if err != nil {
			writeErr(w, err)
			return
		}
		if results == nil {
			results = []Result{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"query": query, "results": results})
	}
}

func handleReset(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ResetIndex(); err != nil {
			writeErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "reset"})
	}
}
