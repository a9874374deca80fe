package harvest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the ingest API used by out-of-process scrape drivers.
func RegisterRoutes(r chi.Router, p *Pipeline) {
	r.Post("/ingest/note", handleIngestNote(p))
}

func handleIngestNote(p *Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload NotePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if payload.Note.URL == "" {
			http.Error(w, `{"error":"note.url is required"}`, http.StatusBadRequest)
			return
		}

		stats, err := p.Ingest(r.Context(), payload)
		if err != nil {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}
