// Package harvest turns scraped notes, comments and users into relational
// rows and index entries. Failures are isolated per item: one bad note or
// comment never stops the batch.
package harvest

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/qwei-dev/notelens/internal/content"
	"github.com/qwei-dev/notelens/internal/identity"
	"github.com/qwei-dev/notelens/internal/retry"
	"github.com/qwei-dev/notelens/internal/timeparse"
)

// ProgressFunc reports per-note progress during a keyword run.
type ProgressFunc func(done, total int, label string)

// Config tunes a Pipeline.
type Config struct {
	// Retry applies to every Fetcher call.
	Retry retry.Policy
	// MaxNotesPerKeyword caps how many search results are ingested per
	// keyword. Zero means no cap.
	MaxNotesPerKeyword int
	// Now overrides the reference instant for timestamp normalization.
	// Nil means time.Now.
	Now func() time.Time
	// OnProgress, when set, is called after each note of a keyword run.
	OnProgress ProgressFunc
}

// Pipeline drives scraped content into the store and the index.
type Pipeline struct {
	store   *content.Store
	indexer Indexer
	fetcher Fetcher
	cfg     Config
}

// NewPipeline creates a pipeline over the given collaborators.
func NewPipeline(store *content.Store, indexer Indexer, fetcher Fetcher, cfg Config) *Pipeline {
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Pipeline{store: store, indexer: indexer, fetcher: fetcher, cfg: cfg}
}

// Run harvests every keyword in order. A keyword whose search fails after
// retries is logged and skipped; so is each failing note within a keyword.
func (p *Pipeline) Run(ctx context.Context, keywords []string) error {
	for _, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return err
		}

		var notes []ScrapedNote
		err := p.cfg.Retry.Do(ctx, "search "+keyword, func(ctx context.Context) error {
			var err error
			notes, err = p.fetcher.SearchNotes(ctx, keyword)
			return err
		})
		if err != nil {
			log.Printf("skipping keyword %q: %v", keyword, err)
			continue
		}

		if p.cfg.MaxNotesPerKeyword > 0 && len(notes) > p.cfg.MaxNotesPerKeyword {
			notes = notes[:p.cfg.MaxNotesPerKeyword]
		}

		for i, note := range notes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := p.ingestFetched(ctx, note); err != nil {
				log.Printf("skipping note %q: %v", note.URL, err)
			}
			if p.cfg.OnProgress != nil {
				p.cfg.OnProgress(i+1, len(notes), note.URL)
			}
		}
	}
	return nil
}

// ingestFetched pulls a note's page through the fetcher and ingests it.
func (p *Pipeline) ingestFetched(ctx context.Context, note ScrapedNote) (IngestStats, error) {
	var (
		body     string
		comments []ScrapedComment
	)
	err := p.cfg.Retry.Do(ctx, "fetch note "+note.URL, func(ctx context.Context) error {
		var err error
		body, comments, err = p.fetcher.FetchNote(ctx, note.URL)
		return err
	})
	if err != nil {
		return IngestStats{}, err
	}

	stats, err := p.Ingest(ctx, NotePayload{Note: note, BodyText: body, Comments: comments})
	if err != nil {
		return stats, err
	}

	// Profile fetches come last so a slow or blocked profile page never
	// delays the text reaching the index.
	p.ensureUser(ctx, note.AuthorURL)
	for _, c := range comments {
		p.ensureUser(ctx, c.AuthorURL)
	}
	return stats, nil
}

// Ingest persists one scraped note with its comments and optional user
// profiles, and indexes every comment that is genuinely new. Ingesting the
// same payload twice is harmless: the note insert and each comment insert
// are insert-if-absent, and only freshly inserted comments reach the index.
func (p *Pipeline) Ingest(ctx context.Context, payload NotePayload) (IngestStats, error) {
	var stats IngestStats
	now := p.cfg.Now()

	noteID := identity.ExtractID(payload.Note.URL)
	if noteID == "" {
		return stats, fmt.Errorf("cannot derive note_id from url %q", payload.Note.URL)
	}

	inserted, err := p.store.InsertNote(ctx, content.Note{
		NoteID:       noteID,
		Title:        payload.Note.Title,
		BodyText:     payload.BodyText,
		AuthorName:   payload.Note.AuthorName,
		AuthorUserID: identity.ExtractID(payload.Note.AuthorURL),
		PublishTime:  timeparse.Normalize(payload.Note.PublishTime, now),
		SourceURL:    payload.Note.URL,
		Keyword:      payload.Note.Keyword,
	})
	if err != nil {
		return stats, err
	}
	stats.NoteInserted = inserted

	for _, u := range payload.Users {
		inserted, err := p.store.InsertUser(ctx, u)
		if err != nil {
			log.Printf("skipping user %q: %v", u.UserID, err)
			continue
		}
		if inserted {
			stats.UsersAdded++
		}
	}

	for _, sc := range payload.Comments {
		commentID, inserted, err := p.store.InsertComment(ctx, content.Comment{
			NoteID:       noteID,
			AuthorUserID: identity.ExtractID(sc.AuthorURL),
			AuthorName:   sc.AuthorName,
			AuthorURL:    sc.AuthorURL,
			Location:     sc.Location,
			Content:      sc.Content,
			CommentTime:  timeparse.Normalize(sc.Time, now),
		})
		if err != nil {
			log.Printf("skipping comment on note %q: %v", noteID, err)
			continue
		}
		if !inserted {
			continue
		}
		stats.CommentsAdded++

		if content.Blank(sc.Content) {
			continue
		}
		if err := p.indexer.IndexComment(ctx, commentID); err != nil {
			// The row is saved; the index entry can be recovered with a
			// rebuild, so this is a logged skip rather than a failure.
			log.Printf("comment %s stored but not indexed: %v", commentID, err)
			continue
		}
		stats.CommentsIndexed++
	}

	return stats, nil
}

// ensureUser fetches and stores a profile unless a matching row already
// exists. The existence check runs before the expensive page fetch; the
// unique constraint on user_id settles any race with a concurrent insert.
func (p *Pipeline) ensureUser(ctx context.Context, userURL string) {
	userID := identity.ExtractID(userURL)
	if userID == "" {
		return
	}

	exists, err := p.store.UserExists(ctx, userID, userURL)
	if err != nil {
		log.Printf("user existence check for %q: %v", userID, err)
		return
	}
	if exists {
		return
	}

	var user *content.User
	err = p.cfg.Retry.Do(ctx, "fetch user "+userID, func(ctx context.Context) error {
		var err error
		user, err = p.fetcher.FetchUser(ctx, userURL)
		return err
	})
	if err != nil {
		log.Printf("skipping user %q: %v", userID, err)
		return
	}
	if user == nil {
		return
	}
	if user.UserID == "" {
		user.UserID = userID
	}
	if user.UserURL == "" {
		user.UserURL = userURL
	}

	if _, err := p.store.InsertUser(ctx, *user); err != nil {
		log.Printf("storing user %q: %v", userID, err)
	}
}
