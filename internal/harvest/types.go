package harvest

import (
	"context"

	"github.com/qwei-dev/notelens/internal/content"
)

// ScrapedNote is a note as it comes off a search-result page: raw display
// timestamp, URLs instead of resolved identifiers.
type ScrapedNote struct {
	Title       string `json:"title"`
	AuthorName  string `json:"author_name"`
	AuthorURL   string `json:"author_url"`
	PublishTime string `json:"publish_time"`
	URL         string `json:"url"`
	Keyword     string `json:"keyword"`
}

// ScrapedComment is a comment as scraped from a note page.
type ScrapedComment struct {
	AuthorName string `json:"author_name"`
	AuthorURL  string `json:"author_url"`
	Location   string `json:"location"`
	Content    string `json:"content"`
	Time       string `json:"time"`
}

// NotePayload is a fully scraped note posted by an out-of-process driver:
// the note, its rendered body, its comments and any user profiles the driver
// collected along the way.
type NotePayload struct {
	Note     ScrapedNote      `json:"note"`
	BodyText string           `json:"body_text"`
	Comments []ScrapedComment `json:"comments"`
	Users    []content.User   `json:"users"`
}

// IngestStats summarizes one note ingestion.
type IngestStats struct {
	NoteInserted    bool `json:"note_inserted"`
	CommentsAdded   int  `json:"comments_added"`
	CommentsIndexed int  `json:"comments_indexed"`
	UsersAdded      int  `json:"users_added"`
}

// Fetcher is the boundary to the browser-automation driver. Everything
// behind it (page rendering, scrolling, anti-bot pacing) is out of scope
// here; its calls are slow and fail transiently, so the pipeline wraps them
// in the retry policy.
type Fetcher interface {
	// SearchNotes returns the notes listed for a keyword search.
	SearchNotes(ctx context.Context, keyword string) ([]ScrapedNote, error)

	// FetchNote opens a note page and returns its body text and comments.
	FetchNote(ctx context.Context, url string) (bodyText string, comments []ScrapedComment, err error)

	// FetchUser opens a profile page and returns the user's details.
	FetchUser(ctx context.Context, userURL string) (*content.User, error)
}

// Indexer receives newly inserted comment identifiers. Satisfied by
// semantic.Service.
type Indexer interface {
	IndexComment(ctx context.Context, commentID string) error
}
