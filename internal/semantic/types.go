package semantic

import (
	"errors"

	"github.com/qwei-dev/notelens/internal/content"
)

var (
	// ErrBlankQuery rejects searches with no query text.
	ErrBlankQuery = errors.New("query is blank")

	// ErrNoContent means the comment exists but has nothing to embed.
	ErrNoContent = errors.New("comment content is blank")

	// ErrCommentNotFound means the comment identifier is unknown.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNoComments means a rebuild found nothing indexable.
	ErrNoComments = errors.New("no indexable comments")
)

// Result is one ranked search hit: the enriched comment plus its cosine
// similarity to the query.
type Result struct {
	content.EnrichedComment
	Similarity float32 `json:"similarity"`
}

// ProgressFunc reports bulk reindex progress.
type ProgressFunc func(done, total int)
