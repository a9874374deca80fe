// Package semantic drives the ingestion-to-index pipeline for comment text
// and answers semantic search queries against it.
package semantic

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/qwei-dev/notelens/internal/content"
	"github.com/qwei-dev/notelens/internal/embeddings"
	"github.com/qwei-dev/notelens/internal/vectorindex"
)

// reindexBatch is how many comments are embedded per provider call during a
// full rebuild.
const reindexBatch = 64

// Options tunes the service.
type Options struct {
	// EmbedTimeout bounds each embedding provider call. Zero means 30s.
	EmbedTimeout time.Duration
	// DefaultTopK is used when a search does not specify top_k. Zero means 10.
	DefaultTopK int
}

// Service coordinates the content store, the embedding provider and the
// vector index. It is the only writer of the index.
type Service struct {
	store        *content.Store
	embedder     embeddings.Embedder
	index        *vectorindex.Service
	embedTimeout time.Duration
	defaultTopK  int
}

// NewService wires the pipeline together.
func NewService(store *content.Store, embedder embeddings.Embedder, index *vectorindex.Service, opts Options) *Service {
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = 30 * time.Second
	}
	if opts.DefaultTopK <= 0 {
		opts.DefaultTopK = 10
	}
	return &Service{
		store:        store,
		embedder:     embedder,
		index:        index,
		embedTimeout: opts.EmbedTimeout,
		defaultTopK:  opts.DefaultTopK,
	}
}

// Index returns the underlying vector index service.
func (s *Service) Index() *vectorindex.Service { return s.index }

// embed calls the provider under a deadline and unit-normalizes the output.
// The deadline is the pipeline's only time bound; it is separate from any
// rate-limiting sleeps the harvester performs.
func (s *Service) embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	defer cancel()

	vecs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(texts))
	}
	for _, v := range vecs {
		embeddings.Normalize(v)
	}
	return vecs, nil
}

// IndexComment embeds one newly persisted comment and appends it to the
// index. Blank content is a validation failure, not a silent skip, so the
// caller can tell the difference between "indexed" and "nothing to index".
func (s *Service) IndexComment(ctx context.Context, commentID string) error {
	text, found, err := s.store.CommentContent(ctx, commentID)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrCommentNotFound, commentID)
	}
	if content.Blank(text) {
		return fmt.Errorf("%w: %s", ErrNoContent, commentID)
	}

	vecs, err := s.embed(ctx, []string{text})
	if err != nil {
		return err
	}
	return s.index.Add(vecs[0], commentID)
}

// Reindex rebuilds the whole index from every non-blank comment in the
// store, replacing the identifier map wholesale. Used for cold start and
// explicit re-index requests. Returns the number of comments indexed.
func (s *Service) Reindex(ctx context.Context, onProgress ProgressFunc) (int, error) {
	comments, err := s.store.IndexableComments(ctx)
	if err != nil {
		return 0, err
	}
	if len(comments) == 0 {
		return 0, ErrNoComments
	}

	vectors := make([][]float32, 0, len(comments))
	ids := make([]string, 0, len(comments))

	for start := 0; start < len(comments); start += reindexBatch {
		end := start + reindexBatch
		if end > len(comments) {
			end = len(comments)
		}
		batch := comments[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vecs, err := s.embed(ctx, texts)
		if err != nil {
			return 0, err
		}
		for i, c := range batch {
			vectors = append(vectors, vecs[i])
			ids = append(ids, c.CommentID)
		}
		if onProgress != nil {
			onProgress(end, len(comments))
		}
	}

	if err := s.index.Rebuild(vectors, ids, s.embedder.Dimensions()); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ResetIndex clears the index and identifier map and removes the persisted
// artifacts.
func (s *Service) ResetIndex() error {
	return s.index.Reset()
}

// Search embeds the query with the same contract as stored content, looks up
// the top-k nearest comments, and enriches each hit with its relational
// metadata. Hits whose comment row has vanished are dropped; the remainder
// is re-sorted by score since drops can change the order's length.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if content.Blank(query) {
		return nil, ErrBlankQuery
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vecs, err := s.embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}

	hits, err := s.index.Search(vecs[0], topK)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		enriched, err := s.store.EnrichedComment(ctx, h.CommentID)
		if err != nil {
			return nil, err
		}
		if enriched == nil {
			continue
		}
		results = append(results, Result{EnrichedComment: *enriched, Similarity: h.Score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	return results, nil
}
