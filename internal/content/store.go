package content

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/qwei-dev/notelens/internal/db"
)

// Store manages persistence of notes, comments and users.
type Store struct {
	db *db.DB
}

// NewStore creates a new content store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// InsertNote stores a note if its note_id is not already present. Re-scraping
// the same note is a no-op, not an error.
func (s *Store) InsertNote(ctx context.Context, n Note) (bool, error) {
	if n.NoteID == "" {
		return false, fmt.Errorf("note is missing note_id")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO notes (note_id, title, body_text, author_name, author_user_id, publish_time, source_url, keyword)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.NoteID, n.Title, n.BodyText, n.AuthorName, n.AuthorUserID, n.PublishTime, n.SourceURL, n.Keyword,
	)
	if err != nil {
		return false, fmt.Errorf("inserting note: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// GetNote retrieves a note by its note_id. Returns nil when absent.
func (s *Store) GetNote(ctx context.Context, noteID string) (*Note, error) {
	var n Note
	err := s.db.QueryRowContext(ctx,
		`SELECT note_id, title, body_text, author_name, author_user_id, publish_time, source_url, keyword
		 FROM notes WHERE note_id = ?`, noteID,
	).Scan(&n.NoteID, &n.Title, &n.BodyText, &n.AuthorName, &n.AuthorUserID, &n.PublishTime, &n.SourceURL, &n.Keyword)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting note: %w", err)
	}
	return &n, nil
}

// DeleteNote removes a note and, via the foreign key, all of its comments.
func (s *Store) DeleteNote(ctx context.Context, noteID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE note_id = ?`, noteID); err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}
	return nil
}

// InsertComment stores a comment, generating a comment_id when none is set.
// A comment that collides with the dedup key (same note, same author, same
// content prefix) is silently skipped; the returned bool reports whether a
// new row was actually written, so callers know whether to index it.
func (s *Store) InsertComment(ctx context.Context, c Comment) (string, bool, error) {
	if c.NoteID == "" {
		return "", false, fmt.Errorf("comment is missing note_id")
	}
	if c.CommentID == "" {
		c.CommentID = uuid.New().String()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO comments (comment_id, note_id, author_user_id, author_name, author_url, location, content, comment_time)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CommentID, c.NoteID, c.AuthorUserID, c.AuthorName, c.AuthorURL, c.Location, c.Content, c.CommentTime,
	)
	if err != nil {
		return "", false, fmt.Errorf("inserting comment: %w", err)
	}
	affected, _ := res.RowsAffected()
	return c.CommentID, affected > 0, nil
}

// CommentContent returns the text of a comment. The second return reports
// whether the comment exists at all.
func (s *Store) CommentContent(ctx context.Context, commentID string) (string, bool, error) {
	var content string
	err := s.db.QueryRowContext(ctx,
		`SELECT content FROM comments WHERE comment_id = ?`, commentID,
	).Scan(&content)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting comment content: %w", err)
	}
	return content, true, nil
}

// IndexableComments returns every comment with non-blank content, oldest
// first, for a full index rebuild.
func (s *Store) IndexableComments(ctx context.Context) ([]CommentText, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT comment_id, content FROM comments
		 WHERE trim(content) != ''
		 ORDER BY created_at ASC, comment_id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing indexable comments: %w", err)
	}
	defer rows.Close()

	var out []CommentText
	for rows.Next() {
		var ct CommentText
		if err := rows.Scan(&ct.CommentID, &ct.Content); err != nil {
			return nil, fmt.Errorf("scanning comment: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}

// UserExists reports whether any user row matches the given user_id or
// user_url. The check is advisory: it runs before an expensive profile fetch,
// and a concurrent insert racing it is resolved by the unique constraint.
func (s *Store) UserExists(ctx context.Context, userID, userURL string) (bool, error) {
	if userID == "" && userURL == "" {
		return false, nil
	}
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE user_id = ? OR (user_url != '' AND user_url = ?)`,
		userID, userURL,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking user existence: %w", err)
	}
	return count > 0, nil
}

// InsertUser stores a user profile if its user_id is not already present.
func (s *Store) InsertUser(ctx context.Context, u User) (bool, error) {
	if u.UserID == "" {
		return false, fmt.Errorf("user is missing user_id")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (user_id, user_url, user_name, red_id, location, gender, avatar_url, followers, following, likes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.UserID, u.UserURL, u.UserName, u.RedID, u.Location, u.Gender, u.AvatarURL, u.Followers, u.Following, u.Likes,
	)
	if err != nil {
		return false, fmt.Errorf("inserting user: %w", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// EnrichedComment joins a comment with its parent note and the profiles of
// the commenter and the note author. Returns nil when the comment no longer
// exists (it may have been cascade-deleted since it was indexed).
func (s *Store) EnrichedComment(ctx context.Context, commentID string) (*EnrichedComment, error) {
	var (
		e                                       EnrichedComment
		noteID, noteTitle, noteContent, pubTime sql.NullString
		cName, cRedID, cLoc                     sql.NullString
		aName, aRedID, aLoc                     sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT
			c.comment_id, c.content, c.comment_time,
			cu.user_name, cu.red_id, cu.location,
			n.note_id, n.title, n.body_text, n.publish_time,
			nu.user_name, nu.red_id, nu.location
		 FROM comments c
		 LEFT JOIN notes n ON c.note_id = n.note_id
		 LEFT JOIN users cu ON c.author_user_id = cu.user_id
		 LEFT JOIN users nu ON n.author_user_id = nu.user_id
		 WHERE c.comment_id = ?`, commentID,
	).Scan(
		&e.CommentID, &e.CommentContent, &e.CommentTime,
		&cName, &cRedID, &cLoc,
		&noteID, &noteTitle, &noteContent, &pubTime,
		&aName, &aRedID, &aLoc,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("enriching comment: %w", err)
	}

	e.CommenterName = cName.String
	e.CommenterRedID = cRedID.String
	e.CommenterLocation = cLoc.String
	e.NoteID = noteID.String
	e.NoteTitle = noteTitle.String
	e.NoteContent = noteContent.String
	e.NotePublishTime = pubTime.String
	e.AuthorName = aName.String
	e.AuthorRedID = aRedID.String
	e.AuthorLocation = aLoc.String
	return &e, nil
}

// Blank reports whether a comment body is effectively empty.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
