package content

// Note is a scraped post. note_id is derived from the note URL, so the same
// note discovered through different keywords resolves to one row.
type Note struct {
	NoteID       string `json:"note_id"`
	Title        string `json:"title"`
	BodyText     string `json:"body_text"`
	AuthorName   string `json:"author_name"`
	AuthorUserID string `json:"author_user_id"`
	PublishTime  string `json:"publish_time"`
	SourceURL    string `json:"source_url"`
	Keyword      string `json:"keyword"`
}

// Comment is a scraped comment under a note. CommentID is system-generated;
// identity for deduplication is (note_id, content prefix, author_user_id).
type Comment struct {
	CommentID    string `json:"comment_id"`
	NoteID       string `json:"note_id"`
	AuthorUserID string `json:"author_user_id"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	Location     string `json:"location"`
	Content      string `json:"content"`
	CommentTime  string `json:"comment_time"`
}

// User is a scraped profile. Counts stay strings: the site renders them as
// display text ("1.2万") and nothing downstream does arithmetic on them.
type User struct {
	UserID    string `json:"user_id"`
	UserURL   string `json:"user_url"`
	UserName  string `json:"user_name"`
	RedID     string `json:"red_id"`
	Location  string `json:"location"`
	Gender    string `json:"gender"`
	AvatarURL string `json:"avatar_url"`
	Followers string `json:"followers"`
	Following string `json:"following"`
	Likes     string `json:"likes"`
}

// CommentText is the minimal projection the indexing pipeline needs.
type CommentText struct {
	CommentID string
	Content   string
}

// EnrichedComment is a comment joined with its parent note and the profiles
// of both the commenter and the note author. Profile fields are best-effort:
// the referenced user may never have been scraped.
type EnrichedComment struct {
	CommentID      string `json:"comment_id"`
	CommentContent string `json:"comment_content"`
	CommentTime    string `json:"comment_time"`

	CommenterName     string `json:"commenter_name"`
	CommenterRedID    string `json:"commenter_red_id"`
	CommenterLocation string `json:"commenter_location"`

	NoteID          string `json:"note_id"`
	NoteTitle       string `json:"note_title"`
	NoteContent     string `json:"note_content"`
	NotePublishTime string `json:"publish_time"`

	AuthorName     string `json:"author_name"`
	AuthorRedID    string `json:"author_red_id"`
	AuthorLocation string `json:"author_location"`
}
