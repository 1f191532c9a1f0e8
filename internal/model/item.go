package model

import "time"

// Item is the canonical story/comment shape. Stories and comments share it;
// a comment owns its replies through Children.
type Item struct {
	ID        int       `json:"id"`
	Type      string    `json:"type,omitempty"` // story, comment, job, poll, pollopt
	CreatedAt time.Time `json:"created_at"`
	Author    string    `json:"author"`
	Title     string    `json:"title,omitempty"`
	URL       string    `json:"url,omitempty"`
	Text      string    `json:"text,omitempty"`
	Points    int       `json:"points"`
	ParentID  int       `json:"parent_id,omitempty"`
	StoryID   int       `json:"story_id,omitempty"`
	Children  []Item    `json:"children"`

	// Placeholder marks a child known only by id (official API kids).
	Placeholder bool `json:"placeholder,omitempty"`
	// Local marks a comment submitted in this session and not yet seen on the server.
	Local bool `json:"local,omitempty"`
}

// IsStory reports whether the item is the root of a discussion.
func (it Item) IsStory() bool {
	return it.Type != "comment" && it.Type != "pollopt"
}

// CountComments returns the number of non-placeholder descendants.
func (it Item) CountComments() int {
	n := 0
	for _, c := range it.Children {
		if !c.Placeholder {
			n++
		}
		n += c.CountComments()
	}
	return n
}

// UserInfo is a Hacker News user profile.
type UserInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Karma     int       `json:"karma"`
	About     string    `json:"about,omitempty"`
	Submitted []int     `json:"submitted,omitempty"`
}

// VoteState is derived from a scraped item page and never stored.
// An empty URL means the action is unavailable.
type VoteState struct {
	UpvoteURL   string `json:"upvote_url,omitempty"`
	DownvoteURL string `json:"downvote_url,omitempty"`
}

// CanUpvote reports whether an upvote link was present and visible.
func (v VoteState) CanUpvote() bool { return v.UpvoteURL != "" }

// CanUnvote reports whether the item is upvoted and can be retracted.
func (v VoteState) CanUnvote() bool { return v.DownvoteURL != "" }
