package hackernews

// OfficialItem is the flat record served by the Firebase API. Children are
// referenced only by id in Kids.
type OfficialItem struct {
	ID          int    `json:"id"`
	Type        string `json:"type"` // story, comment, job, poll, pollopt
	By          string `json:"by"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Text        string `json:"text"`
	Time        int64  `json:"time"`
	Kids        []int  `json:"kids"`
	Parent      int    `json:"parent"`
	Descendants int    `json:"descendants"`
	Score       int    `json:"score"`
	Parts       []int  `json:"parts"` // polls
	Deleted     bool   `json:"deleted"`
	Dead        bool   `json:"dead"`
}

// AlgoliaItem is the nested record served by the Algolia items endpoint.
type AlgoliaItem struct {
	ID         int            `json:"id"`
	CreatedAt  string         `json:"created_at"`
	CreatedAtI int64          `json:"created_at_i"`
	Type       string         `json:"type"`
	Author     string         `json:"author"`
	Title      string         `json:"title"`
	URL        string         `json:"url"`
	Text       string         `json:"text"`
	Points     *int           `json:"points"`
	ParentID   *int           `json:"parent_id"`
	StoryID    int            `json:"story_id"`
	Children   []*AlgoliaItem `json:"children"`
}

type officialUser struct {
	ID        string `json:"id"`
	Created   int64  `json:"created"`
	Karma     int    `json:"karma"`
	About     string `json:"about"`
	Submitted []int  `json:"submitted"`
}
