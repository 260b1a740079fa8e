// Package types defines the shared data structures exchanged between
// pipeline stages: raw Reddit activity, the derived activity summary, and
// the canonical persona document.
package types

// Profile holds the account-level metadata returned by the Reddit API.
type Profile struct {
	CreatedUTC      float64 `json:"created_utc"`
	CommentKarma    int     `json:"comment_karma"`
	LinkKarma       int     `json:"link_karma"`
	TotalKarma      int     `json:"total_karma"`
	ProfileImageURL string  `json:"profile_img,omitempty"`
	ProfileColor    string  `json:"profile_color,omitempty"`
}

// Post is a single submission authored by the subject.
type Post struct {
	Title        string  `json:"title"`
	Body         string  `json:"selftext"`
	Subreddit    string  `json:"subreddit"`
	Score        int     `json:"score"`
	CreatedUTC   float64 `json:"created_utc"`
	CommentCount int     `json:"num_comments"`
	URL          string  `json:"url"`
	Permalink    string  `json:"permalink"`
}

// Comment is a single comment authored by the subject.
type Comment struct {
	Body       string  `json:"body"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	ParentID   string  `json:"parent_id"`
}

// UserData bundles everything the fetch collaborator returns for one subject.
type UserData struct {
	Username string
	Profile  Profile
	Posts    []Post
	Comments []Comment
}

// SubredditCount is one entry in the ranked top-subreddit list.
type SubredditCount struct {
	Name  string
	Count int
}

// ActivitySummary is the immutable statistical snapshot derived from raw
// activity. It is computed once per analysis and never mutated afterwards.
type ActivitySummary struct {
	Username        string
	AccountAgeDays  int
	TotalPosts      int
	TotalComments   int
	TotalKarma      int
	CommentKarma    int
	LinkKarma       int
	UniqueSubreddits int
	AvgPostScore    float64
	AvgCommentScore float64
	// TopSubreddits is sorted by activity count descending; equal counts
	// preserve first-occurrence order from the input sequence. Capped at 10.
	TopSubreddits []SubredditCount

	ProfileImageURL string
	ProfileColor    string
}
