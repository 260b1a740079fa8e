// Package aggregate computes the activity summary statistics that feed the
// prompt builder and both renderers. Pure computation, no I/O.
package aggregate

import (
	"sort"
	"time"

	"github.com/jonathan/reddit-persona/internal/types"
)

const secondsPerDay = 86400

// topSubredditLimit caps the ranked subreddit list for display purposes.
const topSubredditLimit = 10

// Summarize derives an ActivitySummary from raw activity. It is total: it
// never fails on well-formed input, defaults missing numerics to zero, and
// produces zero averages for empty record sets.
func Summarize(username string, profile types.Profile, posts []types.Post, comments []types.Comment, now time.Time) types.ActivitySummary {
	summary := types.ActivitySummary{
		Username:        username,
		TotalPosts:      len(posts),
		TotalComments:   len(comments),
		TotalKarma:      profile.TotalKarma,
		CommentKarma:    profile.CommentKarma,
		LinkKarma:       profile.LinkKarma,
		ProfileImageURL: profile.ProfileImageURL,
		ProfileColor:    profile.ProfileColor,
	}

	if age := now.Unix() - int64(profile.CreatedUTC); age > 0 {
		summary.AccountAgeDays = int(age / secondsPerDay)
	}

	if len(posts) > 0 {
		total := 0
		for _, p := range posts {
			total += p.Score
		}
		summary.AvgPostScore = float64(total) / float64(len(posts))
	}
	if len(comments) > 0 {
		total := 0
		for _, c := range comments {
			total += c.Score
		}
		summary.AvgCommentScore = float64(total) / float64(len(comments))
	}

	summary.TopSubreddits = rankSubreddits(posts, comments)
	summary.UniqueSubreddits = countUniqueSubreddits(posts, comments)

	return summary
}

// rankSubreddits counts activity per subreddit across posts and comments and
// returns the top entries sorted by count descending. Equal counts preserve
// first-occurrence order in the input sequence.
func rankSubreddits(posts []types.Post, comments []types.Comment) []types.SubredditCount {
	counts := make(map[string]int)
	var order []string

	record := func(name string) {
		if name == "" {
			name = "unknown"
		}
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}
	for _, p := range posts {
		record(p.Subreddit)
	}
	for _, c := range comments {
		record(c.Subreddit)
	}

	ranked := make([]types.SubredditCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, types.SubredditCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if len(ranked) > topSubredditLimit {
		ranked = ranked[:topSubredditLimit]
	}
	return ranked
}

// countUniqueSubreddits sizes the set union of subreddits across both record
// kinds. Empty subreddit names count as the shared "unknown" bucket.
func countUniqueSubreddits(posts []types.Post, comments []types.Comment) int {
	seen := make(map[string]struct{})
	for _, p := range posts {
		name := p.Subreddit
		if name == "" {
			name = "unknown"
		}
		seen[name] = struct{}{}
	}
	for _, c := range comments {
		name := c.Subreddit
		if name == "" {
			name = "unknown"
		}
		seen[name] = struct{}{}
	}
	return len(seen)
}
