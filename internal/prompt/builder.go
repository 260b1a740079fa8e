// Package prompt assembles the bounded text prompt handed to the completion
// capability. Sampling and truncation budgets keep the prompt size fixed
// regardless of how much activity the fetch collaborator returned.
package prompt

import (
	"fmt"
	"strings"

	"github.com/jonathan/reddit-persona/internal/prompts"
	"github.com/jonathan/reddit-persona/internal/textutil"
	"github.com/jonathan/reddit-persona/internal/types"
)

// Sampling and truncation budgets. Records are taken in the order supplied,
// which the fetch collaborator guarantees is reverse-chronological.
const (
	maxSamplePosts    = 20
	maxSampleComments = 30
	postBodyBudget    = 300
	commentBodyBudget = 200

	// promptSubredditLimit bounds the subreddit list embedded in the prompt.
	promptSubredditLimit = 5
)

// Build assembles the synthesis prompt from the activity summary and sampled
// records. The schema instruction text is a fixed embedded template.
func Build(summary types.ActivitySummary, posts []types.Post, comments []types.Comment) string {
	template := prompts.MustGet("persona.json", "synthesize-persona")
	return prompts.Format(template, map[string]string{
		"UserData": buildUserData(summary, posts, comments),
	})
}

// buildUserData renders the numeric summary block plus sampled posts and
// comments into the prompt's user-data section.
func buildUserData(summary types.ActivitySummary, posts []types.Post, comments []types.Comment) string {
	var sb strings.Builder

	sb.WriteString("USER SUMMARY:\n")
	sb.WriteString(fmt.Sprintf("- Username: %s\n", summary.Username))
	sb.WriteString(fmt.Sprintf("- Account Age: %d days\n", summary.AccountAgeDays))
	sb.WriteString(fmt.Sprintf("- Total Posts: %d\n", summary.TotalPosts))
	sb.WriteString(fmt.Sprintf("- Total Comments: %d\n", summary.TotalComments))
	sb.WriteString(fmt.Sprintf("- Total Karma: %d\n", summary.TotalKarma))
	sb.WriteString(fmt.Sprintf("- Comment Karma: %d\n", summary.CommentKarma))
	sb.WriteString(fmt.Sprintf("- Link Karma: %d\n", summary.LinkKarma))
	sb.WriteString(fmt.Sprintf("- Average Post Score: %.2f\n", summary.AvgPostScore))
	sb.WriteString(fmt.Sprintf("- Average Comment Score: %.2f\n", summary.AvgCommentScore))
	sb.WriteString(fmt.Sprintf("- Top Subreddits: %s\n", formatTopSubreddits(summary.TopSubreddits)))
	sb.WriteString(fmt.Sprintf("- Unique Subreddits: %d\n", summary.UniqueSubreddits))

	sb.WriteString("\nSAMPLE POSTS:\n")
	for i, post := range samplePosts(posts) {
		sb.WriteString(fmt.Sprintf("Post %d (r/%s, score: %d):\n", i+1, post.Subreddit, post.Score))
		sb.WriteString(fmt.Sprintf("Title: %s\n", textutil.Clean(post.Title)))
		if body := textutil.Clean(post.Body); body != "" {
			sb.WriteString(fmt.Sprintf("Content: %s\n", textutil.Truncate(body, postBodyBudget)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("SAMPLE COMMENTS:\n")
	for i, comment := range sampleComments(comments) {
		sb.WriteString(fmt.Sprintf("Comment %d (r/%s, score: %d):\n", i+1, comment.Subreddit, comment.Score))
		sb.WriteString(fmt.Sprintf("%s\n\n", textutil.Truncate(textutil.Clean(comment.Body), commentBodyBudget)))
	}

	return sb.String()
}

func samplePosts(posts []types.Post) []types.Post {
	if len(posts) > maxSamplePosts {
		return posts[:maxSamplePosts]
	}
	return posts
}

func sampleComments(comments []types.Comment) []types.Comment {
	if len(comments) > maxSampleComments {
		return comments[:maxSampleComments]
	}
	return comments
}

func formatTopSubreddits(ranked []types.SubredditCount) string {
	if len(ranked) == 0 {
		return "none"
	}
	if len(ranked) > promptSubredditLimit {
		ranked = ranked[:promptSubredditLimit]
	}
	parts := make([]string, 0, len(ranked))
	for _, sc := range ranked {
		parts = append(parts, fmt.Sprintf("%s (%d posts)", sc.Name, sc.Count))
	}
	return strings.Join(parts, ", ")
}
