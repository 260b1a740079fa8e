package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/reddit-persona/internal/types"
)

func testSummary() types.ActivitySummary {
	return types.ActivitySummary{
		Username:         "kojied",
		AccountAgeDays:   1234,
		TotalPosts:       2,
		TotalComments:    3,
		TotalKarma:       500,
		CommentKarma:     300,
		LinkKarma:        200,
		UniqueSubreddits: 2,
		AvgPostScore:     12.5,
		AvgCommentScore:  4.0,
		TopSubreddits: []types.SubredditCount{
			{Name: "golang", Count: 3},
			{Name: "AskReddit", Count: 2},
		},
	}
}

func TestBuildEmbedsSummaryAndInstructions(t *testing.T) {
	got := Build(testSummary(), nil, nil)

	assert.Contains(t, got, "- Username: kojied")
	assert.Contains(t, got, "- Account Age: 1234 days")
	assert.Contains(t, got, "- Average Post Score: 12.50")
	assert.Contains(t, got, "golang (3 posts), AskReddit (2 posts)")
	assert.Contains(t, got, "Respond only with valid JSON")
	assert.NotContains(t, got, "{{.UserData}}", "placeholder must be substituted")
}

func TestBuildSamplingCaps(t *testing.T) {
	var posts []types.Post
	for i := 0; i < 40; i++ {
		posts = append(posts, types.Post{Title: fmt.Sprintf("post-%d", i), Subreddit: "golang"})
	}
	var comments []types.Comment
	for i := 0; i < 50; i++ {
		comments = append(comments, types.Comment{Body: fmt.Sprintf("comment-%d", i), Subreddit: "golang"})
	}

	got := Build(testSummary(), posts, comments)

	assert.Contains(t, got, "Post 20 ")
	assert.NotContains(t, got, "Post 21 ", "at most the first 20 posts are sampled")
	assert.Contains(t, got, "Comment 30 ")
	assert.NotContains(t, got, "Comment 31 ", "at most the first 30 comments are sampled")
	// Order supplied is order sampled: the first post stays first.
	assert.Less(t, strings.Index(got, "post-0"), strings.Index(got, "post-1"))
}

func TestBuildTruncatesBodies(t *testing.T) {
	long := strings.Repeat("word ", 200) // 1000 chars
	posts := []types.Post{{Title: "t", Body: long, Subreddit: "golang"}}
	comments := []types.Comment{{Body: long, Subreddit: "golang"}}

	got := Build(testSummary(), posts, comments)

	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(line, "Content: ") {
			assert.LessOrEqual(t, len(line), len("Content: ")+300+3)
		}
	}
	assert.Contains(t, got, "...")
}

func TestBuildCleansMarkdown(t *testing.T) {
	posts := []types.Post{{Title: "**loud** title", Body: "[see](http://x.com) this", Subreddit: "golang"}}

	got := Build(testSummary(), posts, nil)

	assert.Contains(t, got, "Title: loud title")
	assert.Contains(t, got, "Content: see this")
	assert.NotContains(t, got, "http://x.com")
}

func TestBuildEmptyActivity(t *testing.T) {
	summary := types.ActivitySummary{Username: "ghost"}
	got := Build(summary, nil, nil)

	assert.Contains(t, got, "- Top Subreddits: none")
	assert.Contains(t, got, "SAMPLE POSTS:")
	assert.Contains(t, got, "SAMPLE COMMENTS:")
}
