// Package reddit implements the activity-fetch collaborator against the
// Reddit OAuth API using script-app client credentials. A failure here is
// fatal to the analysis of that profile; nothing is recovered.
package reddit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/fetch"
	"github.com/jonathan/reddit-persona/internal/types"
)

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"

	// listingLimit is the maximum records requested per listing. Reddit
	// returns them newest first; no re-sorting is performed downstream.
	listingLimit = 100
)

// FetchError is returned for any failure while talking to the Reddit API.
type FetchError struct {
	Username string
	Stage    string
	Cause    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("reddit fetch failed for %q during %s: %v", e.Username, e.Stage, e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// Client talks to the Reddit API on behalf of one set of script-app
// credentials. It caches the OAuth token until shortly before expiry.
type Client struct {
	clientID     string
	clientSecret string
	userAgent    string
	httpClient   *http.Client
	log          *zap.Logger

	tokenURL string
	apiBase  string

	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

// NewClient creates a Reddit API client.
func NewClient(clientID, clientSecret, userAgent string, log *zap.Logger) *Client {
	if userAgent == "" {
		userAgent = fetch.DefaultUserAgent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: fetch.DefaultTimeout},
		log:          log,
		tokenURL:     tokenURL,
		apiBase:      apiBase,
		now:          time.Now,
	}
}

// FetchUserData retrieves profile info plus the most recent posts and
// comments for a username.
func (c *Client) FetchUserData(ctx context.Context, username string) (*types.UserData, error) {
	if err := c.ensureToken(ctx); err != nil {
		return nil, &FetchError{Username: username, Stage: "auth", Cause: err}
	}

	profile, err := c.fetchProfile(ctx, username)
	if err != nil {
		return nil, &FetchError{Username: username, Stage: "profile", Cause: err}
	}

	posts, err := c.fetchPosts(ctx, username)
	if err != nil {
		return nil, &FetchError{Username: username, Stage: "posts", Cause: err}
	}

	comments, err := c.fetchComments(ctx, username)
	if err != nil {
		return nil, &FetchError{Username: username, Stage: "comments", Cause: err}
	}

	c.log.Info("fetched user activity",
		zap.String("username", username),
		zap.Int("posts", len(posts)),
		zap.Int("comments", len(comments)))

	return &types.UserData{
		Username: username,
		Profile:  *profile,
		Posts:    posts,
		Comments: comments,
	}, nil
}

// ensureToken obtains or refreshes the client-credentials OAuth token.
func (c *Client) ensureToken(ctx context.Context) error {
	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}

	c.token = token.AccessToken
	// Refresh one minute early to avoid using a token at the expiry edge.
	c.tokenExpiry = c.now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return nil
}

func (c *Client) fetchProfile(ctx context.Context, username string) (*types.Profile, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/user/%s/about", c.apiBase, url.PathEscape(username)))
	if err != nil {
		return nil, err
	}

	var about struct {
		Data struct {
			CreatedUTC   float64 `json:"created_utc"`
			CommentKarma int     `json:"comment_karma"`
			LinkKarma    int     `json:"link_karma"`
			TotalKarma   int     `json:"total_karma"`
			IconImg      string  `json:"icon_img"`
			Subreddit    struct {
				KeyColor string `json:"key_color"`
			} `json:"subreddit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &about); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	d := about.Data
	total := d.TotalKarma
	if total == 0 {
		total = d.CommentKarma + d.LinkKarma
	}
	return &types.Profile{
		CreatedUTC:      d.CreatedUTC,
		CommentKarma:    d.CommentKarma,
		LinkKarma:       d.LinkKarma,
		TotalKarma:      total,
		ProfileImageURL: html.UnescapeString(d.IconImg),
		ProfileColor:    d.Subreddit.KeyColor,
	}, nil
}

func (c *Client) fetchPosts(ctx context.Context, username string) ([]types.Post, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/user/%s/submitted?limit=%d&sort=new", c.apiBase, url.PathEscape(username), listingLimit))
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data types.Post `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse submitted listing: %w", err)
	}

	posts := make([]types.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (c *Client) fetchComments(ctx context.Context, username string) ([]types.Comment, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/user/%s/comments?limit=%d&sort=new", c.apiBase, url.PathEscape(username), listingLimit))
	if err != nil {
		return nil, err
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data types.Comment `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse comments listing: %w", err)
	}

	comments := make([]types.Comment, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		comments = append(comments, child.Data)
	}
	return comments, nil
}

// get performs an authenticated GET against the OAuth API.
func (c *Client) get(ctx context.Context, urlStr string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s returned HTTP %d", urlStr, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
