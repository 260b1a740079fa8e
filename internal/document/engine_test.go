package document

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/fetch"
	"github.com/jonathan/reddit-persona/internal/types"
)

func testSummary() types.ActivitySummary {
	return types.ActivitySummary{
		Username:         "kojied",
		AccountAgeDays:   1100,
		TotalPosts:       31,
		TotalComments:    120,
		TotalKarma:       21523,
		UniqueSubreddits: 12,
		TopSubreddits:    []types.SubredditCount{{Name: "golang", Count: 40}},
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 255, G: 107, B: 53, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func renderToTemp(t *testing.T, e *Engine, summary types.ActivitySummary) string {
	t.Helper()
	outPath := filepath.Join(t.TempDir(), "out.pdf")
	err := e.RenderPDF(context.Background(), "kojied", summary, types.FallbackPersona(), outPath)
	require.NoError(t, err)

	info, statErr := os.Stat(outPath)
	require.NoError(t, statErr)
	assert.Greater(t, info.Size(), int64(0))
	return outPath
}

func TestRenderPDFWithProfileImage(t *testing.T) {
	body := pngBytes(t)
	fetched := 0
	e := NewEngine(zap.NewNop())
	e.fetchImage = func(_ context.Context, urlStr string) (*fetch.Result, error) {
		fetched++
		return &fetch.Result{URL: urlStr, Body: body, ContentType: "image/png", StatusCode: 200}, nil
	}

	summary := testSummary()
	summary.ProfileImageURL = "https://styles.redditmedia.com/avatar.png"
	renderToTemp(t, e, summary)
	assert.Equal(t, 1, fetched)
}

func TestRenderPDFDefaultAvatarSkipsFetch(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.fetchImage = func(_ context.Context, _ string) (*fetch.Result, error) {
		t.Fatal("default avatar URL must not be fetched")
		return nil, nil
	}

	summary := testSummary()
	summary.ProfileImageURL = "https://www.redditstatic.com/avatars/defaults/v2/avatar_default_0.png"
	renderToTemp(t, e, summary)
}

func TestRenderPDFImageFetchFailureDegrades(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.fetchImage = func(_ context.Context, _ string) (*fetch.Result, error) {
		return nil, errors.New("connection refused")
	}

	summary := testSummary()
	summary.ProfileImageURL = "https://styles.redditmedia.com/avatar.png"
	renderToTemp(t, e, summary)
}

func TestRenderPDFUnsupportedImageDegrades(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.fetchImage = func(_ context.Context, urlStr string) (*fetch.Result, error) {
		return &fetch.Result{URL: urlStr, Body: []byte("<svg/>"), ContentType: "image/svg+xml", StatusCode: 200}, nil
	}

	summary := testSummary()
	summary.ProfileImageURL = "https://styles.redditmedia.com/avatar.svg"
	renderToTemp(t, e, summary)
}

func TestRenderPDFNoImageURL(t *testing.T) {
	e := NewEngine(zap.NewNop())
	e.fetchImage = func(_ context.Context, _ string) (*fetch.Result, error) {
		t.Fatal("empty URL must not be fetched")
		return nil, nil
	}
	renderToTemp(t, e, testSummary())
}

func TestRenderPDFEmptyActivity(t *testing.T) {
	e := NewEngine(zap.NewNop())
	outPath := filepath.Join(t.TempDir(), "out.pdf")
	err := e.RenderPDF(context.Background(), "ghost", types.ActivitySummary{}, types.FallbackPersona(), outPath)
	require.NoError(t, err, "an empty summary still renders with defaults")
}

func TestRenderPDFBadOutputPath(t *testing.T) {
	e := NewEngine(zap.NewNop())
	err := e.RenderPDF(context.Background(), "kojied", testSummary(), types.FallbackPersona(),
		filepath.Join(t.TempDir(), "missing", "nested", "out.pdf"))
	require.Error(t, err)

	var re *RenderError
	assert.ErrorAs(t, err, &re)
}

func TestImageTypeFor(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
	}{
		{"png by header", "image/png", nil, "PNG"},
		{"jpeg by header", "image/jpeg", nil, "JPG"},
		{"gif by header", "image/gif", nil, "GIF"},
		{"sniffed png", "application/octet-stream", []byte("\x89PNG\r\n\x1a\n0000000000"), "PNG"},
		{"unsupported", "image/svg+xml", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &fetch.Result{ContentType: tt.contentType, Body: tt.body}
			assert.Equal(t, tt.want, imageTypeFor(result))
		})
	}
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "0", formatThousands(0))
	assert.Equal(t, "999", formatThousands(999))
	assert.Equal(t, "21,523", formatThousands(21523))
	assert.Equal(t, "1,234,567", formatThousands(1234567))
	assert.Equal(t, "-4,200", formatThousands(-4200))
}
