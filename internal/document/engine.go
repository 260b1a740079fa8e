package document

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/fetch"
	"github.com/jonathan/reddit-persona/internal/types"
)

// defaultAvatarPrefix marks Reddit's stock avatars, which are not worth
// fetching; the placeholder block is used instead.
const defaultAvatarPrefix = "https://www.redditstatic.com/avatars/defaults/"

// Item caps per column-4 list, matching the space the column allows.
const (
	maxBehaviorItems    = 4
	maxFrustrationItems = 3
	maxGoalItems        = 3
)

// accentColor is the orange used for headings, the quote block, and track
// indicators.
var accentColor = [3]int{255, 107, 53}

// RenderError is returned when the visual artifact cannot be produced. The
// pipeline recovers it by promoting the text artifact to primary output.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document rendering failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document rendering failed: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Engine renders the one-page visual persona document.
type Engine struct {
	log        *zap.Logger
	fetchImage func(ctx context.Context, urlStr string) (*fetch.Result, error)
}

// NewEngine creates a document engine. The profile image is fetched with a
// bounded timeout; any asset failure degrades to a placeholder block.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		log: log,
		fetchImage: func(ctx context.Context, urlStr string) (*fetch.Result, error) {
			return fetch.Bytes(ctx, urlStr, &fetch.Options{Timeout: fetch.ImageTimeout})
		},
	}
}

// RenderPDF draws the four-column persona page and writes it to outPath.
// Individual elements degrade to defaults; only a whole-document failure
// returns an error.
func (e *Engine) RenderPDF(ctx context.Context, username string, summary types.ActivitySummary, persona types.PersonaDocument, outPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &RenderError{Message: fmt.Sprintf("panic: %v", r)}
		}
	}()

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.AddPage()

	// Title: the username as a large accent heading.
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(accentColor[0], accentColor[1], accentColor[2])
	pdf.SetXY(margin, margin)
	pdf.CellFormat(ContentWidth(), 12, strings.ToUpper(username), "", 1, "L", false, 0, "")

	top := pdf.GetY() + 4

	e.drawProfileColumn(ctx, pdf, top, summary, persona)
	e.drawFactsColumn(pdf, top, summary, persona)
	e.drawMotivationColumn(pdf, top, persona)
	e.drawListColumn(pdf, top, persona)

	if pdf.Err() {
		return &RenderError{Message: "drawing failed", Cause: pdf.Error()}
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return &RenderError{Message: "failed to write " + outPath, Cause: err}
	}

	e.log.Info("visual artifact written",
		zap.String("username", username),
		zap.String("path", outPath))
	return nil
}

// drawProfileColumn renders column 1: profile image (or placeholder) and the
// highlighted summary quote.
func (e *Engine) drawProfileColumn(ctx context.Context, pdf *fpdf.Fpdf, top float64, summary types.ActivitySummary, persona types.PersonaDocument) {
	x := ColumnX(0)
	w := ColumnWidth()

	if !e.drawProfileImage(ctx, pdf, x, top, w, summary.ProfileImageURL) {
		// Grey placeholder block with the same footprint as the image.
		pdf.SetFillColor(204, 204, 204)
		pdf.SetDrawColor(0, 0, 0)
		pdf.Rect(x, top, w, w, "FD")
	}

	quoteTop := top + w + 4
	pdf.SetFillColor(accentColor[0], accentColor[1], accentColor[2])
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetXY(x, quoteTop)
	pdf.MultiCell(w, 4.5, persona.Summary, "", "C", true)
}

// drawProfileImage fetches and places the avatar. Returns false when the
// placeholder should be drawn instead.
func (e *Engine) drawProfileImage(ctx context.Context, pdf *fpdf.Fpdf, x, y, size float64, urlStr string) bool {
	if urlStr == "" || strings.HasPrefix(urlStr, defaultAvatarPrefix) {
		return false
	}

	result, err := e.fetchImage(ctx, urlStr)
	if err != nil {
		e.log.Warn("profile image fetch failed", zap.String("url", urlStr), zap.Error(err))
		return false
	}

	imageType := imageTypeFor(result)
	if imageType == "" {
		e.log.Warn("profile image has unsupported format",
			zap.String("url", urlStr),
			zap.String("content_type", result.ContentType))
		return false
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader("profile", opts, bytes.NewReader(result.Body))
	if pdf.Err() {
		e.log.Warn("profile image could not be decoded", zap.Error(pdf.Error()))
		pdf.ClearError()
		return false
	}
	pdf.ImageOptions("profile", x, y, size, size, false, opts, 0, "")
	return true
}

// drawFactsColumn renders column 2: key/value account facts and the 2x2
// trait grid.
func (e *Engine) drawFactsColumn(pdf *fpdf.Fpdf, top float64, summary types.ActivitySummary, persona types.PersonaDocument) {
	x := ColumnX(1)
	w := ColumnWidth()

	facts := []struct {
		label string
		value string
	}{
		{"AGE", strconv.Itoa(summary.AccountAgeDays / 365)},
		{"OCCUPATION", persona.Occupation},
		{"LOCATION", persona.Location},
		{"ACCOUNT AGE", fmt.Sprintf("%d days", summary.AccountAgeDays)},
		{"TOTAL KARMA", formatThousands(summary.TotalKarma)},
		{"POSTS ANALYZED", strconv.Itoa(summary.TotalPosts)},
		{"COMMENTS ANALYZED", strconv.Itoa(summary.TotalComments)},
		{"SUBREDDITS", strconv.Itoa(summary.UniqueSubreddits)},
	}

	pdf.SetTextColor(0, 0, 0)
	y := top
	for _, fact := range facts {
		pdf.SetXY(x, y)
		pdf.SetFont("Helvetica", "B", 7)
		pdf.CellFormat(w*0.45, 5, fact.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(w*0.55, 5, fact.value, "", 0, "L", false, 0, "")
		y += 5
	}

	// Trait grid: 2 columns, row by row; an odd trailing trait leaves the
	// last cell blank.
	y += 4
	traits := persona.PersonalityTraits
	if len(traits) > 4 {
		traits = traits[:4]
	}
	cellW := w / 2
	pdf.SetFillColor(243, 243, 243)
	pdf.SetDrawColor(224, 224, 224)
	pdf.SetFont("Helvetica", "B", 7)
	for i := 0; i < len(traits); i += 2 {
		pdf.SetXY(x, y)
		pdf.CellFormat(cellW, 7, traits[i], "1", 0, "C", true, 0, "")
		right := ""
		if i+1 < len(traits) {
			right = traits[i+1]
		}
		pdf.CellFormat(cellW, 7, right, "1", 0, "C", true, 0, "")
		y += 7
	}
}

// drawMotivationColumn renders column 3: the motivations table and the four
// bipolar personality tracks.
func (e *Engine) drawMotivationColumn(pdf *fpdf.Fpdf, top float64, persona types.PersonaDocument) {
	x := ColumnX(2)
	w := ColumnWidth()

	y := drawColumnTitle(pdf, x, top, w, "MOTIVATIONS")
	pdf.SetFillColor(243, 243, 243)
	pdf.SetDrawColor(224, 224, 224)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 7)
	for _, key := range types.MotivationKeys {
		level := persona.Motivations[key]
		pdf.SetXY(x, y)
		pdf.CellFormat(w*0.6, 6, strings.ToUpper(key), "1", 0, "L", true, 0, "")
		pdf.CellFormat(w*0.4, 6, string(level), "1", 0, "L", true, 0, "")
		y += 6
	}

	y += 4
	y = drawColumnTitle(pdf, x, y, w, "PERSONALITY")
	labelW := w * 0.3
	trackW := w * 0.4
	for _, axis := range types.PersonalityAxes {
		value, ok := persona.PersonalityBars[axis.Key]
		if !ok {
			value = 0.5
		}

		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "B", 6)
		pdf.SetXY(x, y)
		pdf.CellFormat(labelW, 6, axis.Left, "", 0, "L", false, 0, "")
		pdf.SetXY(x+labelW+trackW, y)
		pdf.CellFormat(labelW, 6, axis.Right, "", 0, "R", false, 0, "")

		trackX := x + labelW
		trackY := y + 2
		pdf.SetFillColor(224, 224, 224)
		pdf.Rect(trackX, trackY, trackW, 2.5, "F")
		pdf.SetFillColor(accentColor[0], accentColor[1], accentColor[2])
		pdf.Rect(trackX+IndicatorOffset(value, trackW), trackY, indicatorWidth, 2.5, "F")

		y += 7
	}
}

// drawListColumn renders column 4: behavior, frustrations, and goals as
// bulleted lists.
func (e *Engine) drawListColumn(pdf *fpdf.Fpdf, top float64, persona types.PersonaDocument) {
	x := ColumnX(3)
	w := ColumnWidth()

	y := drawBulletList(pdf, x, top, w, "BEHAVIOUR & HABITS", capped(persona.RedditBehavior, maxBehaviorItems))
	y = drawBulletList(pdf, x, y+4, w, "FRUSTRATIONS", capped(persona.Frustrations, maxFrustrationItems))
	drawBulletList(pdf, x, y+4, w, "GOALS & NEEDS", capped(persona.Goals, maxGoalItems))
}

func drawColumnTitle(pdf *fpdf.Fpdf, x, y, w float64, title string) float64 {
	pdf.SetTextColor(accentColor[0], accentColor[1], accentColor[2])
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, 5, title, "", 1, "L", false, 0, "")
	return y + 6
}

func drawBulletList(pdf *fpdf.Fpdf, x, y, w float64, title string, items []string) float64 {
	y = drawColumnTitle(pdf, x, y, w, title)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 7)
	for _, item := range items {
		pdf.SetXY(x, y)
		pdf.MultiCell(w, 4, "• "+item, "", "L", false)
		y = pdf.GetY() + 1
	}
	return y
}

func capped(items []string, limit int) []string {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// imageTypeFor maps a fetch result to an fpdf image type, sniffing the body
// when the server sent no usable content type.
func imageTypeFor(result *fetch.Result) string {
	contentType := result.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(result.Body)
	}
	switch {
	case strings.Contains(contentType, "png"):
		return "PNG"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		return "JPG"
	case strings.Contains(contentType, "gif"):
		return "GIF"
	default:
		return ""
	}
}

// formatThousands renders an integer with comma separators.
func formatThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		return "-" + out
	}
	return out
}
