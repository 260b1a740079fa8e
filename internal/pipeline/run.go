// Package pipeline provides the high-level orchestration for one persona
// analysis: fetch, aggregate, prompt, synthesize, render.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/aggregate"
	"github.com/jonathan/reddit-persona/internal/document"
	"github.com/jonathan/reddit-persona/internal/llm"
	"github.com/jonathan/reddit-persona/internal/output"
	"github.com/jonathan/reddit-persona/internal/prompt"
	"github.com/jonathan/reddit-persona/internal/report"
	"github.com/jonathan/reddit-persona/internal/schemas"
	"github.com/jonathan/reddit-persona/internal/synthesis"
	"github.com/jonathan/reddit-persona/internal/types"
)

// ActivityFetcher retrieves a subject's profile and recent activity.
type ActivityFetcher interface {
	FetchUserData(ctx context.Context, username string) (*types.UserData, error)
}

// DocumentRenderer produces the visual artifact.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, username string, summary types.ActivitySummary, persona types.PersonaDocument, outPath string) error
}

// Result describes one finished analysis. PDFPath is empty when the visual
// artifact failed and the text artifact is the primary output.
type Result struct {
	Username string
	Summary  types.ActivitySummary
	Persona  types.PersonaDocument
	TextPath string
	PDFPath  string
	PDFErr   error
}

// Analyzer wires the pipeline stages together. Each Run is an independent
// pure transformation over its inputs; no state is carried across runs.
type Analyzer struct {
	fetcher   ActivityFetcher
	completer llm.Completer
	renderer  DocumentRenderer
	log       *zap.Logger
	outputDir string
	now       func() time.Time
}

// NewAnalyzer creates a pipeline over the given collaborators.
func NewAnalyzer(fetcher ActivityFetcher, completer llm.Completer, log *zap.Logger, outputDir string) *Analyzer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{
		fetcher:   fetcher,
		completer: completer,
		renderer:  document.NewEngine(log),
		log:       log,
		outputDir: outputDir,
		now:       time.Now,
	}
}

// Run analyzes one subject end to end. Fetch and text-artifact failures are
// fatal; a visual-artifact failure is recovered by promoting the text
// artifact to primary output.
func (a *Analyzer) Run(ctx context.Context, username string) (*Result, error) {
	log := a.log.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("username", username))
	log.Info("starting analysis")

	data, err := a.fetcher.FetchUserData(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch activity for %s: %w", username, err)
	}

	summary := aggregate.Summarize(username, data.Profile, data.Posts, data.Comments, a.now())
	log.Info("activity aggregated",
		zap.Int("posts", summary.TotalPosts),
		zap.Int("comments", summary.TotalComments),
		zap.Int("subreddits", summary.UniqueSubreddits))

	promptText := prompt.Build(summary, data.Posts, data.Comments)
	persona := synthesis.New(a.completer, log).Synthesize(ctx, promptText)
	if err := schemas.ValidatePersona(persona); err != nil {
		// Synthesis repairs every field to a valid value, so this only fires
		// if that contract is broken. The run still proceeds.
		log.Error("synthesized persona failed schema validation", zap.Error(err))
	}

	if err := output.EnsureDir(a.outputDir); err != nil {
		return nil, err
	}

	text := report.NewRenderer(log).RenderText(username, summary, persona)
	textPath := output.TextPath(a.outputDir, username)
	if err := output.WriteText(textPath, text); err != nil {
		return nil, err
	}
	log.Info("text artifact written", zap.String("path", textPath))

	result := &Result{
		Username: username,
		Summary:  summary,
		Persona:  persona,
		TextPath: textPath,
	}

	pdfPath := output.PDFPath(a.outputDir, username, a.now())
	if err := a.renderer.RenderPDF(ctx, username, summary, persona, pdfPath); err != nil {
		log.Error("visual artifact failed, text artifact is primary", zap.Error(err))
		result.PDFErr = err
		return result, nil
	}
	result.PDFPath = pdfPath

	log.Info("analysis complete", zap.String("pdf", pdfPath))
	return result, nil
}
