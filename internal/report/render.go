// Package report assembles the plain-text persona artifact. Each section is
// rendered in isolation: a section that cannot be produced yields a fixed
// placeholder while the rest of the document renders normally.
package report

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/types"
)

const (
	bannerWidth  = 80
	sectionWidth = 40

	// primaryInterestLimit splits the ranked subreddit list into primary
	// and secondary interests.
	primaryInterestLimit = 5
)

// SectionResult is the outcome of rendering one section. A failed section
// carries its error and renders as a placeholder.
type SectionResult struct {
	Title string
	Body  string
	Err   error
}

// sectionSpec pairs a section's display title with its short placeholder
// name and rendering function.
type sectionSpec struct {
	title  string
	name   string
	render func(summary types.ActivitySummary, persona types.PersonaDocument) (string, error)
}

// Renderer produces the plain-text persona report.
type Renderer struct {
	log *zap.Logger
	now func() time.Time
}

// NewRenderer creates a text report renderer.
func NewRenderer(log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{log: log, now: time.Now}
}

// RenderText assembles the complete report: header, the fixed section
// sequence, footer. It never fails; failed sections become placeholders.
func (r *Renderer) RenderText(username string, summary types.ActivitySummary, persona types.PersonaDocument) string {
	var sb strings.Builder
	sb.WriteString(r.renderHeader(username, summary))

	for _, result := range r.RenderSections(summary, persona) {
		if result.Err != nil {
			r.log.Error("section rendering failed",
				zap.String("section", result.Title),
				zap.String("username", username),
				zap.Error(result.Err))
		}
		sb.WriteString(result.Body)
	}

	sb.WriteString(renderFooter())
	return sb.String()
}

// RenderSections renders the fixed section sequence, substituting a
// placeholder body for any section that errors.
func (r *Renderer) RenderSections(summary types.ActivitySummary, persona types.PersonaDocument) []SectionResult {
	specs := []sectionSpec{
		{"DEMOGRAPHICS & BACKGROUND", "demographics", renderDemographics},
		{"INTERESTS & HOBBIES", "interests", renderInterests},
		{"COMMUNICATION STYLE", "communication", renderCommunication},
		{"PERSONALITY TRAITS", "personality", renderPersonality},
		{"ONLINE BEHAVIOR", "behavior", renderBehavior},
		{"VALUES & BELIEFS", "values", renderValues},
		{"TECHNICAL PROFICIENCY", "technical", renderTechnical},
		{"SOCIAL ENGAGEMENT", "social", renderSocial},
	}

	results := make([]SectionResult, 0, len(specs))
	for _, spec := range specs {
		body, err := spec.render(summary, persona)
		if err != nil {
			body = placeholderSection(spec.title, spec.name)
		}
		results = append(results, SectionResult{Title: spec.title, Body: body, Err: err})
	}
	return results
}

func (r *Renderer) renderHeader(username string, summary types.ActivitySummary) string {
	var sb strings.Builder
	banner := strings.Repeat("=", bannerWidth)

	sb.WriteString("\n" + banner + "\n")
	sb.WriteString("REDDIT USER PERSONA ANALYSIS\n")
	sb.WriteString(banner + "\n\n")
	sb.WriteString(fmt.Sprintf("Username: %s\n", username))
	sb.WriteString(fmt.Sprintf("Analysis Date: %s\n\n", r.now().Format("2006-01-02 15:04:05")))

	sb.WriteString("ACCOUNT OVERVIEW:\n")
	sb.WriteString(fmt.Sprintf("• Account Age: %d days\n", summary.AccountAgeDays))
	sb.WriteString(fmt.Sprintf("• Total Posts: %d\n", summary.TotalPosts))
	sb.WriteString(fmt.Sprintf("• Total Comments: %d\n", summary.TotalComments))
	sb.WriteString(fmt.Sprintf("• Total Karma: %d (Comment: %d, Link: %d)\n",
		summary.TotalKarma, summary.CommentKarma, summary.LinkKarma))
	sb.WriteString(fmt.Sprintf("• Average Post Score: %.2f\n", summary.AvgPostScore))
	sb.WriteString(fmt.Sprintf("• Average Comment Score: %.2f\n", summary.AvgCommentScore))
	sb.WriteString(fmt.Sprintf("• Unique Subreddits: %d\n", summary.UniqueSubreddits))

	sb.WriteString("\nTop Subreddits:\n")
	for i, sub := range summary.TopSubreddits {
		sb.WriteString(fmt.Sprintf("  %d. r/%s (%d posts/comments)\n", i+1, sub.Name, sub.Count))
	}

	sb.WriteString("\n" + banner + "\n\n")
	return sb.String()
}

func sectionHeading(title string) string {
	return "\n" + title + "\n" + strings.Repeat("-", sectionWidth) + "\n"
}

func placeholderSection(title, name string) string {
	return sectionHeading(title) + fmt.Sprintf("Unable to generate %s section.\n\n", name)
}

func renderDemographics(_ types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if persona.Occupation == "" && persona.Location == "" {
		return "", fmt.Errorf("no demographic fields available")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("DEMOGRAPHICS & BACKGROUND"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Occupation: %s\n", orUnknown(persona.Occupation)))
	sb.WriteString(fmt.Sprintf("Likely Location: %s\n", orUnknown(persona.Location)))
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderInterests(summary types.ActivitySummary, _ types.PersonaDocument) (string, error) {
	if len(summary.TopSubreddits) == 0 {
		return "", fmt.Errorf("no subreddit activity to derive interests from")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("INTERESTS & HOBBIES"))
	sb.WriteString("\nPrimary Interests:\n")
	for i, sub := range summary.TopSubreddits {
		if i >= primaryInterestLimit {
			break
		}
		sb.WriteString(fmt.Sprintf("  %d. r/%s\n", i+1, sub.Name))
	}

	if len(summary.TopSubreddits) > primaryInterestLimit {
		sb.WriteString("\nSecondary Interests:\n")
		for i, sub := range summary.TopSubreddits[primaryInterestLimit:] {
			sb.WriteString(fmt.Sprintf("  %d. r/%s\n", i+1, sub.Name))
		}
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func renderCommunication(summary types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if persona.Summary == "" {
		return "", fmt.Errorf("persona summary is empty")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("COMMUNICATION STYLE"))
	sb.WriteString("\n")
	sb.WriteString(persona.Summary + "\n\n")
	sb.WriteString(fmt.Sprintf("Average Post Score: %.2f\n", summary.AvgPostScore))
	sb.WriteString(fmt.Sprintf("Average Comment Score: %.2f\n", summary.AvgCommentScore))
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderPersonality(_ types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if len(persona.PersonalityTraits) == 0 {
		return "", fmt.Errorf("no personality traits available")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("PERSONALITY TRAITS"))
	sb.WriteString("\nTraits:\n")
	for i, trait := range persona.PersonalityTraits {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, trait))
	}

	sb.WriteString("\nDimensions:\n")
	for _, axis := range types.PersonalityAxes {
		value, ok := persona.PersonalityBars[axis.Key]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: %s\n", axisLabel(axis), axisLeaning(axis, value)))
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func renderBehavior(summary types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if len(persona.RedditBehavior) == 0 {
		return "", fmt.Errorf("no behavior observations available")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("ONLINE BEHAVIOR"))
	sb.WriteString("\nObserved Behavior:\n")
	for i, item := range persona.RedditBehavior {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Posts Analyzed: %d\n", summary.TotalPosts))
	sb.WriteString(fmt.Sprintf("Comments Analyzed: %d\n", summary.TotalComments))
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderValues(_ types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if len(persona.Goals) == 0 && len(persona.Motivations) == 0 {
		return "", fmt.Errorf("no goals or motivations available")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("VALUES & BELIEFS"))
	sb.WriteString("\nGoals:\n")
	for i, goal := range persona.Goals {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, goal))
	}

	sb.WriteString("\nMotivations:\n")
	for _, key := range types.MotivationKeys {
		level, ok := persona.Motivations[key]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s: %s\n", motivationLabel(key), level))
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func renderTechnical(summary types.ActivitySummary, _ types.PersonaDocument) (string, error) {
	if len(summary.TopSubreddits) == 0 {
		return "", fmt.Errorf("no activity to assess technical proficiency from")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("TECHNICAL PROFICIENCY"))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Level: %s\n", proficiencyLevel(summary)))
	sb.WriteString("\nActive Areas:\n")
	for i, sub := range summary.TopSubreddits {
		if i >= primaryInterestLimit {
			break
		}
		sb.WriteString(fmt.Sprintf("  %d. r/%s\n", i+1, sub.Name))
	}

	sb.WriteString("\n")
	return sb.String(), nil
}

func renderSocial(summary types.ActivitySummary, persona types.PersonaDocument) (string, error) {
	if len(persona.Frustrations) == 0 {
		return "", fmt.Errorf("no frustrations available")
	}

	var sb strings.Builder
	sb.WriteString(sectionHeading("SOCIAL ENGAGEMENT"))
	sb.WriteString("\nFrustrations:\n")
	for i, item := range persona.Frustrations {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item))
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Community Participation: active in %d subreddits\n", summary.UniqueSubreddits))
	sb.WriteString("\n")
	return sb.String(), nil
}

func renderFooter() string {
	banner := strings.Repeat("=", bannerWidth)
	return "\n" + banner + "\n" +
		"ANALYSIS COMPLETE\n\n" +
		"This persona analysis was generated from public Reddit activity using a\n" +
		"generative language model. Characteristics are inferences, not facts.\n\n" +
		"Note: This analysis is based on publicly available Reddit data and should be\n" +
		"used responsibly and in accordance with Reddit's terms of service.\n" +
		banner + "\n"
}

func orUnknown(s string) string {
	if s == "" {
		return "Unable to determine"
	}
	return s
}

func axisLabel(axis types.PersonalityAxis) string {
	return titleCase(axis.Left) + "/" + titleCase(axis.Right)
}

// axisLeaning describes which pole a bar value leans toward.
func axisLeaning(axis types.PersonalityAxis, value float64) string {
	switch {
	case value < 0.4:
		return "leans " + titleCase(axis.Left)
	case value > 0.6:
		return "leans " + titleCase(axis.Right)
	default:
		return "balanced"
	}
}

func motivationLabel(key string) string {
	return titleCase(key)
}

func titleCase(word string) string {
	lower := strings.ToLower(word)
	if lower == "" {
		return ""
	}
	return strings.ToUpper(lower[:1]) + lower[1:]
}

// proficiencyLevel derives a coarse engagement level from account stats.
func proficiencyLevel(summary types.ActivitySummary) string {
	activity := summary.TotalPosts + summary.TotalComments
	switch {
	case activity >= 100 && summary.UniqueSubreddits >= 10:
		return "High"
	case activity >= 20:
		return "Medium"
	default:
		return "Low"
	}
}
