package synthesis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/schemas"
	"github.com/jonathan/reddit-persona/internal/types"
)

// fakeCompleter returns a canned response or error.
type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	return f.response, f.err
}

func (f *fakeCompleter) Close() error { return nil }

func synthesize(t *testing.T, response string, err error) types.PersonaDocument {
	t.Helper()
	s := New(&fakeCompleter{response: response, err: err}, zap.NewNop())
	doc := s.Synthesize(context.Background(), "prompt")
	require.NoError(t, schemas.ValidatePersona(doc),
		"every synthesized document must be schema-valid")
	return doc
}

const validResponse = `{
	"occupation": "Software Engineer",
	"location": "Berlin",
	"personality_traits": ["Analytical", "Curious", "Patient", "Direct"],
	"reddit_behavior": ["Answers questions", "Posts in niche subs", "Lurks weekends", "Upvotes generously"],
	"goals": ["Learn new tools", "Help beginners", "Stay informed"],
	"frustrations": ["Reposts", "Low-effort content", "Karma farming"],
	"summary": "A technically minded regular who spends most time in programming communities.",
	"motivations": {"convenience": "High", "wellness": "Low", "speed": "Medium", "preferences": "High"},
	"personality_bars": {"introvert_extrovert": 0.3, "intuition_sensing": 0.6, "feeling_thinking": 0.8, "perceiving_judging": 0.4}
}`

func TestSynthesizeValidResponse(t *testing.T) {
	doc := synthesize(t, validResponse, nil)

	assert.Equal(t, "Software Engineer", doc.Occupation)
	assert.Equal(t, "Berlin", doc.Location)
	assert.Len(t, doc.PersonalityTraits, 4)
	assert.Equal(t, types.MotivationHigh, doc.Motivations[types.MotivationConvenience])
	assert.Equal(t, 0.3, doc.PersonalityBars[types.AxisIntrovertExtrovert])
}

func TestSynthesizeCompleterError(t *testing.T) {
	doc := synthesize(t, "", errors.New("deadline exceeded"))
	assert.Equal(t, types.FallbackPersona(), doc,
		"provider failure resolves to exactly the fallback persona")
}

func TestSynthesizeUnparseableResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"plain prose", "I am sorry, I cannot help with that."},
		{"empty", ""},
		{"JSON array not object", `["a", "b"]`},
		{"bare scalar", `42`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := synthesize(t, tt.response, nil)
			assert.Equal(t, types.FallbackPersona(), doc)
		})
	}
}

func TestSynthesizeStripsCodeFences(t *testing.T) {
	doc := synthesize(t, "```json\n"+validResponse+"\n```", nil)
	assert.Equal(t, "Software Engineer", doc.Occupation)
}

func TestSynthesizeStripsSurroundingProse(t *testing.T) {
	response := "Here is the persona you asked for:\n\n" + validResponse +
		"\n\nLet me know if you need anything else!"
	doc := synthesize(t, response, nil)

	assert.Equal(t, "Software Engineer", doc.Occupation)
	assert.Equal(t, "Berlin", doc.Location)
	assert.NotEqual(t, types.FallbackPersona(), doc,
		"prose around the JSON must not force the fallback")
}

func TestSynthesizeRepairsMalformedJSON(t *testing.T) {
	// Trailing comma plus single quotes: strict parse fails, repair succeeds.
	response := `{'occupation': 'Analyst', 'summary': 'Brief summary.',}`
	doc := synthesize(t, response, nil)

	assert.Equal(t, "Analyst", doc.Occupation)
	assert.Equal(t, "Brief summary.", doc.Summary)
	// Everything else came from the fallback.
	fallback := types.FallbackPersona()
	assert.Equal(t, fallback.PersonalityTraits, doc.PersonalityTraits)
	assert.Equal(t, fallback.Motivations, doc.Motivations)
}

func TestSynthesizeMissingFieldsRepairedFromFallback(t *testing.T) {
	fallback := types.FallbackPersona()

	tests := []struct {
		name     string
		response string
		check    func(t *testing.T, doc types.PersonaDocument)
	}{
		{
			name:     "empty object",
			response: `{}`,
			check: func(t *testing.T, doc types.PersonaDocument) {
				assert.Equal(t, fallback, doc)
			},
		},
		{
			name:     "missing lists",
			response: `{"occupation": "Writer", "location": "Oslo", "summary": "s"}`,
			check: func(t *testing.T, doc types.PersonaDocument) {
				assert.Equal(t, "Writer", doc.Occupation)
				assert.Equal(t, fallback.Goals, doc.Goals)
				assert.Equal(t, fallback.Frustrations, doc.Frustrations)
			},
		},
		{
			name:     "scalar coerced to one-element list",
			response: `{"personality_traits": "Stubborn"}`,
			check: func(t *testing.T, doc types.PersonaDocument) {
				assert.Equal(t, []string{"Stubborn"}, doc.PersonalityTraits)
			},
		},
		{
			name:     "null field falls back",
			response: `{"goals": null}`,
			check: func(t *testing.T, doc types.PersonaDocument) {
				assert.Equal(t, fallback.Goals, doc.Goals)
			},
		},
		{
			name:     "wrong-typed scalar falls back",
			response: `{"occupation": 7}`,
			check: func(t *testing.T, doc types.PersonaDocument) {
				assert.Equal(t, fallback.Occupation, doc.Occupation)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, synthesize(t, tt.response, nil))
		})
	}
}

func TestSynthesizeNormalizesMotivations(t *testing.T) {
	response := `{"motivations": {"convenience": "HIGH", "speed": "low", "bogus": "High", "wellness": 3}}`
	doc := synthesize(t, response, nil)

	assert.Equal(t, types.MotivationHigh, doc.Motivations[types.MotivationConvenience])
	assert.Equal(t, types.MotivationLow, doc.Motivations[types.MotivationSpeed])
	assert.Equal(t, types.MotivationMedium, doc.Motivations[types.MotivationWellness],
		"non-string level falls back")
	assert.Len(t, doc.Motivations, 4, "unknown keys dropped, required keys filled")
	assert.NotContains(t, doc.Motivations, "bogus")
}

func TestSynthesizeNormalizesPersonalityBars(t *testing.T) {
	response := `{"personality_bars": {"introvert_extrovert": 1.7, "intuition_sensing": -0.2, "feeling_thinking": "0.25", "extra_axis": 0.9}}`
	doc := synthesize(t, response, nil)

	assert.Equal(t, 1.0, doc.PersonalityBars[types.AxisIntrovertExtrovert], "clamped high")
	assert.Equal(t, 0.0, doc.PersonalityBars[types.AxisIntuitionSensing], "clamped low")
	assert.Equal(t, 0.25, doc.PersonalityBars[types.AxisFeelingThinking], "numeric string accepted")
	assert.Equal(t, 0.5, doc.PersonalityBars[types.AxisPerceivingJudging], "missing axis from fallback")
	assert.NotContains(t, doc.PersonalityBars, "extra_axis")
}

func TestSynthesizeListWithMixedElements(t *testing.T) {
	response := `{"goals": ["Ship it", 12, true, ""]}`
	doc := synthesize(t, response, nil)
	assert.Equal(t, []string{"Ship it", "12", "true"}, doc.Goals)
}
