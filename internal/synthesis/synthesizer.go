// Package synthesis turns the completion capability's untrusted output into
// a canonical, fully-populated PersonaDocument. It never fails: parse
// failures, provider errors, and timeouts all resolve to the fixed fallback
// persona, and partially-valid output is repaired field by field. Downstream
// renderers always receive one fixed shape.
package synthesis

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"go.uber.org/zap"

	"github.com/jonathan/reddit-persona/internal/llm"
	"github.com/jonathan/reddit-persona/internal/types"
)

// Synthesizer invokes the completion capability and normalizes its output.
type Synthesizer struct {
	completer llm.Completer
	log       *zap.Logger
}

// New creates a Synthesizer around a completion capability.
func New(completer llm.Completer, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{completer: completer, log: log}
}

// Synthesize runs the prompt through the completion capability and returns a
// schema-valid PersonaDocument. It never returns an error; every failure
// mode degrades to the fallback persona.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt string) types.PersonaDocument {
	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		s.log.Warn("completion capability failed, using fallback persona",
			zap.String("stage", "synthesis"),
			zap.Error(err))
		return types.FallbackPersona()
	}

	parsed, ok := s.parseObject(raw)
	if !ok {
		s.log.Warn("completion output not parseable as object, using fallback persona",
			zap.String("stage", "synthesis"),
			zap.Int("response_len", len(raw)))
		return types.FallbackPersona()
	}

	return s.repairFields(parsed)
}

// parseObject strips code fences and attempts a strict JSON parse into a
// generic object. Malformed JSON gets one repair attempt before giving up.
func (s *Synthesizer) parseObject(raw string) (map[string]any, bool) {
	cleaned := llm.CleanJSONBlock(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		return obj, true
	}

	repaired, err := jsonrepair.JSONRepair(cleaned)
	if err != nil {
		return nil, false
	}
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return nil, false
	}
	s.log.Debug("completion output required JSON repair",
		zap.String("stage", "synthesis"))
	return obj, true
}

// repairFields coerces the parsed object into the canonical schema, filling
// absent or malformed fields from the fallback persona. No partial document
// ever leaves this function.
func (s *Synthesizer) repairFields(obj map[string]any) types.PersonaDocument {
	fallback := types.FallbackPersona()
	repaired := 0

	doc := types.PersonaDocument{
		Occupation:        stringField(obj, "occupation", fallback.Occupation, &repaired),
		Location:          stringField(obj, "location", fallback.Location, &repaired),
		Summary:           stringField(obj, "summary", fallback.Summary, &repaired),
		PersonalityTraits: stringListField(obj, "personality_traits", fallback.PersonalityTraits, &repaired),
		RedditBehavior:    stringListField(obj, "reddit_behavior", fallback.RedditBehavior, &repaired),
		Goals:             stringListField(obj, "goals", fallback.Goals, &repaired),
		Frustrations:      stringListField(obj, "frustrations", fallback.Frustrations, &repaired),
	}
	doc.Motivations = motivationsField(obj, fallback.Motivations, &repaired)
	doc.PersonalityBars = barsField(obj, fallback.PersonalityBars, &repaired)

	if repaired > 0 {
		s.log.Warn("persona required field repair",
			zap.String("stage", "synthesis"),
			zap.Int("repaired_fields", repaired))
	}
	return doc
}

// stringField reads a non-empty string value, falling back otherwise.
func stringField(obj map[string]any, key, fallback string, repaired *int) string {
	if v, ok := obj[key]; ok {
		if str, ok := v.(string); ok && strings.TrimSpace(str) != "" {
			return strings.TrimSpace(str)
		}
	}
	*repaired++
	return fallback
}

// stringListField coerces a value to an ordered string sequence. A single
// scalar is wrapped as a one-element sequence; non-string elements are
// stringified; an absent or empty result falls back.
func stringListField(obj map[string]any, key string, fallback []string, repaired *int) []string {
	v, ok := obj[key]
	if !ok || v == nil {
		*repaired++
		return append([]string(nil), fallback...)
	}

	var items []string
	switch val := v.(type) {
	case []any:
		for _, item := range val {
			if s := stringify(item); s != "" {
				items = append(items, s)
			}
		}
	default:
		if s := stringify(val); s != "" {
			items = []string{s}
		}
	}

	if len(items) == 0 {
		*repaired++
		return append([]string(nil), fallback...)
	}
	return items
}

// motivationsField normalizes the motivations map to exactly the four
// required dimensions. Missing keys are filled from the fallback, unknown
// keys are dropped, and levels are canonicalized to High/Medium/Low.
func motivationsField(obj map[string]any, fallback map[string]types.MotivationLevel, repaired *int) map[string]types.MotivationLevel {
	raw, _ := obj["motivations"].(map[string]any)
	if raw == nil {
		*repaired++
		return copyMotivations(fallback)
	}

	out := make(map[string]types.MotivationLevel, len(types.MotivationKeys))
	for _, key := range types.MotivationKeys {
		level, ok := parseLevel(raw[key])
		if !ok {
			*repaired++
			level = fallback[key]
		}
		out[key] = level
	}
	return out
}

// barsField normalizes the personality-axis map to exactly the four required
// keys with values clamped into [0,1].
func barsField(obj map[string]any, fallback map[string]float64, repaired *int) map[string]float64 {
	raw, _ := obj["personality_bars"].(map[string]any)
	if raw == nil {
		*repaired++
		return copyBars(fallback)
	}

	out := make(map[string]float64, len(types.PersonalityAxes))
	for _, axis := range types.PersonalityAxes {
		value, ok := parseFloat(raw[axis.Key])
		if !ok {
			*repaired++
			value = fallback[axis.Key]
		}
		out[axis.Key] = clamp01(value)
	}
	return out
}

func parseLevel(v any) (types.MotivationLevel, bool) {
	str, ok := v.(string)
	if !ok {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(str)) {
	case "high":
		return types.MotivationHigh, true
	case "medium":
		return types.MotivationMedium, true
	case "low":
		return types.MotivationLow, true
	}
	return "", false
}

func parseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return ""
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func copyMotivations(src map[string]types.MotivationLevel) map[string]types.MotivationLevel {
	out := make(map[string]types.MotivationLevel, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func copyBars(src map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
