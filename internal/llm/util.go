// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import "strings"

// CleanJSONBlock isolates the JSON value in a raw completion. Models wrap
// JSON in ```json fences, lead with prose ("Here is the persona:") or append
// trailing chatter even when instructed not to; fences and surrounding text
// are stripped here. Input with no balanced JSON value is returned unchanged
// so the caller's repair step still sees the full text.
func CleanJSONBlock(text string) string {
	text = stripCodeFences(strings.TrimSpace(text))
	if extracted := extractJSONValue(text); extracted != "" {
		return extracted
	}
	return text
}

// stripCodeFences removes a surrounding markdown code block, tolerating a
// language identifier on the opening fence.
func stripCodeFences(text string) string {
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

// extractJSONValue returns the first balanced JSON object or array in the
// text, whichever opens earlier, or "" when none is found.
func extractJSONValue(text string) string {
	objIdx := strings.IndexByte(text, '{')
	arrIdx := strings.IndexByte(text, '[')

	switch {
	case objIdx >= 0 && (arrIdx < 0 || objIdx < arrIdx):
		return extractJSONObject(text[objIdx:])
	case arrIdx >= 0:
		return extractJSONArray(text[arrIdx:])
	}
	return ""
}

// extractJSONObject returns the balanced object at the start of the text,
// or "" if the text does not open with one or the braces never balance.
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray is the array counterpart of extractJSONObject.
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

// extractBalanced scans for the closing delimiter matching the opener at
// position 0, skipping delimiters inside double-quoted strings.
func extractBalanced(text string, open, close byte) string {
	if len(text) == 0 || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
