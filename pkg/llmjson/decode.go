package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no JSON object can be located in a model
// response at all.
var ErrNoJSON = errors.New("no JSON object found in model response")

// Decode parses a model response into v. Model output is rarely clean, so
// the fallback order is fixed and shared by every capability client:
//
//  1. strict parse of the whole response
//  2. parse after stripping markdown code fences
//  3. parse the substring between the first "{" and the last "}"
//
// Anything else is a decode failure; callers map it to their own
// fallback behaviour and must never mutate state on error.
func Decode(response string, v any) error {
	trimmed := strings.TrimSpace(response)
	if trimmed == "" {
		return ErrNoJSON
	}

	if err := json.Unmarshal([]byte(trimmed), v); err == nil {
		return nil
	}

	if stripped := stripFences(trimmed); stripped != trimmed {
		if err := json.Unmarshal([]byte(stripped), v); err == nil {
			return nil
		}
	}

	embedded := extractBraces(trimmed)
	if embedded == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(embedded), v); err != nil {
		return fmt.Errorf("unmarshal embedded JSON: %w", err)
	}
	return nil
}

// stripFences removes a leading ```json / ``` marker and a trailing ```.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// extractBraces returns the widest substring that starts at the first "{"
// and ends at the last "}", or "" when the response holds no object.
func extractBraces(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
