package completeness

import (
	"strings"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/store"
)

// The evaluator is the pure oracle the engine branches on: no side
// effects, no model calls. Completeness is a plain word-count policy.

// WordCount counts whitespace-delimited tokens; nil or blank text is 0.
func WordCount(text *string) int {
	if text == nil {
		return 0
	}
	return len(strings.Fields(*text))
}

// IsSectionComplete reports whether text meets the threshold.
func IsSectionComplete(text *string, threshold int) bool {
	return WordCount(text) >= threshold
}

// ComputeGaps returns the incomplete section names in catalog order.
// The order is significant: it is the order gaps are presented to the
// user.
func ComputeGaps(doc store.Document, threshold int) []string {
	gaps := make([]string, 0, len(constant.SectionNames))
	for _, name := range constant.SectionNames {
		if !IsSectionComplete(doc[name], threshold) {
			gaps = append(gaps, name)
		}
	}
	return gaps
}

// IsDocumentComplete is true iff no section is below the threshold.
func IsDocumentComplete(doc store.Document, threshold int) bool {
	return len(ComputeGaps(doc, threshold)) == 0
}
