package completeness

import (
	"reflect"
	"strings"
	"testing"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/store"
)

func strPtr(s string) *string { return &s }

func TestWordCount(t *testing.T) {
	tests := []struct {
		name string
		text *string
		want int
	}{
		{"nil text", nil, 0},
		{"empty string", strPtr(""), 0},
		{"whitespace only", strPtr("   \n\t "), 0},
		{"single word", strPtr("short"), 1},
		{"four words", strPtr("Increase retention by 25%"), 4},
		{"extra whitespace", strPtr("  a   b \n c  "), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WordCount(tt.text); got != tt.want {
				t.Errorf("WordCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsSectionCompleteMonotonic(t *testing.T) {
	// A section at or above the threshold must never be a gap,
	// regardless of how far above it sits.
	for words := 0; words <= 30; words++ {
		text := strPtr(strings.TrimSpace(strings.Repeat("word ", words)))
		got := IsSectionComplete(text, constant.MinWordsThreshold)
		want := words >= constant.MinWordsThreshold
		if got != want {
			t.Errorf("IsSectionComplete(%d words) = %v, want %v", words, got, want)
		}
	}
}

func TestComputeGapsScenario(t *testing.T) {
	cohort := "Active users aged 18-35 who have completed onboarding but show declining engagement patterns over the first 30 days. These are primarily urban professionals using the app."
	doc := store.NewDocument()
	doc["Goal"] = strPtr("Increase retention by 25%")
	doc["User Cohort"] = strPtr(cohort)
	doc["Metrics"] = strPtr("short")

	gaps := ComputeGaps(doc, constant.MinWordsThreshold)
	want := []string{"Goal", "Problem Statement", "Metrics", "Solutions", "Risks", "GTM"}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("ComputeGaps = %v, want %v", gaps, want)
	}

	if IsDocumentComplete(doc, constant.MinWordsThreshold) {
		t.Error("IsDocumentComplete = true, want false")
	}
}

func TestComputeGapsCatalogOrder(t *testing.T) {
	// Gaps come back in catalog order no matter which sections are filled.
	long := strPtr(strings.TrimSpace(strings.Repeat("detail ", 12)))

	doc := store.NewDocument()
	doc["GTM"] = long
	doc["Goal"] = long

	gaps := ComputeGaps(doc, constant.MinWordsThreshold)
	want := []string{"Problem Statement", "User Cohort", "Metrics", "Solutions", "Risks"}
	if !reflect.DeepEqual(gaps, want) {
		t.Errorf("ComputeGaps = %v, want %v", gaps, want)
	}
}

func TestIsDocumentCompleteAllFilled(t *testing.T) {
	long := strPtr(strings.TrimSpace(strings.Repeat("detail ", constant.MinWordsThreshold)))
	doc := store.NewDocument()
	for _, name := range constant.SectionNames {
		doc[name] = long
	}

	if !IsDocumentComplete(doc, constant.MinWordsThreshold) {
		t.Error("IsDocumentComplete = false, want true")
	}
	if gaps := ComputeGaps(doc, constant.MinWordsThreshold); len(gaps) != 0 {
		t.Errorf("ComputeGaps = %v, want empty", gaps)
	}
}
