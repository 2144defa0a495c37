package export

import (
	"strings"
	"testing"
	"time"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/store"
)

func strPtr(s string) *string { return &s }

func TestMarkdownDraftOnly(t *testing.T) {
	doc := store.NewDocument()
	doc["Goal"] = strPtr("Increase retention by 25% in Q2.")

	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	md := Markdown(doc, nil, "", now)

	if !strings.HasPrefix(md, "# "+DefaultTitle+"\n") {
		t.Errorf("missing default title, got prefix %q", md[:40])
	}
	if !strings.Contains(md, "*Generated on 2025-06-01 09:30*") {
		t.Error("missing generated-on stamp")
	}
	if !strings.Contains(md, "## Goal\n\nIncrease retention by 25% in Q2.") {
		t.Error("missing goal section body")
	}
	if !strings.Contains(md, "## Risks\n\n*No information provided.*") {
		t.Error("missing placeholder for empty section")
	}
	if strings.Contains(md, "Recommended Next Steps") {
		t.Error("question list rendered without detailed sections")
	}

	// Every catalog section gets a heading, in order.
	last := 0
	for _, name := range constant.SectionNames {
		idx := strings.Index(md, "## "+name+"\n")
		if idx == -1 {
			t.Fatalf("missing heading for %s", name)
		}
		if idx < last {
			t.Fatalf("heading for %s out of catalog order", name)
		}
		last = idx
	}
}

func TestMarkdownPrefersDetailedText(t *testing.T) {
	doc := store.NewDocument()
	doc["Goal"] = strPtr("raw goal text")

	detailed := map[string]store.DetailedSection{
		"Goal": {
			Text:      strPtr("polished goal text"),
			Questions: []string{"What is the baseline?", "Which quarter?"},
		},
	}

	md := Markdown(doc, detailed, "My Spec", time.Now())

	if !strings.Contains(md, "# My Spec\n") {
		t.Error("custom title not rendered")
	}
	if !strings.Contains(md, "polished goal text") {
		t.Error("detailed text not preferred")
	}
	if strings.Contains(md, "raw goal text") {
		t.Error("raw text rendered despite detailed override")
	}
	if !strings.Contains(md, "1. What is the baseline?\n2. Which quarter?") {
		t.Error("questions not numbered in order")
	}
}

func TestMarkdownDetailedNilTextFallsBack(t *testing.T) {
	doc := store.NewDocument()
	doc["Metrics"] = strPtr("raw metrics text")

	detailed := map[string]store.DetailedSection{
		"Metrics": {Text: nil, Questions: []string{}},
	}

	md := Markdown(doc, detailed, "", time.Now())
	if !strings.Contains(md, "raw metrics text") {
		t.Error("raw text should render when the detailed bundle has no text")
	}
}
