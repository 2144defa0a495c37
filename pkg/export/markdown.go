package export

import (
	"fmt"
	"strings"
	"time"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/store"
)

// DefaultTitle is used when the caller does not name the document.
const DefaultTitle = "Product Requirements Document"

// Markdown renders the document as plain markdown: one heading per
// catalog section in catalog order, the section text or a placeholder,
// and a numbered question list where elaboration produced one. When
// detailed is non-nil its text wins over the raw document text.
func Markdown(doc store.Document, detailed map[string]store.DetailedSection, title string, now time.Time) string {
	if title == "" {
		title = DefaultTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "*Generated on %s*\n\n---\n\n", now.Format("2006-01-02 15:04"))

	for _, name := range constant.SectionNames {
		text := doc[name]
		var questions []string

		if detail, ok := detailed[name]; ok {
			if detail.Text != nil && *detail.Text != "" {
				text = detail.Text
			}
			questions = detail.Questions
		}

		fmt.Fprintf(&b, "## %s\n\n", name)
		if text != nil && *text != "" {
			b.WriteString(*text)
		} else {
			b.WriteString("*No information provided.*")
		}
		b.WriteString("\n\n")

		if len(questions) > 0 {
			b.WriteString("### Recommended Next Steps\n\n")
			for i, q := range questions {
				fmt.Fprintf(&b, "%d. %s\n", i+1, q)
			}
			b.WriteString("\n")
		}

		b.WriteString("---\n\n")
	}

	return b.String()
}
