package elaborate

import (
	"context"
	"log"
	"sync"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/prompt"
	"ai-specdraft-be/pkg/draft/store"
	"ai-specdraft-be/pkg/llm"
	"ai-specdraft-be/pkg/llmjson"
)

type sectionResult struct {
	Text      string   `json:"text"`
	Questions []string `json:"questions"`
}

// Detailer elaborates completed sections: polished text plus up to three
// follow-up questions each. One section's failure never aborts the rest.
type Detailer struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewDetailer(provider llm.Provider, logger *log.Logger) *Detailer {
	return &Detailer{provider: provider, logger: logger}
}

// DetailAll elaborates every catalog section of the document. Sections
// already present in existing keep their bundle untouched; elaboration
// happens at most once per section. Sections without text are filled
// with an empty bundle and never sent to the model. Calls are
// independent per section, so they run concurrently; each result lands
// on its own slot.
func (d *Detailer) DetailAll(ctx context.Context, doc store.Document, existing map[string]store.DetailedSection) map[string]store.DetailedSection {
	results := make([]store.DetailedSection, len(constant.SectionNames))

	var wg sync.WaitGroup
	for i, name := range constant.SectionNames {
		if prior, ok := existing[name]; ok {
			results[i] = prior
			continue
		}

		text := doc[name]
		if text == nil || *text == "" {
			results[i] = store.DetailedSection{Text: nil, Questions: []string{}}
			continue
		}

		wg.Add(1)
		go func(slot int, sectionName, sectionText string) {
			defer wg.Done()
			results[slot] = d.detailSection(ctx, sectionName, sectionText)
		}(i, name, *text)
	}
	wg.Wait()

	detailed := make(map[string]store.DetailedSection, len(constant.SectionNames))
	for i, name := range constant.SectionNames {
		detailed[name] = results[i]
	}
	return detailed
}

// detailSection elaborates one section, falling back to the original
// text with no questions on any failure.
func (d *Detailer) detailSection(ctx context.Context, name, text string) store.DetailedSection {
	fallback := func() store.DetailedSection {
		original := text
		return store.DetailedSection{Text: &original, Questions: []string{}}
	}

	response, err := d.provider.Generate(ctx, prompt.Elaborate(name, text), llm.WithTemperature(0.3))
	if err != nil {
		d.logger.Printf("[DETAIL] %s: call failed, keeping original text: %v", name, err)
		return fallback()
	}

	var result sectionResult
	if err := llmjson.Decode(response, &result); err != nil {
		d.logger.Printf("[DETAIL] %s: unparseable response, keeping original text: %v", name, err)
		return fallback()
	}

	elaborated := result.Text
	if elaborated == "" {
		elaborated = text
	}

	questions := result.Questions
	if questions == nil {
		questions = []string{}
	}
	if len(questions) > constant.MaxQuestionsPerSection {
		questions = questions[:constant.MaxQuestionsPerSection]
	}

	d.logger.Printf("[DETAIL] %s: elaborated with %d questions", name, len(questions))
	return store.DetailedSection{Text: &elaborated, Questions: questions}
}
