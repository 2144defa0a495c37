package merge

import (
	"context"
	"fmt"
	"log"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/prompt"
	"ai-specdraft-be/pkg/draft/store"
	"ai-specdraft-be/pkg/llm"
	"ai-specdraft-be/pkg/llmjson"
)

// patch is the wire shape the merge capability returns: each catalog
// section either merged text or null.
type patch struct {
	Sections map[string]*string `json:"sections"`
}

// Merger asks the model to fold one raw input into the current document.
// It returns a per-section patch restricted to catalog names; validation
// and back-filling of omitted sections stay with the engine, so a partial
// or malformed result can never destroy accumulated content.
type Merger struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewMerger(provider llm.Provider, logger *log.Logger) *Merger {
	return &Merger{provider: provider, logger: logger}
}

func (m *Merger) Merge(ctx context.Context, doc store.Document, rawInput string) (map[string]*string, error) {
	response, err := m.provider.Generate(ctx, prompt.Merge(doc, rawInput), llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("merge call failed: %w", err)
	}

	var result patch
	if err := llmjson.Decode(response, &result); err != nil {
		return nil, fmt.Errorf("merge response malformed: %w", err)
	}
	if result.Sections == nil {
		return nil, fmt.Errorf("merge response missing sections object")
	}

	// Closed catalog: drop anything the model invented outside it.
	out := make(map[string]*string, len(result.Sections))
	for name, text := range result.Sections {
		if !constant.IsCatalogSection(name) {
			m.logger.Printf("[MERGE] dropping non-catalog section %q", name)
			continue
		}
		out[name] = text
	}

	return out, nil
}
