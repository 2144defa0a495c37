package refine

import (
	"context"
	"fmt"
	"log"

	"ai-specdraft-be/pkg/draft/prompt"
	"ai-specdraft-be/pkg/llm"
	"ai-specdraft-be/pkg/llmjson"
)

type refineResult struct {
	Text string `json:"text"`
}

// Refiner integrates user answers to follow-up questions into a
// section's elaborated text. Only the text changes; the stored question
// list is preserved by the caller.
type Refiner struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewRefiner(provider llm.Provider, logger *log.Logger) *Refiner {
	return &Refiner{provider: provider, logger: logger}
}

// RefineSection returns the rewritten text for one section. On any
// failure the caller keeps the prior text unchanged.
func (r *Refiner) RefineSection(ctx context.Context, name, currentText string, answers []prompt.QA) (string, error) {
	response, err := r.provider.Generate(ctx, prompt.Refine(name, currentText, answers), llm.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("refine call failed: %w", err)
	}

	var result refineResult
	if err := llmjson.Decode(response, &result); err != nil {
		return "", fmt.Errorf("refine response malformed: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("refine response missing text")
	}

	r.logger.Printf("[REFINE] %s: integrated %d answers", name, len(answers))
	return result.Text, nil
}
