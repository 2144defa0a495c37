package gate

import (
	"context"
	"log"

	"ai-specdraft-be/pkg/draft/prompt"
	"ai-specdraft-be/pkg/llm"
	"ai-specdraft-be/pkg/llmjson"
)

// Result is the admission decision for a first-turn raw input. Metadata
// tags (maturity, environment) are opaque to the engine and carried
// through unchanged.
type Result struct {
	CanProceed bool               `json:"can_proceed"`
	Feedback   string             `json:"feedback"`
	Metadata   map[string]*string `json:"metadata"`
}

// Checker decides whether a raw input is substantive enough to start a
// drafting session. It never returns an error: any failure downgrades to
// a not-admitted result with the reason as feedback.
type Checker struct {
	provider llm.Provider
	logger   *log.Logger
}

func NewChecker(provider llm.Provider, logger *log.Logger) *Checker {
	return &Checker{provider: provider, logger: logger}
}

func (c *Checker) Check(ctx context.Context, rawInput string) *Result {
	history := []llm.Message{
		{Role: "system", Content: prompt.SystemPersona},
		{Role: "user", Content: prompt.GateCheck(rawInput)},
	}

	response, err := c.provider.Chat(ctx, history, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Printf("[GATE] call failed: %v", err)
		return &Result{
			CanProceed: false,
			Feedback:   "Error calling AI: " + err.Error(),
			Metadata:   map[string]*string{},
		}
	}

	var result Result
	if err := llmjson.Decode(response, &result); err != nil {
		c.logger.Printf("[GATE] unparseable response, using raw text as feedback: %v", err)
		// The model answered in prose; surface it rather than admit blindly.
		return &Result{
			CanProceed: false,
			Feedback:   response,
			Metadata:   map[string]*string{},
		}
	}

	if result.Metadata == nil {
		result.Metadata = map[string]*string{}
	}
	if result.Feedback == "" {
		result.Feedback = "Gate check completed without feedback."
	}

	c.logger.Printf("[GATE] can_proceed=%v", result.CanProceed)
	return &result
}
