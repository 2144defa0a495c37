package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/elaborate"
	"ai-specdraft-be/pkg/draft/gate"
	"ai-specdraft-be/pkg/draft/merge"
	"ai-specdraft-be/pkg/draft/refine"
	"ai-specdraft-be/pkg/draft/store"
	"ai-specdraft-be/pkg/llm"
)

// fakeProvider routes every capability call through a single respond
// function keyed on the prompt text. Elaboration fans out per section,
// so the call counter is guarded.
type fakeProvider struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	calls   int
}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, _ ...llm.Option) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.respond(history[len(history)-1].Content)
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func newEngine(provider llm.Provider) *Engine {
	logger := log.New(io.Discard, "", 0)
	return New(
		gate.NewChecker(provider, logger),
		merge.NewMerger(provider, logger),
		elaborate.NewDetailer(provider, logger),
		refine.NewRefiner(provider, logger),
		constant.MinWordsThreshold,
		logger,
	)
}

func admitResponse() string {
	return `{"can_proceed": true, "feedback": "Good starting point.", "metadata": {"maturity": "Greenfield", "environment": "Web"}}`
}

func mergeResponse(sections map[string]*string) string {
	full := map[string]*string{}
	for _, name := range constant.SectionNames {
		full[name] = nil
	}
	for name, text := range sections {
		full[name] = text
	}
	payload, _ := json.Marshal(map[string]any{"sections": full})
	return string(payload)
}

func longText(topic string) *string {
	s := strings.TrimSpace(strings.Repeat(topic+" detail ", 6))
	return &s
}

func isGatePrompt(p string) bool  { return strings.Contains(p, `"can_proceed"`) }
func isMergePrompt(p string) bool { return strings.Contains(p, "New User Input to Integrate") }
func isDetailPrompt(p string) bool {
	return strings.Contains(p, "Section to Detail")
}
func isRefinePrompt(p string) bool {
	return strings.Contains(p, "specification refinement expert")
}

func TestSubmitGateRejection(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		require.True(t, isGatePrompt(p), "only the gate check should run on rejection")
		return `{"can_proceed": false, "feedback": "Too vague to start from.", "metadata": {}}`, nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), store.NewWorkflowState("s1"), "an app", nil)

	assert.False(t, state.CanProceed)
	assert.True(t, state.AwaitingUserInput)
	assert.Equal(t, "Too vague to start from.", state.Feedback)
	assert.False(t, state.Document.HasContent())
	assert.Equal(t, 1, provider.calls)
}

func TestSubmitGateCallFailureRejects(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		return "", fmt.Errorf("model timeout")
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), store.NewWorkflowState("s1"), "build something", nil)

	assert.False(t, state.CanProceed)
	assert.True(t, state.AwaitingUserInput)
	assert.Contains(t, state.Feedback, "model timeout")
}

func TestFirstSubmitAllSectionsEmpty(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		if isGatePrompt(p) {
			return admitResponse(), nil
		}
		require.True(t, isMergePrompt(p))
		return mergeResponse(nil), nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), store.NewWorkflowState("s1"), "Build an app for users", nil)

	assert.True(t, state.CanProceed)
	assert.Equal(t, constant.SectionNames, state.Gaps, "all catalog names should be gaps")
	assert.False(t, state.IsSpecComplete)
	assert.True(t, state.AwaitingUserInput)
	assert.Equal(t, 2, provider.calls, "gate then merge, exactly once each")
}

func TestMergeBackfillRetainsOmittedSections(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true
	prior.Document["Goal"] = longText("goal")

	// Merge result only mentions Metrics; Goal must survive.
	provider := &fakeProvider{respond: func(p string) (string, error) {
		metrics := "Track adoption rate with a target of 40 percent within 30 days of launch."
		return fmt.Sprintf(`{"sections": {"Metrics": %q}}`, metrics), nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "Metrics: Track adoption rate target 40% within 30 days", strPtr("Metrics"))

	require.NotNil(t, state.Document["Goal"])
	assert.Equal(t, *prior.Document["Goal"], *state.Document["Goal"])
	require.NotNil(t, state.Document["Metrics"])
	assert.NotContains(t, state.Gaps, "Metrics")
	assert.Equal(t, "Metrics", *state.LastUpdatedSection)
	// Prior state untouched.
	assert.Nil(t, prior.Document["Metrics"])
}

func TestEmptyInputNeverCallsServices(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true
	prior.Document["Goal"] = longText("goal")

	provider := &fakeProvider{respond: func(p string) (string, error) {
		t.Fatalf("no capability call expected for empty input, got prompt: %.40s", p)
		return "", nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "   ", nil)

	assert.Equal(t, 0, provider.calls)
	assert.Equal(t, *prior.Document["Goal"], *state.Document["Goal"])
	assert.ElementsMatch(t,
		[]string{"Problem Statement", "User Cohort", "Metrics", "Solutions", "Risks", "GTM"},
		state.Gaps)
	assert.Equal(t, "No new input provided.", state.Feedback)
	assert.True(t, state.AwaitingUserInput)
}

func TestMergeParseFailureKeepsDocument(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true
	prior.Document["Goal"] = longText("goal")

	provider := &fakeProvider{respond: func(p string) (string, error) {
		return "I'm sorry, I cannot structure that.", nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "more detail about risks", nil)

	assert.Equal(t, *prior.Document["Goal"], *state.Document["Goal"])
	for _, name := range constant.SectionNames {
		if name == "Goal" {
			continue
		}
		assert.Nil(t, state.Document[name], name)
	}
	assert.False(t, state.IsSpecComplete)
	assert.True(t, state.AwaitingUserInput)
	assert.Contains(t, state.Feedback, "malformed")
}

func TestMergeCallFailureKeepsDocument(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true
	prior.Document["Goal"] = longText("goal")

	provider := &fakeProvider{respond: func(p string) (string, error) {
		return "", fmt.Errorf("connection refused")
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "more detail", nil)

	assert.Equal(t, *prior.Document["Goal"], *state.Document["Goal"])
	assert.Contains(t, state.Feedback, "connection refused")
	assert.True(t, state.AwaitingUserInput)
}

// completeDocumentResponse merges every catalog section to threshold length.
func completeDocumentResponse() string {
	sections := map[string]*string{}
	for _, name := range constant.SectionNames {
		sections[name] = longText(strings.ToLower(name))
	}
	return mergeResponse(sections)
}

func TestCompletionTriggersElaborationWithIsolation(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true

	provider := &fakeProvider{respond: func(p string) (string, error) {
		switch {
		case isMergePrompt(p):
			return completeDocumentResponse(), nil
		case isDetailPrompt(p):
			// Exactly one section's elaboration fails.
			if strings.Contains(p, "**Risks**") {
				return "", fmt.Errorf("inference error")
			}
			return `{"text": "Polished section text.", "questions": ["Q1?", "Q2?", "Q3?", "Q4?"]}`, nil
		default:
			return "", fmt.Errorf("unexpected prompt: %.40s", p)
		}
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "a very complete product description", nil)

	require.True(t, state.IsSpecComplete)
	require.True(t, state.IsDetailed)
	require.Len(t, state.Detailed, len(constant.SectionNames))

	for _, name := range constant.SectionNames {
		detail := state.Detailed[name]
		require.NotNil(t, detail.Text, name)
		if name == "Risks" {
			// Failed section falls back to its original text, no questions.
			assert.Equal(t, *state.Document["Risks"], *detail.Text)
			assert.Empty(t, detail.Questions)
			continue
		}
		assert.Equal(t, "Polished section text.", *detail.Text, name)
		assert.Len(t, detail.Questions, constant.MaxQuestionsPerSection, "extra questions must be truncated")
	}
}

func TestCompleteStateDoesNotReElaborate(t *testing.T) {
	prior := store.NewWorkflowState("s1")
	prior.CanProceed = true
	for _, name := range constant.SectionNames {
		prior.Document[name] = longText(strings.ToLower(name))
		text := "already elaborated"
		prior.Detailed[name] = store.DetailedSection{Text: &text, Questions: []string{"Q?"}}
	}
	prior.IsDetailed = true
	prior.IsSpecComplete = true

	provider := &fakeProvider{respond: func(p string) (string, error) {
		t.Fatalf("no capability call expected, got prompt: %.40s", p)
		return "", nil
	}}
	e := newEngine(provider)

	state := e.Submit(context.Background(), prior, "", nil)

	assert.Equal(t, 0, provider.calls)
	assert.True(t, state.IsDetailed)
	assert.Equal(t, "Spec complete!", state.Feedback)
	for _, name := range constant.SectionNames {
		assert.Equal(t, "already elaborated", *state.Detailed[name].Text)
	}
}

func detailedState() *store.WorkflowState {
	state := store.NewWorkflowState("s1")
	state.CanProceed = true
	state.IsSpecComplete = true
	state.IsDetailed = true
	for _, name := range constant.SectionNames {
		state.Document[name] = longText(strings.ToLower(name))
		text := "elaborated " + name
		state.Detailed[name] = store.DetailedSection{
			Text:      &text,
			Questions: []string{"First?", "Second?", "Third?"},
		}
	}
	return state
}

func TestRefinePassReplacesTextAndPreservesQuestions(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		require.True(t, isRefinePrompt(p))
		if strings.Contains(p, "## Section: Risks") {
			return "", fmt.Errorf("inference error")
		}
		return `{"text": "refined text"}`, nil
	}}
	e := newEngine(provider)

	prior := detailedState()
	answers := map[string]map[int]string{
		"Goal":  {0: "We target a 25% lift.", 5: "ignored, no such question", 1: "   "},
		"Risks": {2: "Leaderboards are the risky part."},
	}

	state := e.SubmitAnswers(context.Background(), prior, answers)

	// Goal refined.
	assert.Equal(t, "refined text", *state.Detailed["Goal"].Text)
	assert.Equal(t, []string{"First?", "Second?", "Third?"}, state.Detailed["Goal"].Questions)
	// Risks failed: prior text kept.
	assert.Equal(t, "elaborated Risks", *state.Detailed["Risks"].Text)
	// Untouched sections unchanged.
	assert.Equal(t, "elaborated Metrics", *state.Detailed["Metrics"].Text)
	// Pending answers cleared regardless of outcome.
	assert.Empty(t, state.PendingAnswers)
	// Prior state untouched.
	assert.Equal(t, "elaborated Goal", *prior.Detailed["Goal"].Text)
}

func TestRefineWithoutDetailedSpec(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		t.Fatal("no capability call expected")
		return "", nil
	}}
	e := newEngine(provider)

	state := e.SubmitAnswers(context.Background(), store.NewWorkflowState("s1"), map[string]map[int]string{
		"Goal": {0: "answer"},
	})

	assert.Equal(t, 0, provider.calls)
	assert.Contains(t, state.Feedback, "No detailed spec")
}

func TestRefineAllAnswersEmptySkipsCalls(t *testing.T) {
	provider := &fakeProvider{respond: func(p string) (string, error) {
		t.Fatal("no capability call expected for blank answers")
		return "", nil
	}}
	e := newEngine(provider)

	state := e.SubmitAnswers(context.Background(), detailedState(), map[string]map[int]string{
		"Goal": {0: "  ", 9: "out of range"},
	})

	assert.Equal(t, 0, provider.calls)
	assert.Empty(t, state.PendingAnswers)
	assert.Equal(t, "elaborated Goal", *state.Detailed["Goal"].Text)
}

func strPtr(s string) *string { return &s }
