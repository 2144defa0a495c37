package engine

import (
	"context"
	"log"
	"sort"
	"strings"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/pkg/draft/completeness"
	"ai-specdraft-be/pkg/draft/elaborate"
	"ai-specdraft-be/pkg/draft/gate"
	"ai-specdraft-be/pkg/draft/merge"
	"ai-specdraft-be/pkg/draft/prompt"
	"ai-specdraft-be/pkg/draft/refine"
	"ai-specdraft-be/pkg/draft/store"
)

// Engine is the drafting state machine. Every external input triggers
// exactly one pass from the current state to the next suspended state:
//
//	ENTRY -> GATE_CHECK -> MERGE -> (GATHER_MORE | ELABORATE) -> [REFINE]* -> idle
//
// Transitions are pure with respect to the prior state: each step works
// on a deep copy and returns it, so a failed capability call can never
// leave a session half-mutated. The only automatic transition is
// MERGE -> ELABORATE, which fires the moment the gap list empties.
type Engine struct {
	gate      *gate.Checker
	merger    *merge.Merger
	detailer  *elaborate.Detailer
	refiner   *refine.Refiner
	threshold int
	logger    *log.Logger
}

func New(g *gate.Checker, m *merge.Merger, d *elaborate.Detailer, r *refine.Refiner, threshold int, logger *log.Logger) *Engine {
	if threshold <= 0 {
		threshold = constant.MinWordsThreshold
	}
	return &Engine{
		gate:      g,
		merger:    m,
		detailer:  d,
		refiner:   r,
		threshold: threshold,
		logger:    logger,
	}
}

// Threshold returns the minimum-content policy in force.
func (e *Engine) Threshold() int { return e.threshold }

// Submit processes one raw-input turn. targetSection, when set, records
// which gap the input was aimed at; the caller composes the
// "<section>: <text>" input before calling.
func (e *Engine) Submit(ctx context.Context, prior *store.WorkflowState, rawInput string, targetSection *string) *store.WorkflowState {
	state := prior.Clone()
	state.RawInput = rawInput
	state.AwaitingUserInput = false
	if targetSection != nil && constant.IsCatalogSection(*targetSection) {
		name := *targetSection
		state.LastUpdatedSection = &name
	}

	// ENTRY: gate-check only the first-ever substantive submission.
	if !state.CanProceed && !state.Document.HasContent() {
		result := e.gate.Check(ctx, rawInput)
		state.Metadata = result.Metadata
		state.Feedback = result.Feedback
		if !result.CanProceed {
			e.logger.Printf("[ENGINE] %s: gate rejected input", state.SessionID)
			state.RawInput = ""
			state.AwaitingUserInput = true
			return state
		}
		state.CanProceed = true
	}

	return e.mergeStep(ctx, state)
}

// mergeStep folds the raw input into the document, recomputes gaps, and
// either suspends for more input or advances to elaboration.
func (e *Engine) mergeStep(ctx context.Context, state *store.WorkflowState) *store.WorkflowState {
	rawInput := state.RawInput

	// Empty input short-circuits the capability call entirely.
	if strings.TrimSpace(rawInput) == "" {
		state.RawInput = ""
		return e.evaluate(ctx, state, "No new input provided.")
	}

	patch, err := e.merger.Merge(ctx, state.Document, rawInput)
	if err != nil {
		// Prior document retained untouched; the session stays interactive.
		e.logger.Printf("[ENGINE] %s: merge failed: %v", state.SessionID, err)
		state.Gaps = completeness.ComputeGaps(state.Document, e.threshold)
		state.IsSpecComplete = false
		state.AwaitingUserInput = true
		state.Feedback = err.Error()
		return state
	}

	// Back-fill: a section the merge result omits or nulls keeps its
	// prior text. Merges add information, never destroy it.
	merged := store.NewDocument()
	for _, name := range constant.SectionNames {
		if text, ok := patch[name]; ok && text != nil && strings.TrimSpace(*text) != "" {
			v := *text
			merged[name] = &v
			continue
		}
		merged[name] = state.Document[name]
	}
	state.Document = merged
	state.RawInput = ""

	return e.evaluate(ctx, state, "")
}

// evaluate recomputes completeness over the current document and routes
// to GATHER_MORE or ELABORATE.
func (e *Engine) evaluate(ctx context.Context, state *store.WorkflowState, emptyFeedback string) *store.WorkflowState {
	state.Gaps = completeness.ComputeGaps(state.Document, e.threshold)
	state.IsSpecComplete = len(state.Gaps) == 0

	if !state.IsSpecComplete {
		state.AwaitingUserInput = true
		if emptyFeedback != "" {
			state.Feedback = emptyFeedback
		} else {
			state.Feedback = "Missing details for: " + strings.Join(state.Gaps, ", ")
		}
		e.logger.Printf("[ENGINE] %s: %d gaps remain", state.SessionID, len(state.Gaps))
		return state
	}

	if state.IsDetailed {
		// Idle: complete and already elaborated, nothing to re-run.
		state.Feedback = "Spec complete!"
		return state
	}

	e.logger.Printf("[ENGINE] %s: spec complete, elaborating all sections", state.SessionID)
	state.Detailed = e.detailer.DetailAll(ctx, state.Document, state.Detailed)
	state.IsDetailed = true
	state.Feedback = "Spec has been elaborated with recommended questions."
	return state
}

// SubmitAnswers runs one refinement pass over the submitted
// question-answer map. Regardless of per-section success or failure, the
// pending answer map is empty afterwards so stale answers never get
// reapplied.
func (e *Engine) SubmitAnswers(ctx context.Context, prior *store.WorkflowState, answers map[string]map[int]string) *store.WorkflowState {
	state := prior.Clone()
	state.PendingAnswers = map[string]map[int]string{}

	if !state.IsDetailed {
		state.Feedback = "No detailed spec to refine yet."
		return state
	}
	if len(answers) == 0 {
		state.Feedback = "No answers provided for refinement."
		return state
	}

	refined := 0
	for _, name := range constant.SectionNames {
		sectionAnswers := answers[name]
		if len(sectionAnswers) == 0 {
			continue
		}

		detail, ok := state.Detailed[name]
		if !ok || detail.Text == nil {
			e.logger.Printf("[ENGINE] %s: skipping %s, no elaborated text", state.SessionID, name)
			continue
		}

		pairs := pairAnswers(detail.Questions, sectionAnswers)
		if len(pairs) == 0 {
			continue
		}

		text, err := e.refiner.RefineSection(ctx, name, *detail.Text, pairs)
		if err != nil {
			// Keep the prior text for this section, keep going.
			e.logger.Printf("[ENGINE] %s: refine %s failed: %v", state.SessionID, name, err)
			continue
		}

		// Atomic per-section replace; questions carry over verbatim.
		state.Detailed[name] = store.DetailedSection{
			Text:      &text,
			Questions: detail.Questions,
		}
		refined++
	}

	if refined > 0 {
		state.Feedback = "Sections refined based on your answers."
	} else {
		state.Feedback = "No sections could be refined from the provided answers."
	}
	return state
}

// pairAnswers filters an answer map down to (question, answer) pairs:
// indexes without a matching question and empty answers are dropped.
// Pairs come out in question order.
func pairAnswers(questions []string, answers map[int]string) []prompt.QA {
	indexes := make([]int, 0, len(answers))
	for idx := range answers {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	pairs := make([]prompt.QA, 0, len(indexes))
	for _, idx := range indexes {
		answer := strings.TrimSpace(answers[idx])
		if answer == "" || idx < 0 || idx >= len(questions) {
			continue
		}
		pairs = append(pairs, prompt.QA{Question: questions[idx], Answer: answer})
	}
	return pairs
}
