package store

import "ai-specdraft-be/internal/constant"

// Phase labels for the drafting workflow. A session suspends in one of
// these between user turns.
const (
	PhaseEntry     = "ENTRY"     // nothing admitted yet
	PhaseGathering = "GATHERING" // merged at least once, gaps remain
	PhaseDetailed  = "DETAILED"  // elaboration done, refinement available
)

// Document is the structured draft: one optional text per catalog
// section. A nil entry means the section has no content yet. The key set
// is exactly the catalog; nothing outside it is ever stored.
type Document map[string]*string

// NewDocument returns a document with every catalog section present and
// empty.
func NewDocument() Document {
	doc := make(Document, len(constant.SectionNames))
	for _, name := range constant.SectionNames {
		doc[name] = nil
	}
	return doc
}

// Clone deep-copies the document so that transitions never alias prior
// state.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for name, text := range d {
		if text == nil {
			out[name] = nil
			continue
		}
		v := *text
		out[name] = &v
	}
	return out
}

// HasContent reports whether any section holds non-empty text.
func (d Document) HasContent() bool {
	for _, text := range d {
		if text != nil && *text != "" {
			return true
		}
	}
	return false
}

// DetailedSection is one elaborated section: polished text plus at most
// three follow-up questions. Questions never change after creation;
// refinement only rewrites Text.
type DetailedSection struct {
	Text      *string  `json:"text"`
	Questions []string `json:"questions"`
}

// WorkflowState is the full session record threaded through the engine
// and persisted by the checkpoint repository. Transitions treat it as an
// immutable value: every step works on a Clone and returns the result.
type WorkflowState struct {
	SessionID string `json:"session_id"`

	RawInput   string             `json:"raw_input"`
	CanProceed bool               `json:"can_proceed"`
	Metadata   map[string]*string `json:"metadata"`
	Feedback   string             `json:"feedback"`

	Document           Document `json:"document"`
	Gaps               []string `json:"gaps"`
	LastUpdatedSection *string  `json:"last_updated_section"`
	IsSpecComplete     bool     `json:"is_spec_complete"`

	AwaitingUserInput bool `json:"awaiting_user_input"`

	Detailed   map[string]DetailedSection `json:"detailed"`
	IsDetailed bool                       `json:"is_detailed"`

	// PendingAnswers maps section name -> question index -> answer text.
	// Cleared entirely after every refinement pass.
	PendingAnswers map[string]map[int]string `json:"pending_answers"`
}

// NewWorkflowState returns the empty initial state for a session.
func NewWorkflowState(sessionID string) *WorkflowState {
	return &WorkflowState{
		SessionID:         sessionID,
		Metadata:          map[string]*string{},
		Document:          NewDocument(),
		Gaps:              append([]string(nil), constant.SectionNames...),
		AwaitingUserInput: true,
		Detailed:          map[string]DetailedSection{},
		PendingAnswers:    map[string]map[int]string{},
	}
}

// Phase derives the coarse workflow phase from the state flags.
func (s *WorkflowState) Phase() string {
	switch {
	case s.IsDetailed:
		return PhaseDetailed
	case s.Document.HasContent() || s.CanProceed:
		return PhaseGathering
	default:
		return PhaseEntry
	}
}

// Clone deep-copies the state.
func (s *WorkflowState) Clone() *WorkflowState {
	out := *s

	out.Metadata = make(map[string]*string, len(s.Metadata))
	for k, v := range s.Metadata {
		if v == nil {
			out.Metadata[k] = nil
			continue
		}
		c := *v
		out.Metadata[k] = &c
	}

	out.Document = s.Document.Clone()
	out.Gaps = append([]string(nil), s.Gaps...)

	if s.LastUpdatedSection != nil {
		v := *s.LastUpdatedSection
		out.LastUpdatedSection = &v
	}

	out.Detailed = make(map[string]DetailedSection, len(s.Detailed))
	for name, section := range s.Detailed {
		copied := DetailedSection{Questions: append([]string(nil), section.Questions...)}
		if section.Text != nil {
			t := *section.Text
			copied.Text = &t
		}
		out.Detailed[name] = copied
	}

	out.PendingAnswers = make(map[string]map[int]string, len(s.PendingAnswers))
	for name, answers := range s.PendingAnswers {
		m := make(map[int]string, len(answers))
		for idx, answer := range answers {
			m[idx] = answer
		}
		out.PendingAnswers[name] = m
	}

	return &out
}
