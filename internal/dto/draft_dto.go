package dto

import (
	"github.com/google/uuid"
)

type CreateSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SubmitInputRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Text      string    `json:"text"`
	// Section restricts the merge to one catalog section. Optional.
	Section *string `json:"section,omitempty"`
}

type SubmitAnswersRequest struct {
	SessionId uuid.UUID                 `json:"session_id" validate:"required"`
	Answers   map[string]map[int]string `json:"answers" validate:"required"`
}

type ResetSessionRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
}

type SectionDTO struct {
	Name      string   `json:"name"`
	Text      *string  `json:"text"`
	Questions []string `json:"questions,omitempty"`
}

type SessionStateResponse struct {
	SessionId         uuid.UUID    `json:"session_id"`
	Phase             string       `json:"phase"`
	CanProceed        bool         `json:"can_proceed"`
	Feedback          string       `json:"feedback,omitempty"`
	Gaps              []string     `json:"gaps"`
	IsSpecComplete    bool         `json:"is_spec_complete"`
	IsDetailed        bool         `json:"is_detailed"`
	AwaitingUserInput bool         `json:"awaiting_user_input"`
	Sections          []SectionDTO `json:"sections"`
}

// SessionEventMessage is the payload carried on the internal event bus.
type SessionEventMessage struct {
	Type      string    `json:"type"`
	SessionId uuid.UUID `json:"session_id"`
}

type ExportResponse struct {
	SessionId uuid.UUID `json:"session_id"`
	Markdown  string    `json:"markdown"`
}
