package mapper

import (
	"encoding/json"
	"fmt"

	"ai-specdraft-be/internal/constant"
	"ai-specdraft-be/internal/dto"
	"ai-specdraft-be/internal/model"
	"ai-specdraft-be/pkg/draft/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) StateToModel(state *store.WorkflowState) (*model.DraftSession, error) {
	id, err := uuid.Parse(state.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", state.SessionID, err)
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode session state: %w", err)
	}
	return &model.DraftSession{
		Id:    id,
		State: datatypes.JSON(raw),
	}, nil
}

func (m *SessionMapper) StateToResponse(state *store.WorkflowState) (*dto.SessionStateResponse, error) {
	id, err := uuid.Parse(state.SessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", state.SessionID, err)
	}
	sections := make([]dto.SectionDTO, 0, len(constant.SectionNames))
	for _, name := range constant.SectionNames {
		s := dto.SectionDTO{Name: name, Text: state.Document[name]}
		if detail, ok := state.Detailed[name]; ok {
			if detail.Text != nil {
				s.Text = detail.Text
			}
			s.Questions = detail.Questions
		}
		sections = append(sections, s)
	}
	return &dto.SessionStateResponse{
		SessionId:         id,
		Phase:             state.Phase(),
		CanProceed:        state.CanProceed,
		Feedback:          state.Feedback,
		Gaps:              state.Gaps,
		IsSpecComplete:    state.IsSpecComplete,
		IsDetailed:        state.IsDetailed,
		AwaitingUserInput: state.AwaitingUserInput,
		Sections:          sections,
	}, nil
}

func (m *SessionMapper) ModelToState(record *model.DraftSession) (*store.WorkflowState, error) {
	var state store.WorkflowState
	if err := json.Unmarshal(record.State, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}
