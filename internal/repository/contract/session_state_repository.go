package contract

import (
	"context"

	"ai-specdraft-be/pkg/draft/store"
)

// SessionStateRepository is the checkpoint store for workflow state.
// Load returns (nil, nil) for an unknown session; the engine treats
// that as a fresh session. Save persists the complete state atomically
// so a restart between transitions resumes from the last checkpoint.
type SessionStateRepository interface {
	Load(ctx context.Context, sessionID string) (*store.WorkflowState, error)
	Save(ctx context.Context, state *store.WorkflowState) error
	Delete(ctx context.Context, sessionID string) error
}
