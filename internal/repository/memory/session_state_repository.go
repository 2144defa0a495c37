package memory

import (
	"context"
	"time"

	"ai-specdraft-be/internal/repository/contract"
	"ai-specdraft-be/pkg/draft/store"

	"github.com/patrickmn/go-cache"
)

// SessionStateRepository keeps checkpoints in process memory. Sessions
// idle for an hour are evicted. Default backend for single-node runs.
type SessionStateRepository struct {
	cache *cache.Cache
}

var _ contract.SessionStateRepository = &SessionStateRepository{}

func NewSessionStateRepository() *SessionStateRepository {
	return &SessionStateRepository{
		cache: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func (r *SessionStateRepository) Load(_ context.Context, sessionID string) (*store.WorkflowState, error) {
	if x, found := r.cache.Get(sessionID); found {
		// Hand out a copy so callers can't mutate the checkpoint.
		return x.(*store.WorkflowState).Clone(), nil
	}
	return nil, nil
}

func (r *SessionStateRepository) Save(_ context.Context, state *store.WorkflowState) error {
	r.cache.Set(state.SessionID, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionStateRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
