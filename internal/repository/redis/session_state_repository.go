package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-specdraft-be/internal/repository/contract"
	"ai-specdraft-be/pkg/draft/store"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "specdraft:session:"
	sessionTTL = 24 * time.Hour
)

// SessionStateRepository checkpoints workflow state in Redis so sessions
// survive process restarts and can be shared across instances.
type SessionStateRepository struct {
	rdb *redis.Client
}

var _ contract.SessionStateRepository = &SessionStateRepository{}

func NewSessionStateRepository(rdb *redis.Client) *SessionStateRepository {
	return &SessionStateRepository{rdb: rdb}
}

func (r *SessionStateRepository) Load(ctx context.Context, sessionID string) (*store.WorkflowState, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	var state store.WorkflowState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &state, nil
}

func (r *SessionStateRepository) Save(ctx context.Context, state *store.WorkflowState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	if err := r.rdb.Set(ctx, keyPrefix+state.SessionID, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}

func (r *SessionStateRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session state: %w", err)
	}
	return nil
}
