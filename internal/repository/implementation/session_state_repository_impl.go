package implementation

import (
	"context"
	"errors"
	"fmt"

	"ai-specdraft-be/internal/mapper"
	"ai-specdraft-be/internal/model"
	"ai-specdraft-be/internal/repository/contract"
	"ai-specdraft-be/pkg/draft/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionStateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionStateRepository(db *gorm.DB) contract.SessionStateRepository {
	return &SessionStateRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionStateRepositoryImpl) Load(ctx context.Context, sessionID string) (*store.WorkflowState, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	var record model.DraftSession
	if err := r.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ModelToState(&record)
}

func (r *SessionStateRepositoryImpl) Save(ctx context.Context, state *store.WorkflowState) error {
	record, err := r.mapper.StateToModel(state)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(record).Error
}

func (r *SessionStateRepositoryImpl) Delete(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("invalid session id %q: %w", sessionID, err)
	}
	return r.db.WithContext(ctx).Delete(&model.DraftSession{}, id).Error
}
