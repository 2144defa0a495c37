package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DraftSession is the persisted checkpoint of one drafting session: the
// full workflow state as a JSON blob keyed by session id.
type DraftSession struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	State     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
}

func (DraftSession) TableName() string {
	return "draft_sessions"
}
