package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures the audit trail of student lifecycle transitions.
type ActivityLog struct {
	ID         int64             `gorm:"primaryKey" json:"id"`
	ActorID    int64             `gorm:"not null" json:"actorId"`
	ActorRole  string            `gorm:"size:32;not null" json:"actorRole"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null;index" json:"entityType"`
	EntityID   *int64            `json:"entityId"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt  time.Time         `json:"createdAt"`
}
