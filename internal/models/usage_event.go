package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Usage event actions. Status changes are tagged with the target status so
// the analytics rollup can group on the raw action string.
const (
	EventProposalCreated      = "created"
	EventProposalRevised      = "revised"
	EventProposalDeleted      = "deleted"
	EventProposalSent         = "sent_to_client"
	EventStatusChangedPrefix  = "status_changed_to_"
	EventSubscriptionUpgraded = "subscription_upgraded"
)

// UsageEvent is an append-only telemetry record. Writes are best-effort:
// a failed insert is logged and never fails the parent operation.
type UsageEvent struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string         `gorm:"type:uuid;index;not null" json:"user_id"`
	ProposalID *string        `gorm:"type:uuid;index" json:"proposal_id,omitempty"`
	Action     string         `gorm:"type:varchar(100);index;not null" json:"action"`
	Metadata   datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (UsageEvent) TableName() string {
	return "usage_events"
}

func (e *UsageEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// StatusChangeAction builds the action tag for a manual status transition.
func StatusChangeAction(status ProposalStatus) string {
	return EventStatusChangedPrefix + string(status)
}

// AnalyticsSummary is the dashboard aggregation payload.
type AnalyticsSummary struct {
	TotalProposals int64            `json:"total_proposals"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByAction       map[string]int64 `json:"by_action"`
}
