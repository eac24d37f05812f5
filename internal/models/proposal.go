package models

import "time"

// Proposal is the central entity: a generated document plus the structured
// inputs that produced it. Every query against this table is scoped by
// user_id; a row is only ever reachable by its owner.
type Proposal struct {
	BaseModel
	UserID      string         `gorm:"not null;index" json:"user_id"`
	ClientName  string         `gorm:"not null" json:"client_name"`
	ClientEmail string         `json:"client_email"`
	Title       string         `gorm:"not null" json:"title"`
	Content     string         `gorm:"type:text" json:"content"`
	Status      ProposalStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`

	// Structured inputs, kept for display formatting and revision prompts.
	ProjectDescription string       `gorm:"type:text" json:"project_description"`
	BudgetAmount       float64      `json:"budget_amount"`
	BudgetUnit         BudgetUnit   `gorm:"type:varchar(20)" json:"budget_unit"`
	TimelineType       TimelineType `gorm:"type:varchar(20)" json:"timeline_type"`
	TimelineDuration   string       `json:"timeline_duration,omitempty"`
	TimelineDeadline   *time.Time   `json:"timeline_deadline,omitempty"`

	// Lineage. A non-null parent reference marks this row as a revision.
	// The parent is never mutated by the existence of children, and deleting
	// the parent leaves orphaned revisions in place.
	OriginalProposalID *string `gorm:"type:uuid;index" json:"original_proposal_id,omitempty"`
	RevisionNotes      string  `gorm:"type:text" json:"revision_notes,omitempty"`
}

// --- Request DTOs ---

type GenerateProposalRequest struct {
	ClientName         string  `json:"clientName" binding:"required"`
	ClientEmail        string  `json:"clientEmail"`
	ProjectTitle       string  `json:"projectTitle" binding:"required"`
	ProjectDescription string  `json:"projectDescription" binding:"required"`
	BudgetAmount       float64 `json:"budgetAmount" binding:"required"`
	BudgetUnit         string  `json:"budgetUnit" binding:"required" validate:"oneof=per-hour per-day per-week per-month lump-sum"`
	TimelineType       string  `json:"timelineType" binding:"required" validate:"oneof=duration deadline"`
	TimelineDuration   string  `json:"timelineDuration"`
	TimelineDeadline   string  `json:"timelineDeadline"` // YYYY-MM-DD
}

type ReviseProposalRequest struct {
	OriginalProposalID string `json:"originalProposalId" binding:"required"`
	OriginalContent    string `json:"originalContent" binding:"required"`
	RevisionRequest    string `json:"revisionRequest" binding:"required"`
	OriginalTitle      string `json:"originalTitle" binding:"required"`
	ClientName         string `json:"clientName" binding:"required"`
}

type UpdateProposalRequest struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	ClientName  *string `json:"client_name"`
	ClientEmail *string `json:"client_email"`
}

type ChangeStatusRequest struct {
	Status ProposalStatus `json:"status" binding:"required"`
}

// ProposalSummary is the compact proposal shape: list items and the
// `proposal` field of the generate/revise success envelope.
type ProposalSummary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ClientName string    `json:"client_name"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *Proposal) Summary() *ProposalSummary {
	return &ProposalSummary{
		ID:         p.ID,
		Title:      p.Title,
		Content:    p.Content,
		ClientName: p.ClientName,
		CreatedAt:  p.CreatedAt,
	}
}
