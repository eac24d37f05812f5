package services

import (
	"context"
	"fmt"
	"time"

	"pitchly_backend/internal/ai"
	"pitchly_backend/internal/email"
	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/prompt"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ProposalService interface {
	Generate(ctx context.Context, db *gorm.DB, userID string, req *models.GenerateProposalRequest) (*models.Proposal, error)
	Revise(ctx context.Context, db *gorm.DB, userID string, req *models.ReviseProposalRequest) (*models.Proposal, error)
	List(db *gorm.DB, userID string) ([]models.Proposal, error)

	// Get returns the proposal, applying the automatic draft -> viewed
	// transition on the way out.
	Get(db *gorm.DB, userID, id string) (*models.Proposal, error)
	Update(db *gorm.DB, userID, id string, req *models.UpdateProposalRequest) (*models.Proposal, error)
	ChangeStatus(db *gorm.DB, userID, id string, status models.ProposalStatus) (*models.Proposal, error)
	Delete(db *gorm.DB, userID, id string) error
	SendToClient(ctx context.Context, db *gorm.DB, userID, id string) (*models.Proposal, error)
}

type proposalService struct {
	proposalRepo repositories.ProposalRepository
	userRepo     repositories.UserRepository
	usageRepo    repositories.UsageEventRepository
	entitlement  EntitlementService
	generator    ai.Generator
	mailer       email.Sender
}

func NewProposalService(
	proposalRepo repositories.ProposalRepository,
	userRepo repositories.UserRepository,
	usageRepo repositories.UsageEventRepository,
	entitlement EntitlementService,
	generator ai.Generator,
	mailer email.Sender,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		userRepo:     userRepo,
		usageRepo:    usageRepo,
		entitlement:  entitlement,
		generator:    generator,
		mailer:       mailer,
	}
}

// Generate runs the full creation pipeline: validation, entitlement check,
// prompt assembly, the external generation call, persistence, then the
// usage increment. Ordering matters: the entitlement check precedes the AI
// call so an over-quota request never spends a paid generation, and the
// increment follows persistence so a failed generation never spends quota.
func (s *proposalService) Generate(ctx context.Context, db *gorm.DB, userID string, req *models.GenerateProposalRequest) (*models.Proposal, error) {
	deadline, err := validateTimeline(req.TimelineType, req.TimelineDuration, req.TimelineDeadline)
	if err != nil {
		return nil, err
	}

	canCreate, sub, err := s.entitlement.CanCreateProposal(db, userID)
	if err != nil {
		return nil, err
	}
	if !canCreate {
		limitErr := *apperrors.ErrProposalLimit
		return nil, limitErr.WithDetails(map[string]interface{}{
			"tier":  sub.Tier,
			"limit": sub.ProposalQuota,
			"used":  sub.ProposalsUsed,
		})
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	sender := senderProfile(user)

	userPrompt := prompt.BuildGeneration(req, sender, deadline, time.Now())
	content, err := s.generator.Generate(ctx, prompt.SystemPrompt, userPrompt)
	if err != nil {
		logger.CtxWithError(ctx, "proposal generation failed", err, "user_id", userID)
		return nil, apperrors.ErrGenerationFailed(err)
	}

	proposal := &models.Proposal{
		UserID:             userID,
		ClientName:         req.ClientName,
		ClientEmail:        req.ClientEmail,
		Title:              req.ProjectTitle,
		Content:            content,
		Status:             models.ProposalStatusDraft,
		ProjectDescription: req.ProjectDescription,
		BudgetAmount:       req.BudgetAmount,
		BudgetUnit:         models.BudgetUnit(req.BudgetUnit),
		TimelineType:       models.TimelineType(req.TimelineType),
		TimelineDuration:   req.TimelineDuration,
		TimelineDeadline:   deadline,
	}
	if err := s.proposalRepo.Create(db, proposal); err != nil {
		// The generated text is lost here; creation is not retried.
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "proposal",
			"Failed to save the generated proposal", 500)
	}

	if err := s.entitlement.RecordProposalCreated(db, userID); err != nil {
		// Accepted inconsistency window: the proposal exists but the counter
		// did not move. Logged, not surfaced.
		logger.CtxWithError(ctx, "failed to increment proposal usage", err, "user_id", userID)
	}

	s.appendEvent(db, userID, &proposal.ID, models.EventProposalCreated)

	return proposal, nil
}

// Revise produces a new lineage child from an existing proposal. Revisions
// are deliberately not metered against the creation quota; they only exist
// relative to an already-paid-for proposal.
func (s *proposalService) Revise(ctx context.Context, db *gorm.DB, userID string, req *models.ReviseProposalRequest) (*models.Proposal, error) {
	// The parent must belong to the caller. A foreign or missing parent is
	// indistinguishable from the outside.
	parent, err := s.proposalRepo.FindByIDForUser(db, req.OriginalProposalID, userID)
	if err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	sender := senderProfile(user)

	userPrompt := prompt.BuildRevision(req.OriginalContent, req.RevisionRequest, sender)
	content, err := s.generator.Generate(ctx, prompt.SystemPrompt, userPrompt)
	if err != nil {
		logger.CtxWithError(ctx, "proposal revision failed", err, "user_id", userID)
		return nil, apperrors.ErrGenerationFailed(err)
	}

	// Revision number = existing proposals sharing the original title as a
	// prefix (the original itself counts, so the first revision is Rev 1).
	count, err := s.proposalRepo.CountByTitlePrefix(db, userID, req.OriginalTitle)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	revision := &models.Proposal{
		UserID:             userID,
		ClientName:         req.ClientName,
		ClientEmail:        parent.ClientEmail,
		Title:              fmt.Sprintf("%s (Rev %d)", req.OriginalTitle, count),
		Content:            content,
		Status:             models.ProposalStatusRevision,
		ProjectDescription: parent.ProjectDescription,
		BudgetAmount:       parent.BudgetAmount,
		BudgetUnit:         parent.BudgetUnit,
		TimelineType:       parent.TimelineType,
		TimelineDuration:   parent.TimelineDuration,
		TimelineDeadline:   parent.TimelineDeadline,
		OriginalProposalID: &parent.ID,
		RevisionNotes:      req.RevisionRequest,
	}
	if err := s.proposalRepo.Create(db, revision); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "proposal",
			"Failed to save the revised proposal", 500)
	}

	s.appendEvent(db, userID, &revision.ID, models.EventProposalRevised)

	return revision, nil
}

func (s *proposalService) List(db *gorm.DB, userID string) ([]models.Proposal, error) {
	return s.proposalRepo.FindAllByUser(db, userID)
}

func (s *proposalService) Get(db *gorm.DB, userID, id string) (*models.Proposal, error) {
	// The conditional update fires only while status is exactly draft, so
	// repeated views are no-ops.
	if _, err := s.proposalRepo.MarkViewed(db, id, userID); err != nil {
		return nil, apperrors.InternalError(err)
	}

	proposal, err := s.proposalRepo.FindByIDForUser(db, id, userID)
	if err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return proposal, nil
}

func (s *proposalService) Update(db *gorm.DB, userID, id string, req *models.UpdateProposalRequest) (*models.Proposal, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		fields["content"] = *req.Content
	}
	if req.ClientName != nil {
		fields["client_name"] = *req.ClientName
	}
	if req.ClientEmail != nil {
		fields["client_email"] = *req.ClientEmail
	}
	if len(fields) == 0 {
		return nil, apperrors.NewBadRequestError("No fields to update")
	}

	if err := s.proposalRepo.UpdateFields(db, id, userID, fields); err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	proposal, err := s.proposalRepo.FindByIDForUser(db, id, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return proposal, nil
}

func (s *proposalService) ChangeStatus(db *gorm.DB, userID, id string, status models.ProposalStatus) (*models.Proposal, error) {
	if !models.IsValidProposalStatus(status) || status == models.ProposalStatusRevision {
		return nil, apperrors.ErrInvalidStatus("proposal", "Unknown proposal status: "+string(status))
	}

	sub, err := s.entitlement.EnsureSubscription(db, userID)
	if err != nil {
		return nil, err
	}

	if !models.StatusAllowedForTier(sub.Tier, status) {
		// Never clamp to an allowed value; the caller is told exactly which
		// plan unlocks the full pipeline.
		return nil, apperrors.ErrTierRestricted(fmt.Sprintf(
			"The '%s' status requires the Professional plan. Upgrade to track your full proposal pipeline.",
			status))
	}

	if err := s.proposalRepo.UpdateStatus(db, id, userID, status); err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	s.appendEvent(db, userID, &id, models.StatusChangeAction(status))

	proposal, err := s.proposalRepo.FindByIDForUser(db, id, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return proposal, nil
}

// Delete removes a proposal. Children keep their parent reference and the
// quota already spent on the proposal is not refunded.
func (s *proposalService) Delete(db *gorm.DB, userID, id string) error {
	if err := s.proposalRepo.Delete(db, id, userID); err != nil {
		if err == repositories.ErrProposalNotFound {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	s.appendEvent(db, userID, &id, models.EventProposalDeleted)
	return nil
}

func (s *proposalService) SendToClient(ctx context.Context, db *gorm.DB, userID, id string) (*models.Proposal, error) {
	proposal, err := s.proposalRepo.FindByIDForUser(db, id, userID)
	if err != nil {
		if err == repositories.ErrProposalNotFound {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	if proposal.ClientEmail == "" {
		return nil, apperrors.NewBadRequestError("This proposal has no client email address")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	subject, body := email.ProposalEmail(user.Name, proposal.ClientName, proposal.Title, proposal.Content)
	if err := s.mailer.Send(proposal.ClientEmail, subject, body); err != nil {
		logger.CtxWithError(ctx, "failed to send proposal email", err, "proposal_id", id)
		return nil, apperrors.ErrUpstream(err, "email")
	}

	if err := s.proposalRepo.UpdateStatus(db, id, userID, models.ProposalStatusSent); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.appendEvent(db, userID, &id, models.EventProposalSent)

	proposal.Status = models.ProposalStatusSent
	return proposal, nil
}

// appendEvent writes a best-effort telemetry record. Failures are logged
// and never propagate to the caller.
func (s *proposalService) appendEvent(db *gorm.DB, userID string, proposalID *string, action string) {
	event := &models.UsageEvent{
		UserID:     userID,
		ProposalID: proposalID,
		Action:     action,
	}
	if err := s.usageRepo.Append(db, event); err != nil {
		logger.Warn("failed to append usage event", "action", action, "user_id", userID, "error", err.Error())
	}
}

// validateTimeline enforces the conditional timeline requirements and
// parses the deadline date when present.
func validateTimeline(timelineType, duration, deadline string) (*time.Time, error) {
	switch models.TimelineType(timelineType) {
	case models.TimelineTypeDuration:
		if duration == "" {
			return nil, apperrors.ValidationError(map[string]string{
				"timelineDuration": "This field is required when timelineType is 'duration'",
			})
		}
		return nil, nil
	case models.TimelineTypeDeadline:
		if deadline == "" {
			return nil, apperrors.ValidationError(map[string]string{
				"timelineDeadline": "This field is required when timelineType is 'deadline'",
			})
		}
		parsed, err := time.Parse("2006-01-02", deadline)
		if err != nil {
			return nil, apperrors.ValidationError(map[string]string{
				"timelineDeadline": "Must be a date in YYYY-MM-DD format",
			})
		}
		return &parsed, nil
	default:
		return nil, apperrors.ValidationError(map[string]string{
			"timelineType": "Must be one of: duration, deadline",
		})
	}
}

func senderProfile(user *models.User) prompt.SenderProfile {
	return prompt.SenderProfile{
		Name:         user.Name,
		CompanyName:  user.CompanyName,
		BusinessType: user.BusinessType,
		Region:       user.Region,
		Language:     user.Language,
	}
}
