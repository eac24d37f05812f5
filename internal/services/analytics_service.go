package services

import (
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"
	"pitchly_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AnalyticsService interface {
	// Summary aggregates the caller's proposals by status and their telemetry
	// events by action.
	Summary(db *gorm.DB, userID string) (*models.AnalyticsSummary, error)
}

type analyticsService struct {
	proposalRepo repositories.ProposalRepository
	usageRepo    repositories.UsageEventRepository
}

func NewAnalyticsService(proposalRepo repositories.ProposalRepository, usageRepo repositories.UsageEventRepository) AnalyticsService {
	return &analyticsService{
		proposalRepo: proposalRepo,
		usageRepo:    usageRepo,
	}
}

func (s *analyticsService) Summary(db *gorm.DB, userID string) (*models.AnalyticsSummary, error) {
	total, err := s.proposalRepo.CountByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	byStatus, err := s.proposalRepo.CountByStatus(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	byAction, err := s.usageRepo.CountByAction(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &models.AnalyticsSummary{
		TotalProposals: total,
		ByStatus:       byStatus,
		ByAction:       byAction,
	}, nil
}
