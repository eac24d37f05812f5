package repositories

import (
	"errors"
	"strings"
	"time"

	"pitchly_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProposalNotFound = errors.New("proposal not found")

// Every query here is scoped by user_id. An unscoped read path would let a
// caller reach another account's proposals by guessing identifiers, so none
// exist.
type ProposalRepository interface {
	Create(db *gorm.DB, proposal *models.Proposal) error
	FindByIDForUser(db *gorm.DB, id, userID string) (*models.Proposal, error)
	FindAllByUser(db *gorm.DB, userID string) ([]models.Proposal, error)
	UpdateFields(db *gorm.DB, id, userID string, fields map[string]interface{}) error

	// MarkViewed flips draft -> viewed as a conditional update. Returns true
	// when the transition fired, false when the row was already past draft.
	MarkViewed(db *gorm.DB, id, userID string) (bool, error)
	UpdateStatus(db *gorm.DB, id, userID string, status models.ProposalStatus) error
	Delete(db *gorm.DB, id, userID string) error

	// CountByTitlePrefix backs revision numbering: the next revision index is
	// the number of proposals whose title starts with the original title.
	CountByTitlePrefix(db *gorm.DB, userID, prefix string) (int64, error)
	CountByUser(db *gorm.DB, userID string) (int64, error)
	CountByStatus(db *gorm.DB, userID string) (map[string]int64, error)
}

type ProposalRepositoryImpl struct{}

func NewProposalRepository() ProposalRepository {
	return &ProposalRepositoryImpl{}
}

func (r *ProposalRepositoryImpl) Create(db *gorm.DB, proposal *models.Proposal) error {
	return db.Create(proposal).Error
}

func (r *ProposalRepositoryImpl) FindByIDForUser(db *gorm.DB, id, userID string) (*models.Proposal, error) {
	var proposal models.Proposal
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&proposal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *ProposalRepositoryImpl) FindAllByUser(db *gorm.DB, userID string) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&proposals).Error
	return proposals, err
}

func (r *ProposalRepositoryImpl) UpdateFields(db *gorm.DB, id, userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := db.Model(&models.Proposal{}).Where("id = ? AND user_id = ?", id, userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepositoryImpl) MarkViewed(db *gorm.DB, id, userID string) (bool, error) {
	// Conditional on the current status being exactly draft, so re-viewing
	// an already-viewed (or sent, accepted, ...) proposal is a no-op.
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, models.ProposalStatusDraft).
		Updates(map[string]interface{}{
			"status":     models.ProposalStatusViewed,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ProposalRepositoryImpl) UpdateStatus(db *gorm.DB, id, userID string, status models.ProposalStatus) error {
	result := db.Model(&models.Proposal{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

func (r *ProposalRepositoryImpl) Delete(db *gorm.DB, id, userID string) error {
	// No cascade: revisions keep their parent reference even after the
	// parent is gone.
	result := db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Proposal{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProposalNotFound
	}
	return nil
}

// likeEscaper neutralizes LIKE wildcards so a title containing % or _
// only matches itself as a prefix.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ProposalRepositoryImpl) CountByTitlePrefix(db *gorm.DB, userID, prefix string) (int64, error) {
	var count int64
	err := db.Model(&models.Proposal{}).
		Where(`user_id = ? AND title LIKE ? ESCAPE '\'`, userID, likeEscaper.Replace(prefix)+"%").
		Count(&count).Error
	return count, err
}

func (r *ProposalRepositoryImpl) CountByUser(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Proposal{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ProposalRepositoryImpl) CountByStatus(db *gorm.DB, userID string) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := db.Model(&models.Proposal{}).
		Select("status, count(*) as count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}
