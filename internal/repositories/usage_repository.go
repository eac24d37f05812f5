package repositories

import (
	"pitchly_backend/internal/models"

	"gorm.io/gorm"
)

// UsageEventRepository is append-only. There is no update or delete path.
type UsageEventRepository interface {
	Append(db *gorm.DB, event *models.UsageEvent) error
	CountByAction(db *gorm.DB, userID string) (map[string]int64, error)
}

type UsageEventRepositoryImpl struct{}

func NewUsageEventRepository() UsageEventRepository {
	return &UsageEventRepositoryImpl{}
}

func (r *UsageEventRepositoryImpl) Append(db *gorm.DB, event *models.UsageEvent) error {
	return db.Create(event).Error
}

func (r *UsageEventRepositoryImpl) CountByAction(db *gorm.DB, userID string) (map[string]int64, error) {
	type row struct {
		Action string
		Count  int64
	}
	var rows []row
	err := db.Model(&models.UsageEvent{}).
		Select("action, count(*) as count").
		Where("user_id = ?", userID).
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Action] = r.Count
	}
	return counts, nil
}
