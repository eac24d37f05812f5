package workers

import (
	"context"
	"time"

	"pitchly_backend/internal/logger"
	"pitchly_backend/internal/models"
	"pitchly_backend/internal/repositories"

	"gorm.io/gorm"
)

// SubscriptionWorker performs the periodic subscription housekeeping:
// rolling active subscriptions into their next billing period, downgrading
// cancelled ones whose paid period has run out, and purging expired refresh
// tokens.
type SubscriptionWorker struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	interval         time.Duration
}

func NewSubscriptionWorker(db *gorm.DB, interval time.Duration) *SubscriptionWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SubscriptionWorker{
		db:               db,
		subscriptionRepo: repositories.NewSubscriptionRepository(),
		userRepo:         repositories.NewUserRepository(),
		interval:         interval,
	}
}

// Start runs the worker loop until the context is cancelled. One tick runs
// immediately so a restarted instance does not wait a full interval.
func (w *SubscriptionWorker) Start(ctx context.Context) {
	logger.Info("subscription worker started", "interval", w.interval.String())

	w.tick()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker stopped")
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *SubscriptionWorker) tick() {
	w.rolloverActive()
	w.downgradeLapsed()
	w.purgeRefreshTokens()
}

// rolloverActive resets the usage counter and advances the period for active
// subscriptions whose billing period has ended.
func (w *SubscriptionWorker) rolloverActive() {
	var due []models.Subscription
	err := w.db.
		Where("status = ? AND period_end < ?", models.SubscriptionStatusActive, time.Now()).
		Find(&due).Error
	if err != nil {
		logger.WorkerLog("subscription", "rollover query", err)
		return
	}

	for _, sub := range due {
		start := sub.PeriodEnd
		end := start.AddDate(0, 1, 0)
		if err := w.subscriptionRepo.ResetUsage(w.db, sub.UserID, start, end); err != nil {
			logger.WorkerLog("subscription", "rollover "+sub.UserID, err)
			continue
		}
		logger.WorkerLog("subscription", "period rollover "+sub.UserID, nil)
	}
}

// downgradeLapsed moves cancelled subscriptions whose paid period has run
// out back to the free tier. Access is kept until period end, which is why
// cancellation alone does not downgrade.
func (w *SubscriptionWorker) downgradeLapsed() {
	var lapsed []models.Subscription
	err := w.db.
		Where("status = ? AND period_end < ?", models.SubscriptionStatusCancelled, time.Now()).
		Find(&lapsed).Error
	if err != nil {
		logger.WorkerLog("subscription", "downgrade query", err)
		return
	}

	for _, sub := range lapsed {
		now := time.Now()
		err := w.subscriptionRepo.SwitchPlan(w.db, sub.UserID, models.TierFree, models.FreeTierQuota, now, now.AddDate(0, 1, 0))
		if err != nil {
			logger.WorkerLog("subscription", "downgrade "+sub.UserID, err)
			continue
		}
		logger.WorkerLog("subscription", "downgrade to free "+sub.UserID, nil)
	}
}

func (w *SubscriptionWorker) purgeRefreshTokens() {
	if err := w.userRepo.DeleteExpiredRefreshTokens(w.db); err != nil {
		logger.WorkerLog("subscription", "refresh token purge", err)
	}
}
