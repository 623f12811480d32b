package scheduler

import (
	"context"

	"tradebit/src/repositories"
	"tradebit/src/services"
	"tradebit/src/utils"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

type ScheduledTask struct {
	cronID cron.EntryID
	cron   *cron.Cron
	cancel chan struct{}
}

func NewScheduledTask(cronSpec string, taskFunc func()) (*ScheduledTask, error) {
	c := cron.New()
	cancel := make(chan struct{})
	task := &ScheduledTask{
		cron:   c,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-cancel:
			return
		default:
			taskFunc()
		}
	})
	if err != nil {
		return nil, err
	}

	task.cronID = id
	c.Start()
	return task, nil
}

func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	close(s.cancel)
}

// NewDailyHoldingsSync schedules a holdings sync pass for every user with
// configured broker credentials. Users whose session has expired simply
// produce a failed result; they are picked up again after the next login.
func NewDailyHoldingsSync(
	cronSpec string,
	settingsRepo repositories.UserSettingsRepository,
	syncService services.SyncServiceI,
	logger *logrus.Logger,
) (*ScheduledTask, error) {
	return NewScheduledTask(cronSpec, func() {
		ctx := utils.WithLogger(context.Background(), logger)

		userIDs, err := settingsRepo.ListConfigured(ctx)
		if err != nil {
			logger.Errorf("scheduled sync: failed to list configured users: %v", err)
			return
		}

		for _, userID := range userIDs {
			result := syncService.SyncHoldings(ctx, userID)
			if result.Success {
				logger.Infof("scheduled sync for user %s: created=%d updated=%d skipped=%d total=%d",
					userID, result.Created, result.Updated, result.Skipped, result.Total)
			} else {
				logger.Warnf("scheduled sync for user %s failed: %s", userID, result.Message)
			}
		}
	})
}
