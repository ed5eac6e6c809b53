package cron

import (
	"context"

	"hallbook/config"
	"hallbook/services/booking"
	"hallbook/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const (
	// TypeSweepStalePending cancels pending bookings older than an hour.
	TypeSweepStalePending = "sweep:stale-pending"
	// TypeSweepRollover completes or expires bookings whose dates passed.
	TypeSweepRollover = "sweep:rollover"
	// TypeSendReminders emails customers 3 days and 1 day before events.
	TypeSendReminders = "reminders:send"
)

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisJobsDB,
	}
}

// InitWorker runs the background job worker.
func InitWorker(bookingSvc booking.BookingService) {
	logger := utils.GetLogger()

	srv := asynq.NewServer(redisOpts(), asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{"default": 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSweepStalePending, func(ctx context.Context, _ *asynq.Task) error {
		n, err := bookingSvc.CancelStalePending(ctx)
		if err != nil {
			logger.Error("Stale pending sweep failed", zap.Error(err))
			return err
		}
		logger.Debug("Stale pending sweep done", zap.Int("cancelled", n))
		return nil
	})
	mux.HandleFunc(TypeSweepRollover, func(ctx context.Context, _ *asynq.Task) error {
		n, err := bookingSvc.CompletePastBookings(ctx)
		if err != nil {
			logger.Error("Rollover sweep failed", zap.Error(err))
			return err
		}
		logger.Debug("Rollover sweep done", zap.Int("rolled", n))
		return nil
	})
	mux.HandleFunc(TypeSendReminders, func(ctx context.Context, _ *asynq.Task) error {
		n, err := bookingSvc.SendEventReminders(ctx)
		if err != nil {
			logger.Error("Reminder run failed", zap.Error(err))
			return err
		}
		logger.Debug("Reminder run done", zap.Int("sent", n))
		return nil
	})

	go func() {
		logger.Info("Starting background job worker")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("Background job worker exited", zap.Error(err))
		}
	}()
}

// InitScheduler enqueues the recurring sweeps: stale-pending every 20
// minutes, rollover at midnight, reminders at 9AM.
func InitScheduler() {
	logger := utils.GetLogger()
	scheduler := asynq.NewScheduler(redisOpts(), nil)

	entries := []struct {
		spec string
		task *asynq.Task
	}{
		{"*/20 * * * *", asynq.NewTask(TypeSweepStalePending, nil)},
		{"0 0 * * *", asynq.NewTask(TypeSweepRollover, nil)},
		{"0 9 * * *", asynq.NewTask(TypeSendReminders, nil)},
	}
	for _, e := range entries {
		if _, err := scheduler.Register(e.spec, e.task); err != nil {
			logger.Fatal("Failed to register scheduled task",
				zap.String("task", e.task.Type()), zap.Error(err))
		}
	}

	go func() {
		logger.Info("Starting job scheduler")
		if err := scheduler.Run(); err != nil {
			logger.Fatal("Job scheduler exited", zap.Error(err))
		}
	}()
}
