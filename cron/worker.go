package cron

import (
	"context"
	"encoding/json"
	"time"

	"bottega/config"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeBookingFollowup = "booking:followup"

// FollowupPayload describes a booking that needs operator attention:
// the remote write succeeded but the flow could not hand the user to
// payment. BookingID is zero when the identifier itself was lost.
type FollowupPayload struct {
	BookingID int    `json:"booking_id"`
	Email     string `json:"email"`
	Reason    string `json:"reason"`
}

// Enqueuer schedules followup tasks on the shared queue.
type Enqueuer struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewEnqueuer(logger *zap.Logger) *Enqueuer {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &Enqueuer{client: client, logger: logger}
}

// EnqueueFollowup schedules a reconciliation task for an interrupted
// booking flow. Enqueue failures are logged, never propagated: the
// user-facing error already carries the retry guidance.
func (e *Enqueuer) EnqueueFollowup(p FollowupPayload) {
	raw, err := json.Marshal(p)
	if err != nil {
		e.logger.Error("followup payload marshal failed", zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeBookingFollowup, raw)
	if _, err := e.client.Enqueue(task, asynq.ProcessIn(time.Minute)); err != nil {
		e.logger.Error("followup enqueue failed",
			zap.Int("bookingID", p.BookingID), zap.Error(err))
	}
}

// BookingNeedsFollowup adapts the enqueuer to the booking flow's
// notifier contract.
func (e *Enqueuer) BookingNeedsFollowup(bookingID int, email, reason string) {
	e.EnqueueFollowup(FollowupPayload{BookingID: bookingID, Email: email, Reason: reason})
}

// InitFollowupWorker runs the async worker in background. Followup
// tasks surface interrupted bookings to operators; no automatic
// reconciliation is attempted.
func InitFollowupWorker(logger *zap.Logger) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingFollowup, handleFollowupTask(logger))

	go func() {
		logger.Info("starting booking followup worker")
		if err := srv.Run(mux); err != nil {
			logger.Error("followup worker stopped", zap.Error(err))
		}
	}()
}

func handleFollowupTask(logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p FollowupPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("followup task has invalid payload", zap.Error(err))
			return err
		}

		// Operator-facing record of a booking stranded before payment.
		logger.Error("booking needs manual reconciliation",
			zap.Int("bookingID", p.BookingID),
			zap.String("email", p.Email),
			zap.String("reason", p.Reason))
		return nil
	}
}
