package service

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"lingua-bot/internal/cache"
	"lingua-bot/internal/domain"
	"lingua-bot/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunLocker grants one broadcast run per key across instances.
type RunLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// BroadcastResult summarizes one reminder broadcast.
type BroadcastResult struct {
	RunID     string `json:"run_id"`
	Total     int    `json:"total"`
	Delivered int    `json:"delivered"`
	Failed    int    `json:"failed"`
}

// BroadcastService sends the daily reminder to every user record.
type BroadcastService struct {
	users       domain.UserRecordStore
	notifier    domain.Notifier
	concurrency int
	logger      *zap.Logger
}

func NewBroadcastService(users domain.UserRecordStore, notifier domain.Notifier, concurrency int, logger *zap.Logger) *BroadcastService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &BroadcastService{
		users:       users,
		notifier:    notifier,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run delivers one reminder per user. A failed delivery is logged and counted
// and never stops the others; there are no retries.
func (s *BroadcastService) Run(ctx context.Context) (*BroadcastResult, error) {
	result := &BroadcastResult{RunID: util.NewULID()}
	log := s.logger.With(zap.String("run_id", result.RunID))

	records, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	result.Total = len(ids)

	var delivered, failed atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for _, id := range ids {
		user := records[id]
		g.Go(func() error {
			if err := s.notifier.Notify(ctx, user); err != nil {
				failed.Add(1)
				if domain.CodeOf(err) != domain.ErrDelivery {
					err = domain.NewDeliveryError(user.UserID, err)
				}
				log.Error("Failed to deliver reminder", zap.Int64("user_id", user.UserID), zap.Error(err))
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	result.Delivered = int(delivered.Load())
	result.Failed = int(failed.Load())
	log.Info("Broadcast finished",
		zap.Int("total", result.Total),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed))
	return result, nil
}

// BroadcastJob adapts BroadcastService to the scheduler. With a locker only
// one instance runs the scheduled broadcast per day; ad-hoc runs through the
// service never take the lock.
type BroadcastJob struct {
	svc    *BroadcastService
	locker RunLocker
	now    func() time.Time
}

// NewBroadcastJob builds the job. locker may be nil for a single instance
// deployment.
func NewBroadcastJob(svc *BroadcastService, locker RunLocker) *BroadcastJob {
	return &BroadcastJob{svc: svc, locker: locker, now: time.Now}
}

func (j *BroadcastJob) Name() string { return "daily_broadcast" }

func (j *BroadcastJob) Run(ctx context.Context) error {
	if j.locker == nil {
		_, err := j.svc.Run(ctx)
		return err
	}

	key := cache.GenerateCacheKey("broadcast", "run", j.now().Format("2006-01-02"))
	acquired, err := j.locker.Acquire(ctx, key, 23*time.Hour)
	if err != nil {
		j.svc.logger.Warn("Broadcast lock unavailable, running anyway", zap.Error(err))
		_, err = j.svc.Run(ctx)
		return err
	}
	if !acquired {
		j.svc.logger.Info("Broadcast already ran today on another instance", zap.String("lock_key", key))
		return nil
	}

	if _, err := j.svc.Run(ctx); err != nil {
		// Aborted before any delivery; free the day for a retry.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if relErr := j.locker.Release(releaseCtx, key); relErr != nil {
			j.svc.logger.Error("Failed to release broadcast lock", zap.String("lock_key", key), zap.Error(relErr))
		}
		return err
	}
	return nil
}
