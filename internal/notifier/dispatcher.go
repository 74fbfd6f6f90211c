package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"fleet-rental/internal/infra/writerepo"
	"fleet-rental/internal/pkg/clock"
	"fleet-rental/internal/pkg/config"

	"github.com/google/uuid"
)

// JobQueue is the persistence surface the dispatcher drives.
type JobQueue interface {
	ClaimDue(ctx context.Context, limit int32, now time.Time) ([]writerepo.NotificationJob, error)
	ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error)
	MarkSent(ctx context.Context, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, jobID uuid.UUID, jobErr string, retryAt time.Time, maxAttempts int32) error
}

// Dispatcher drains the notification_jobs queue. A single poller claims
// due jobs (SKIP LOCKED keeps concurrent dispatchers from colliding) and
// fans them out to a fixed pool of delivery workers.
type Dispatcher struct {
	repo   JobQueue
	mailer Mailer
	cfg    config.NotifierConfig
	clock  clock.Clock
	logger *slog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

func NewDispatcher(
	repo JobQueue,
	mailer Mailer,
	cfg config.NotifierConfig,
	clk clock.Clock,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		clock:  clk,
		logger: logger,
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	d.done = make(chan struct{})

	jobs := make(chan writerepo.NotificationJob)

	var wg sync.WaitGroup
	for i := 0; i < d.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				d.deliver(ctx, job)
			}
		}()
	}

	go func() {
		defer close(d.done)
		defer func() {
			close(jobs)
			wg.Wait()
		}()

		ticker := time.NewTicker(d.cfg.PollInterval)
		defer ticker.Stop()

		for {
			d.reclaim(ctx)
			d.drain(ctx, jobs)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop halts polling and waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	if d.cancel == nil {
		return
	}
	d.cancel()
	<-d.done
}

// reclaim requeues jobs stuck in processing, left behind by a dispatcher
// that died between claim and delivery.
func (d *Dispatcher) reclaim(ctx context.Context) {
	reclaimed, err := d.repo.ReclaimStale(ctx, d.clock.Now().Add(-d.cfg.StaleAfter))
	if err != nil {
		if ctx.Err() == nil {
			d.logger.Error("failed to reclaim stale notification jobs", "error", err.Error())
		}
		return
	}
	if reclaimed > 0 {
		d.logger.Warn("requeued stale notification jobs", "count", reclaimed)
	}
}

func (d *Dispatcher) drain(ctx context.Context, jobs chan<- writerepo.NotificationJob) {
	for {
		claimed, err := d.repo.ClaimDue(ctx, int32(d.cfg.BatchSize), d.clock.Now())
		if err != nil {
			if ctx.Err() == nil {
				d.logger.Error("failed to claim notification jobs", "error", err.Error())
			}
			return
		}
		if len(claimed) == 0 {
			return
		}
		for _, job := range claimed {
			select {
			case <-ctx.Done():
				return
			case jobs <- job:
			}
		}
		if len(claimed) < d.cfg.BatchSize {
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job writerepo.NotificationJob) {
	to, subject, body, att, err := renderTopic(job.Topic, job.Payload)
	if err == nil {
		err = d.mailer.Send(ctx, to, subject, body, att)
	}
	if err == nil {
		if err := d.repo.MarkSent(ctx, job.ID); err != nil {
			d.logger.Error("failed to mark notification sent", "job_id", job.ID, "error", err.Error())
		}
		return
	}

	retryAt := d.clock.Now().Add(retryDelay(job.Attempts))
	d.logger.Warn("notification delivery failed",
		"job_id", job.ID,
		"topic", job.Topic,
		"attempt", job.Attempts+1,
		"error", err.Error(),
	)
	if err := d.repo.MarkFailed(ctx, job.ID, err.Error(), retryAt, int32(d.cfg.MaxAttempts)); err != nil {
		d.logger.Error("failed to mark notification failed", "job_id", job.ID, "error", err.Error())
	}
}

// retryDelay doubles per attempt: 30s, 1m, 2m, 4m, ...
func retryDelay(attempts int32) time.Duration {
	return 30 * time.Second << attempts
}
