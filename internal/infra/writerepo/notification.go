package writerepo

import (
	"context"
	"time"

	"fleet-rental/internal/infra"
	"fleet-rental/internal/infra/db"
	"fleet-rental/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NotificationJob is a queued outbound message. Jobs are written in the
// same transaction as the state change they announce, so a rolled-back
// workflow never leaks a notification.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Payload  []byte
	Attempts int32
	RunAt    time.Time
}

type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	const query = `
		INSERT INTO notification_jobs (id, kind, topic, payload, status, run_at)
		VALUES ($1, $2, $3, $4, 'queued', $5)`

	_, err := r.db.Exec(ctx, query, uuid.New(), kind, topic, payload, pgconv.TimestamptzFromTime(runAt))
	if err != nil {
		return infra.WrapPgErr("failed to create notification job", err)
	}
	return nil
}

// ClaimDue marks up to limit due jobs as processing and returns them.
// SKIP LOCKED lets concurrent dispatchers claim disjoint batches.
func (r *NotificationRepository) ClaimDue(ctx context.Context, limit int32, now time.Time) ([]NotificationJob, error) {
	const query = `
		UPDATE notification_jobs SET status = 'processing', updated_at = now()
		WHERE id IN (
			SELECT id FROM notification_jobs
			WHERE status = 'queued' AND run_at <= $2
			ORDER BY run_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, kind, topic, payload, attempts, run_at`

	rows, err := r.db.Query(ctx, query, limit, pgconv.TimestamptzFromTime(now))
	if err != nil {
		return nil, infra.WrapPgErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []NotificationJob
	for rows.Next() {
		var (
			job   NotificationJob
			runAt pgtype.Timestamptz
		)
		if err := rows.Scan(&job.ID, &job.Kind, &job.Topic, &job.Payload, &job.Attempts, &runAt); err != nil {
			return nil, infra.WrapPgErr("failed to scan notification job", err)
		}
		job.RunAt = pgconv.TimeFromPgtype(runAt)
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapPgErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

// ReclaimStale requeues processing jobs last touched before cutoff. A
// dispatcher that died between claiming and delivering leaves such rows
// behind; without this they would stay in processing forever.
func (r *NotificationRepository) ReclaimStale(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `
		UPDATE notification_jobs
		SET status = 'queued', updated_at = now()
		WHERE status = 'processing' AND updated_at < $1`

	tag, err := r.db.Exec(ctx, query, pgconv.TimestamptzFromTime(cutoff))
	if err != nil {
		return 0, infra.WrapPgErr("failed to reclaim stale notification jobs", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, jobID uuid.UUID) error {
	const query = `
		UPDATE notification_jobs
		SET status = 'sent', attempts = attempts + 1, last_error = NULL, updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, jobID); err != nil {
		return infra.WrapPgErr("failed to mark notification job sent", err)
	}
	return nil
}

// MarkFailed requeues the job with a delayed run_at until maxAttempts is
// reached, after which it is parked as failed.
func (r *NotificationRepository) MarkFailed(ctx context.Context, jobID uuid.UUID, jobErr string, retryAt time.Time, maxAttempts int32) error {
	const query = `
		UPDATE notification_jobs
		SET attempts = attempts + 1,
			last_error = $2,
			status = CASE WHEN attempts + 1 >= $4 THEN 'failed' ELSE 'queued' END,
			run_at = $3,
			updated_at = now()
		WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, jobID, jobErr, pgconv.TimestamptzFromTime(retryAt), maxAttempts); err != nil {
		return infra.WrapPgErr("failed to mark notification job failed", err)
	}
	return nil
}
