package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jcrispin99/gym-app-sub000/internal/core/id"
	"github.com/Jcrispin99/gym-app-sub000/pkg/logger"
)

// OutboxStatus is the delivery state of an outbox message.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusPublished OutboxStatus = "published"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// maxOutboxRetries is how many delivery attempts a message gets before
// it is marked failed and becomes eligible for the dead letter sweep.
const maxOutboxRetries = 5

// OutboxMessage is one row of the transactional outbox.
type OutboxMessage struct {
	ID            id.ID        `db:"id"`
	AggregateType string       `db:"aggregate_type"`
	AggregateID   id.ID        `db:"aggregate_id"`
	EventType     string       `db:"event_type"`
	Payload       []byte       `db:"payload"`
	Status        OutboxStatus `db:"status"`
	RetryCount    int          `db:"retry_count"`
	LastError     *string      `db:"last_error"`
	NextRetryAt   *time.Time   `db:"next_retry_at"`
	CreatedAt     time.Time    `db:"created_at"`
	PublishedAt   *time.Time   `db:"published_at"`
}

// DomainEvent is what producers hand the publisher; the payload is
// marshalled to JSON on write.
type DomainEvent struct {
	AggregateType string
	AggregateID   id.ID
	EventType     string
	Payload       any
}

// OutboxPublisher writes events into sys_outbox. Publishing requires
// the caller's open transaction, which is the point: the event commits
// or rolls back together with the state change that produced it.
type OutboxPublisher struct {
	txManager *TxManager
}

// NewOutboxPublisher creates a publisher bound to the tx manager.
func NewOutboxPublisher(txManager *TxManager) *OutboxPublisher {
	return &OutboxPublisher{txManager: txManager}
}

// Publish appends one event to the outbox inside the current
// transaction.
func (p *OutboxPublisher) Publish(ctx context.Context, event DomainEvent) error {
	tx := p.txManager.GetTx(ctx)
	if tx == nil {
		return fmt.Errorf("outbox publish requires an open transaction")
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("marshal event payload: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO sys_outbox (id, aggregate_type, aggregate_id, event_type, payload, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id.New(), event.AggregateType, event.AggregateID, event.EventType, payload, OutboxStatusPending, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert outbox message: %w", err)
	}

	return nil
}

// OutboxHandler delivers a single message. A returned error schedules
// a retry.
type OutboxHandler interface {
	Handle(ctx context.Context, msg *OutboxMessage) error
}

// OutboxRelay drains pending messages and hands them to a handler.
// The worker runs it in a polling loop; FOR UPDATE SKIP LOCKED lets
// several workers share the table without stepping on each other.
type OutboxRelay struct {
	pool      *pgxpool.Pool
	batchSize int
	handler   OutboxHandler
}

// NewOutboxRelay creates a relay over the raw pool.
func NewOutboxRelay(pool *pgxpool.Pool, batchSize int, handler OutboxHandler) *OutboxRelay {
	return &OutboxRelay{
		pool:      pool,
		batchSize: batchSize,
		handler:   handler,
	}
}

// ProcessBatch claims up to batchSize due messages inside one
// transaction and attempts delivery. The claim transaction holds the
// row locks until the batch commits, so a second worker skips these
// rows for the whole attempt, not just the SELECT. Returns how many
// were delivered; a message that fails is rescheduled with linear
// backoff and does not stop the batch.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (delivered int, err error) {
	claim, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin claim: %w", err)
	}
	defer func() {
		if err != nil {
			_ = claim.Rollback(context.Background())
		}
	}()

	rows, err := claim.Query(ctx, `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, status,
		       retry_count, last_error, next_retry_at, created_at, published_at
		FROM sys_outbox
		WHERE status = $1
		  AND (next_retry_at IS NULL OR next_retry_at <= NOW())
		ORDER BY created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, OutboxStatusPending, r.batchSize)
	if err != nil {
		return 0, fmt.Errorf("fetch outbox messages: %w", err)
	}

	var messages []*OutboxMessage
	for rows.Next() {
		var msg OutboxMessage
		if err := rows.Scan(
			&msg.ID, &msg.AggregateType, &msg.AggregateID, &msg.EventType,
			&msg.Payload, &msg.Status, &msg.RetryCount, &msg.LastError,
			&msg.NextRetryAt, &msg.CreatedAt, &msg.PublishedAt,
		); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan outbox message: %w", err)
		}
		messages = append(messages, &msg)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate outbox messages: %w", err)
	}

	if len(messages) == 0 {
		logger.Debug(ctx, "no pending fiscal submissions")
		return 0, claim.Rollback(ctx)
	}

	for _, msg := range messages {
		if derr := r.deliver(ctx, claim, msg); derr != nil {
			logger.Error(ctx, "outbox delivery failed",
				"message_id", msg.ID,
				"event_type", msg.EventType,
				"retry_count", msg.RetryCount,
				"error", derr,
			)
			continue
		}
		delivered++
	}

	if err = claim.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit claim: %w", err)
	}
	return delivered, nil
}

func (r *OutboxRelay) deliver(ctx context.Context, claim pgx.Tx, msg *OutboxMessage) error {
	if err := r.handler.Handle(ctx, msg); err != nil {
		if rerr := r.reschedule(ctx, claim, msg, err); rerr != nil {
			return rerr
		}
		// Rescheduled, but the delivery itself still failed.
		return err
	}
	return r.markPublished(ctx, claim, msg)
}

func (r *OutboxRelay) markPublished(ctx context.Context, claim pgx.Tx, msg *OutboxMessage) error {
	_, err := claim.Exec(ctx, `
		UPDATE sys_outbox
		SET status = $1, published_at = $2
		WHERE id = $3
	`, OutboxStatusPublished, time.Now().UTC(), msg.ID)
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}

// reschedule records the failure and pushes next_retry_at out linearly
// with the attempt count. The attempt that exhausts the budget flips
// the status to failed.
func (r *OutboxRelay) reschedule(ctx context.Context, claim pgx.Tx, msg *OutboxMessage, cause error) error {
	nextRetry := time.Now().Add(time.Duration(msg.RetryCount+1) * time.Minute)

	_, err := claim.Exec(ctx, `
		UPDATE sys_outbox
		SET retry_count = retry_count + 1,
		    last_error = $1,
		    next_retry_at = $2,
		    status = CASE WHEN retry_count >= $3 THEN $4 ELSE status END
		WHERE id = $5
	`, cause.Error(), nextRetry, maxOutboxRetries, OutboxStatusFailed, msg.ID)
	if err != nil {
		return fmt.Errorf("reschedule message: %w", err)
	}

	return nil
}

// MoveToDLQ moves messages that burnt all their retries into
// sys_outbox_dlq so the pending scan stays small. Returns the number
// of rows moved.
func (r *OutboxRelay) MoveToDLQ(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		WITH moved AS (
			DELETE FROM sys_outbox
			WHERE status = $1 AND retry_count >= $2
			RETURNING *
		)
		INSERT INTO sys_outbox_dlq
		SELECT *, NOW() AS failed_at, last_error AS failure_reason FROM moved
	`, OutboxStatusFailed, maxOutboxRetries)
	if err != nil {
		return 0, fmt.Errorf("move to dlq: %w", err)
	}

	return result.RowsAffected(), nil
}
