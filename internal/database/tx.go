package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
)

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so a
// repository can run against the pool directly or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrNestedTx means a unit of work tried to open a second top-level
// transaction. That is a programming error, not a runtime condition.
var ErrNestedTx = errors.New("nested transaction")

// Postgres error codes the classifier cares about.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type txKey struct{}

// Coordinator wraps units of work in one transaction on one pooled
// connection: begin, run, commit on success, rollback on any failure, and
// release the connection on every exit path.
type Coordinator struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
}

func NewCoordinator(pool *pgxpool.Pool, acquireTimeout time.Duration) *Coordinator {
	return &Coordinator{pool: pool, acquireTimeout: acquireTimeout}
}

// WithTx runs fn inside a single transaction. The context passed to fn is
// marked so a nested WithTx fails with ErrNestedTx instead of silently
// starting a second transaction. An acquire that exceeds the configured
// timeout is reported as retryable pool exhaustion.
func (c *Coordinator) WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	if ctx.Value(txKey{}) != nil {
		return ErrNestedTx
	}

	acquireCtx, cancel := context.WithTimeout(ctx, c.acquireTimeout)
	conn, err := c.pool.Acquire(acquireCtx)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: acquiring connection", domain.ErrResourceExhausted)
		}
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return Classify(fmt.Errorf("begin: %w", err))
	}

	txCtx := context.WithValue(ctx, txKey{}, struct{}{})

	// Rollback runs on a detached context: the request context may already
	// be canceled by the time the transaction unwinds.
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(context.Background())
			panic(p)
		}
	}()

	if err := fn(txCtx, tx); err != nil {
		_ = tx.Rollback(context.Background())
		return Classify(err)
	}

	if err := tx.Commit(ctx); err != nil {
		_ = tx.Rollback(context.Background())
		return Classify(fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Classify maps storage-level failures onto the domain taxonomy: unique
// violations become Conflict, foreign-key violations NotFound, exceeded
// deadlines Timeout. Errors already carrying a domain sentinel pass through
// unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
		case codeForeignKeyViolation:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, pgErr.ConstraintName)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}

	return err
}
