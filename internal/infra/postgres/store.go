package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"
	"github.com/boddenberg/backoffice-reporting-go/internal/infra/resilience"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("postgres")

// querier is the subset of *pgxpool.Pool the queries need.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements port.Store on a pgx pool.
type Store struct {
	pool         *pgxpool.Pool
	cb           *gobreaker.CircuitBreaker
	queryTimeout time.Duration
	logger       *zap.Logger
}

// NewStore creates a Store. A zero queryTimeout leaves deadlines to the caller.
func NewStore(pool *pgxpool.Pool, cb *gobreaker.CircuitBreaker, queryTimeout time.Duration, logger *zap.Logger) *Store {
	return &Store{pool: pool, cb: cb, queryTimeout: queryTimeout, logger: logger}
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	_, err := run(ctx, s, "Ping", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.pool.Ping(ctx)
	})
	return err
}

// run executes one data access operation: span, optional deadline, circuit
// breaker and error classification.
func run[T any](ctx context.Context, s *Store, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, span := tracer.Start(ctx, "Postgres."+op)
	defer span.End()

	if s.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	out, err := resilience.Execute(s.cb, func() (T, error) { return fn(ctx) })
	if resilience.IsBenign(err) {
		return out, err
	}

	var open *domain.ErrCircuitOpen
	if !errors.As(err, &open) {
		err = &domain.ErrDataAccess{Operation: op, Err: err}
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(attribute.Int64("db.duration_ms", time.Since(start).Milliseconds()))
	s.logger.Error("postgres: query failed",
		zap.String("operation", op),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err),
	)
	return out, err
}

// queryAll runs sql and scans every row with scan.
func queryAll[T any](ctx context.Context, q querier, sql string, args []any, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// queryOne runs sql and scans a single row. No row is reported as notFound.
func queryOne[T any](ctx context.Context, q querier, sql string, args []any, scan func(pgx.Row) (T, error), notFound error) (T, error) {
	v, err := scan(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return v, notFound
	}
	return v, err
}

// queryPage counts the rows selected by from+where, then fetches one page.
// from and where must not contain ORDER BY or LIMIT.
func queryPage[T any](ctx context.Context, q querier, columns, from, where string, args []any, order string, req domain.PageRequest, scan func(pgx.Row) (T, error)) (domain.Page[T], error) {
	var total int64
	countSQL := "SELECT COUNT(*) FROM " + from + where
	if err := q.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return domain.Page[T]{}, fmt.Errorf("count rows: %w", err)
	}

	listSQL := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		columns, from, where, order, len(args)+1, len(args)+2)
	listArgs := append(append([]any{}, args...), req.Size, req.Offset())

	items, err := queryAll(ctx, q, listSQL, listArgs, scan)
	if err != nil {
		return domain.Page[T]{}, err
	}
	return domain.NewPage(items, req, total), nil
}
