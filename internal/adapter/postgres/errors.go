package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// mapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through wrapped.
func mapError(err error, op string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("postgres: %s: %w", op, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("postgres: %s: duplicate key: %w", op, domain.ErrMalformedDictionary)
		case "23514": // check_violation
			return fmt.Errorf("postgres: %s: %s: %w", op, pgErr.ConstraintName, domain.ErrMalformedDictionary)
		}
	}

	return fmt.Errorf("postgres: %s: %w", op, err)
}
