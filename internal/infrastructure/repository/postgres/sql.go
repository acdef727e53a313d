package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/riskibarqy/player-rating/internal/domain/rating"
)

const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateInvalidStatementName = "26000"
	sqlStateProtocolViolation    = "08P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != sqlStateUniqueViolation {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

// isBindParameterMismatch matches errors seen when a pooler reuses an unnamed
// prepared statement across sessions.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	if pqCode(err) == sqlStateProtocolViolation {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "bind message supplies") && strings.Contains(msg, "requires")
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	if pqCode(err) == sqlStateInvalidStatementName {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") || strings.Contains(msg, "("+sqlStateInvalidStatementName+")")
}

// classifyTxError maps errors that a retry of the whole unit of work can
// resolve to rating.ErrConcurrencyConflict.
func classifyTxError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, rating.ErrConcurrencyConflict) {
		return err
	}
	switch pqCode(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
		return fmt.Errorf("%w: %w", rating.ErrConcurrencyConflict, err)
	}
	if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
		return fmt.Errorf("%w: %w", rating.ErrConcurrencyConflict, err)
	}
	return err
}
