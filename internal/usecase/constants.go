package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction.
	// A unit of work that exceeds it is rolled back entirely.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// TimestampPrecision is the precision of Postgres TIMESTAMPTZ. Every time a
	// use case records is truncated to it.
	TimestampPrecision = time.Microsecond
)

// timestamp normalizes t to UTC at storage precision.
func timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}
