package services

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// documentNumber builds a human-readable document number: a fixed prefix,
// the current year, and the low six digits of the epoch-millisecond clock,
// e.g. BILL-2026-483920. Two submissions inside the same millisecond would
// collide, so uniqueness is backed by a database constraint and the caller
// retries with collisionRetryNumber.
func documentNumber(prefix string, now time.Time) string {
	suffix := now.UnixMilli() % 1000000
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), suffix)
}

// collisionRetryNumber keeps the same shape but draws the suffix from a
// fresh UUID, so a retry cannot land on the same clock-derived value.
func collisionRetryNumber(prefix string, now time.Time) string {
	u := uuid.New()
	suffix := binary.BigEndian.Uint32(u[0:4]) % 1000000
	return fmt.Sprintf("%s-%d-%06d", prefix, now.Year(), suffix)
}
