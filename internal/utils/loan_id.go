package utils

import (
	"fmt"
	"time"
)

// GenerateLoanID builds the human-readable loan id from the current time:
// "LN" followed by the last eight digits of the unix-millisecond clock.
// Collisions within the same millisecond are caught by the unique constraint
// on the loans table and the caller retries.
func GenerateLoanID(now time.Time) string {
	ms := now.UnixMilli()
	return fmt.Sprintf("LN%08d", ms%100000000)
}
