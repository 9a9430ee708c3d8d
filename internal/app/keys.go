package app

import (
	"fmt"
	"time"
)

// IdempotencyKey derives a deterministic processor idempotency key from the
// operation, hold id, requested amount, and a 60-second time bucket. A resent
// request with identical parameters inside the same bucket deduplicates at the
// processor even if our in-memory capture guard has lost its record. A nil
// amount ("capture full amount") is distinguishable from any numeric amount.
func IdempotencyKey(operation, id string, amount *int64, at time.Time) string {
	amountStr := "full"
	if amount != nil {
		amountStr = fmt.Sprintf("%d", *amount)
	}
	minuteWindow := at.UnixMilli() / 60000
	return fmt.Sprintf("%s-%s-%s-%d", operation, id, amountStr, minuteWindow)
}
