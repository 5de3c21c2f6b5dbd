package quota

import "fmt"

// QuotaExhaustedError is returned by Consume when the requested operation
// would push usage past the daily limit. The counter is left untouched.
type QuotaExhaustedError struct {
	Used  int
	Limit int
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("YouTube API quota exhausted: %d/%d units used today. Resets at midnight Pacific Time.", e.Used, e.Limit)
}
