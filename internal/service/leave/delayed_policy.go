package leave

import (
	"time"

	"github.com/cmlabs-hris/staff-attendance-go/internal/domain/leave"
)

// DelayedAfter is how long a request may wait for a decision.
const DelayedAfter = 30 * 24 * time.Hour

// IsDelayed reports whether a pending request has waited too long. It is
// delayed when it was applied before the first day of now's month, or more
// than DelayedAfter before now. Approved and rejected requests are never
// delayed.
//
// A date-only AppliedDate is read as midnight in now's location.
func IsDelayed(r leave.LeaveRequest, now time.Time) bool {
	if !r.IsPending() {
		return false
	}

	applied := r.SubmittedAt
	if r.AppliedDate != nil {
		d := *r.AppliedDate
		applied = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
	}
	if applied.IsZero() {
		return false
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if applied.Before(monthStart) {
		return true
	}
	return now.Sub(applied) > DelayedAfter
}

// Partition splits requests into those to keep and the delayed ones, keeping
// the input order in both.
func Partition(requests []leave.LeaveRequest, now time.Time) (keep, delayed []leave.LeaveRequest) {
	for _, r := range requests {
		if IsDelayed(r, now) {
			delayed = append(delayed, r)
		} else {
			keep = append(keep, r)
		}
	}
	return keep, delayed
}
