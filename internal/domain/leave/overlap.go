package leave

import "time"

// DateRange is an inclusive calendar-day span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two inclusive ranges intersect. The boundary
// checks are inclusive on both ends, so touching ranges count: a leave
// ending on day X blocks another one starting on day X.
func (r DateRange) Overlaps(other DateRange) bool {
	if other.contains(r.Start) || other.contains(r.End) {
		return true
	}
	// r fully covers other
	return !r.Start.After(other.Start) && !r.End.Before(other.End)
}

func (r DateRange) contains(day time.Time) bool {
	return !day.Before(r.Start) && !day.After(r.End)
}

// HasOverlap checks a candidate range against an employee's existing
// leaves. Only pending and approved leaves block; excludeID skips one
// record so updates do not collide with themselves.
func HasOverlap(candidate DateRange, existing []Leave, excludeID string) bool {
	for _, l := range existing {
		if excludeID != "" && l.ID == excludeID {
			continue
		}
		if !l.IsActive() {
			continue
		}
		if candidate.Overlaps(DateRange{Start: l.StartDate, End: l.EndDate}) {
			return true
		}
	}
	return false
}
