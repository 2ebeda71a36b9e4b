package engine

import "github.com/aguerin/carnet/core/model"

// Classification cutoffs. These are fixed engine internals, independent of
// the user-configurable display thresholds in core/thresholds.
const (
	highDistanceKm = 750
	highTimeDays   = 30
)

// Classify converts a projection into a discrete urgency level. Either leg
// reaching zero makes the alert expired; within 750 km or 30 days of the
// due point it is high; everything further out is low. UrgencyMedium is
// never produced by the current rules.
func Classify(p Projection) model.Urgency {
	if p.Expired {
		return model.UrgencyExpired
	}
	if p.Mileage != nil && p.Mileage.RemainingKm <= highDistanceKm {
		return model.UrgencyHigh
	}
	if p.Date != nil && p.Date.RemainingDays <= highTimeDays {
		return model.UrgencyHigh
	}
	return model.UrgencyLow
}
