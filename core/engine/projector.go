package engine

import (
	"math"
	"time"

	"github.com/aguerin/carnet/core/model"
)

// Projection is the outcome of projecting one (vehicle, template) pair.
// At least one of Mileage and Date is set when the pair produces an alert.
type Projection struct {
	Mileage *model.MileageProjection
	Date    *model.DateProjection
	Expired bool

	// Baseline is the history entry the projection was derived from, nil
	// when the baseline fell back to the vehicle's manufacture year.
	Baseline *model.HistoryEntry
}

// Project finds the projection baseline for the pair and computes the next
// due mileage and date. ok is false when no alert should be emitted: the
// template has no interval, the vehicle has neither matching history nor a
// manufacture year, or neither leg produced a projection.
func Project(v model.Vehicle, t model.Template, history []model.HistoryEntry, today time.Time) (Projection, bool) {
	var p Projection
	if !t.HasInterval() {
		return p, false
	}

	baseDate, baseKm, entry, ok := baseline(v, t, history)
	if !ok {
		return p, false
	}
	p.Baseline = entry

	// A zero baseline mileage means the operation was never logged with an
	// odometer reading; projecting a distance from it would alert on every
	// vehicle fresh out of the factory.
	if t.DistanceKm > 0 && baseKm > 0 {
		target := baseKm + t.DistanceKm
		left := target - v.Odometer
		if left <= 0 {
			p.Expired = true
			left = 0
		}
		p.Mileage = &model.MileageProjection{TargetKm: target, RemainingKm: left}
	}

	if t.TimeMonths > 0 {
		target := baseDate.AddDate(0, t.TimeMonths, 0)
		days := daysUntil(today, target)
		if days <= 0 {
			p.Expired = true
			days = 0
		}
		p.Date = &model.DateProjection{TargetDate: target, RemainingDays: days}
	}

	if p.Mileage == nil && p.Date == nil {
		return Projection{}, false
	}
	return p, true
}

// baseline selects the most recent matching history entry for the pair.
// Ties on the date keep the earliest entry in slice order. Without a match
// the baseline falls back to January 1 of the manufacture year at mileage 0;
// without a manufacture year there is no baseline at all.
func baseline(v model.Vehicle, t model.Template, history []model.HistoryEntry) (time.Time, int, *model.HistoryEntry, bool) {
	var best *model.HistoryEntry
	for i := range history {
		e := &history[i]
		if e.VehicleID != v.ID || e.Type != t.Name {
			continue
		}
		if best == nil || e.Date.After(best.Date) {
			best = e
		}
	}
	if best != nil {
		return best.Date, best.Odometer, best, true
	}
	if v.Year == 0 {
		return time.Time{}, 0, nil, false
	}
	return time.Date(v.Year, time.January, 1, 0, 0, 0, 0, time.UTC), 0, nil, true
}

// daysUntil counts the days left before target, rounding partial days up so
// an operation due later today still shows one remaining day until the
// moment it is due.
func daysUntil(today, target time.Time) int {
	return int(math.Ceil(target.Sub(today).Hours() / 24))
}
