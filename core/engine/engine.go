package engine

import (
	"math"
	"sort"
	"time"

	"github.com/aguerin/carnet/core/model"
)

// dayWeight converts remaining days into the distance scale used to order
// alerts: one day of slack counts as ten kilometres. The weighting is a
// presentation heuristic, not a unit conversion, and is part of the output
// contract.
const dayWeight = 10

// ComputeAlerts is the engine entry point. For every vehicle it resolves
// the applicable templates, projects each one against the service history
// and assembles the classified alerts into a single list ordered by urgency
// then proximity. Missing or insufficient data silently omits alerts; there
// are no error paths.
//
// today must be supplied by the caller so replays with identical inputs are
// byte-identical.
func ComputeAlerts(vehicles []model.Vehicle, history []model.HistoryEntry, catalog []model.Template, profiles []model.CustomProfile, today time.Time) []model.Alert {
	var alerts []model.Alert
	for _, v := range vehicles {
		for _, t := range ResolveTemplates(v, catalog, profiles) {
			p, ok := Project(v, t, history, today)
			if !ok {
				continue
			}
			alerts = append(alerts, assemble(v, t, p))
		}
	}
	sortAlerts(alerts)
	return alerts
}

func assemble(v model.Vehicle, t model.Template, p Projection) model.Alert {
	a := model.Alert{
		VehicleID:  v.ID,
		TemplateID: t.ID,
		Name:       t.Name,
		Category:   t.Category,
		Mileage:    p.Mileage,
		Date:       p.Date,
		Urgency:    Classify(p),
		Expired:    p.Expired,
	}
	if p.Baseline != nil {
		a.ID = stableAlertID(v.ID, p.Baseline.ID, t.Name)
	} else {
		a.ID = ephemeralAlertID(v.ID, t.ID)
	}
	return a
}

// Proximity is the cross-metric closeness of an alert to its due point:
// the smaller of the remaining kilometres and the day-weighted remaining
// days. Alerts carrying a single projection use that leg alone.
func Proximity(a model.Alert) float64 {
	prox := math.Inf(1)
	if a.Mileage != nil {
		prox = float64(a.Mileage.RemainingKm)
	}
	if a.Date != nil {
		if d := float64(a.Date.RemainingDays * dayWeight); d < prox {
			prox = d
		}
	}
	return prox
}

// sortAlerts orders by urgency rank then proximity. The sort is stable so
// equal keys keep their assembly order and replays stay deterministic.
func sortAlerts(alerts []model.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Urgency != alerts[j].Urgency {
			return alerts[i].Urgency < alerts[j].Urgency
		}
		return Proximity(alerts[i]) < Proximity(alerts[j])
	})
}
