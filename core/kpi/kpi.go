package kpi

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aguerin/carnet/core/model"
)

// Summary aggregates fleet health figures from one computed alert list.
type Summary struct {
	Alerts       int            `json:"alerts"`
	ByUrgency    map[string]int `json:"by_urgency"`
	ExpiredShare float64        `json:"expired_share"`

	MeanRemainingKm   float64 `json:"mean_remaining_km"`
	MedianRemainingKm float64 `json:"median_remaining_km"`
	P90RemainingKm    float64 `json:"p90_remaining_km"`

	MeanRemainingDays   float64 `json:"mean_remaining_days"`
	MedianRemainingDays float64 `json:"median_remaining_days"`
	P90RemainingDays    float64 `json:"p90_remaining_days"`
}

// Summarize computes the fleet health summary for an alert list. Distance
// figures only aggregate alerts carrying a mileage projection, time figures
// those carrying a date projection.
func Summarize(alerts []model.Alert) Summary {
	s := Summary{Alerts: len(alerts), ByUrgency: map[string]int{}}
	var kms, days []float64
	expired := 0
	for _, a := range alerts {
		s.ByUrgency[a.Urgency.String()]++
		if a.Expired {
			expired++
		}
		if a.Mileage != nil {
			kms = append(kms, float64(a.Mileage.RemainingKm))
		}
		if a.Date != nil {
			days = append(days, float64(a.Date.RemainingDays))
		}
	}
	if len(alerts) > 0 {
		s.ExpiredShare = float64(expired) / float64(len(alerts))
	}
	s.MeanRemainingKm, s.MedianRemainingKm, s.P90RemainingKm = describe(kms)
	s.MeanRemainingDays, s.MedianRemainingDays, s.P90RemainingDays = describe(days)
	return s
}

// describe returns mean, median and p90 of xs. Quantiles require sorted
// input; an empty slice yields zeros rather than NaN.
func describe(xs []float64) (mean, median, p90 float64) {
	if len(xs) == 0 {
		return 0, 0, 0
	}
	sort.Float64s(xs)
	mean = stat.Mean(xs, nil)
	median = stat.Quantile(0.5, stat.Empirical, xs, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, xs, nil)
	return mean, median, p90
}
