package kpi

import (
	"math"
	"testing"

	"github.com/aguerin/carnet/core/model"
)

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Alerts != 0 || s.ExpiredShare != 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if math.IsNaN(s.MeanRemainingKm) || math.IsNaN(s.MedianRemainingDays) {
		t.Fatalf("empty input produced NaN")
	}
}

func TestSummarize(t *testing.T) {
	alerts := []model.Alert{
		{Urgency: model.UrgencyExpired, Expired: true, Mileage: &model.MileageProjection{RemainingKm: 0}},
		{Urgency: model.UrgencyHigh, Mileage: &model.MileageProjection{RemainingKm: 500}},
		{Urgency: model.UrgencyLow, Mileage: &model.MileageProjection{RemainingKm: 10000}, Date: &model.DateProjection{RemainingDays: 200}},
		{Urgency: model.UrgencyLow, Date: &model.DateProjection{RemainingDays: 100}},
	}
	s := Summarize(alerts)
	if s.Alerts != 4 {
		t.Fatalf("expected 4 alerts, got %d", s.Alerts)
	}
	if s.ByUrgency["expired"] != 1 || s.ByUrgency["high"] != 1 || s.ByUrgency["low"] != 2 {
		t.Fatalf("bad urgency counts %+v", s.ByUrgency)
	}
	if math.Abs(s.ExpiredShare-0.25) > 1e-9 {
		t.Fatalf("expected expired share 0.25, got %f", s.ExpiredShare)
	}
	if math.Abs(s.MeanRemainingKm-3500) > 1e-9 {
		t.Fatalf("expected mean 3500 km, got %f", s.MeanRemainingKm)
	}
	if math.Abs(s.MeanRemainingDays-150) > 1e-9 {
		t.Fatalf("expected mean 150 days, got %f", s.MeanRemainingDays)
	}
}
