package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/aguerin/carnet/core/logger"
	coremetrics "github.com/aguerin/carnet/core/metrics"
	"github.com/aguerin/carnet/core/model"
	infralogger "github.com/aguerin/carnet/infra/logger"
)

// InfluxSink writes computation and ingest events to InfluxDB using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      infralogger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so a missing Influx never takes the
// service down.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordComputation writes one engine run as a measurement point.
func (s *InfluxSink) RecordComputation(ev coremetrics.ComputationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("alert_computation").
		AddTag("cached", strconv.FormatBool(ev.Cached)).
		AddField("duration_ms", float64(ev.Duration.Microseconds())/1000).
		AddField("vehicles", ev.Vehicles).
		AddField("alerts", ev.Alerts).
		AddField("expired", ev.ByUrgency[model.UrgencyExpired]).
		AddField("high", ev.ByUrgency[model.UrgencyHigh]).
		AddField("low", ev.ByUrgency[model.UrgencyLow]).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordIngest writes one telemetry reading.
func (s *InfluxSink) RecordIngest(ev coremetrics.IngestEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("odometer_reading").
		AddTag("vehicle_id", ev.VehicleID).
		AddTag("accepted", strconv.FormatBool(ev.Accepted)).
		AddField("odometer_km", ev.OdometerKm).
		SetTime(ev.Time)
	if ev.Reason != "" {
		p.AddTag("reason", ev.Reason)
	}
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordFleetSize writes the current fleet size.
func (s *InfluxSink) RecordFleetSize(size int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fleet_size").
		AddField("vehicles", size).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
