package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ItineraryRequestsTotal    metric.Int64Counter
	ItineraryDurationSeconds  metric.Float64Histogram
	ItineraryFailuresTotal    metric.Int64Counter
	CatalogQueryDurationSecs  metric.Float64Histogram
	CatalogQueryErrorsTotal   metric.Int64Counter
	ScheduledSlotsPerRequest  metric.Int64Histogram
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// Get initializes the global metric instruments once and returns them.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tourplan-recommender")
		m := &AppMetrics{}
		var err error

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Total number of itinerary generation requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create itinerary_requests_total: %v", err)
		}

		m.ItineraryDurationSeconds, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("Duration of itinerary generation in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.ItineraryFailuresTotal, err = meter.Int64Counter(
			"itinerary_failures_total",
			metric.WithDescription("Total number of failed itinerary generations"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create itinerary_failures_total: %v", err)
		}

		m.CatalogQueryDurationSecs, err = meter.Float64Histogram(
			"catalog_query_duration_seconds",
			metric.WithDescription("Duration of catalog queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create catalog_query_duration_seconds: %v", err)
		}

		m.CatalogQueryErrorsTotal, err = meter.Int64Counter(
			"catalog_query_errors_total",
			metric.WithDescription("Total number of catalog query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create catalog_query_errors_total: %v", err)
		}

		m.ScheduledSlotsPerRequest, err = meter.Int64Histogram(
			"itinerary_slots_per_request",
			metric.WithDescription("Number of scheduled slots per generated itinerary"),
			metric.WithUnit("{slot}"),
		)
		if err != nil {
			log.Fatalf("Metrics: failed to create itinerary_slots_per_request: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}
