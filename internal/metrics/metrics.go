package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LocationChecksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_location_checks_total",
		Help: "Location evaluations by resulting alert label",
	}, []string{"alert"})
	BroadcastsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_broadcasts_total",
		Help: "Push attempts per subscriber role and outcome (sent, failed, absent)",
	}, []string{"role", "outcome"})
	SubscribersConnected = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "geofence_subscribers_connected",
		Help: "Live push channels per role",
	}, []string{"role"})
	SMSTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_sms_total",
		Help: "SOS SMS sends by outcome",
	}, []string{"outcome"})
	PlacesRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "geofence_places_requests_total",
		Help: "Places lookups by source (cache, provider) and outcome",
	}, []string{"source", "outcome"})
	PlacesDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "geofence_places_duration_ms",
		Help:    "Places provider call duration in milliseconds",
		Buckets: []float64{10, 25, 50, 100, 200, 500, 1000, 2000, 5000},
	})
)

func init() {
	prometheus.MustRegister(LocationChecksTotal)
	prometheus.MustRegister(BroadcastsTotal)
	prometheus.MustRegister(SubscribersConnected)
	prometheus.MustRegister(SMSTotal)
	prometheus.MustRegister(PlacesRequestsTotal)
	prometheus.MustRegister(PlacesDurationMs)
}

// Handler exposes the registered collectors for scraping.
func Handler() http.Handler { return promhttp.Handler() }
