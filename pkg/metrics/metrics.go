// Package metrics provides Prometheus metrics for the file picker.
package metrics

import (
	"net/http"
	"time"

	"github.com/filetug/filepick/pkg/picker"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const outcomeOK = "ok"

var (
	// Listing metrics
	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filepick_listings_total",
			Help: "Total number of directory listings by outcome",
		},
		[]string{"device", "outcome"},
	)

	listingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filepick_listing_duration_seconds",
			Help:    "Directory listing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"device"},
	)

	listingEntries = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filepick_listing_entries",
			Help:    "Number of entries returned by successful listings",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"device"},
	)

	// Navigation metrics
	navigationActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filepick_navigation_actions_total",
			Help: "Total navigation actions applied",
		},
		[]string{"action"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	_ picker.ListingObserver = Recorder{}
	_ picker.ActionObserver  = Recorder{}
)

// Recorder feeds picker events into the package metrics.
type Recorder struct{}

// ObserveListing records a listing. An empty stage means it succeeded.
func (Recorder) ObserveListing(device string, stage picker.Stage, entries int, elapsed time.Duration) {
	outcome := string(stage)
	if outcome == "" {
		outcome = outcomeOK
		listingEntries.WithLabelValues(device).Observe(float64(entries))
	}
	listingsTotal.WithLabelValues(device, outcome).Inc()
	listingDuration.WithLabelValues(device).Observe(elapsed.Seconds())
}

func (Recorder) ObserveAction(action picker.Action) {
	navigationActionsTotal.WithLabelValues(action.String()).Inc()
}
