package deal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	metricDealsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gig_market_deals_created_total",
		Help: "Booking deals created.",
	})
	metricDealsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gig_market_deals_accepted_total",
		Help: "Booking deals accepted.",
	})
	metricDealsDeclined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gig_market_deals_declined_total",
		Help: "Booking deals declined.",
	})
	metricCounterOffers = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gig_market_counter_offers_total",
		Help: "Counter-offers posted into threads.",
	})
	metricDealsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gig_market_deals_completed_total",
		Help: "Accepted deals marked completed after their event date.",
	})
)
