package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Search outcomes.
const (
	outcomeHit     = "cache_hit"
	outcomeMiss    = "ok"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
)

var searchTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "recipes_search_total",
		Help: "Recipe searches by outcome.",
	},
	[]string{"outcome"},
)
