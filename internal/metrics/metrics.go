// Package metrics declares the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registration outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
)

// RegistrationsTotal counts registration calls by outcome.
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "membership",
		Name:      "registrations_total",
		Help:      "Registration calls by outcome.",
	},
	[]string{"outcome"},
)

// LoginsTotal counts login attempts by result.
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "membership",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	},
	[]string{"result"},
)
