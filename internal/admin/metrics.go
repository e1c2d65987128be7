package admin

import (
	"github.com/prometheus/client_golang/prometheus"
)

// callMetrics tracks call outcomes per wire operation. Collection is always
// on; export only happens when Config.Registerer is set, so embedders
// without a metrics pipeline pay nothing and collide with nothing.
type callMetrics struct {
	submitted *prometheus.CounterVec
	completed *prometheus.CounterVec
	failed    *prometheus.CounterVec
	retried   *prometheus.CounterVec
	timedOut  *prometheus.CounterVec
	inFlight  prometheus.Gauge
}

func newCallMetrics(reg prometheus.Registerer) *callMetrics {
	opCounter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "meridian",
			Subsystem: "admin",
			Name:      name,
			Help:      help,
		}, []string{"op"})
	}

	m := &callMetrics{
		submitted: opCounter("calls_submitted_total", "Admin calls accepted for orchestration."),
		completed: opCounter("calls_completed_total", "Admin calls that delivered a successful response."),
		failed:    opCounter("calls_failed_total", "Admin calls that failed terminally, timeouts excluded."),
		retried:   opCounter("calls_retried_total", "Retry attempts scheduled after retriable failures."),
		timedOut:  opCounter("calls_timed_out_total", "Admin calls that expired before completing."),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "meridian",
			Subsystem: "admin",
			Name:      "calls_in_flight",
			Help:      "Admin calls currently awaiting a broker response.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.submitted, m.completed, m.failed, m.retried, m.timedOut, m.inFlight)
	}
	return m
}
