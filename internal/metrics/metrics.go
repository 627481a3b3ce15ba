package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters for identity changes and dashboard reads
type Metrics struct {
	roleSwitches        *prometheus.CounterVec
	persistenceFailures *prometheus.CounterVec
	dashboardReads      *prometheus.CounterVec
}

// New registers the counters with reg, or the default registerer when nil
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		roleSwitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "identity",
			Name:      "role_switches_total",
			Help:      "Role changes that took effect, by new role",
		}, []string{"role"}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "identity",
			Name:      "persistence_failures_total",
			Help:      "Session storage failures that forced an identity into memory-only mode",
		}, []string{"op"}),
		dashboardReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "axis",
			Subsystem: "dashboard",
			Name:      "reads_total",
			Help:      "Dashboard reads by acting role and outcome",
		}, []string{"view", "role", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.roleSwitches, m.persistenceFailures, m.dashboardReads)
	return m
}

func (m *Metrics) ObserveRoleSwitch(role string) {
	if m == nil {
		return
	}
	m.roleSwitches.WithLabelValues(role).Inc()
}

func (m *Metrics) ObservePersistenceFailure(op string) {
	if m == nil {
		return
	}
	m.persistenceFailures.WithLabelValues(op).Inc()
}

// ObserveDashboardRead counts one view render. outcome is "ok",
// "doctor_selection_required" or "error".
func (m *Metrics) ObserveDashboardRead(view, role, outcome string) {
	if m == nil {
		return
	}
	m.dashboardReads.WithLabelValues(view, role, outcome).Inc()
}
