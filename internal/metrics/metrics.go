// Package metrics wraps the scheduler and lifecycle's counters in
// Prometheus instrumentation. It is a pure observer: nothing here ever
// feeds back into a scheduling decision, it only reports on ones
// already made, the same role the original kernel's commented-out
// cprintf trace lines gestured at with a real console.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the scheduler/lifecycle instrumentation for one
// Kernel instance. Each Kernel owns its own Collector and Registry so
// multiple kernels (e.g. in tests) never collide on metric names.
type Collector struct {
	Registry *prometheus.Registry

	Dispatches      *prometheus.CounterVec
	ContextSwitches prometheus.Counter
	QueueDepth      *prometheus.GaugeVec
	Reaps           prometheus.Counter
	Wakeups         prometheus.Counter
}

// NewCollector builds a Collector registered against a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		Registry: reg,
		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sched_dispatches_total",
			Help: "Number of times the scheduler dispatched a process, by nice level.",
		}, []string{"nice"}),
		ContextSwitches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sched_context_switches_total",
			Help: "Number of times a dispatched process yielded control back to the scheduler.",
		}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sched_queue_depth",
			Help: "Current number of RUNNABLE/RUNNING processes queued at each nice level.",
		}, []string{"nice"}),
		Reaps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sched_reaps_total",
			Help: "Number of ZOMBIE processes reaped by wait().",
		}),
		Wakeups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sched_wakeups_total",
			Help: "Number of PCBs transitioned SLEEPING -> RUNNABLE by a wakeup.",
		}),
	}
	reg.MustRegister(c.Dispatches, c.ContextSwitches, c.QueueDepth, c.Reaps, c.Wakeups)
	return c
}

func niceLabel(nice int) string {
	return strconv.Itoa(nice)
}

// ObserveDispatch records a scheduler dispatch at the given nice level.
func (c *Collector) ObserveDispatch(nice int) {
	c.Dispatches.WithLabelValues(niceLabel(nice)).Inc()
}

// ObserveContextSwitch records a process yielding control back.
func (c *Collector) ObserveContextSwitch() { c.ContextSwitches.Inc() }

// SetQueueDepth replaces the gauge reading for one nice level.
func (c *Collector) SetQueueDepth(nice, depth int) {
	c.QueueDepth.WithLabelValues(niceLabel(nice)).Set(float64(depth))
}

// ObserveReap records a successful wait() reap.
func (c *Collector) ObserveReap() { c.Reaps.Inc() }

// ObserveWakeup records one PCB transitioned to RUNNABLE by a wakeup.
func (c *Collector) ObserveWakeup() { c.Wakeups.Inc() }
