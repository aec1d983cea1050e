package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var ErrFailedRegistering = errors.New("failed registering metric")

// Averager exposes a mean as a count/sum pair the way scrape-side
// tooling expects.
type Averager struct {
	count prometheus.Counter
	sum   prometheus.Gauge
}

func NewAverager(namespace, name, desc string, reg prometheus.Registerer) (*Averager, error) {
	a := &Averager{
		count: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name + "_count",
			Help:      "Total # of observations of " + desc,
		}),
		sum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name + "_sum",
			Help:      "Sum of " + desc,
		}),
	}
	err := errors.Join(
		reg.Register(a.count),
		reg.Register(a.sum),
	)
	if err != nil {
		return nil, errors.Join(ErrFailedRegistering, err)
	}
	return a, nil
}

func (a *Averager) Observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}

// Set carries the engine's instrumentation counters. All methods are safe
// for concurrent use by node actors.
type Set struct {
	Deliveries prometheus.Counter
	VotesCast  prometheus.Counter
	Finalized  prometheus.Counter
	Rejected   prometheus.Counter
	Malformed  prometheus.Counter
	Expired    prometheus.Counter
	Syncs      prometheus.Counter
	Latency    *Averager
}

func NewSet(namespace string, reg prometheus.Registerer) (*Set, error) {
	s := &Set{
		Deliveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Envelopes delivered by the broadcast fabric",
		}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Consensus votes broadcast by nodes",
		}),
		Finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalized_total",
			Help:      "Transactions finalized across all nodes",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_rejected_total",
			Help:      "Transactions rejected by vote tally",
		}),
		Malformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_detected_total",
			Help:      "Transactions rejected by semantic verification",
		}),
		Expired: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expired_total",
			Help:      "Transactions dropped for exceeding the age bound",
		}),
		Syncs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interdomain_syncs_total",
			Help:      "Inter-domain semantic sync operations",
		}),
	}

	err := errors.Join(
		reg.Register(s.Deliveries),
		reg.Register(s.VotesCast),
		reg.Register(s.Finalized),
		reg.Register(s.Rejected),
		reg.Register(s.Malformed),
		reg.Register(s.Expired),
		reg.Register(s.Syncs),
	)
	if err != nil {
		return nil, errors.Join(ErrFailedRegistering, err)
	}

	lat, err := NewAverager(namespace, "finality_latency", "end-to-end confirmation latency in seconds", reg)
	if err != nil {
		return nil, err
	}
	s.Latency = lat
	return s, nil
}
