package sim

import (
	"gonum.org/v1/gonum/stat"

	"cocochain/internal/node"
)

// Metrics is the single-domain result set. Counters are summed across
// nodes, latency stats run over every originator's confirmation times,
// and throughput is measured against elapsed virtual time.
type Metrics struct {
	Nodes          int
	Adversaries    int
	Rounds         int
	ElapsedVirtual float64

	Created           int
	Confirmed         int
	Malformed         int
	FalsePositives    int
	ValidTransactions int
	VotesSent         int
	Expired           int

	AvgLatency        float64
	StdLatency        float64
	Overhead          int64
	FalsePositiveRate float64
	Throughput        float64
}

func buildMetrics(snaps []node.Snapshot, overhead int64, rounds int, tick float64) Metrics {
	m := Metrics{
		Nodes:          len(snaps),
		Rounds:         rounds,
		ElapsedVirtual: float64(rounds) * tick,
		Overhead:       overhead,
	}

	var latencies []float64
	for _, s := range snaps {
		if s.Adversarial {
			m.Adversaries++
		}
		m.Created += s.Created
		m.Confirmed += s.Confirmed
		m.Malformed += s.Malformed
		m.FalsePositives += s.FalsePositives
		m.ValidTransactions += s.Valid
		m.VotesSent += s.VotesSent
		m.Expired += s.Expired
		latencies = append(latencies, s.Latencies...)
	}

	if len(latencies) > 0 {
		m.AvgLatency = stat.Mean(latencies, nil)
		m.StdLatency = stat.PopStdDev(latencies, nil)
	}

	m.FalsePositiveRate = FalsePositiveRate(m.FalsePositives, m.ValidTransactions)

	if m.ElapsedVirtual > 0 {
		m.Throughput = float64(m.Confirmed) / m.ElapsedVirtual
	}
	return m
}

// FalsePositiveRate returns the percentage of uncorrupted transactions
// wrongly rejected on similarity, 0 when nothing uncorrupted was seen.
func FalsePositiveRate(falsePositives, valid int) float64 {
	denom := falsePositives + valid
	if denom == 0 {
		return 0
	}
	return float64(falsePositives) / float64(denom) * 100
}
