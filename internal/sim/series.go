package sim

import (
	"gonum.org/v1/gonum/stat"

	"cocochain/internal/config"
	"cocochain/internal/utils"
)

// Series aggregates independent runs of the same configuration across
// seeds: per-run results plus mean and population-std summaries of the
// headline metrics.
type Series struct {
	Seeds []uint64
	Runs  []Metrics

	AvgLatency    float64
	StdLatency    float64
	AvgThroughput float64
	StdThroughput float64
	AvgOverhead   float64
	StdOverhead   float64
	AvgMalformed  float64
	StdMalformed  float64
	AvgFPR        float64
	StdFPR        float64
}

// RunSeries executes one engine per seed, one run at a time. Latency
// samples are wall-clock, so runs must not be co-scheduled: engines
// contending for CPU would inflate each other's samples.
func RunSeries(cfg *config.SimConfig, seeds []uint64, logx *utils.LogxManager) (*Series, error) {
	s := &Series{
		Seeds: seeds,
		Runs:  make([]Metrics, len(seeds)),
	}

	for i, seed := range seeds {
		runCfg := *cfg
		runCfg.Seed = seed
		m, err := Run(&runCfg, logx)
		if err != nil {
			return nil, err
		}
		s.Runs[i] = m
	}

	s.summarize()
	return s, nil
}

func (s *Series) summarize() {
	n := len(s.Runs)
	if n == 0 {
		return
	}
	latency := make([]float64, n)
	throughput := make([]float64, n)
	overhead := make([]float64, n)
	malformed := make([]float64, n)
	fpr := make([]float64, n)
	for i, m := range s.Runs {
		latency[i] = m.AvgLatency
		throughput[i] = m.Throughput
		overhead[i] = float64(m.Overhead)
		malformed[i] = float64(m.Malformed)
		fpr[i] = m.FalsePositiveRate
	}

	s.AvgLatency = stat.Mean(latency, nil)
	s.StdLatency = stat.PopStdDev(latency, nil)
	s.AvgThroughput = stat.Mean(throughput, nil)
	s.StdThroughput = stat.PopStdDev(throughput, nil)
	s.AvgOverhead = stat.Mean(overhead, nil)
	s.StdOverhead = stat.PopStdDev(overhead, nil)
	s.AvgMalformed = stat.Mean(malformed, nil)
	s.StdMalformed = stat.PopStdDev(malformed, nil)
	s.AvgFPR = stat.Mean(fpr, nil)
	s.StdFPR = stat.PopStdDev(fpr, nil)
}
