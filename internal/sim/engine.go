package sim

import (
	"math/rand/v2"

	"github.com/prometheus/client_golang/prometheus"

	"cocochain/internal/check"
	"cocochain/internal/config"
	"cocochain/internal/consensus"
	"cocochain/internal/dataType"
	"cocochain/internal/fabric"
	"cocochain/internal/metrics"
	"cocochain/internal/node"
	"cocochain/internal/utils"
)

// Engine drives a single-domain consensus simulation: a full mesh of
// node actors, a round scheduler advancing the virtual clock, and the
// settlement barrier between rounds.
type Engine struct {
	cfg   *config.SimConfig
	logx  *utils.LogxManager
	clock *dataType.VirtualClock
	fab   *fabric.Fabric
	nodes []*node.Node
	mset  *metrics.Set

	adversaries int
}

func NewEngine(cfg *config.SimConfig, logx *utils.LogxManager) (*Engine, error) {
	registry := prometheus.NewRegistry()
	mset, err := metrics.NewSet("cocochain", registry)
	if err != nil {
		return nil, err
	}

	clock := dataType.NewVirtualClock()
	fab := fabric.NewFabric(cfg.Nodes, mset)
	verifier := check.NewVerifier(cfg.Verifier)
	required := consensus.RequiredVotes(cfg.EstimatedNetworkSize, cfg.BFTFraction)

	e := &Engine{
		cfg:   cfg,
		logx:  logx,
		clock: clock,
		fab:   fab,
		mset:  mset,
	}

	params := node.Params{
		Dimension:         cfg.Dimension,
		OriginationProb:   cfg.OriginationProb,
		MaxTransactionAge: cfg.MaxTransactionAge,
		Required:          required,
		Seed:              cfg.Seed,
		Corruption:        cfg.Corruption,
	}
	deps := node.Deps{
		Verifier: verifier,
		Clock:    clock,
		Fabric:   fab,
		Metrics:  mset,
		Log:      logx.Named("node"),
	}

	// The adversary assignment uses its own stream so node streams stay
	// stable when the fraction changes.
	setup := rand.New(rand.NewPCG(cfg.Seed, 0xADFF))
	for i := 0; i < cfg.Nodes; i++ {
		adversarial := setup.Float64() < cfg.AdversarialFraction
		if adversarial {
			e.adversaries++
		}
		e.nodes = append(e.nodes, node.New(i, adversarial, params, deps))
	}

	logx.Named("sim").Infof("[Sim] created network with %d nodes, %d adversarial, quorum %d",
		cfg.Nodes, e.adversaries, required)
	return e, nil
}

// Run executes the configured rounds and returns the collected metrics.
// Each round advances the clock one tick, lets every node flip its
// origination coin, and blocks until the whole causal chain of
// deliveries has settled.
func (e *Engine) Run() (Metrics, error) {
	log := e.logx.Named("sim")
	log.Infof("[Sim] running %d rounds, seed=%d", e.cfg.Rounds, e.cfg.Seed)

	for _, n := range e.nodes {
		n.Start()
	}

	lastSweep := 0.0
	for round := 0; round < e.cfg.Rounds; round++ {
		now := e.clock.Advance(e.cfg.TickInterval)

		for i := range e.nodes {
			e.fab.Post(dataType.Envelope{Kind: dataType.KindTick}, i)
		}
		e.fab.Settle()

		if now-lastSweep >= e.cfg.SweepInterval {
			for i := range e.nodes {
				e.fab.Post(dataType.Envelope{Kind: dataType.KindSweep}, i)
			}
			e.fab.Settle()
			lastSweep = now
		}
	}

	e.fab.Settle()
	e.fab.Shutdown()
	for _, n := range e.nodes {
		n.Wait()
	}

	snaps := make([]node.Snapshot, 0, len(e.nodes))
	for _, n := range e.nodes {
		snaps = append(snaps, n.Snapshot())
	}

	m := buildMetrics(snaps, e.fab.Overhead(), e.cfg.Rounds, e.cfg.TickInterval)
	log.Infof("[Sim] done: latency=%.4fs throughput=%.1ftx/s overhead=%d dmc=%d fpr=%.1f%%",
		m.AvgLatency, m.Throughput, m.Overhead, m.Malformed, m.FalsePositiveRate)
	return m, nil
}

// Run builds an engine for cfg and executes it.
func Run(cfg *config.SimConfig, logx *utils.LogxManager) (Metrics, error) {
	e, err := NewEngine(cfg, logx)
	if err != nil {
		return Metrics{}, err
	}
	return e.Run()
}
