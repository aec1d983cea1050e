package domain

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cocochain/internal/check"
	"cocochain/internal/concept"
	"cocochain/internal/config"
	"cocochain/internal/consensus"
	"cocochain/internal/dataType"
	"cocochain/internal/fabric"
	"cocochain/internal/metrics"
	"cocochain/internal/node"
)

// VehicleIDBase keeps vehicle ids disjoint from validator ids, so a
// vehicle-originated transaction is never mistaken for a validator's own.
const VehicleIDBase = 1000

// ExternalSender marks a broadcast injected from outside the validator
// set; the fabric then delivers to every validator.
const ExternalSender = -1

// Vehicle is an event source attached to one of the domain's RSUs.
// Vehicles are not validators; their transactions enter consensus through
// the domain fabric.
type Vehicle struct {
	ID     int
	RSU    int
	Events int
}

type syncStats struct {
	mu       sync.Mutex
	reconSum float64
	reconN   int
}

// Domain groups a validator committee (RSUs plus one edge server), the
// vehicles feeding it, its semantic autoencoder and its share of the
// bandwidth ledger. Vehicles, the rng and the CDFT samples belong to the
// domain's round goroutine; peer goroutines enter through RunConsensus,
// whose injections serialize on injectMu, or touch only the frozen
// autoencoder weights, the ledger and the locked sync stats.
type Domain struct {
	Name    string
	index   int
	profile config.DomainProfile
	cfg     *config.MultiDomainConfig

	rsus       int
	validators []*node.Node
	fab        *fabric.Fabric
	injectMu   sync.Mutex
	sae        *concept.SAE
	vehicles   []*Vehicle

	rng    *rand.Rand
	source *concept.Source
	codec  *concept.Codec

	clock  *dataType.VirtualClock
	ledger *dataType.BandwidthLedger
	mset   *metrics.Set
	log    *zap.SugaredLogger
	msgs   *atomic.Int64

	cdft   []float64
	events int
	sync   syncStats
}

// Deps wires a domain into engine-owned collaborators.
type Deps struct {
	Clock    *dataType.VirtualClock
	Ledger   *dataType.BandwidthLedger
	Metrics  *metrics.Set
	Verifier *check.Verifier
	Log      *zap.SugaredLogger
	Messages *atomic.Int64
}

func New(index int, profile config.DomainProfile, cfg *config.MultiDomainConfig, deps Deps) (*Domain, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(2000+index)))

	rsus := cfg.RSUMin + rng.IntN(cfg.RSUMax-cfg.RSUMin+1)
	validatorCount := rsus + 1

	sae, err := concept.NewSAE(cfg.SAEInputDim, cfg.SAELatentDim, rng)
	if err != nil {
		return nil, fmt.Errorf("domain %s: %w", profile.Name, err)
	}

	fab := fabric.NewFabric(validatorCount, deps.Metrics)
	required := consensus.RequiredVotes(validatorCount, cfg.BFTFraction)

	d := &Domain{
		Name:       profile.Name,
		index:      index,
		profile:    profile,
		cfg:        cfg,
		rsus:       rsus,
		fab:        fab,
		sae:        sae,
		rng:        rng,
		source:     concept.NewSource(cfg.Dimension, rng),
		codec:      concept.NewCodec(cfg.Dimension),
		clock:      deps.Clock,
		ledger:     deps.Ledger,
		mset:       deps.Metrics,
		log:        deps.Log,
		msgs:       deps.Messages,
	}

	params := node.Params{
		Dimension:         cfg.Dimension,
		OriginationProb:   0,
		MaxTransactionAge: cfg.MaxTxAge,
		Required:          required,
		Domain:            profile.Name,
		Seed:              cfg.Seed + uint64(index+1)*7919,
	}
	for i := 0; i < validatorCount; i++ {
		d.validators = append(d.validators, node.New(i, false, params, node.Deps{
			Verifier: deps.Verifier,
			Clock:    deps.Clock,
			Fabric:   fab,
			Metrics:  deps.Metrics,
			Log:      deps.Log,
		}))
	}
	return d, nil
}

// AttachVehicles creates count vehicles with ids starting at base, each
// attached to a random RSU.
func (d *Domain) AttachVehicles(base, count int) {
	for k := 0; k < count; k++ {
		d.vehicles = append(d.vehicles, &Vehicle{
			ID:  base + k,
			RSU: d.rng.IntN(d.rsus),
		})
	}
}

func (d *Domain) Start() {
	for _, v := range d.validators {
		v.Start()
	}
	d.log.Infof("[Domain %s] started: %d RSUs + edge, %d vehicles, quorum %d",
		d.Name, d.rsus, len(d.vehicles), consensus.RequiredVotes(len(d.validators), d.cfg.BFTFraction))
}

// Stop settles outstanding deliveries and shuts the validator actors down.
func (d *Domain) Stop() {
	d.fab.Settle()
	d.fab.Shutdown()
	for _, v := range d.validators {
		v.Wait()
	}
}

func (d *Domain) RSUCount() int {
	return d.rsus
}

func (d *Domain) ValidatorCount() int {
	return len(d.validators)
}

func (d *Domain) VehicleCount() int {
	return len(d.vehicles)
}

func (d *Domain) Vehicles() []*Vehicle {
	return d.vehicles
}

func (d *Domain) BaseDelay() float64 {
	return d.profile.BaseDelay
}

// NewEvent samples a concept vector for the vehicle and wraps it into a
// transaction, flipping the cross-domain coin.
func (d *Domain) NewEvent(veh *Vehicle, now float64) (*dataType.Transaction, error) {
	cv := d.source.NextVector(veh.ID, d.Name, now)
	digest, err := d.codec.Digest(cv.Data)
	if err != nil {
		return nil, err
	}
	veh.Events++
	return &dataType.Transaction{
		ID:          uuid.New(),
		Concept:     cv,
		Digest:      digest,
		CrossDomain: d.rng.Float64() < d.cfg.CrossDomainProb,
	}, nil
}

// RunConsensus injects tx into the validator committee, waits for the
// vote exchange to settle, and returns the simulated consensus time for
// this domain's link profile. Bandwidth and message accounting for the
// three commit phases is charged here. Concurrent callers serialize on
// injectMu: a fresh injection must not start while another caller's
// settle is still returning. jitter must be a stream owned by the
// calling goroutine.
func (d *Domain) RunConsensus(tx *dataType.Transaction, jitter *rand.Rand) float64 {
	d.injectMu.Lock()
	d.fab.Broadcast(dataType.Envelope{
		Kind:     dataType.KindTransaction,
		SenderID: ExternalSender,
		Tx:       tx,
	}, ExternalSender)
	d.fab.Settle()
	d.injectMu.Unlock()

	phaseMsgs := int64(len(d.validators) * d.cfg.Phases)
	d.msgs.Add(phaseMsgs)
	d.ledger.Add(d.Name+"|intra", float64(phaseMsgs)*d.cfg.MessageKB/1024.0)

	return d.profile.BaseDelay + jitter.Float64()*d.cfg.DelayJitter
}

// Jitter exposes the domain-owned stream for delay draws made while
// processing this domain's own events.
func (d *Domain) Jitter() *rand.Rand {
	return d.rng
}

// RecordCDFT stores one finality-time sample. Called only from the
// domain's round goroutine.
func (d *Domain) RecordCDFT(v float64) {
	d.cdft = append(d.cdft, v)
	d.events++
}

func (d *Domain) CDFT() []float64 {
	return d.cdft
}

func (d *Domain) Events() int {
	return d.events
}

func (d *Domain) recordRecon(rmse float64) {
	d.sync.mu.Lock()
	defer d.sync.mu.Unlock()
	d.sync.reconSum += rmse
	d.sync.reconN++
}

// ReconStats returns the mean reconstruction error over every decode this
// domain performed, and the sample count.
func (d *Domain) ReconStats() (mean float64, n int) {
	d.sync.mu.Lock()
	defer d.sync.mu.Unlock()
	if d.sync.reconN == 0 {
		return 0, 0
	}
	return d.sync.reconSum / float64(d.sync.reconN), d.sync.reconN
}

// ConfirmedTotal sums the validators' confirmed sets. Only meaningful
// after Stop.
func (d *Domain) ConfirmedTotal() int {
	total := 0
	for _, v := range d.validators {
		total += v.Snapshot().Confirmed
	}
	return total
}
