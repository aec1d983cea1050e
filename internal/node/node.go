package node

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cocochain/internal/check"
	"cocochain/internal/concept"
	"cocochain/internal/config"
	"cocochain/internal/consensus"
	"cocochain/internal/dataType"
	"cocochain/internal/fabric"
	"cocochain/internal/metrics"
	"cocochain/internal/verdict"
)

// Params fixes the per-node protocol constants.
type Params struct {
	Dimension         int
	OriginationProb   float64
	MaxTransactionAge float64
	Required          int
	Domain            string
	Seed              uint64
	Corruption        config.CorruptionRules
}

// Deps wires a node into its shared collaborators.
type Deps struct {
	Verifier *check.Verifier
	Clock    *dataType.VirtualClock
	Fabric   *fabric.Fabric
	Metrics  *metrics.Set
	Log      *zap.SugaredLogger
}

// Node is a consensus participant. All of its state is owned by the
// single goroutine draining its mailbox; nothing here needs a lock.
// Cross-node effects only ever travel through the fabric.
type Node struct {
	id          int
	adversarial bool
	params      Params

	rng       *rand.Rand
	source    *concept.Source
	codec     *concept.Codec
	corruptor *concept.Corruptor
	verifier  *check.Verifier
	tally     *consensus.Tally
	clock     *dataType.VirtualClock
	fab       *fabric.Fabric
	mset      *metrics.Set
	log       *zap.SugaredLogger

	pending   map[uuid.UUID]*dataType.Transaction
	confirmed map[uuid.UUID]struct{}
	started   map[uuid.UUID]time.Time
	latencies []float64

	created        int
	votesSent      int
	malformed      int
	falsePositives int
	valid          int
	expired        int

	done chan struct{}
}

func New(id int, adversarial bool, params Params, deps Deps) *Node {
	rng := rand.New(rand.NewPCG(params.Seed, uint64(id)))
	return &Node{
		id:          id,
		adversarial: adversarial,
		params:      params,
		rng:         rng,
		source:      concept.NewSource(params.Dimension, rng),
		codec:       concept.NewCodec(params.Dimension),
		corruptor:   concept.NewCorruptor(params.Corruption, rng),
		verifier:    deps.Verifier,
		tally:       consensus.NewTally(params.Required),
		clock:       deps.Clock,
		fab:         deps.Fabric,
		mset:        deps.Metrics,
		log:         deps.Log,
		pending:     make(map[uuid.UUID]*dataType.Transaction),
		confirmed:   make(map[uuid.UUID]struct{}),
		started:     make(map[uuid.UUID]time.Time),
		done:        make(chan struct{}),
	}
}

func (n *Node) ID() int {
	return n.id
}

func (n *Node) Adversarial() bool {
	return n.adversarial
}

// Start launches the actor loop. It exits once the node's mailbox is
// closed and drained.
func (n *Node) Start() {
	go n.run()
}

// Wait blocks until the actor loop has exited.
func (n *Node) Wait() {
	<-n.done
}

func (n *Node) run() {
	defer close(n.done)
	mb := n.fab.Mailbox(n.id)
	for {
		env, ok := mb.Pop()
		if !ok {
			return
		}
		n.handle(env)
		n.fab.Done()
	}
}

func (n *Node) handle(env dataType.Envelope) {
	switch env.Kind {
	case dataType.KindTick:
		n.maybeOriginate()
	case dataType.KindSweep:
		n.sweep()
	case dataType.KindTransaction:
		n.processTransaction(env.Tx)
	case dataType.KindVote:
		n.processVote(env.Vote)
	}
}

// maybeOriginate flips the per-tick origination coin and broadcasts a
// fresh transaction on success.
func (n *Node) maybeOriginate() {
	if n.rng.Float64() >= n.params.OriginationProb {
		return
	}

	now := n.clock.Now()
	cv := n.source.NextVector(n.id, n.params.Domain, now)
	if n.adversarial {
		n.corruptor.Apply(&cv)
	}

	// Digest covers the final payload, corrupted or not.
	digest, err := n.codec.Digest(cv.Data)
	if err != nil {
		n.log.Errorf("[Node %d] digest failed: %v", n.id, err)
		return
	}

	tx := &dataType.Transaction{
		ID:      uuid.New(),
		Concept: cv,
		Digest:  digest,
	}
	n.created++
	n.started[tx.ID] = time.Now()

	n.fab.Broadcast(dataType.Envelope{
		Kind:     dataType.KindTransaction,
		SenderID: n.id,
		Tx:       tx,
	}, n.id)
	n.log.Debugf("[Node %d] originated tx %s corrupted=%v", n.id, tx.ID, cv.Corrupted)
}

func (n *Node) processTransaction(tx *dataType.Transaction) {
	if tx.Originator() == n.id {
		return
	}

	if tx.Age(n.clock.Now()) > n.params.MaxTransactionAge {
		// Stale, not malformed. Dropped without a vote.
		n.expired++
		n.mset.Expired.Inc()
		return
	}

	v := n.verifier.Verify(tx)
	if v.Rejected() {
		n.malformed++
		n.mset.Malformed.Inc()
		if v.Reason() == verdict.ReasonLowSimilarity && !tx.Concept.Corrupted {
			n.falsePositives++
		}
		n.log.Debugf("[Node %d] rejected tx %s from %d: %s", n.id, tx.ID, tx.Originator(), v.Reason())
		return
	}

	if !tx.Concept.Corrupted {
		n.valid++
	}
	n.pending[tx.ID] = tx

	// A rejected transaction gets no vote at all; only accepters speak.
	vote := &dataType.ConsensusVote{
		TransactionID: tx.ID,
		SenderID:      n.id,
		Accept:        true,
		Timestamp:     n.clock.Now(),
	}
	n.fab.Broadcast(dataType.Envelope{
		Kind:     dataType.KindVote,
		SenderID: n.id,
		Vote:     vote,
	}, n.id)
	n.votesSent++
	n.mset.VotesCast.Inc()
}

func (n *Node) processVote(vote *dataType.ConsensusVote) {
	if _, ok := n.confirmed[vote.TransactionID]; ok {
		return
	}
	if !n.tally.Record(vote.TransactionID, vote.SenderID, vote.Accept, n.clock.Now()) {
		return
	}

	decided, accepted := n.tally.Decided(vote.TransactionID)
	if !decided {
		return
	}
	if accepted {
		n.finalize(vote.TransactionID)
	} else {
		delete(n.pending, vote.TransactionID)
		n.tally.Drop(vote.TransactionID)
		n.mset.Rejected.Inc()
	}
}

func (n *Node) finalize(txID uuid.UUID) {
	if _, ok := n.confirmed[txID]; ok {
		return
	}
	n.confirmed[txID] = struct{}{}
	n.mset.Finalized.Inc()

	// Latency is recorded once, and only by the originator.
	if start, ok := n.started[txID]; ok {
		lat := time.Since(start).Seconds()
		n.latencies = append(n.latencies, lat)
		n.mset.Latency.Observe(lat)
		delete(n.started, txID)
	}

	delete(n.pending, txID)
	n.tally.Drop(txID)
}

// sweep drops pending and tally state older than the age bound. Origin
// time records are kept until finalize, however late the quorum lands.
func (n *Node) sweep() {
	cutoff := n.clock.Now() - n.params.MaxTransactionAge
	for id, tx := range n.pending {
		if tx.Concept.Timestamp < cutoff {
			delete(n.pending, id)
		}
	}
	n.tally.Sweep(cutoff)
}

// Snapshot copies the node's observable state. Only meaningful while the
// actor is stopped or the fabric is settled with no tick outstanding.
type Snapshot struct {
	ID             int
	Adversarial    bool
	Created        int
	VotesSent      int
	Malformed      int
	FalsePositives int
	Valid          int
	Expired        int
	Confirmed      int
	Pending        int
	Latencies      []float64
}

func (n *Node) Snapshot() Snapshot {
	lat := make([]float64, len(n.latencies))
	copy(lat, n.latencies)
	return Snapshot{
		ID:             n.id,
		Adversarial:    n.adversarial,
		Created:        n.created,
		VotesSent:      n.votesSent,
		Malformed:      n.malformed,
		FalsePositives: n.falsePositives,
		Valid:          n.valid,
		Expired:        n.expired,
		Confirmed:      len(n.confirmed),
		Pending:        len(n.pending),
		Latencies:      lat,
	}
}
