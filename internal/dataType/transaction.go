package dataType

import (
	"github.com/google/uuid"
)

// ConceptVector carries the semantic payload a vehicle derives from an
// observed event. Corrupted is ground truth set by the injector; verifiers
// never read it when deciding.
type ConceptVector struct {
	Data      []float64
	Timestamp float64
	NodeID    int
	Domain    string
	Corrupted bool
}

// Transaction wraps a concept vector with its digest for broadcast.
// The digest is computed over the final payload, so a corrupted vector
// still ships a matching digest and only the statistical rules can catch it.
type Transaction struct {
	ID          uuid.UUID
	Concept     ConceptVector
	Digest      string
	CrossDomain bool
}

// Originator returns the node that created the transaction.
func (t *Transaction) Originator() int {
	return t.Concept.NodeID
}

// Age returns how long the transaction has existed at virtual time now.
func (t *Transaction) Age(now float64) float64 {
	return now - t.Concept.Timestamp
}

type ConsensusVote struct {
	TransactionID uuid.UUID
	SenderID      int
	Accept        bool
	Timestamp     float64
}
