package dataType

// Envelope is the single message type the broadcast fabric delivers.
// Exactly one payload field is set for its Kind.
type Envelope struct {
	Kind     string
	SenderID int
	Tx       *Transaction
	Vote     *ConsensusVote
}

const (
	KindTransaction = "TX"
	KindVote        = "VOTE"
	KindTick        = "TICK"
	KindSweep       = "SWEEP"
)
