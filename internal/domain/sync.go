package domain

import (
	"fmt"

	"cocochain/internal/concept"
)

// SyncTo performs one inter-domain semantic exchange from d to target:
// a fresh concept batch is encoded with d's autoencoder, shipped, and
// decoded with the target's. Both sides are charged the payload on the
// inter and interoperability ledgers. Returns the simulated sync time,
// zero when semantic exchange is disabled.
//
// Must only be called from d's round goroutine or the engine's resync
// loop; the target is touched through concurrency-safe paths only.
func (d *Domain) SyncTo(target *Domain) (float64, error) {
	if !d.cfg.SemanticSync {
		return 0, nil
	}

	concepts := d.source.Next()
	encoded, err := d.sae.Encode(concepts)
	if err != nil {
		return 0, fmt.Errorf("sync %s->%s: %w", d.Name, target.Name, err)
	}
	decoded, err := target.sae.Decode(encoded)
	if err != nil {
		return 0, fmt.Errorf("sync %s->%s: %w", d.Name, target.Name, err)
	}
	target.recordRecon(concept.ReconstructionError(concepts, decoded))

	// 8 bytes per latent component on the wire.
	payloadMB := float64(len(encoded)*8) / (1024.0 * 1024.0)
	d.ledger.Add(d.Name+"|inter", payloadMB)
	d.ledger.Add(target.Name+"|inter", payloadMB)
	d.ledger.Add(d.Name+"|io", payloadMB)
	d.ledger.Add(target.Name+"|io", payloadMB)

	d.mset.Syncs.Inc()

	return d.cfg.SyncTimeLow + d.rng.Float64()*(d.cfg.SyncTimeHigh-d.cfg.SyncTimeLow), nil
}
