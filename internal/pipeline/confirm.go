package pipeline

import (
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

// MempoolStatus reports whether a transaction was observed in the node's
// mempool. Absence is a state, not a failure: the transaction may already
// have been mined by a concurrent actor, or relay may be delayed.
type MempoolStatus struct {
	Found bool
	Entry *btcjson.GetMempoolEntryResult
}

// ConfirmationTracker observes pending-transaction state and drives the
// single confirming block.
type ConfirmationTracker struct {
	node wallet.RPC
}

// NewConfirmationTracker creates a new ConfirmationTracker
func NewConfirmationTracker(node wallet.RPC) *ConfirmationTracker {
	return &ConfirmationTracker{node: node}
}

// AwaitMempool checks the node's mempool for txid and, when present, fetches
// the entry metadata for observability.
func (t *ConfirmationTracker) AwaitMempool(txid *chainhash.Hash) (MempoolStatus, error) {
	hashes, err := t.node.RawMempool()
	if err != nil {
		return MempoolStatus{}, fmt.Errorf("fetching mempool: %w", err)
	}

	for _, h := range hashes {
		if h.IsEqual(txid) {
			entry, err := t.node.MempoolEntry(txid)
			if err != nil {
				return MempoolStatus{}, fmt.Errorf("fetching mempool entry: %w", err)
			}
			return MempoolStatus{Found: true, Entry: entry}, nil
		}
	}
	return MempoolStatus{}, nil
}

// Confirm mines exactly one block crediting miningAddr and returns its hash.
// Inclusion of the pending transaction is expected but not guaranteed; the
// auditor stage verifies it. No retry happens here.
func (t *ConfirmationTracker) Confirm(miningAddr btcutil.Address) (*chainhash.Hash, error) {
	hashes, err := t.node.MineToAddress(1, miningAddr)
	if err != nil {
		return nil, fmt.Errorf("mining confirmation block: %w", err)
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("node returned no hash for the confirmation block")
	}
	return hashes[0], nil
}
