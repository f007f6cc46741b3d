package pipeline

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

// maturationState tracks the advance/observe loop. Every transition out of
// advancing is terminal.
type maturationState int

const (
	advancing maturationState = iota
	matured
	timedOut
)

// MaturationEngine mines single blocks to a reward address until the wallet
// reports a strictly positive spendable balance. Coinbase outputs need 100
// confirmations on regtest before they spend, so at least 101 iterations are
// expected on a fresh chain.
//
// This is a counted loop, not transient-failure retry: every iteration mines
// one real block whether or not the balance check succeeds it.
type MaturationEngine struct {
	node        wallet.RPC
	maxAttempts int
	observe     func(attempt int, balance btcutil.Amount)
}

// NewMaturationEngine creates a new MaturationEngine bounded by maxAttempts.
func NewMaturationEngine(node wallet.RPC, maxAttempts int) *MaturationEngine {
	return &MaturationEngine{node: node, maxAttempts: maxAttempts}
}

// OnProgress registers a per-block observation callback.
func (e *MaturationEngine) OnProgress(fn func(attempt int, balance btcutil.Amount)) {
	e.observe = fn
}

// Mature runs the loop and returns the number of blocks mined. It never
// reports success on a zero balance; exhausting the ceiling yields
// ErrMaturationTimeout.
func (e *MaturationEngine) Mature(rewardAddr btcutil.Address) (int, error) {
	state := advancing
	attempts := 0

	for state == advancing {
		if attempts >= e.maxAttempts {
			state = timedOut
			break
		}

		if _, err := e.node.MineToAddress(1, rewardAddr); err != nil {
			return attempts, fmt.Errorf("mining block %d: %w", attempts+1, err)
		}
		attempts++

		balance, err := e.node.Balance()
		if err != nil {
			return attempts, fmt.Errorf("checking balance after block %d: %w", attempts, err)
		}
		if e.observe != nil {
			e.observe(attempts, balance)
		}

		if balance > 0 {
			state = matured
		}
	}

	if state == timedOut {
		return attempts, fmt.Errorf("%w: no spendable balance after %d blocks",
			ErrMaturationTimeout, attempts)
	}
	return attempts, nil
}
