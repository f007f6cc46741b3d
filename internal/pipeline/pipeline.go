package pipeline

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/AHUNAM/regtest-audit/internal/audit"
	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

// Config carries the reference-deployment constants for one run. Passing it
// in explicitly keeps the pipeline testable against a mock node.
type Config struct {
	MinerWallet  string
	TraderWallet string
	RewardLabel  string
	ReceiveLabel string

	Amount btcutil.Amount
	Memo   string

	// MaxMatureAttempts bounds the maturation loop. It must exceed the
	// chain's coinbase maturity depth (100 on regtest).
	MaxMatureAttempts int

	Params *chaincfg.Params
}

// Result is everything a successful run produces beyond its side effects on
// the node.
type Result struct {
	Record      *audit.Record
	BlocksMined int
	Mempool     MempoolStatus
}

// Observer receives progress callbacks for presentation. Implementations
// must not fail; a nil observer disables all reporting.
type Observer interface {
	Stage(name string)
	MaturationProgress(attempt int, balance btcutil.Amount)
	MempoolSeen(status MempoolStatus)
}

// Pipeline runs the full value-transfer lifecycle: wallet bootstrap,
// coinbase maturation, payment, confirmation, audit. Single sequential
// control flow, one node call in flight at a time, fail-fast on every error
// except mempool absence.
type Pipeline struct {
	wallets *wallet.Manager
	cfg     Config
	obs     Observer
}

// New creates a new Pipeline
func New(wallets *wallet.Manager, cfg Config, obs Observer) *Pipeline {
	return &Pipeline{wallets: wallets, cfg: cfg, obs: obs}
}

// Run executes the pipeline end to end and returns the audit result. Errors
// are wrapped with the failing stage's name.
func (p *Pipeline) Run() (*Result, error) {
	p.stage("wallets")
	miner, err := p.wallets.Ensure(p.cfg.MinerWallet)
	if err != nil {
		return nil, fmt.Errorf("wallets: %w", err)
	}
	trader, err := p.wallets.Ensure(p.cfg.TraderWallet)
	if err != nil {
		return nil, fmt.Errorf("wallets: %w", err)
	}

	rewardAddr, err := miner.NewAddress(p.cfg.RewardLabel)
	if err != nil {
		return nil, fmt.Errorf("wallets: deriving reward address: %w", err)
	}

	p.stage("maturation")
	engine := NewMaturationEngine(miner.RPC(), p.cfg.MaxMatureAttempts)
	if p.obs != nil {
		engine.OnProgress(p.obs.MaturationProgress)
	}
	mined, err := engine.Mature(rewardAddr)
	if err != nil {
		return nil, fmt.Errorf("maturation: %w", err)
	}

	p.stage("payment")
	receiveAddr, err := trader.NewAddress(p.cfg.ReceiveLabel)
	if err != nil {
		return nil, fmt.Errorf("payment: deriving receive address: %w", err)
	}
	txid, err := NewPaymentIssuer(miner.RPC()).Pay(receiveAddr, p.cfg.Amount, p.cfg.Memo)
	if err != nil {
		return nil, fmt.Errorf("payment: %w", err)
	}

	p.stage("confirmation")
	tracker := NewConfirmationTracker(miner.RPC())
	status, err := tracker.AwaitMempool(txid)
	if err != nil {
		return nil, fmt.Errorf("confirmation: %w", err)
	}
	if p.obs != nil {
		p.obs.MempoolSeen(status)
	}
	if _, err := tracker.Confirm(rewardAddr); err != nil {
		return nil, fmt.Errorf("confirmation: %w", err)
	}
	mined++

	p.stage("audit")
	record, err := audit.NewAuditor(miner.RPC(), p.cfg.Params).Audit(txid, receiveAddr)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}

	return &Result{Record: record, BlocksMined: mined, Mempool: status}, nil
}

func (p *Pipeline) stage(name string) {
	if p.obs != nil {
		p.obs.Stage(name)
	}
}
