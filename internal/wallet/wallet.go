package wallet

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// RPC is the wallet-scoped node surface the pipeline consumes. It is
// satisfied by *rpc.WalletClient and by MockRPC in tests.
type RPC interface {
	NewAddress(label string) (btcutil.Address, error)
	Balance() (btcutil.Amount, error)
	MineToAddress(count int64, to btcutil.Address) ([]*chainhash.Hash, error)
	SendToAddress(to btcutil.Address, amount btcutil.Amount, comment string) (*chainhash.Hash, error)
	RawMempool() ([]*chainhash.Hash, error)
	MempoolEntry(txid *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error)
	RawTransaction(txid *chainhash.Hash) (*btcjson.TxRawResult, error)
	BlockInfo(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
}

// Node is the node-level surface the manager needs to ensure wallets exist.
type Node interface {
	ListWallets() ([]string, error)
	CreateWallet(name string) error
	LoadWallet(name string) error
}

// Dialer opens a wallet-scoped RPC handle for a named wallet.
type Dialer func(name string) (RPC, error)

// Handle is a scoped view of one wallet known to the node.
type Handle struct {
	name string
	rpc  RPC
}

// Name returns the wallet's unique name
func (h *Handle) Name() string {
	return h.name
}

// RPC returns the wallet-scoped node handle for downstream stages.
func (h *Handle) RPC() RPC {
	return h.rpc
}

// NewAddress derives a fresh labeled address owned by this wallet.
func (h *Handle) NewAddress(label string) (btcutil.Address, error) {
	return h.rpc.NewAddress(label)
}
