package rpc

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
)

// WalletClient wraps an RPC client bound to one wallet's endpoint. It covers
// the full wallet-scoped surface the pipeline consumes: address derivation,
// balance, block generation, payment broadcast, mempool and chain queries.
type WalletClient struct {
	client *rpcclient.Client
	name   string
}

// Name returns the wallet name this client is scoped to
func (w *WalletClient) Name() string {
	return w.name
}

// Close closes the wallet RPC connection
func (w *WalletClient) Close() {
	w.client.Shutdown()
}

// NewAddress derives a previously-unused address for this wallet, tagged
// with the given label for later bookkeeping.
func (w *WalletClient) NewAddress(label string) (btcutil.Address, error) {
	return w.client.GetNewAddress(label)
}

// Balance returns the wallet's spendable balance as reported by the node.
// Immature coinbase outputs are excluded, which is what the maturation loop
// relies on.
func (w *WalletClient) Balance() (btcutil.Amount, error) {
	return w.client.GetBalance("*")
}

// MineToAddress mines count blocks crediting their rewards to the address.
func (w *WalletClient) MineToAddress(count int64, to btcutil.Address) ([]*chainhash.Hash, error) {
	return w.client.GenerateToAddress(count, to, nil)
}

// SendToAddress broadcasts a standard value transfer. The comment lands in
// the sending wallet's local bookkeeping only, not in the transaction.
func (w *WalletClient) SendToAddress(to btcutil.Address, amount btcutil.Amount, comment string) (*chainhash.Hash, error) {
	return w.client.SendToAddressComment(to, amount, comment, "")
}

// RawMempool returns the txids currently in the node's mempool.
func (w *WalletClient) RawMempool() ([]*chainhash.Hash, error) {
	return w.client.GetRawMempool()
}

// MempoolEntry returns the node's metadata for an unconfirmed transaction.
func (w *WalletClient) MempoolEntry(txid *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error) {
	return w.client.GetMempoolEntry(txid.String())
}

// RawTransaction returns the decoded transaction, including its confirming
// block hash once mined.
func (w *WalletClient) RawTransaction(txid *chainhash.Hash) (*btcjson.TxRawResult, error) {
	return w.client.GetRawTransactionVerbose(txid)
}

// BlockInfo returns verbose block info for a given hash
func (w *WalletClient) BlockInfo(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {
	return w.client.GetBlockVerbose(hash)
}
