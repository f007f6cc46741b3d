package wallet

import (
	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// MockRPC is a test double for RPC. All function fields must be set before
// the corresponding method is called.
type MockRPC struct {
	NewAddressFn     func(label string) (btcutil.Address, error)
	BalanceFn        func() (btcutil.Amount, error)
	MineToAddressFn  func(count int64, to btcutil.Address) ([]*chainhash.Hash, error)
	SendToAddressFn  func(to btcutil.Address, amount btcutil.Amount, comment string) (*chainhash.Hash, error)
	RawMempoolFn     func() ([]*chainhash.Hash, error)
	MempoolEntryFn   func(txid *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error)
	RawTransactionFn func(txid *chainhash.Hash) (*btcjson.TxRawResult, error)
	BlockInfoFn      func(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
}

func (m *MockRPC) NewAddress(label string) (btcutil.Address, error) {
	return m.NewAddressFn(label)
}
func (m *MockRPC) Balance() (btcutil.Amount, error) {
	return m.BalanceFn()
}
func (m *MockRPC) MineToAddress(count int64, to btcutil.Address) ([]*chainhash.Hash, error) {
	return m.MineToAddressFn(count, to)
}
func (m *MockRPC) SendToAddress(to btcutil.Address, amount btcutil.Amount, comment string) (*chainhash.Hash, error) {
	return m.SendToAddressFn(to, amount, comment)
}
func (m *MockRPC) RawMempool() ([]*chainhash.Hash, error) {
	return m.RawMempoolFn()
}
func (m *MockRPC) MempoolEntry(txid *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error) {
	return m.MempoolEntryFn(txid)
}
func (m *MockRPC) RawTransaction(txid *chainhash.Hash) (*btcjson.TxRawResult, error) {
	return m.RawTransactionFn(txid)
}
func (m *MockRPC) BlockInfo(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {
	return m.BlockInfoFn(hash)
}

// MockNode is a test double for Node.
type MockNode struct {
	ListWalletsFn  func() ([]string, error)
	CreateWalletFn func(name string) error
	LoadWalletFn   func(name string) error
}

func (m *MockNode) ListWallets() ([]string, error) {
	return m.ListWalletsFn()
}
func (m *MockNode) CreateWallet(name string) error {
	return m.CreateWalletFn(name)
}
func (m *MockNode) LoadWallet(name string) error {
	return m.LoadWalletFn(name)
}
