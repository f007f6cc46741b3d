package wallet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
)

// ErrWalletCreation indicates the node rejected wallet creation.
var ErrWalletCreation = errors.New("wallet: creation failed")

// Manager ensures named wallets exist on the node and hands out scoped
// handles bound to each.
type Manager struct {
	node Node
	dial Dialer
}

// NewManager creates a new Manager
func NewManager(node Node, dial Dialer) *Manager {
	return &Manager{node: node, dial: dial}
}

// Ensure makes sure a wallet with the given name exists and is loaded, then
// returns a handle for it. Idempotent: an already-known wallet is returned
// as-is, and a wallet that exists on disk but is unloaded is loaded rather
// than re-created.
func (m *Manager) Ensure(name string) (*Handle, error) {
	loaded, err := m.node.ListWallets()
	if err != nil {
		return nil, fmt.Errorf("%w: listing wallets: %v", ErrWalletCreation, err)
	}

	if !containsName(loaded, name) {
		if err := m.node.CreateWallet(name); err != nil {
			if !walletExists(err) {
				return nil, fmt.Errorf("%w: creating %q: %v", ErrWalletCreation, name, err)
			}
			if err := m.node.LoadWallet(name); err != nil {
				return nil, fmt.Errorf("%w: loading %q: %v", ErrWalletCreation, name, err)
			}
		}
	}

	rpc, err := m.dial(name)
	if err != nil {
		return nil, fmt.Errorf("%w: opening handle for %q: %v", ErrWalletCreation, name, err)
	}
	return &Handle{name: name, rpc: rpc}, nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// walletExists reports whether a createwallet rejection means the wallet is
// already on the node's disk (bitcoind answers code -4 with an "already
// exists" message).
func walletExists(err error) bool {
	var rpcErr *btcjson.RPCError
	if !errors.As(err, &rpcErr) {
		return false
	}
	return rpcErr.Code == btcjson.ErrRPCWallet &&
		strings.Contains(strings.ToLower(rpcErr.Message), "already exists")
}
