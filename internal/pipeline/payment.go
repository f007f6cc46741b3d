package pipeline

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

// PaymentIssuer constructs and broadcasts value transfers from one wallet.
type PaymentIssuer struct {
	node wallet.RPC
}

// NewPaymentIssuer creates a new PaymentIssuer
func NewPaymentIssuer(node wallet.RPC) *PaymentIssuer {
	return &PaymentIssuer{node: node}
}

// Pay sends amount to the address and returns the broadcast txid. The memo
// is attached to the sending wallet's local bookkeeping only. After a
// successful return the transaction sits in the node's mempool.
func (p *PaymentIssuer) Pay(to btcutil.Address, amount btcutil.Amount, memo string) (*chainhash.Hash, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: non-positive amount %v", ErrBroadcast, amount)
	}

	txid, err := p.node.SendToAddress(to, amount, memo)
	if err != nil {
		var rpcErr *btcjson.RPCError
		if errors.As(err, &rpcErr) && rpcErr.Code == btcjson.ErrRPCWalletInsufficientFunds {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientFunds, rpcErr.Message)
		}
		return nil, fmt.Errorf("%w: %v", ErrBroadcast, err)
	}
	return txid, nil
}
