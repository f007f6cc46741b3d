package pipeline

import (
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

func TestAwaitMempoolFindsEntry(t *testing.T) {
	txid := testHash(t, "aa")
	entry := &btcjson.GetMempoolEntryResult{VSize: 141, AncestorCount: 1}
	node := &wallet.MockRPC{
		RawMempoolFn: func() ([]*chainhash.Hash, error) {
			return []*chainhash.Hash{testHash(t, "bb"), txid}, nil
		},
		MempoolEntryFn: func(h *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error) {
			assert.Equal(t, txid, h)
			return entry, nil
		},
	}

	status, err := NewConfirmationTracker(node).AwaitMempool(txid)
	require.NoError(t, err)
	assert.True(t, status.Found)
	assert.Equal(t, entry, status.Entry)
}

func TestAwaitMempoolAbsenceIsNotAnError(t *testing.T) {
	// MempoolEntryFn deliberately unset: it must not be called for an
	// absent transaction.
	node := &wallet.MockRPC{
		RawMempoolFn: func() ([]*chainhash.Hash, error) {
			return nil, nil
		},
	}

	status, err := NewConfirmationTracker(node).AwaitMempool(testHash(t, "aa"))
	require.NoError(t, err)
	assert.False(t, status.Found)
	assert.Nil(t, status.Entry)
}

func TestConfirmMinesExactlyOneBlock(t *testing.T) {
	addr := testAddress(t, 0x01)
	block := testHash(t, "cc")
	node := &wallet.MockRPC{
		MineToAddressFn: func(count int64, to btcutil.Address) ([]*chainhash.Hash, error) {
			assert.Equal(t, int64(1), count)
			assert.Equal(t, addr, to)
			return []*chainhash.Hash{block}, nil
		},
	}

	got, err := NewConfirmationTracker(node).Confirm(addr)
	require.NoError(t, err)
	assert.Equal(t, block, got)
}
