package pipeline

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AHUNAM/regtest-audit/internal/wallet"
)

// fakeChain simulates the observable node state for one full run: a fresh
// regtest chain that matures the miner's coinbase at 101 blocks, accepts one
// payment into the mempool, and confirms it with the next mined block.
type fakeChain struct {
	t *testing.T

	minerAddr  btcutil.Address
	traderAddr btcutil.Address
	changeAddr btcutil.Address

	payTxid  *chainhash.Hash
	prevTxid *chainhash.Hash

	height    int
	sent      bool
	confirmed bool
	blockHash *chainhash.Hash
}

func newFakeChain(t *testing.T) *fakeChain {
	return &fakeChain{
		t:          t,
		minerAddr:  testAddress(t, 0x01),
		traderAddr: testAddress(t, 0x02),
		changeAddr: testAddress(t, 0x03),
		payTxid:    testHash(t, "aa"),
		prevTxid:   testHash(t, "bb"),
		blockHash:  testHash(t, "cc"),
	}
}

func (c *fakeChain) script(addr btcutil.Address) string {
	script, err := txscript.PayToAddrScript(addr)
	require.NoError(c.t, err)
	return hex.EncodeToString(script)
}

func (c *fakeChain) minerRPC() wallet.RPC {
	return &wallet.MockRPC{
		NewAddressFn: func(label string) (btcutil.Address, error) {
			assert.Equal(c.t, "Mining Reward", label)
			return c.minerAddr, nil
		},
		MineToAddressFn: func(count int64, to btcutil.Address) ([]*chainhash.Hash, error) {
			c.height += int(count)
			if c.sent && !c.confirmed {
				c.confirmed = true
			}
			return []*chainhash.Hash{c.blockHash}, nil
		},
		BalanceFn: func() (btcutil.Amount, error) {
			if c.height >= 101 {
				return btcutil.Amount(50e8), nil
			}
			return 0, nil
		},
		SendToAddressFn: func(to btcutil.Address, amount btcutil.Amount, comment string) (*chainhash.Hash, error) {
			assert.Equal(c.t, c.traderAddr, to)
			assert.Equal(c.t, btcutil.Amount(20e8), amount)
			c.sent = true
			return c.payTxid, nil
		},
		RawMempoolFn: func() ([]*chainhash.Hash, error) {
			if c.sent && !c.confirmed {
				return []*chainhash.Hash{c.payTxid}, nil
			}
			return nil, nil
		},
		MempoolEntryFn: func(txid *chainhash.Hash) (*btcjson.GetMempoolEntryResult, error) {
			return &btcjson.GetMempoolEntryResult{VSize: 141, AncestorCount: 1}, nil
		},
		RawTransactionFn: func(txid *chainhash.Hash) (*btcjson.TxRawResult, error) {
			switch txid.String() {
			case c.payTxid.String():
				raw := &btcjson.TxRawResult{
					Txid: c.payTxid.String(),
					Vin:  []btcjson.Vin{{Txid: c.prevTxid.String(), Vout: 0}},
					Vout: []btcjson.Vout{
						{Value: 20.0, ScriptPubKey: btcjson.ScriptPubKeyResult{Hex: c.script(c.traderAddr)}},
						{Value: 29.9999, ScriptPubKey: btcjson.ScriptPubKeyResult{Hex: c.script(c.changeAddr)}},
					},
				}
				if c.confirmed {
					raw.BlockHash = c.blockHash.String()
				}
				return raw, nil
			case c.prevTxid.String():
				return &btcjson.TxRawResult{
					Txid: c.prevTxid.String(),
					Vout: []btcjson.Vout{
						{Value: 50.0, ScriptPubKey: btcjson.ScriptPubKeyResult{Hex: c.script(c.minerAddr)}},
					},
				}, nil
			}
			return nil, &btcjson.RPCError{Code: btcjson.ErrRPCNoTxInfo, Message: "no such transaction"}
		},
		BlockInfoFn: func(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error) {
			return &btcjson.GetBlockVerboseResult{
				Hash:   c.blockHash.String(),
				Height: int64(c.height),
			}, nil
		},
	}
}

func (c *fakeChain) traderRPC() wallet.RPC {
	return &wallet.MockRPC{
		NewAddressFn: func(label string) (btcutil.Address, error) {
			assert.Equal(c.t, "Received", label)
			return c.traderAddr, nil
		},
	}
}

func (c *fakeChain) manager() *wallet.Manager {
	created := make(map[string]bool)
	node := &wallet.MockNode{
		ListWalletsFn: func() ([]string, error) {
			var names []string
			for name := range created {
				names = append(names, name)
			}
			return names, nil
		},
		CreateWalletFn: func(name string) error {
			created[name] = true
			return nil
		},
	}
	dial := func(name string) (wallet.RPC, error) {
		if name == "Miner" {
			return c.minerRPC(), nil
		}
		return c.traderRPC(), nil
	}
	return wallet.NewManager(node, dial)
}

// recorder captures observer callbacks for assertions.
type recorder struct {
	stages   []string
	progress int
	mempool  *MempoolStatus
}

func (r *recorder) Stage(name string) { r.stages = append(r.stages, name) }
func (r *recorder) MaturationProgress(attempt int, balance btcutil.Amount) {
	r.progress++
}
func (r *recorder) MempoolSeen(status MempoolStatus) { r.mempool = &status }

func TestPipelineEndToEnd(t *testing.T) {
	chain := newFakeChain(t)
	obs := &recorder{}

	p := New(chain.manager(), Config{
		MinerWallet:       "Miner",
		TraderWallet:      "Trader",
		RewardLabel:       "Mining Reward",
		ReceiveLabel:      "Received",
		Amount:            btcutil.Amount(20e8),
		Memo:              "Payment to Trader",
		MaxMatureAttempts: 150,
		Params:            &chaincfg.RegressionNetParams,
	}, obs)

	result, err := p.Run()
	require.NoError(t, err)

	// 101 maturation blocks plus the confirming one.
	assert.Equal(t, 102, result.BlocksMined)
	assert.Equal(t, 102, chain.height)
	assert.True(t, result.Mempool.Found)

	rec := result.Record
	assert.Equal(t, chain.payTxid.String(), rec.TxID)
	assert.Equal(t, btcutil.Amount(20e8), rec.PayeeAmount)
	assert.Equal(t, chain.traderAddr.EncodeAddress(), rec.PayeeAddress)
	assert.Equal(t, chain.changeAddr.EncodeAddress(), rec.ChangeAddress)
	assert.Equal(t, int64(102), rec.BlockHeight)
	assert.Equal(t, chain.blockHash.String(), rec.BlockHash)

	// Fund conservation at satoshi precision.
	assert.Equal(t, rec.InputAmount, rec.PayeeAmount+rec.ChangeAmount+rec.Fee)
	assert.GreaterOrEqual(t, rec.Fee, btcutil.Amount(0))
	// Under typical node fee policy the fee stays well below 0.001 BTC.
	assert.Less(t, rec.Fee, btcutil.Amount(100000))

	assert.Equal(t, []string{"wallets", "maturation", "payment", "confirmation", "audit"}, obs.stages)
	assert.Equal(t, 101, obs.progress)
	require.NotNil(t, obs.mempool)
	assert.True(t, obs.mempool.Found)
}

func TestPipelineFailsFastOnMaturationTimeout(t *testing.T) {
	chain := newFakeChain(t)

	p := New(chain.manager(), Config{
		MinerWallet:       "Miner",
		TraderWallet:      "Trader",
		RewardLabel:       "Mining Reward",
		ReceiveLabel:      "Received",
		Amount:            btcutil.Amount(20e8),
		MaxMatureAttempts: 10,
		Params:            &chaincfg.RegressionNetParams,
	}, nil)

	_, err := p.Run()
	assert.ErrorIs(t, err, ErrMaturationTimeout)
	assert.False(t, chain.sent)
}
