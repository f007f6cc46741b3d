package audit

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
)

// ChainReader is the read-only node surface the auditor needs.
type ChainReader interface {
	RawTransaction(txid *chainhash.Hash) (*btcjson.TxRawResult, error)
	BlockInfo(hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
}

// Auditor reconstructs the full money flow of a confirmed payment from raw
// transaction and block data.
type Auditor struct {
	node   ChainReader
	params *chaincfg.Params
}

// NewAuditor creates a new Auditor for the given chain parameters.
func NewAuditor(node ChainReader, params *chaincfg.Params) *Auditor {
	return &Auditor{node: node, params: params}
}

// Audit builds the Record for txid. The payee address identifies which
// output was the intended payment; classification is by exact script-bytes
// equality against the payee's script, never by address-string comparison.
// Non-payee outputs are recorded as change, last one winning when a
// transaction carries more than one.
//
// Fee is total input minus total output under a single-funding-input
// assumption, floored at zero so an unexpected multi-input transaction can
// never report a negative fee.
func (a *Auditor) Audit(txid *chainhash.Hash, payee btcutil.Address) (*Record, error) {
	raw, err := a.node.RawTransaction(txid)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction %s: %w", txid, err)
	}
	if raw.BlockHash == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnconfirmedTx, txid)
	}
	if len(raw.Vin) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMalformedTx, txid)
	}
	if raw.Vin[0].IsCoinBase() {
		return nil, fmt.Errorf("%w: %s is a coinbase transaction", ErrMalformedTx, txid)
	}

	inputAddr, inputAmount, err := a.resolveInput(&raw.Vin[0])
	if err != nil {
		return nil, err
	}

	payeeScript, err := txscript.PayToAddrScript(payee)
	if err != nil {
		return nil, fmt.Errorf("deriving payee script for %s: %w", payee.EncodeAddress(), err)
	}

	var (
		payeeAddr, changeAddr     string
		payeeAmount, changeAmount btcutil.Amount
		totalOut                  btcutil.Amount
	)
	for i := range raw.Vout {
		out := &raw.Vout[i]

		amount, err := btcutil.NewAmount(out.Value)
		if err != nil {
			return nil, fmt.Errorf("output %d amount %v: %w", i, out.Value, err)
		}
		totalOut += amount

		script, err := hex.DecodeString(out.ScriptPubKey.Hex)
		if err != nil {
			return nil, fmt.Errorf("output %d script: %w", i, err)
		}

		if bytes.Equal(script, payeeScript) {
			payeeAddr = a.scriptAddress(script)
			payeeAmount = amount
		} else {
			changeAddr = a.scriptAddress(script)
			changeAmount = amount
		}
	}

	fee := inputAmount - totalOut
	if fee < 0 {
		fee = 0
	}

	blockHash, err := chainhash.NewHashFromStr(raw.BlockHash)
	if err != nil {
		return nil, fmt.Errorf("%w: bad block hash %q: %v", ErrBlockLookup, raw.BlockHash, err)
	}
	block, err := a.node.BlockInfo(blockHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBlockLookup, raw.BlockHash, err)
	}

	return &Record{
		TxID:          raw.Txid,
		InputAddress:  inputAddr,
		InputAmount:   inputAmount,
		PayeeAddress:  payeeAddr,
		PayeeAmount:   payeeAmount,
		ChangeAddress: changeAddr,
		ChangeAmount:  changeAmount,
		Fee:           fee,
		BlockHeight:   block.Height,
		BlockHash:     raw.BlockHash,
	}, nil
}

// resolveInput fetches the transaction funding the input and attributes the
// spent output's address and amount.
func (a *Auditor) resolveInput(vin *btcjson.Vin) (string, btcutil.Amount, error) {
	prevHash, err := chainhash.NewHashFromStr(vin.Txid)
	if err != nil {
		return "", 0, fmt.Errorf("%w: bad previous txid %q: %v", ErrInvalidReference, vin.Txid, err)
	}

	prev, err := a.node.RawTransaction(prevHash)
	if err != nil {
		return "", 0, fmt.Errorf("fetching previous transaction %s: %w", prevHash, err)
	}
	if int(vin.Vout) >= len(prev.Vout) {
		return "", 0, fmt.Errorf("%w: %s:%d but transaction has %d outputs",
			ErrInvalidReference, prevHash, vin.Vout, len(prev.Vout))
	}

	out := &prev.Vout[vin.Vout]
	amount, err := btcutil.NewAmount(out.Value)
	if err != nil {
		return "", 0, fmt.Errorf("input amount %v: %w", out.Value, err)
	}

	script, err := hex.DecodeString(out.ScriptPubKey.Hex)
	if err != nil {
		return "", 0, fmt.Errorf("input script: %w", err)
	}
	return a.scriptAddress(script), amount, nil
}

// scriptAddress renders the canonical address for a destination script,
// falling back to the script hex when the script has no address form.
func (a *Auditor) scriptAddress(script []byte) string {
	_, addrs, _, err := txscript.ExtractPkScriptAddrs(script, a.params)
	if err != nil || len(addrs) == 0 {
		return hex.EncodeToString(script)
	}
	return addrs[0].EncodeAddress()
}
