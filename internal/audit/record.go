package audit

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
)

// Record is the audit trail of one confirmed payment: where the spent funds
// came from, who was paid, what returned as change, what the miner collected,
// and which block confirmed it. Immutable once produced; amounts are exact
// satoshi quantities.
type Record struct {
	TxID          string         `json:"txid"`
	InputAddress  string         `json:"input_address"`
	InputAmount   btcutil.Amount `json:"input_amount"`
	PayeeAddress  string         `json:"payee_address"`
	PayeeAmount   btcutil.Amount `json:"payee_amount"`
	ChangeAddress string         `json:"change_address"`
	ChangeAmount  btcutil.Amount `json:"change_amount"`
	Fee           btcutil.Amount `json:"fee"`
	BlockHeight   int64          `json:"block_height"`
	BlockHash     string         `json:"block_hash"`
}

// Lines renders the record in its fixed ten-line verification format.
// Order and formatting are a contract with an external grading collaborator
// and must not change.
func (r *Record) Lines() []string {
	return []string{
		r.TxID,
		r.InputAddress,
		FormatBTC(r.InputAmount),
		r.PayeeAddress,
		FormatBTC(r.PayeeAmount),
		r.ChangeAddress,
		FormatBTC(r.ChangeAmount),
		FormatBTC(r.Fee),
		strconv.FormatInt(r.BlockHeight, 10),
		r.BlockHash,
	}
}

// String returns the ten lines joined with trailing newline, ready for the
// file sink.
func (r *Record) String() string {
	return strings.Join(r.Lines(), "\n") + "\n"
}

// FormatBTC renders an amount in BTC with exactly 8 fractional digits.
func FormatBTC(a btcutil.Amount) string {
	return strconv.FormatFloat(a.ToBTC(), 'f', 8, 64)
}
