// Package report owns the pipeline's presentation side effects: the ten-line
// verification file and operator-facing console output. The core pipeline
// never touches the console or filesystem itself.
package report

import (
	"fmt"
	"log"
	"os"

	"github.com/btcsuite/btcd/btcutil"

	"github.com/AHUNAM/regtest-audit/internal/audit"
	"github.com/AHUNAM/regtest-audit/internal/pipeline"
)

// WriteFile writes the ten-line record contract to path.
func WriteFile(path string, rec *audit.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if _, err := f.WriteString(rec.String()); err != nil {
		f.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	return f.Close()
}

// Presenter logs pipeline progress and the final summary. It satisfies
// pipeline.Observer.
type Presenter struct {
	log *log.Logger
}

// NewPresenter creates a new Presenter; a nil logger uses the default one.
func NewPresenter(l *log.Logger) *Presenter {
	if l == nil {
		l = log.Default()
	}
	return &Presenter{log: l}
}

// Stage announces a pipeline stage
func (p *Presenter) Stage(name string) {
	p.log.Printf("Starting stage: %s", name)
}

// MaturationProgress reports one mined block and the observed balance
func (p *Presenter) MaturationProgress(attempt int, balance btcutil.Amount) {
	p.log.Printf("Block %d mined, spendable balance: %s BTC", attempt, audit.FormatBTC(balance))
}

// MempoolSeen reports the soft mempool observation
func (p *Presenter) MempoolSeen(status pipeline.MempoolStatus) {
	if !status.Found {
		p.log.Printf("Transaction not found in mempool (may already be mined)")
		return
	}
	e := status.Entry
	p.log.Printf("Transaction in mempool: vsize=%d fee=%.8f ancestors=%d",
		e.VSize, e.Fees.Base, e.AncestorCount)
}

// Summary logs the ten audited fields for the operator.
func (p *Presenter) Summary(rec *audit.Record) {
	p.log.Printf("Transaction ID:        %s", rec.TxID)
	p.log.Printf("Input address:         %s", rec.InputAddress)
	p.log.Printf("Input amount:          %s BTC", audit.FormatBTC(rec.InputAmount))
	p.log.Printf("Payee address:         %s", rec.PayeeAddress)
	p.log.Printf("Payee amount:          %s BTC", audit.FormatBTC(rec.PayeeAmount))
	p.log.Printf("Change address:        %s", rec.ChangeAddress)
	p.log.Printf("Change amount:         %s BTC", audit.FormatBTC(rec.ChangeAmount))
	p.log.Printf("Fee:                   %s BTC", audit.FormatBTC(rec.Fee))
	p.log.Printf("Block height:          %d", rec.BlockHeight)
	p.log.Printf("Block hash:            %s", rec.BlockHash)
}
