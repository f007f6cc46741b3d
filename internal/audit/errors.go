package audit

import "errors"

var (
	// ErrUnconfirmedTx indicates the transaction has no confirming block yet.
	ErrUnconfirmedTx = errors.New("audit: transaction not in a block")

	// ErrMalformedTx indicates the transaction spends no prior output.
	ErrMalformedTx = errors.New("audit: transaction has no spendable inputs")

	// ErrInvalidReference indicates an input points at an output index the
	// referenced transaction does not have.
	ErrInvalidReference = errors.New("audit: invalid input reference")

	// ErrBlockLookup indicates the confirming block is unknown to the node.
	ErrBlockLookup = errors.New("audit: block lookup failed")
)
