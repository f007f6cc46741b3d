package pipeline

import "errors"

var (
	// ErrMaturationTimeout indicates the mining ceiling was exhausted before
	// a spendable balance appeared.
	ErrMaturationTimeout = errors.New("pipeline: maturation ceiling exhausted")

	// ErrInsufficientFunds indicates the wallet cannot fund the payment plus fee.
	ErrInsufficientFunds = errors.New("pipeline: insufficient funds")

	// ErrBroadcast indicates the node rejected the payment transaction.
	ErrBroadcast = errors.New("pipeline: broadcast rejected")
)
