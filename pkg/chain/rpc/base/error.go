package base

import "errors"

var (
	ErrConnection    = errors.New("chain connection failed")
	ErrClosed        = errors.New("chain client closed")
	ErrBlockNotFound = errors.New("block not found")
	ErrNoLedger      = errors.New("no staking ledger for account")
	ErrStorageEmpty  = errors.New("storage entry is empty")

	NotMatchModelError = errors.New("not match model error")
)
