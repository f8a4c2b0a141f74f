package swork

import (
	"errors"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
)

type Error struct {
	err error
}

var (
	IllegalApplier       = errors.New("IllegalApplier")
	IllegalIdentity      = errors.New("IllegalIdentity")
	IllegalTrustedChain  = errors.New("IllegalTrustedChain")
	IllegalWorkReportSig = errors.New("IllegalWorkReportSig")
	InvalidPubKey        = errors.New("InvalidPubKey")
	InvalidReportTime    = errors.New("InvalidReportTime")
	IllegalCode          = errors.New("IllegalCode")
	ABUpgradeFailed      = errors.New("ABUpgradeFailed")
)

func NewError(index uint8) *Error {
	var err = base.NotMatchModelError
	switch index {
	case 0:
		err = IllegalApplier
	case 1:
		err = IllegalIdentity
	case 2:
		err = IllegalTrustedChain
	case 3:
		err = IllegalWorkReportSig
	case 4:
		err = InvalidPubKey
	case 5:
		err = InvalidReportTime
	case 6:
		err = IllegalCode
	case 7:
		err = ABUpgradeFailed
	}
	return &Error{err: err}
}

func (e *Error) Error() string {
	return "swork: " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}
