package market

import (
	"errors"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
)

type Error struct {
	err error
}

var (
	InsufficientCurrency = errors.New("InsufficientCurrency")
	InsufficientPledge   = errors.New("InsufficientPledge")
	NotMerchant          = errors.New("NotMerchant")
	DuplicateOrderId     = errors.New("DuplicateOrderId")
	NotPermitted         = errors.New("NotPermitted")
	InvalidFileSize      = errors.New("InvalidFileSize")
	InvalidDuration      = errors.New("InvalidDuration")
	NotPledged           = errors.New("NotPledged")
	OrderNotFound        = errors.New("OrderNotFound")
)

// NewError maps the error index reported by a failed market dispatch.
func NewError(index uint8) *Error {
	var err = base.NotMatchModelError
	switch index {
	case 0:
		err = InsufficientCurrency
	case 1:
		err = InsufficientPledge
	case 2:
		err = NotMerchant
	case 3:
		err = DuplicateOrderId
	case 4:
		err = NotPermitted
	case 5:
		err = InvalidFileSize
	case 6:
		err = InvalidDuration
	case 7:
		err = NotPledged
	case 8:
		err = OrderNotFound
	}
	return &Error{err: err}
}

func (e *Error) Error() string {
	return "market: " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}
