package base

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
)

// Query reads prefix.method(args...) at blockHash into a new T. A missing
// entry yields ErrStorageEmpty.
func Query[T any](ctx context.Context, s *SubstrateAPI, blockHash *types.Hash, prefix, method string, args ...[]byte) (*T, error) {
	var data T
	ok, err := s.QueryStorage(ctx, &data, blockHash, prefix, method, args...)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(ErrStorageEmpty, "%s.%s", prefix, method)
	}
	return &data, nil
}
