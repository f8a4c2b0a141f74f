package chain

import (
	"context"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
)

// Order is a storage order with its settlement status. Status is nil when
// the order has no status entry yet.
type Order struct {
	ID     types.Hash
	Info   schema.SorderInfo
	Status *schema.SorderStatus
}

func (c *Client) Merchant(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantInfo, error) {
	return c.Market.Merchant(ctx, account, at)
}

func (c *Client) Pledge(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Pledge, error) {
	return c.Market.Pledge(ctx, account, at)
}

// Order returns the storage order with the given id.
func (c *Client) Order(ctx context.Context, id types.Hash, at *types.Hash) (*Order, error) {
	info, err := c.Market.SorderInfo(ctx, id, at)
	if err != nil {
		return nil, err
	}
	status, err := c.Market.SorderStatus(ctx, id, at)
	if err != nil && !errors.Is(err, base.ErrStorageEmpty) {
		return nil, err
	}
	return &Order{ID: id, Info: *info, Status: status}, nil
}

func (c *Client) WorkReport(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.WorkReport, error) {
	return c.Swork.WorkReport(ctx, account, at)
}

func (c *Client) Identity(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Identity, error) {
	return c.Swork.Identity(ctx, account, at)
}

// PalletVersion reads the StorageVersion entry of a storage chain pallet.
func (c *Client) PalletVersion(ctx context.Context, pallet string, at *types.Hash) (schema.Releases, error) {
	r, err := base.Query[schema.Releases](ctx, c.Default, at, pallet, "StorageVersion")
	if err != nil {
		return 0, err
	}
	return *r, nil
}
