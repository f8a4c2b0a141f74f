package market

import (
	"context"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

const pallet = "Market"

// Interface reads storage orders, merchants and pledges of the market
// pallet. A nil block hash reads the best block.
type Interface interface {
	Merchant(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantInfo, error)
	Pledge(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Pledge, error)
	MerchantPunishment(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantPunishment, error)
	SorderInfo(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderInfo, error)
	SorderStatus(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderStatus, error)
	SorderPunishment(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderPunishment, error)
}

type service struct {
	client *base.SubstrateAPI
}

// New creates a new market service
func New(c *base.SubstrateAPI) Interface {
	return &service{client: c}
}

func (s *service) Merchant(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantInfo, error) {
	return base.Query[schema.MerchantInfo](ctx, s.client, at, pallet, "Merchants", account.ToBytes())
}

func (s *service) Pledge(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Pledge, error) {
	return base.Query[schema.Pledge](ctx, s.client, at, pallet, "Pledges", account.ToBytes())
}

func (s *service) MerchantPunishment(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantPunishment, error) {
	return base.Query[schema.MerchantPunishment](ctx, s.client, at, pallet, "MerchantPunishments", account.ToBytes())
}

func (s *service) SorderInfo(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderInfo, error) {
	return base.Query[schema.SorderInfo](ctx, s.client, at, pallet, "SorderInfos", orderID[:])
}

func (s *service) SorderStatus(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderStatus, error) {
	return base.Query[schema.SorderStatus](ctx, s.client, at, pallet, "SorderStatuses", orderID[:])
}

func (s *service) SorderPunishment(ctx context.Context, orderID types.Hash, at *types.Hash) (*schema.SorderPunishment, error) {
	return base.Query[schema.SorderPunishment](ctx, s.client, at, pallet, "SorderPunishments", orderID[:])
}
