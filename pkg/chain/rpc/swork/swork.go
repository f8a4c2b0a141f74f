package swork

import (
	"context"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

const pallet = "Swork"

type Interface interface {
	// Identity returns the sworker identity registered by account.
	Identity(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Identity, error)
	// WorkReport returns the latest work report submitted by account.
	WorkReport(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.WorkReport, error)
}

type service struct {
	client *base.SubstrateAPI
}

func New(c *base.SubstrateAPI) Interface {
	return &service{client: c}
}

func (s *service) Identity(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Identity, error) {
	return base.Query[schema.Identity](ctx, s.client, at, pallet, "Identities", account.ToBytes())
}

func (s *service) WorkReport(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.WorkReport, error) {
	return base.Query[schema.WorkReport](ctx, s.client, at, pallet, "WorkReports", account.ToBytes())
}
