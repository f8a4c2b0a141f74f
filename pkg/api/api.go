// Package api exposes the chain client over a read-only JSON HTTP API.
package api

import (
	"context"
	"net/http"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/prometheus/client_golang/prometheus"
	"resenje.org/singleflight"
)

// ChainReader is the part of the chain client served by the API.
type ChainReader interface {
	IsReady() bool
	Block(ctx context.Context, hash types.Hash) (*types.SignedBlock, error)
	BlockWithEvents(ctx context.Context, hash types.Hash) (*chain.BlockWithEvents, error)
	BlockHash(ctx context.Context, number uint64) (types.Hash, error)
	Events(ctx context.Context, hash types.Hash) (*chain.EventRecords, error)
	Header(ctx context.Context) (*types.Header, error)
	Stash(ctx context.Context, controller types.AccountID) (types.AccountID, error)
	BlockAuthor(ctx context.Context, hash types.Hash) (*types.AccountID, error)
	Guarantee(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Guarantee, error)
	Merchant(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantInfo, error)
	Pledge(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Pledge, error)
	Order(ctx context.Context, id types.Hash, at *types.Hash) (*chain.Order, error)
	WorkReport(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.WorkReport, error)
	PalletVersion(ctx context.Context, pallet string, at *types.Hash) (schema.Releases, error)
	FormatAccountID(id types.AccountID) string
}

type Options struct {
	CORSAllowedOrigins []string
}

type Service struct {
	chain           ChainReader
	registry        *schema.Registry
	logger          logging.Logger
	metrics         metrics
	metricsRegistry *prometheus.Registry
	group           singleflight.Group

	http.Handler
}

func New(c ChainReader, registry *schema.Registry, logger logging.Logger, o Options) *Service {
	if registry == nil {
		registry = schema.DefaultRegistry()
	}
	s := &Service{
		chain:           c,
		registry:        registry,
		logger:          logger,
		metrics:         newMetrics(),
		metricsRegistry: newMetricsRegistry(),
	}
	s.metricsRegistry.MustRegister(s.metrics.collectors()...)
	s.setupRouting(o)
	return s
}
