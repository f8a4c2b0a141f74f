package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
)

var logger = logging.New(io.Discard, 0)

type chainMock struct {
	mu       sync.Mutex
	calls    map[string]int
	notReady bool

	header *types.Header
	hashes map[uint64]types.Hash
	blocks map[types.Hash]*types.SignedBlock
	events *chain.EventRecords
	stash  map[types.AccountID]types.AccountID
	author *types.AccountID
	err    error

	merchants  map[types.AccountID]*schema.MerchantInfo
	pledges    map[types.AccountID]*schema.Pledge
	orders     map[types.Hash]*chain.Order
	reports    map[types.AccountID]*schema.WorkReport
	guarantees map[types.AccountID]*schema.Guarantee
	releases   map[string]schema.Releases
	lastAt     *types.Hash
}

func (m *chainMock) hit(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

func (m *chainMock) IsReady() bool { return !m.notReady }

func (m *chainMock) Block(_ context.Context, hash types.Hash) (*types.SignedBlock, error) {
	m.hit("Block")
	if m.err != nil {
		return nil, m.err
	}
	b, ok := m.blocks[hash]
	if !ok {
		return nil, errors.Wrap(base.ErrBlockNotFound, hash.Hex())
	}
	return b, nil
}

func (m *chainMock) BlockWithEvents(ctx context.Context, hash types.Hash) (*chain.BlockWithEvents, error) {
	events, err := m.Events(ctx, hash)
	if err != nil {
		return nil, err
	}
	b, err := m.Block(ctx, hash)
	if err != nil {
		return nil, err
	}
	return &chain.BlockWithEvents{Block: b, Events: events}, nil
}

func (m *chainMock) BlockHash(_ context.Context, number uint64) (types.Hash, error) {
	m.hit("BlockHash")
	if m.err != nil {
		return types.Hash{}, m.err
	}
	h, ok := m.hashes[number]
	if !ok {
		return types.Hash{}, base.ErrBlockNotFound
	}
	return h, nil
}

func (m *chainMock) Events(_ context.Context, _ types.Hash) (*chain.EventRecords, error) {
	m.hit("Events")
	if m.err != nil {
		return nil, m.err
	}
	if m.events == nil {
		return &chain.EventRecords{}, nil
	}
	return m.events, nil
}

func (m *chainMock) Header(context.Context) (*types.Header, error) {
	m.hit("Header")
	if m.err != nil {
		return nil, m.err
	}
	return m.header, nil
}

func (m *chainMock) Stash(_ context.Context, controller types.AccountID) (types.AccountID, error) {
	m.hit("Stash")
	if m.err != nil {
		return types.AccountID{}, m.err
	}
	s, ok := m.stash[controller]
	if !ok {
		return types.AccountID{}, base.ErrNoLedger
	}
	return s, nil
}

func (m *chainMock) BlockAuthor(context.Context, types.Hash) (*types.AccountID, error) {
	m.hit("BlockAuthor")
	if m.err != nil {
		return nil, m.err
	}
	return m.author, nil
}

// lookup records at and returns the entry under key, or ErrStorageEmpty.
func lookup[K comparable, V any](m *chainMock, method string, entries map[K]V, key K, at *types.Hash) (V, error) {
	m.hit(method)
	m.mu.Lock()
	m.lastAt = at
	m.mu.Unlock()

	var zero V
	if m.err != nil {
		return zero, m.err
	}
	v, ok := entries[key]
	if !ok {
		return zero, errors.Wrap(base.ErrStorageEmpty, method)
	}
	return v, nil
}

func (m *chainMock) at() *types.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAt
}

func (m *chainMock) Guarantee(_ context.Context, account types.AccountID, at *types.Hash) (*schema.Guarantee, error) {
	return lookup(m, "Guarantee", m.guarantees, account, at)
}

func (m *chainMock) Merchant(_ context.Context, account types.AccountID, at *types.Hash) (*schema.MerchantInfo, error) {
	return lookup(m, "Merchant", m.merchants, account, at)
}

func (m *chainMock) Pledge(_ context.Context, account types.AccountID, at *types.Hash) (*schema.Pledge, error) {
	return lookup(m, "Pledge", m.pledges, account, at)
}

func (m *chainMock) Order(_ context.Context, id types.Hash, at *types.Hash) (*chain.Order, error) {
	return lookup(m, "Order", m.orders, id, at)
}

func (m *chainMock) WorkReport(_ context.Context, account types.AccountID, at *types.Hash) (*schema.WorkReport, error) {
	return lookup(m, "WorkReport", m.reports, account, at)
}

func (m *chainMock) PalletVersion(_ context.Context, pallet string, at *types.Hash) (schema.Releases, error) {
	return lookup(m, "PalletVersion", m.releases, pallet, at)
}

func (m *chainMock) FormatAccountID(id types.AccountID) string {
	return chain.FormatAccountID(id, chain.DefaultSS58Format)
}

type testServerOptions struct {
	Chain              *chainMock
	CORSAllowedOrigins []string
}

type testServer struct {
	Client *http.Client
}

func newTestServer(t *testing.T, o testServerOptions) *testServer {
	t.Helper()

	if o.Chain == nil {
		o.Chain = &chainMock{}
	}
	s := api.New(o.Chain, nil, logger, api.Options{
		CORSAllowedOrigins: o.CORSAllowedOrigins,
	})
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)

	return &testServer{
		Client: &http.Client{
			Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
				u, err := url.Parse(ts.URL + r.URL.String())
				if err != nil {
					return nil, err
				}
				r.URL = u
				return ts.Client().Transport.RoundTrip(r)
			}),
		},
	}
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}
