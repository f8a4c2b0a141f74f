package api_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp/jsonhttptest"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/stretchr/testify/require"
)

const (
	alicePub = "0xd43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
	bobPub   = "0x8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48"
)

func mustAccount(t *testing.T, s string) types.AccountID {
	t.Helper()
	id, err := chain.ParseAccountID(s)
	require.NoError(t, err)
	return id
}

func testHeader() *types.Header {
	return &types.Header{
		ParentHash: types.NewHash([]byte{0x01}),
		Number:     5,
		StateRoot:  types.NewHash([]byte{0x02}),
	}
}

func TestHeader(t *testing.T) {
	h := testHeader()
	testServer := newTestServer(t, testServerOptions{
		Chain: &chainMock{header: h},
	})

	jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/header", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(api.HeaderResponse{
			Number:         5,
			ParentHash:     h.ParentHash.Hex(),
			StateRoot:      h.StateRoot.Hex(),
			ExtrinsicsRoot: types.Hash{}.Hex(),
		}),
	)
}

func TestHeader_errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{name: "unavailable", err: base.ErrConnection, code: http.StatusServiceUnavailable, msg: "chain unavailable"},
		{name: "closed", err: base.ErrClosed, code: http.StatusServiceUnavailable, msg: "chain unavailable"},
		{name: "upstream", err: errors.New("boom"), code: http.StatusBadGateway, msg: "get header failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			testServer := newTestServer(t, testServerOptions{
				Chain: &chainMock{err: tc.err},
			})

			jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/header", tc.code,
				jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
					Code:    tc.code,
					Message: tc.msg,
				}),
			)
		})
	}
}

func TestBlockHash(t *testing.T) {
	genesis := types.NewHash([]byte{0xaa})
	testServer := newTestServer(t, testServerOptions{
		Chain: &chainMock{hashes: map[uint64]types.Hash{0: genesis}},
	})

	jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/0/hash", http.StatusOK,
		jsonhttptest.WithExpectedJSONResponse(api.BlockHashResponse{
			Number: 0,
			Hash:   genesis.Hex(),
		}),
	)
	jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/7/hash", http.StatusNotFound,
		jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
			Code:    http.StatusNotFound,
			Message: "block not found",
		}),
	)
}

func TestBlock(t *testing.T) {
	hash := types.NewHash([]byte{0xbb})
	h := testHeader()
	mock := &chainMock{
		blocks: map[types.Hash]*types.SignedBlock{
			hash: {Block: types.Block{Header: *h}},
		},
		events: &chain.EventRecords{},
	}
	mock.events.System_ExtrinsicSuccess = make([]types.EventSystemExtrinsicSuccess, 2)
	testServer := newTestServer(t, testServerOptions{Chain: mock})

	header := api.HeaderResponse{
		Number:         5,
		ParentHash:     h.ParentHash.Hex(),
		StateRoot:      h.StateRoot.Hex(),
		ExtrinsicsRoot: types.Hash{}.Hex(),
	}

	t.Run("without events", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex(), http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.BlockResponse{
				Hash:       hash.Hex(),
				Header:     header,
				Extrinsics: []string{},
			}),
		)
	})

	t.Run("with events", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex()+"?events=true", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.BlockResponse{
				Hash:       hash.Hex(),
				Header:     header,
				Extrinsics: []string{},
				Events:     []chain.EventCount{{Name: "System.ExtrinsicSuccess", Count: 2}},
			}),
		)
	})

	t.Run("not found", func(t *testing.T) {
		missing := types.NewHash([]byte{0xcc})
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+missing.Hex(), http.StatusNotFound,
			jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
				Code:    http.StatusNotFound,
				Message: "block not found",
			}),
		)
	})

	t.Run("invalid hash", func(t *testing.T) {
		for _, bad := range []string{"0x1234", "latest", hash.Hex()[2:]} {
			jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+bad, http.StatusBadRequest,
				jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
					Code:    http.StatusBadRequest,
					Message: "invalid block hash",
				}),
			)
		}
	})
}

func TestEvents(t *testing.T) {
	hash := types.NewHash([]byte{0xbb})

	t.Run("empty", func(t *testing.T) {
		testServer := newTestServer(t, testServerOptions{})

		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex()+"/events", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.EventsResponse{
				Hash:   hash.Hex(),
				Count:  0,
				Events: []chain.EventCount{},
			}),
		)
	})

	t.Run("counted", func(t *testing.T) {
		events := &chain.EventRecords{}
		events.System_ExtrinsicSuccess = make([]types.EventSystemExtrinsicSuccess, 3)
		events.System_ExtrinsicFailed = make([]types.EventSystemExtrinsicFailed, 1)
		testServer := newTestServer(t, testServerOptions{
			Chain: &chainMock{events: events},
		})

		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex()+"/events", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.EventsResponse{
				Hash:  hash.Hex(),
				Count: 4,
				Events: []chain.EventCount{
					{Name: "System.ExtrinsicFailed", Count: 1},
					{Name: "System.ExtrinsicSuccess", Count: 3},
				},
			}),
		)
	})
}

func TestAuthor(t *testing.T) {
	hash := types.NewHash([]byte{0xbb})
	alice := mustAccount(t, alicePub)

	t.Run("known", func(t *testing.T) {
		testServer := newTestServer(t, testServerOptions{
			Chain: &chainMock{author: &alice},
		})

		author := chain.FormatAccountID(alice, chain.DefaultSS58Format)
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex()+"/author", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.AuthorResponse{
				Hash:   hash.Hex(),
				Author: &author,
			}),
		)
	})

	t.Run("absent", func(t *testing.T) {
		testServer := newTestServer(t, testServerOptions{})

		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/chain/blocks/"+hash.Hex()+"/author", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(map[string]interface{}{
				"hash":   hash.Hex(),
				"author": nil,
			}),
		)
	})
}

func TestStash(t *testing.T) {
	alice := mustAccount(t, alicePub)
	bob := mustAccount(t, bobPub)
	testServer := newTestServer(t, testServerOptions{
		Chain: &chainMock{stash: map[types.AccountID]types.AccountID{alice: bob}},
	})

	aliceAddress := chain.FormatAccountID(alice, chain.DefaultSS58Format)

	t.Run("ss58", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/staking/"+aliceAddress+"/stash", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.StashResponse{
				Controller: aliceAddress,
				Stash:      chain.FormatAccountID(bob, chain.DefaultSS58Format),
			}),
		)
	})

	t.Run("hex", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/staking/"+alicePub+"/stash", http.StatusOK,
			jsonhttptest.WithExpectedJSONResponse(api.StashResponse{
				Controller: aliceAddress,
				Stash:      chain.FormatAccountID(bob, chain.DefaultSS58Format),
			}),
		)
	})

	t.Run("no ledger", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/staking/"+bobPub+"/stash", http.StatusNotFound,
			jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
				Code:    http.StatusNotFound,
				Message: "no staking ledger",
			}),
		)
	})

	t.Run("invalid account", func(t *testing.T) {
		jsonhttptest.Request(t, testServer.Client, http.MethodGet, "/staking/nobody/stash", http.StatusBadRequest,
			jsonhttptest.WithExpectedJSONResponse(jsonhttp.StatusResponse{
				Code:    http.StatusBadRequest,
				Message: "invalid controller account",
			}),
		)
	})
}
