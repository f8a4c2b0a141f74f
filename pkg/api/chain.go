package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/gorilla/mux"
)

type HeaderResponse struct {
	Number         uint64 `json:"number" yaml:"number"`
	ParentHash     string `json:"parentHash" yaml:"parentHash"`
	StateRoot      string `json:"stateRoot" yaml:"stateRoot"`
	ExtrinsicsRoot string `json:"extrinsicsRoot" yaml:"extrinsicsRoot"`
	DigestLogs     int    `json:"digestLogs" yaml:"digestLogs"`
}

func NewHeaderResponse(h *types.Header) HeaderResponse {
	return HeaderResponse{
		Number:         uint64(h.Number),
		ParentHash:     h.ParentHash.Hex(),
		StateRoot:      h.StateRoot.Hex(),
		ExtrinsicsRoot: h.ExtrinsicsRoot.Hex(),
		DigestLogs:     len(h.Digest),
	}
}

type BlockHashResponse struct {
	Number uint64 `json:"number" yaml:"number"`
	Hash   string `json:"hash" yaml:"hash"`
}

type BlockResponse struct {
	Hash       string             `json:"hash" yaml:"hash"`
	Header     HeaderResponse     `json:"header" yaml:"header"`
	Extrinsics []string           `json:"extrinsics" yaml:"extrinsics"`
	Events     []chain.EventCount `json:"events,omitempty" yaml:"events,omitempty"`
}

// NewBlockResponse renders extrinsics as SCALE encoded hex. Events are
// summarized when b carries them.
func NewBlockResponse(hash types.Hash, b *chain.BlockWithEvents) (BlockResponse, error) {
	resp := BlockResponse{
		Hash:       hash.Hex(),
		Header:     NewHeaderResponse(&b.Block.Block.Header),
		Extrinsics: make([]string, 0, len(b.Block.Block.Extrinsics)),
	}
	for i, ext := range b.Block.Block.Extrinsics {
		enc, err := codec.EncodeToHex(ext)
		if err != nil {
			return BlockResponse{}, fmt.Errorf("encode extrinsic %d: %w", i, err)
		}
		resp.Extrinsics = append(resp.Extrinsics, enc)
	}
	if b.Events != nil {
		resp.Events = b.Events.Summary()
	}
	return resp, nil
}

type EventsResponse struct {
	Hash   string             `json:"hash" yaml:"hash"`
	Count  int                `json:"count" yaml:"count"`
	Events []chain.EventCount `json:"events" yaml:"events"`
}

func NewEventsResponse(hash types.Hash, e *chain.EventRecords) EventsResponse {
	summary := e.Summary()
	if summary == nil {
		summary = []chain.EventCount{}
	}
	return EventsResponse{Hash: hash.Hex(), Count: e.Len(), Events: summary}
}

type AuthorResponse struct {
	Hash   string  `json:"hash" yaml:"hash"`
	Author *string `json:"author" yaml:"author"`
}

type StashResponse struct {
	Controller string `json:"controller" yaml:"controller"`
	Stash      string `json:"stash" yaml:"stash"`
}

// respondError maps chain client errors to HTTP status codes.
func (s *Service) respondError(w http.ResponseWriter, what string, err error) {
	switch {
	case errors.Is(err, base.ErrBlockNotFound):
		jsonhttp.NotFound(w, "block not found")
	case errors.Is(err, base.ErrNoLedger):
		jsonhttp.NotFound(w, "no staking ledger")
	case errors.Is(err, base.ErrStorageEmpty):
		jsonhttp.NotFound(w, "not found")
	case errors.Is(err, base.ErrConnection), errors.Is(err, base.ErrClosed):
		s.logger.Debugf("api: %s: %v", what, err)
		jsonhttp.ServiceUnavailable(w, "chain unavailable")
	case errors.Is(err, context.DeadlineExceeded):
		jsonhttp.GatewayTimeout(w, nil)
	default:
		s.logger.Debugf("api: %s: %v", what, err)
		s.logger.Errorf("api: %s failed", what)
		jsonhttp.BadGateway(w, what+" failed")
	}
}

// shared runs fn once for all identical concurrent requests.
func (s *Service) shared(r *http.Request, fn func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	v, shared, err := s.group.Do(r.Context(), r.URL.String(), fn)
	if shared {
		s.metrics.SharedResponses.Inc()
	}
	return v, err
}

func parseHash(s string) (types.Hash, bool) {
	if len(s) != 2+2*len(types.Hash{}) {
		return types.Hash{}, false
	}
	h, err := types.NewHashFromHexString(s)
	if err != nil {
		return types.Hash{}, false
	}
	return h, true
}

func (s *Service) headerHandler(w http.ResponseWriter, r *http.Request) {
	v, err := s.shared(r, func(ctx context.Context) (interface{}, error) {
		return s.chain.Header(ctx)
	})
	if err != nil {
		s.respondError(w, "get header", err)
		return
	}
	jsonhttp.OK(w, NewHeaderResponse(v.(*types.Header)))
}

func (s *Service) blockHashHandler(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.ParseUint(mux.Vars(r)["number"], 10, 64)
	if err != nil {
		jsonhttp.BadRequest(w, "invalid block number")
		return
	}
	hash, err := s.chain.BlockHash(r.Context(), number)
	if err != nil {
		s.respondError(w, "get block hash", err)
		return
	}
	jsonhttp.OK(w, BlockHashResponse{Number: number, Hash: hash.Hex()})
}

func (s *Service) blockHandler(w http.ResponseWriter, r *http.Request) {
	hash, ok := parseHash(mux.Vars(r)["hash"])
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return
	}
	withEvents, _ := strconv.ParseBool(r.URL.Query().Get("events"))

	v, err := s.shared(r, func(ctx context.Context) (interface{}, error) {
		if withEvents {
			return s.chain.BlockWithEvents(ctx, hash)
		}
		b, err := s.chain.Block(ctx, hash)
		if err != nil {
			return nil, err
		}
		return &chain.BlockWithEvents{Block: b}, nil
	})
	if err != nil {
		s.respondError(w, "get block", err)
		return
	}
	resp, err := NewBlockResponse(hash, v.(*chain.BlockWithEvents))
	if err != nil {
		s.logger.Errorf("api: block %s: %v", hash.Hex(), err)
		jsonhttp.InternalServerError(w, "encode block failed")
		return
	}
	jsonhttp.OK(w, resp)
}

func (s *Service) eventsHandler(w http.ResponseWriter, r *http.Request) {
	hash, ok := parseHash(mux.Vars(r)["hash"])
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return
	}
	events, err := s.chain.Events(r.Context(), hash)
	if err != nil {
		s.respondError(w, "get events", err)
		return
	}
	jsonhttp.OK(w, NewEventsResponse(hash, events))
}

func (s *Service) authorHandler(w http.ResponseWriter, r *http.Request) {
	hash, ok := parseHash(mux.Vars(r)["hash"])
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return
	}
	author, err := s.chain.BlockAuthor(r.Context(), hash)
	if err != nil {
		s.respondError(w, "get block author", err)
		return
	}
	resp := AuthorResponse{Hash: hash.Hex()}
	if author != nil {
		a := s.chain.FormatAccountID(*author)
		resp.Author = &a
	}
	jsonhttp.OK(w, resp)
}

func (s *Service) stashHandler(w http.ResponseWriter, r *http.Request) {
	controller, err := chain.ParseAccountID(mux.Vars(r)["controller"])
	if err != nil {
		jsonhttp.BadRequest(w, "invalid controller account")
		return
	}
	stash, err := s.chain.Stash(r.Context(), controller)
	if err != nil {
		s.respondError(w, "get stash", err)
		return
	}
	jsonhttp.OK(w, StashResponse{
		Controller: s.chain.FormatAccountID(controller),
		Stash:      s.chain.FormatAccountID(stash),
	})
}
