package chain

import (
	"context"

	"github.com/FavorLabs/chainlens/pkg/chain/rpc/base"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/market"
	"github.com/FavorLabs/chainlens/pkg/chain/rpc/swork"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

const DefaultSS58Format uint16 = 42

type Options struct {
	Logger     logging.Logger
	Registry   *schema.Registry
	SS58Format uint16
}

// Client gives read-only access to a storage chain node. Every call waits
// for the connection opened by NewClient to become ready.
type Client struct {
	Default  *base.SubstrateAPI
	Market   market.Interface
	Swork    swork.Interface
	Registry *schema.Registry

	logger     logging.Logger
	ss58Format uint16
	heads      atomic.Uint64
}

// NewClient starts connecting to url and returns immediately.
func NewClient(url string, o Options) *Client {
	if o.Logger == nil {
		o.Logger = logging.Default()
	}
	if o.Registry == nil {
		o.Registry = schema.DefaultRegistry()
	}
	if o.SS58Format == 0 {
		o.SS58Format = DefaultSS58Format
	}
	api := base.NewSubstrateAPI(url, o.Logger)
	return &Client{
		Default:    api,
		Market:     market.New(api),
		Swork:      swork.New(api),
		Registry:   o.Registry,
		logger:     o.Logger,
		ss58Format: o.SS58Format,
	}
}

func (c *Client) Ready(ctx context.Context) error {
	return c.Default.Ready(ctx)
}

func (c *Client) IsReady() bool {
	return c.Default.IsReady()
}

func (c *Client) Close() error {
	return c.Default.Close()
}

// Block returns the signed block with the given hash.
//
// Events recorded at the block are not part of the result; use
// BlockWithEvents to fetch both.
func (c *Client) Block(ctx context.Context, hash types.Hash) (*types.SignedBlock, error) {
	var res *types.SignedBlock
	if err := c.Default.Call(ctx, &res, "chain_getBlock", &hash); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.Wrapf(base.ErrBlockNotFound, "hash %s", hash.Hex())
	}
	return res, nil
}

type BlockWithEvents struct {
	Block  *types.SignedBlock
	Events *EventRecords
}

// BlockWithEvents returns the block with the given hash together with the
// events recorded while it was applied.
func (c *Client) BlockWithEvents(ctx context.Context, hash types.Hash) (*BlockWithEvents, error) {
	events, err := c.Events(ctx, hash)
	if err != nil {
		return nil, err
	}
	block, err := c.Block(ctx, hash)
	if err != nil {
		return nil, err
	}
	return &BlockWithEvents{Block: block, Events: events}, nil
}

// BlockHash returns the canonical hash of the block at number.
func (c *Client) BlockHash(ctx context.Context, number uint64) (types.Hash, error) {
	var res *string
	if err := c.Default.Call(ctx, &res, "chain_getBlockHash", nil, number); err != nil {
		return types.Hash{}, err
	}
	if res == nil || *res == "" {
		return types.Hash{}, errors.Wrapf(base.ErrBlockNotFound, "number %d", number)
	}
	return types.NewHashFromHexString(*res)
}

// Header returns the header of the best block.
func (c *Client) Header(ctx context.Context) (*types.Header, error) {
	return c.header(ctx, nil)
}

func (c *Client) HeaderAt(ctx context.Context, hash types.Hash) (*types.Header, error) {
	return c.header(ctx, &hash)
}

func (c *Client) header(ctx context.Context, hash *types.Hash) (*types.Header, error) {
	var res *types.Header
	if err := c.Default.Call(ctx, &res, "chain_getHeader", hash); err != nil {
		return nil, err
	}
	if res == nil {
		if hash == nil {
			return nil, base.ErrBlockNotFound
		}
		return nil, errors.Wrapf(base.ErrBlockNotFound, "hash %s", hash.Hex())
	}
	return res, nil
}

// Events returns the events recorded at the block with the given hash.
func (c *Client) Events(ctx context.Context, hash types.Hash) (*EventRecords, error) {
	raw, meta, err := c.Default.QueryStorageRaw(ctx, &hash, "System", "Events")
	if err != nil {
		return nil, err
	}
	records := &EventRecords{}
	if len(raw) == 0 {
		return records, nil
	}
	if err = decodeEvents(meta, raw, records); err != nil {
		return nil, errors.Wrapf(err, "decode events at %s", hash.Hex())
	}
	return records, nil
}

// Stash returns the stash account bonded to controller. It fails with
// ErrNoLedger when controller has no staking ledger.
func (c *Client) Stash(ctx context.Context, controller types.AccountID) (types.AccountID, error) {
	ledger, err := base.Query[schema.StakingLedger](ctx, c.Default, nil, "Staking", "Ledger", controller.ToBytes())
	if err != nil {
		if errors.Is(err, base.ErrStorageEmpty) {
			return types.AccountID{}, errors.Wrapf(base.ErrNoLedger, "controller %s", c.FormatAccountID(controller))
		}
		return types.AccountID{}, err
	}
	return ledger.Stash, nil
}

// Guarantee returns the guarantee placed by account, at the best block
// when at is nil.
func (c *Client) Guarantee(ctx context.Context, account types.AccountID, at *types.Hash) (*schema.Guarantee, error) {
	return base.Query[schema.Guarantee](ctx, c.Default, at, "Staking", "Guarantors", account.ToBytes())
}

// BlockAuthor returns the account that authored the block with the given
// hash, or nil when the header carries no author information or the
// runtime has no Session pallet to map it to an account.
func (c *Client) BlockAuthor(ctx context.Context, hash types.Hash) (*types.AccountID, error) {
	header, err := c.HeaderAt(ctx, hash)
	if err != nil {
		return nil, err
	}
	claim, ok := authorClaim(header.Digest)
	if !ok {
		return nil, nil
	}
	meta, err := c.Default.MetadataAt(ctx, &hash)
	if err != nil {
		return nil, err
	}
	if !meta.ExistsModuleMetadata("Session") {
		return nil, nil
	}

	var validators []types.AccountID
	ok, err = c.Default.QueryStorage(ctx, &validators, &hash, "Session", "Validators")
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	i, ok := claim.index(len(validators))
	if !ok {
		c.logger.Debugf("chain: author index out of range at %s", hash.Hex())
		return nil, nil
	}
	return &validators[i], nil
}
