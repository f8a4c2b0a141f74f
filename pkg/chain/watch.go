package chain

import (
	"context"

	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
)

// WatchHeads calls fn for every new head announced by the node until ctx
// is done, fn fails or the subscription breaks.
func (c *Client) WatchHeads(ctx context.Context, fn func(*types.Header) error) error {
	if err := c.Default.Ready(ctx); err != nil {
		return err
	}
	sub, err := c.Default.Chain.SubscribeNewHeads()
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	for {
		select {
		case h := <-sub.Chan():
			c.heads.Inc()
			if err := fn(&h); err != nil {
				return err
			}
		case err := <-sub.Err():
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// HeadsSeen returns how many heads WatchHeads has delivered.
func (c *Client) HeadsSeen() uint64 {
	return c.heads.Load()
}
