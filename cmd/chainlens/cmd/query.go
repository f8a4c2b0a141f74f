package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/spf13/cobra"
)

const (
	optionNameEvents = "events"
	optionNameAt     = "at"
)

// queryFunc runs one request against a connected client and returns the
// value to print.
type queryFunc func(ctx context.Context, client *chain.Client, args []string) (interface{}, error)

func (c *command) initQueryCmds() {
	c.addQueryCmd(&cobra.Command{
		Use:   "header",
		Short: "Print the best block header",
		Args:  cobra.NoArgs,
	}, func(ctx context.Context, client *chain.Client, _ []string) (interface{}, error) {
		h, err := client.Header(ctx)
		if err != nil {
			return nil, err
		}
		return api.NewHeaderResponse(h), nil
	})

	c.addQueryCmd(&cobra.Command{
		Use:   "block-hash <number>",
		Short: "Print the hash of the block at a height",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		number, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid block number %q", args[0])
		}
		hash, err := client.BlockHash(ctx, number)
		if err != nil {
			return nil, err
		}
		return api.BlockHashResponse{Number: number, Hash: hash.Hex()}, nil
	})

	blockCmd := &cobra.Command{
		Use:   "block <hash>",
		Short: "Print a block",
		Args:  cobra.ExactArgs(1),
	}
	blockCmd.Flags().Bool(optionNameEvents, false, "include the block events")
	c.addQueryCmd(blockCmd, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		hash, err := parseHash(args[0])
		if err != nil {
			return nil, err
		}
		var b *chain.BlockWithEvents
		if c.config.GetBool(optionNameEvents) {
			b, err = client.BlockWithEvents(ctx, hash)
		} else {
			var sb *types.SignedBlock
			sb, err = client.Block(ctx, hash)
			b = &chain.BlockWithEvents{Block: sb}
		}
		if err != nil {
			return nil, err
		}
		return api.NewBlockResponse(hash, b)
	})

	c.addQueryCmd(&cobra.Command{
		Use:   "events <hash>",
		Short: "Print the events recorded in a block",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		hash, err := parseHash(args[0])
		if err != nil {
			return nil, err
		}
		events, err := client.Events(ctx, hash)
		if err != nil {
			return nil, err
		}
		return api.NewEventsResponse(hash, events), nil
	})

	c.addQueryCmd(&cobra.Command{
		Use:   "stash <controller>",
		Short: "Print the stash account bonded to a controller",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		controller, err := chain.ParseAccountID(args[0])
		if err != nil {
			return nil, err
		}
		stash, err := client.Stash(ctx, controller)
		if err != nil {
			return nil, err
		}
		return api.StashResponse{
			Controller: client.FormatAccountID(controller),
			Stash:      client.FormatAccountID(stash),
		}, nil
	})

	c.addQueryCmd(&cobra.Command{
		Use:   "author <hash>",
		Short: "Print the author of a block",
		Args:  cobra.ExactArgs(1),
	}, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		hash, err := parseHash(args[0])
		if err != nil {
			return nil, err
		}
		author, err := client.BlockAuthor(ctx, hash)
		if err != nil {
			return nil, err
		}
		resp := api.AuthorResponse{Hash: hash.Hex()}
		if author != nil {
			a := client.FormatAccountID(*author)
			resp.Author = &a
		}
		return resp, nil
	})

	c.initStorageCmds()
}

// addQueryCmd wires a one-shot query: connect, run fn, print the result
// and close the connection.
func (c *command) addQueryCmd(cmd *cobra.Command, fn queryFunc) {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		logger, err := c.newLogger(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := c.newClient(logger)
		defer client.Close()

		if err := client.Ready(ctx); err != nil {
			return err
		}
		v, err := fn(ctx, client, args)
		if err != nil {
			return err
		}
		return c.print(cmd, v)
	}
	c.root.AddCommand(cmd)
}

func parseHash(s string) (types.Hash, error) {
	h, err := types.NewHashFromHexString(s)
	if err != nil || len(s) != 2+2*len(h) {
		return types.Hash{}, fmt.Errorf("invalid block hash %q", s)
	}
	return h, nil
}
