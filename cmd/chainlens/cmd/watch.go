package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/spf13/cobra"
)

func (c *command) initWatchCmd() {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print new block headers as the node announces them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := c.newLogger(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := c.newClient(logger)
			defer client.Close()

			err = client.WatchHeads(ctx, func(h *types.Header) error {
				return c.print(cmd, api.NewHeaderResponse(h))
			})
			logger.Infof("watched %d heads", client.HeadsSeen())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	c.root.AddCommand(cmd)
}
