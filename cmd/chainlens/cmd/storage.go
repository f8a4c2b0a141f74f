package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/spf13/cobra"
)

// accountQueryFunc reads one account keyed storage entry at an optional block.
type accountQueryFunc func(ctx context.Context, client *chain.Client, account types.AccountID, at *types.Hash) (interface{}, error)

func (c *command) initStorageCmds() {
	c.addAccountQueryCmd(&cobra.Command{
		Use:   "merchant <account>",
		Short: "Print the market registration of a merchant",
	}, func(ctx context.Context, client *chain.Client, account types.AccountID, at *types.Hash) (interface{}, error) {
		m, err := client.Merchant(ctx, account, at)
		if err != nil {
			return nil, err
		}
		return api.NewMerchantResponse(client.FormatAccountID(account), m), nil
	})

	c.addAccountQueryCmd(&cobra.Command{
		Use:   "pledge <account>",
		Short: "Print the market pledge of a merchant",
	}, func(ctx context.Context, client *chain.Client, account types.AccountID, at *types.Hash) (interface{}, error) {
		p, err := client.Pledge(ctx, account, at)
		if err != nil {
			return nil, err
		}
		return api.NewPledgeResponse(client.FormatAccountID(account), p), nil
	})

	c.addAccountQueryCmd(&cobra.Command{
		Use:   "work-report <account>",
		Short: "Print the latest work report of a storage node",
	}, func(ctx context.Context, client *chain.Client, account types.AccountID, at *types.Hash) (interface{}, error) {
		w, err := client.WorkReport(ctx, account, at)
		if err != nil {
			return nil, err
		}
		return api.NewWorkReportResponse(client.FormatAccountID(account), w), nil
	})

	c.addAccountQueryCmd(&cobra.Command{
		Use:   "guarantee <account>",
		Short: "Print the guarantee placed by an account",
	}, func(ctx context.Context, client *chain.Client, account types.AccountID, at *types.Hash) (interface{}, error) {
		g, err := client.Guarantee(ctx, account, at)
		if err != nil {
			return nil, err
		}
		return api.NewGuaranteeResponse(client.FormatAccountID(account), g, client.FormatAccountID), nil
	})

	orderCmd := &cobra.Command{
		Use:   "order <id>",
		Short: "Print a storage order and its status",
		Args:  cobra.ExactArgs(1),
	}
	orderCmd.Flags().String(optionNameAt, "", "block hash to read storage at, defaults to the best block")
	c.addQueryCmd(orderCmd, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		id, err := parseHash(args[0])
		if err != nil {
			return nil, err
		}
		at, err := c.queryAt()
		if err != nil {
			return nil, err
		}
		o, err := client.Order(ctx, id, at)
		if err != nil {
			return nil, err
		}
		return api.NewOrderResponse(o, client.FormatAccountID), nil
	})

	versionCmd := &cobra.Command{
		Use:       "pallet-version <market|swork>",
		Short:     "Print the storage version of a storage chain pallet",
		Args:      cobra.ExactValidArgs(1),
		ValidArgs: []string{"market", "swork"},
	}
	versionCmd.Flags().String(optionNameAt, "", "block hash to read storage at, defaults to the best block")
	c.addQueryCmd(versionCmd, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		pallet := strings.ToUpper(args[0][:1]) + args[0][1:]
		at, err := c.queryAt()
		if err != nil {
			return nil, err
		}
		r, err := client.PalletVersion(ctx, pallet, at)
		if err != nil {
			return nil, err
		}
		return api.NewPalletVersionResponse(pallet, r), nil
	})
}

// addAccountQueryCmd wires a query taking one account argument and an
// optional --at block hash.
func (c *command) addAccountQueryCmd(cmd *cobra.Command, fn accountQueryFunc) {
	cmd.Args = cobra.ExactArgs(1)
	cmd.Flags().String(optionNameAt, "", "block hash to read storage at, defaults to the best block")
	c.addQueryCmd(cmd, func(ctx context.Context, client *chain.Client, args []string) (interface{}, error) {
		account, err := chain.ParseAccountID(args[0])
		if err != nil {
			return nil, err
		}
		at, err := c.queryAt()
		if err != nil {
			return nil, err
		}
		return fn(ctx, client, account, at)
	})
}

func (c *command) queryAt() (*types.Hash, error) {
	s := c.config.GetString(optionNameAt)
	if s == "" {
		return nil, nil
	}
	h, err := parseHash(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", optionNameAt, err)
	}
	return &h, nil
}
