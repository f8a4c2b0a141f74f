package cmd

import (
	"errors"
	"fmt"

	"github.com/FavorLabs/chainlens/pkg/api"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/spf13/cobra"
)

const optionNameDecode = "decode"

func (c *command) initTypesCmd() {
	cmd := &cobra.Command{
		Use:   "types [name]",
		Short: "Print the custom type definitions",
		Long: `Print the custom type definitions.

With --decode, the hex encoded SCALE value is decoded as the named type.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := schema.DefaultRegistry()
			data := c.config.GetString(optionNameDecode)
			if data != "" {
				if len(args) == 0 {
					return errors.New("--decode needs a type name")
				}
				bz, err := codec.HexDecodeString(data)
				if err != nil {
					return fmt.Errorf("invalid data: %w", err)
				}
				v, err := registry.Decode(args[0], bz)
				if err != nil {
					return err
				}
				return c.print(cmd, api.DecodeResponse{Name: args[0], Value: v})
			}
			if len(args) == 0 {
				return c.print(cmd, registry)
			}
			d, ok := registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", schema.ErrUnknownType, args[0])
			}
			return c.print(cmd, api.NewTypeResponse(d))
		},
	}
	cmd.Flags().String(optionNameDecode, "", "hex encoded SCALE value to decode as the named type")
	c.root.AddCommand(cmd)
}
