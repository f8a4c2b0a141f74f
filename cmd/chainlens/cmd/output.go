package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

const (
	outputJSON = "json"
	outputYAML = "yaml"
)

// print writes v to the command output in the configured format.
func (c *command) print(cmd *cobra.Command, v interface{}) error {
	switch format := c.config.GetString(optionNameOutput); format {
	case outputJSON, "":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(b))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}
