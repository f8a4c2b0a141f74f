package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	optionNameEndpoint       = "endpoint"
	optionNameVerbosity      = "verbosity"
	optionNameSS58Format     = "ss58-format"
	optionNameOutput         = "output"
	optionNameAPIAddr        = "api-addr"
	optionCORSAllowedOrigins = "cors-allowed-origins"
)

type command struct {
	root    *cobra.Command
	config  *viper.Viper
	cfgFile string
	homeDir string
}

type option func(*command)

func newCommand(opts ...option) (c *command, err error) {
	c = &command{
		root: &cobra.Command{
			Use:           "chainlens",
			Short:         "Read-only client for storage chain nodes",
			SilenceErrors: true,
			SilenceUsage:  true,
		},
	}
	c.root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := c.initConfig(); err != nil {
			return err
		}
		return c.config.BindPFlags(cmd.Flags())
	}

	for _, o := range opts {
		o(c)
	}

	// Find home directory.
	if err := c.setHomeDir(); err != nil {
		return nil, err
	}

	c.initGlobalFlags()
	c.initStartCmd()
	c.initQueryCmds()
	c.initWatchCmd()
	c.initTypesCmd()
	c.initVersionCmd()

	return c, nil
}

func (c *command) Execute() (err error) {
	return c.root.Execute()
}

// Execute parses command line arguments and runs appropriate functions.
func Execute() (err error) {
	c, err := newCommand()
	if err != nil {
		return err
	}
	return c.Execute()
}

func (c *command) initGlobalFlags() {
	globalFlags := c.root.PersistentFlags()
	globalFlags.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.chainlens.yaml)")
	globalFlags.String(optionNameEndpoint, "ws://127.0.0.1:9944", "chain node websocket endpoint")
	globalFlags.String(optionNameVerbosity, "info", "log verbosity level 0=silent, 1=error, 2=warn, 3=info, 4=debug, 5=trace")
	globalFlags.Uint16(optionNameSS58Format, chain.DefaultSS58Format, "ss58 address format used to print accounts")
	globalFlags.StringP(optionNameOutput, "o", outputJSON, "output format, json or yaml")
}

func (c *command) initConfig() (err error) {
	config := viper.New()
	configName := ".chainlens"
	if c.cfgFile != "" {
		// Use config file from the flag.
		config.SetConfigFile(c.cfgFile)
	} else {
		// Search config in home directory with name ".chainlens" (without extension).
		config.AddConfigPath(c.homeDir)
		config.SetConfigName(configName)
	}

	// Environment
	config.SetEnvPrefix("chainlens")
	config.AutomaticEnv() // read in environment variables that match
	config.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		var e viper.ConfigFileNotFoundError
		if !errors.As(err, &e) {
			return err
		}
	}
	c.config = config
	return nil
}

func (c *command) setHomeDir() (err error) {
	if c.homeDir != "" {
		return
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.homeDir = dir
	return nil
}

func (c *command) newLogger(cmd *cobra.Command) (logging.Logger, error) {
	v := strings.ToLower(c.config.GetString(optionNameVerbosity))
	logger, err := logging.ParseVerbosity(cmd.ErrOrStderr(), v)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	logging.SetDefault(logger)
	return logger, nil
}

func (c *command) newClient(logger logging.Logger) *chain.Client {
	return chain.NewClient(c.config.GetString(optionNameEndpoint), chain.Options{
		Logger:     logger,
		SS58Format: uint16(c.config.GetUint(optionNameSS58Format)),
	})
}

func withArgs(args ...string) option {
	return func(c *command) {
		c.root.SetArgs(args)
	}
}

func withHomeDir(dir string) option {
	return func(c *command) {
		c.homeDir = dir
	}
}

func withOutput(w io.Writer) option {
	return func(c *command) {
		c.root.SetOut(w)
		c.root.SetErr(w)
	}
}
