package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/symbol/symbol-faucet/pkg/config"
	"github.com/symbol/symbol-faucet/pkg/logger"
	"github.com/symbol/symbol-faucet/pkg/validation"
)

var (
	cfgPath string
	cfg     *config.Schema
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "symbol-faucet",
		Short:         "Symbol testnet faucet backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !needsConfig(cmd) {
				return nil
			}
			var err error
			cfg, err = config.ReadConfigFile(cfgPath)
			if err != nil {
				return err
			}
			return initLogger(cfg)
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to the config file")

	root.AddCommand(serveCmd(), nodesCmd(), accountCmd(), versionCmd())
	return root
}

// needsConfig is false for version, help and shell completion commands.
func needsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

func initLogger(cfg *config.Schema) error {
	level, err := logger.ParseLevel(cfg.Global.LogLevel)
	if err != nil {
		return err
	}
	opts := []logger.Option{
		logger.WithLevel(level),
		logger.WithEncodeTime("timestamp", zapcore.ISO8601TimeEncoder),
	}
	if cfg.Global.Environment == "dev" {
		opts = append(opts, logger.WithConsole())
	}
	if err := logger.InitLogger(opts...); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

// validateConfig runs before any network operation.
func validateConfig(cfg *config.Schema) error {
	if err := validation.NewConfigValidator().ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	logger.Infof("Configuration validated successfully")
	return nil
}
