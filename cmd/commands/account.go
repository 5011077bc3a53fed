package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symbol/symbol-faucet/pkg/app"
)

func accountCmd() *cobra.Command {
	var withBalance bool
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Print the faucet account and its balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateConfig(cfg); err != nil {
				return err
			}

			res := app.NewResources(cfg)
			defer res.Close()

			manager := app.NewManager(cfg, app.NewNodeLister(cfg), app.WithFactoryBuilder(app.NewFactoryBuilder(cfg, res)))
			defer manager.Close()

			bound, err := manager.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			account, err := bound.FaucetAccount(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Node:       %s\n", bound.NodeURL())
			fmt.Fprintf(out, "Network:    %s\n", account.NetworkType)
			fmt.Fprintf(out, "Address:    %s\n", account.Address)
			fmt.Fprintf(out, "Public key: %s\n", account.PublicKey)
			if !withBalance {
				return nil
			}

			balance, err := bound.FaucetBalance(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Balance:    %f %s (mosaic %s)\n", balance.Amount, balance.Unit, balance.MosaicID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&withBalance, "balance", true, "also query the faucet balance")
	return cmd
}
