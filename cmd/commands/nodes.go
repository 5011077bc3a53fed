package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/symbol/symbol-faucet/pkg/app"
	"github.com/symbol/symbol-faucet/pkg/statistics"
)

func nodesCmd() *cobra.Command {
	var (
		filter string
		limit  int
		ssl    bool
	)
	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List candidate nodes from the statistics service",
		RunE: func(cmd *cobra.Command, args []string) error {
			criteria := app.CriteriaFromConfig(cfg)
			if cmd.Flags().Changed("filter") {
				parsed, err := statistics.ParseFilter(filter)
				if err != nil {
					return err
				}
				criteria.Filter = parsed
			}
			if cmd.Flags().Changed("limit") {
				criteria.Limit = limit
			}
			if cmd.Flags().Changed("ssl") {
				criteria.SSL = &ssl
			}
			if err := criteria.Validate(); err != nil {
				return err
			}

			for _, node := range app.GetNodeUrls(cmd.Context(), app.NewNodeLister(cfg), criteria) {
				fmt.Fprintln(cmd.OutOrStdout(), node)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "node filter: preferred or suggested")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of nodes")
	cmd.Flags().BoolVar(&ssl, "ssl", false, "only list https nodes")
	return cmd
}
