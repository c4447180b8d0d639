package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) gasPriceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gas-price",
		Short: "Print the current Base gas price",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			gp, err := c.fetchGasPrice(ctx)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(c.out, "%s gwei (%s wei, chain %d)\n", formatGwei(gp.Gwei), gp.Wei, gp.ChainID)
			return err
		},
	}
}

func formatGwei(g float64) string {
	return fmt.Sprintf("%.6g", g)
}
