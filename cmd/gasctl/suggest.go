package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chaincanvas/chaincanvas-backend/internal/bootstrap"
	"github.com/chaincanvas/chaincanvas-backend/internal/chain"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/domain"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/service"
	"github.com/chaincanvas/chaincanvas-backend/internal/gas_optimization/validator"
	"github.com/spf13/cobra"
)

var errSuggestionFailed = errors.New("suggestion failed")

func (c *cli) suggestCmd() *cobra.Command {
	var (
		user          string
		gasPrice      string
		transfers     string
		transfersFile string
	)

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Ask for a batching recommendation",
		Example: `  gasctl suggest --provider local --user 0x1111111111111111111111111111111111111111 \
    --gas-price 0.5 --transfers '[{"nftContractAddress":"0x...","tokenId":"1","toAddress":"0x..."}]'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			if transfersFile != "" {
				data, err := readInput(cmd.InOrStdin(), transfersFile)
				if err != nil {
					return err
				}
				transfers = string(data)
			}

			if gasPrice == "" {
				gp, err := c.fetchGasPrice(ctx)
				if err != nil {
					return err
				}
				gasPrice = strconv.FormatFloat(gp.Gwei, 'f', -1, 64)
			}

			suggester, closeFn, err := bootstrap.NewSuggester(ctx, c.cfg.LLM, c.logger, nil)
			if err != nil {
				return err
			}
			defer closeFn() //nolint:errcheck

			o := service.NewOrchestrator(validator.New(c.cfg.GasOptimizer.MinGasPriceGwei), suggester, c.logger)
			env := o.Handle(ctx, domain.RawInput{
				UserAddress:         user,
				CurrentGasPrice:     gasPrice,
				PendingTransactions: transfers,
			})

			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(env); err != nil {
				return err
			}
			if !env.Success {
				return errSuggestionFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Wallet address that owns the transfers")
	cmd.Flags().StringVar(&gasPrice, "gas-price", "", "Gas price in gwei (default: current price from BASE_RPC_URL)")
	cmd.Flags().StringVar(&transfers, "transfers", "", "Pending transfers as a JSON array")
	cmd.Flags().StringVarP(&transfersFile, "transfers-file", "f", "", "Read the transfer array from a file, or - for stdin")
	return cmd
}

func (c *cli) fetchGasPrice(ctx context.Context) (chain.GasPrice, error) {
	eth, err := chain.Dial(ctx, c.cfg.Chain.RPCURL, c.cfg.Chain.ChainID)
	if err != nil {
		return chain.GasPrice{}, err
	}
	defer eth.Close()
	return chain.NewGasPriceOracle(eth, nil, c.cfg.Chain.ChainID, c.logger).Refresh(ctx)
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transfers: %w", err)
	}
	return data, nil
}
