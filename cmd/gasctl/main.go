package main

import (
	"fmt"
	"io"
	"os"

	"github.com/chaincanvas/chaincanvas-backend/config"
	"github.com/chaincanvas/chaincanvas-backend/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type cli struct {
	out      io.Writer
	provider string
	verbose  bool
	cfg      *config.Config
	logger   *zap.Logger
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:   "gasctl",
		Short: "ChainCanvas gas optimizer from the command line",
		Long: `gasctl runs the ChainCanvas gas optimizer once against a list of pending
NFT transfers and prints the response envelope as JSON.

Configuration is read from the environment (and .env) like the API server.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.provider != "" {
				if err := os.Setenv("LLM_PROVIDER", c.provider); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			c.cfg = cfg

			level := "warn"
			if c.verbose {
				level = "debug"
			}
			c.logger, err = logging.New("production", level)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.provider, "provider", "", "Suggestion backend: local, gemini or openai (default from LLM_PROVIDER)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(c.suggestCmd(), c.gasPriceCmd())
	return root
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
