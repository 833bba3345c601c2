// Package commands implements the carprice command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sozercan/carprice/internal/app"
	"github.com/sozercan/carprice/internal/config"
)

// CLI represents the carprice command line interface.
type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer

	// loadApp builds the estimator; replaced in tests.
	loadApp func(ctx context.Context) (*app.App, error)
}

// New creates a CLI that writes results to out.
func New(out io.Writer) *CLI {
	rootCmd := &cobra.Command{
		Use:           "carprice",
		Short:         "Estimate used car prices in lakhs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	c := &CLI{
		rootCmd: rootCmd,
		out:     out,
		loadApp: loadFromEnv,
	}

	rootCmd.AddCommand(c.newEstimateCmd())
	rootCmd.AddCommand(c.newPolicyCmd())
	rootCmd.AddCommand(c.newOptionsCmd())
	rootCmd.AddCommand(c.newHistoryCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func loadFromEnv(ctx context.Context) (*app.App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return app.FromConfig(ctx, cfg)
}
