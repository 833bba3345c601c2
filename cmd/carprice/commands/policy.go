package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sozercan/carprice/internal/pricing"
)

func (c *CLI) newPolicyCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Print the adjustment policy as YAML",
		Long:  "Print the adjustment policy. With --file the file is validated and merged over the built-in defaults.",
		RunE: func(_ *cobra.Command, _ []string) error {
			p, err := pricing.LoadPolicy(file)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(c.out)
			enc.SetIndent(2)
			if err := enc.Encode(p); err != nil {
				return fmt.Errorf("encode policy: %w", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "policy file to validate")

	return cmd
}

func (c *CLI) newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the labels and ranges the estimator accepts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.loadApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			return enc.Encode(a.Estimator.Options())
		},
	}
}
