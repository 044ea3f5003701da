package commands

import (
	"fmt"

	"github.com/riztech/portfolio-api/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewPolicyCmd creates the policy inspection command.
func NewPolicyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policy",
		Short: "Print the effective relay policy",
		Long:  "Resolves environment variables and the optional policy file and prints the policy the server would run with, as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out, err := yaml.Marshal(cfg.Policy)
			if err != nil {
				return fmt.Errorf("marshal policy: %w", err)
			}

			fmt.Print(string(out))
			return nil
		},
	}
}
