package main

import (
	"fmt"
	"os"

	"github.com/riztech/portfolio-api/cmd/configure/commands"
	"github.com/spf13/cobra"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "portfolio-configure",
		Short: "Operations tool for the portfolio contact relay",
		Long:  "CLI tool for inspecting the relay policy, sending test submissions and managing client rate-limit windows",
	}

	rootCmd.AddCommand(commands.NewPolicyCmd())
	rootCmd.AddCommand(commands.NewTestCmd())
	rootCmd.AddCommand(commands.NewRatelimitCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
