package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riztech/portfolio-api/internal/config"
	"github.com/riztech/portfolio-api/internal/ratelimit"
	"github.com/spf13/cobra"
)

// NewRatelimitCmd creates the ratelimit inspection command with show and
// reset subcommands. Both talk to the Redis window store directly, so they
// require REDIS_URL; in-process windows cannot be inspected from outside the
// server.
func NewRatelimitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Inspect or reset a client's submission window",
	}
	cmd.AddCommand(newRatelimitShowCmd())
	cmd.AddCommand(newRatelimitResetCmd())
	return cmd
}

func openWindowStore(cfg *config.Config) (*ratelimit.RedisStore, error) {
	if cfg.RedisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is not set; the server is using in-process windows which cannot be inspected remotely")
	}
	return ratelimit.NewRedisStore(cfg.RedisURL)
}

func newRatelimitShowCmd() *cobra.Command {
	var ip string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the recorded submission attempts for a client IP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ip = strings.TrimSpace(ip)
			if ip == "" {
				return fmt.Errorf("--ip is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := openWindowStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			window := cfg.Policy.RateLimit.Window()
			attempts, err := store.Peek(context.Background(), ip, window)
			if err != nil {
				return fmt.Errorf("read window: %w", err)
			}

			fmt.Printf("Client %s: %d of %d attempts used in the last %s\n",
				ip, len(attempts), cfg.Policy.RateLimit.MaxRequests, window)
			for i, ts := range attempts {
				fmt.Printf("  %d. %s (expires %s)\n",
					i+1,
					ts.Format(time.RFC3339),
					ts.Add(window).Format(time.RFC3339),
				)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&ip, "ip", "", "Client IP address (required)")
	return cmd
}

func newRatelimitResetCmd() *cobra.Command {
	var ip string
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear the submission window for a client IP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ip = strings.TrimSpace(ip)
			if ip == "" {
				return fmt.Errorf("--ip is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := openWindowStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Reset(context.Background(), ip); err != nil {
				return fmt.Errorf("reset window: %w", err)
			}
			fmt.Printf("Window cleared for %s.\n", ip)
			return nil
		},
	}
	cmd.Flags().StringVar(&ip, "ip", "", "Client IP address (required)")
	return cmd
}
