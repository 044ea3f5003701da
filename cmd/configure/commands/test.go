package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/riztech/portfolio-api/internal/models"
	"github.com/spf13/cobra"
)

// NewTestCmd creates the test command
func NewTestCmd() *cobra.Command {
	var (
		target  string
		name    string
		email   string
		message string
	)

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Send a test submission",
		Long:  "Posts a contact form submission to a running relay and prints the response",
		RunE: func(cmd *cobra.Command, args []string) error {
			form := url.Values{}
			form.Set("name", name)
			form.Set("email", email)
			form.Set("message", message)

			fmt.Printf("Posting test submission to: %s\n", target)

			client := &http.Client{Timeout: 15 * time.Second}
			resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
			if err != nil {
				return fmt.Errorf("failed to reach relay: %w", err)
			}
			defer func() {
				if err := resp.Body.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close response body: %v\n", err)
				}
			}()

			var envelope models.ResponseEnvelope
			if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
				return fmt.Errorf("relay returned status %d with a non-JSON body: %w", resp.StatusCode, err)
			}

			fmt.Printf("\nStatus:  %d\n", resp.StatusCode)
			fmt.Printf("Success: %v\n", envelope.Success)
			fmt.Printf("Message: %s\n", envelope.Message)

			if !envelope.Success {
				return fmt.Errorf("submission rejected")
			}
			fmt.Println("\n✓ Test submission accepted")
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "url", "http://localhost:8080/contact.php", "Contact endpoint URL")
	cmd.Flags().StringVar(&name, "name", "Relay Smoke Test", "Sender name")
	cmd.Flags().StringVar(&email, "email", "smoke-test@example.com", "Sender email")
	cmd.Flags().StringVar(&message, "message", "This is a test submission sent by the configure tool.", "Message body")

	return cmd
}
