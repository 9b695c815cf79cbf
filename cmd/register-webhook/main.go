// Command register-webhook creates the Calendly webhook subscription that
// points deliveries at a running instance of the API. One-shot operator
// tool: it reads the provider credentials from flags or the environment,
// creates the subscription, and prints the provider's response.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadbridge/leadbridge-api/pkg/calendly"
	"github.com/leadbridge/leadbridge-api/pkg/httpclient"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "register-webhook",
	Short: "Register the invitee.created webhook subscription",
	Long: "Creates a Calendly webhook subscription for invitee.created events " +
		"pointing at the given callback URL.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		callbackURL, _ := cmd.Flags().GetString("url")
		organization, _ := cmd.Flags().GetString("organization")
		scope, _ := cmd.Flags().GetString("scope")
		apiToken, _ := cmd.Flags().GetString("api-token")
		baseURL, _ := cmd.Flags().GetString("base-url")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if scope != "organization" && scope != "user" {
			return fmt.Errorf("scope must be one of: organization, user")
		}
		if apiToken == "" {
			return fmt.Errorf("api token is required (--api-token or CALENDLY_API_TOKEN)")
		}

		client := calendly.NewClient(baseURL, apiToken, time.Minute, httpclient.NewClientWithTimeout(timeout))

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		result, err := client.CreateWebhookSubscription(ctx, callbackURL, organization, scope)
		if err != nil {
			return fmt.Errorf("failed to create webhook subscription: %w", err)
		}

		fmt.Printf("Provider responded with status %d:\n%s\n", result.StatusCode, result.Body)
		if result.StatusCode < 200 || result.StatusCode >= 300 {
			return fmt.Errorf("subscription was not created")
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().String("url", "", "Callback URL the provider should deliver webhooks to")
	rootCmd.Flags().String("organization", "", "Calendly organization URI the subscription belongs to")
	rootCmd.Flags().String("scope", "organization", "Subscription scope: organization or user")
	rootCmd.Flags().String("api-token", os.Getenv("CALENDLY_API_TOKEN"), "Calendly API token")
	rootCmd.Flags().String("base-url", envOr("CALENDLY_API_BASE_URL", "https://api.calendly.com"), "Calendly API base URL")
	rootCmd.Flags().Duration("timeout", 30*time.Second, "Request timeout")

	for _, flag := range []string{"url", "organization"} {
		if err := rootCmd.MarkFlagRequired(flag); err != nil {
			panic(fmt.Sprintf("failed to mark %s as required: %v", flag, err))
		}
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
