package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/starclip/wallet/internal/adapter/paypal"
	"github.com/starclip/wallet/internal/infrastructure/config"
	"github.com/starclip/wallet/internal/infrastructure/postgres"
)

var (
	baseURL string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wallet-cli",
		Short: "Wallet service CLI tool",
		Long:  `A command line interface for operating the wallet service.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the wallet API")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated endpoints")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	// Balance commands
	balanceCmd := &cobra.Command{
		Use:   "balance",
		Short: "Resolve the caller's available-for-withdrawal amount",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/wallet/balance")
		},
	}
	rootCmd.AddCommand(balanceCmd)

	// Withdrawal commands
	withdrawalsCmd := &cobra.Command{
		Use:   "withdrawals",
		Short: "Withdrawal operations",
	}
	withdrawalsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the caller's withdrawal requests",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/withdrawals")
		},
	})
	withdrawalsCmd.AddCommand(&cobra.Command{
		Use:   "approve <id>",
		Short: "Approve a pending withdrawal (admin)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			postJSON("/api/v1/withdrawals/"+args[0]+"/approve", nil)
		},
	})
	rootCmd.AddCommand(withdrawalsCmd)

	// Earnings commands
	earningsCmd := &cobra.Command{
		Use:   "earnings",
		Short: "Earnings operations",
	}
	earningsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the caller's earnings",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/earnings")
		},
	})
	earningsCmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show completed and pending earnings totals",
		Run: func(cmd *cobra.Command, args []string) {
			getJSON("/api/v1/earnings/summary")
		},
	})
	rootCmd.AddCommand(earningsCmd)

	// Migration commands
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migrations",
	}
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fail("migration failed: %v", err)
			}
			fmt.Println("migrations applied")
		},
	})
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustLoadConfig()
			if err := postgres.RunMigrationsDown(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
				fail("rollback failed: %v", err)
			}
			fmt.Println("migration rolled back")
		},
	})
	rootCmd.AddCommand(migrateCmd)

	// Gateway commands
	rootCmd.AddCommand(&cobra.Command{
		Use:   "verify-gateway",
		Short: "Check that PayPal credentials can obtain a token",
		Run: func(cmd *cobra.Command, args []string) {
			verifyGateway()
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fail("failed to load configuration: %v", err)
	}
	return cfg
}

func verifyGateway() {
	cfg := mustLoadConfig()

	client, err := paypal.NewClient(paypal.Config{
		ClientID:    cfg.PayPalClientID,
		Secret:      cfg.PayPalClientSecret,
		Environment: cfg.PayPalEnvironment,
		Timeout:     cfg.PayPalTimeout,
	}, nil)
	if err != nil {
		fail("gateway not configured: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := client.Verify(ctx); err != nil {
		fail("gateway verification FAILED: %v", err)
	}

	fmt.Printf("gateway verification PASSED (%s)\n", cfg.PayPalEnvironment)
}

func getJSON(path string) {
	doRequest(http.MethodGet, path, nil)
}

func postJSON(path string, body io.Reader) {
	doRequest(http.MethodPost, path, body)
}

func doRequest(method, path string, body io.Reader) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fail("failed to build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fail("request failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var pretty any
	if err := json.Unmarshal(respBody, &pretty); err != nil {
		fmt.Println(string(respBody))
		return
	}

	out, _ := json.MarshalIndent(pretty, "", "  ")
	fmt.Println(string(out))
}

func fail(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
	os.Exit(1)
}
