package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	baseURL string
	ownerID string
	token   string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cashbook-cli",
		Short: "Cashbook CLI tool",
		Long:  `A command line interface for interacting with the Cashbook API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashbook API")
	rootCmd.PersistentFlags().StringVar(&ownerID, "owner", "", "Owner ID (sent as X-Owner-ID when auth is disabled)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (when auth is enabled)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(balanceCmd())
	rootCmd.AddCommand(profitCmd())
	rootCmd.AddCommand(summaryCmd())
	rootCmd.AddCommand(alertsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func balanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show the running cash balance",
		Run: func(cmd *cobra.Command, args []string) {
			getAndPrint("/api/v1/balance")
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "recalculate",
		Short: "Recompute the balance from every entry",
		Run: func(cmd *cobra.Command, args []string) {
			postAndPrint("/api/v1/balance/recalculate")
		},
	})

	return cmd
}

func profitCmd() *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "profit",
		Short: "Show accrual profit metrics",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/reports/profit"
			if from != "" || to != "" {
				path += "?from=" + from + "&to=" + to
			}

			getAndPrint(path)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Window end, exclusive (YYYY-MM-DD)")

	return cmd
}

func summaryCmd() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly cash summary",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/reports/summary"
			if month != "" {
				path += "?month=" + month
			}

			getAndPrint(path)
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "Month (YYYY-MM), defaults to the current one")

	return cmd
}

func alertsCmd() *cobra.Command {
	var includeDismissed bool

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List threshold alerts",
		Run: func(cmd *cobra.Command, args []string) {
			path := "/api/v1/alerts"
			if includeDismissed {
				path += "?include_dismissed=true"
			}

			getAndPrint(path)
		},
	}

	cmd.Flags().BoolVar(&includeDismissed, "all", false, "Include dismissed alerts")

	return cmd
}

func getAndPrint(path string) {
	doAndPrint(http.MethodGet, path)
}

func postAndPrint(path string) {
	doAndPrint(http.MethodPost, path)
}

func doAndPrint(method, path string) {
	req, err := http.NewRequest(method, baseURL+path, nil)
	if err != nil {
		fmt.Printf("Error building request: %v\n", err)
		os.Exit(1)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if ownerID != "" {
		req.Header.Set("X-Owner-ID", ownerID)
	}

	client := &http.Client{Timeout: timeout}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		fmt.Printf("Request FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, string(body))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		fmt.Printf("Failed to parse response: %v\n", err)
		os.Exit(1)
	}

	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to encode output: %v\n", err)
		return
	}

	fmt.Println(string(data))
}
