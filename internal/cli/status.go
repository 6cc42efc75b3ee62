package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soyeahso/scoredeck/internal/config"
	"github.com/soyeahso/scoredeck/internal/version"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show scoredeck status and configuration summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("scoredeck %s (commit %s)\n\n", version.Version, version.Commit)

			// Show paths
			fmt.Printf("Config:  %s\n", paths.Config)
			fmt.Printf("Data:    %s\n", paths.Data)
			fmt.Printf("Logs:    %s\n", paths.Logs)
			fmt.Println()

			cfg, err := config.Load(paths.Config)
			if err != nil {
				fmt.Printf("Config:  error loading: %v\n", err)
				return nil
			}

			// Agent runtime
			if cfg.Agent.RuntimeARN != "" {
				fmt.Printf("Agent:   arn=%s region=%s timeout=%ds\n",
					cfg.Agent.RuntimeARN, cfg.Agent.Region, cfg.Agent.TimeoutSeconds)
			} else {
				fmt.Println("Agent:   (runtime ARN not configured)")
			}

			// Dashboard
			auth := "off"
			if cfg.Dashboard.Auth.Token != "" || os.Getenv("SCOREDECK_DASHBOARD_TOKEN") != "" {
				auth = "token"
			}
			fmt.Printf("Server:  port=%d bind=%s auth=%s tls=%v\n",
				cfg.Dashboard.Port, cfg.Dashboard.Bind, auth, cfg.Dashboard.TLS.Enabled)

			// Storage
			fmt.Printf("History: store=%s\n", cfg.History.Store)
			if cfg.Cache.Backend != "none" && cfg.Cache.Backend != "" {
				fmt.Printf("Cache:   backend=%s ttl=%dm\n", cfg.Cache.Backend, cfg.Cache.TTLMinutes)
			} else {
				fmt.Println("Cache:   (disabled)")
			}

			// Portfolio baseline
			fmt.Printf("Portfolio: capital=%.0f delinquency=%.1f%% target=%.0f\n",
				cfg.Portfolio.AvailableCapital, cfg.Portfolio.DelinquencyRate*100,
				cfg.Portfolio.MonthlyDisbursementTarget)

			// Probe a locally running dashboard
			probeDashboard(cfg.Dashboard.Port)

			issues := config.Validate(&cfg)
			if len(issues) > 0 {
				fmt.Printf("\nValidation issues (%d):\n", len(issues))
				for _, issue := range issues {
					fmt.Printf("  - %s: %s\n", issue.Path, issue.Message)
				}
			}

			return nil
		},
	}

	return cmd
}

// probeDashboard checks whether a dashboard is serving on the local port.
func probeDashboard(port int) {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
	if err != nil {
		fmt.Println("Status:  not running")
		return
	}
	defer resp.Body.Close()

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Uptime  string `json:"uptime"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Status != "ok" {
		fmt.Println("Status:  responding but unhealthy")
		return
	}
	fmt.Printf("Status:  running (version %s, up %s)\n", body.Version, body.Uptime)
}
