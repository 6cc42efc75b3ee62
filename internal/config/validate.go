package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	// Agent validation
	if cfg.Agent.RuntimeARN != "" && !strings.HasPrefix(cfg.Agent.RuntimeARN, "arn:") {
		issues = append(issues, ValidationIssue{
			Path:    "agent.runtimeArn",
			Message: fmt.Sprintf("must be a fully-qualified ARN, got %q", cfg.Agent.RuntimeARN),
		})
	}
	if cfg.Agent.TimeoutSeconds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "agent.timeoutSeconds",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Agent.TimeoutSeconds),
		})
	}

	// Dashboard validation
	if cfg.Dashboard.Port < 0 || cfg.Dashboard.Port > 65535 {
		issues = append(issues, ValidationIssue{
			Path:    "dashboard.port",
			Message: fmt.Sprintf("port must be 0-65535, got %d", cfg.Dashboard.Port),
		})
	}

	validBinds := []string{"auto", "lan", "loopback", "custom"}
	if cfg.Dashboard.Bind != "" && !slices.Contains(validBinds, cfg.Dashboard.Bind) {
		issues = append(issues, ValidationIssue{
			Path:    "dashboard.bind",
			Message: fmt.Sprintf("must be one of %v, got %q", validBinds, cfg.Dashboard.Bind),
		})
	}

	if cfg.Dashboard.TLS.Enabled {
		if cfg.Dashboard.TLS.CertPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "dashboard.tls.certPath",
				Message: "required when TLS is enabled",
			})
		}
		if cfg.Dashboard.TLS.KeyPath == "" {
			issues = append(issues, ValidationIssue{
				Path:    "dashboard.tls.keyPath",
				Message: "required when TLS is enabled",
			})
		}
	}

	// Portfolio validation
	if cfg.Portfolio.AvailableCapital < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "portfolio.availableCapital",
			Message: fmt.Sprintf("must be non-negative, got %v", cfg.Portfolio.AvailableCapital),
		})
	}
	if cfg.Portfolio.DelinquencyRate < 0 || cfg.Portfolio.DelinquencyRate > 1 {
		issues = append(issues, ValidationIssue{
			Path:    "portfolio.delinquencyRate",
			Message: fmt.Sprintf("must be a fraction in [0, 1], got %v", cfg.Portfolio.DelinquencyRate),
		})
	}
	if cfg.Portfolio.MonthlyDisbursementTarget < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "portfolio.monthlyDisbursementTarget",
			Message: fmt.Sprintf("must be non-negative, got %v", cfg.Portfolio.MonthlyDisbursementTarget),
		})
	}

	// Simulation validation
	if cfg.Simulation.DefaultCount < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "simulation.defaultCount",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Simulation.DefaultCount),
		})
	}
	if cfg.Simulation.MaxCount < cfg.Simulation.DefaultCount {
		issues = append(issues, ValidationIssue{
			Path:    "simulation.maxCount",
			Message: fmt.Sprintf("must be >= defaultCount (%d), got %d", cfg.Simulation.DefaultCount, cfg.Simulation.MaxCount),
		})
	}
	if cfg.Simulation.Concurrency < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "simulation.concurrency",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Simulation.Concurrency),
		})
	}

	// Cache validation
	validBackends := []string{"none", "memory", "redis"}
	if cfg.Cache.Backend != "" && !slices.Contains(validBackends, cfg.Cache.Backend) {
		issues = append(issues, ValidationIssue{
			Path:    "cache.backend",
			Message: fmt.Sprintf("must be one of %v, got %q", validBackends, cfg.Cache.Backend),
		})
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.Redis.Addr == "" {
		issues = append(issues, ValidationIssue{
			Path:    "cache.redis.addr",
			Message: "required when cache.backend is redis",
		})
	}

	// History validation
	validStores := []string{"sqlite", "memory"}
	if cfg.History.Store != "" && !slices.Contains(validStores, cfg.History.Store) {
		issues = append(issues, ValidationIssue{
			Path:    "history.store",
			Message: fmt.Sprintf("must be one of %v, got %q", validStores, cfg.History.Store),
		})
	}

	// Logging validation
	validLogLevels := []string{"silent", "fatal", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	validConsoleStyles := []string{"pretty", "json"}
	if cfg.Logging.ConsoleStyle != "" && !slices.Contains(validConsoleStyles, cfg.Logging.ConsoleStyle) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.consoleStyle",
			Message: fmt.Sprintf("must be one of %v, got %q", validConsoleStyles, cfg.Logging.ConsoleStyle),
		})
	}

	return issues
}
