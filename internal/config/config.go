package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
// Portfolio defaults match the dashboard's initial operator inputs.
func Defaults() Config {
	return Config{
		Agent: AgentConfig{
			Region:         "us-east-1",
			TimeoutSeconds: 120,
		},
		Dashboard: DashboardConfig{
			Port: 18790,
			Bind: "loopback",
		},
		Portfolio: PortfolioConfig{
			AvailableCapital:          1_000_000,
			DelinquencyRate:           0.035,
			MonthlyDisbursementTarget: 500_000,
		},
		Simulation: SimulationConfig{
			Seed:         42,
			DefaultCount: 20,
			MaxCount:     100,
			Concurrency:  4,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			TTLMinutes: 15,
		},
		History: HistoryConfig{
			Store: "sqlite",
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
