package config

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} patterns in strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR} patterns with environment variable values.
// Unset variables are left unchanged.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val, ok := os.LookupEnv(varName); ok {
			return val
		}
		return match
	})
}

// expandSensitiveFields processes environment variable references in
// credential fields so tokens and passwords can be stored as ${ENV_VAR}.
func expandSensitiveFields(cfg *Config) {
	cfg.Dashboard.Auth.Token = expandEnvVars(cfg.Dashboard.Auth.Token)
	cfg.Cache.Redis.Password = expandEnvVars(cfg.Cache.Redis.Password)
}

// Load reads the config file, applies environment overrides, and returns
// a merged Config. Missing files produce defaults only.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	expandSensitiveFields(&cfg)
	return cfg, nil
}

// LoadRaw reads the config file into a generic map for path-based access.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigError{Message: "failed to parse config: " + err.Error()}
	}
	return raw, nil
}

// SaveRaw writes a generic map back to a YAML config file.
func SaveRaw(path string, raw map[string]any) error {
	data, err := yaml.Marshal(raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// applyDefaults fills zero-value fields with sensible defaults.
// The portfolio baseline is defaulted as a block: a rate of zero is a
// legitimate value once any of the three fields is set.
func applyDefaults(cfg *Config) {
	if cfg.Agent.Region == "" {
		cfg.Agent.Region = "us-east-1"
	}
	if cfg.Agent.TimeoutSeconds == 0 {
		cfg.Agent.TimeoutSeconds = 120
	}
	if cfg.Dashboard.Port == 0 {
		cfg.Dashboard.Port = 18790
	}
	if cfg.Dashboard.Bind == "" {
		cfg.Dashboard.Bind = "loopback"
	}
	if (cfg.Portfolio == PortfolioConfig{}) {
		cfg.Portfolio = Defaults().Portfolio
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = 42
	}
	if cfg.Simulation.DefaultCount == 0 {
		cfg.Simulation.DefaultCount = 20
	}
	if cfg.Simulation.MaxCount == 0 {
		cfg.Simulation.MaxCount = 100
	}
	if cfg.Simulation.Concurrency == 0 {
		cfg.Simulation.Concurrency = 4
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTLMinutes == 0 {
		cfg.Cache.TTLMinutes = 15
	}
	if cfg.History.Store == "" {
		cfg.History.Store = "sqlite"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.ConsoleStyle == "" {
		cfg.Logging.ConsoleStyle = "pretty"
	}
}

// applyEnvOverrides reads SCOREDECK_* environment variables and overrides
// config values. The env always wins over the file, matching how the
// hosted-runner deployment supplies credentials as platform secrets.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SCOREDECK_AGENT_ARN"); v != "" {
		cfg.Agent.RuntimeARN = v
	}
	if v := os.Getenv("SCOREDECK_AGENT_REGION"); v != "" {
		cfg.Agent.Region = v
	}
	if v := os.Getenv("SCOREDECK_AWS_PROFILE"); v != "" {
		cfg.Agent.Profile = v
	}
	if v := os.Getenv("SCOREDECK_DASHBOARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Dashboard.Port = port
		}
	}
	if v := os.Getenv("SCOREDECK_DASHBOARD_BIND"); v != "" {
		cfg.Dashboard.Bind = v
	}
	if v := os.Getenv("SCOREDECK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
}
