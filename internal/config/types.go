package config

// Config is the root configuration for scoredeck.
type Config struct {
	Agent      AgentConfig      `yaml:"agent,omitempty"`
	Dashboard  DashboardConfig  `yaml:"dashboard,omitempty"`
	Portfolio  PortfolioConfig  `yaml:"portfolio,omitempty"`
	Simulation SimulationConfig `yaml:"simulation,omitempty"`
	Cache      CacheConfig      `yaml:"cache,omitempty"`
	History    HistoryConfig    `yaml:"history,omitempty"`
	Logging    LoggingConfig    `yaml:"logging,omitempty"`
}

// AgentConfig identifies the remote AgentCore runtime that scores applicants.
type AgentConfig struct {
	RuntimeARN     string `yaml:"runtimeArn,omitempty"`     // fully-qualified agent runtime ARN
	Region         string `yaml:"region,omitempty"`         // AWS region of the runtime
	Profile        string `yaml:"profile,omitempty"`        // shared-config profile for credentials
	Qualifier      string `yaml:"qualifier,omitempty"`      // runtime endpoint qualifier
	TimeoutSeconds int    `yaml:"timeoutSeconds,omitempty"` // per-invocation timeout
}

// DashboardConfig controls the dashboard HTTP/WebSocket server.
type DashboardConfig struct {
	Port           int           `yaml:"port,omitempty"`
	Bind           string        `yaml:"bind,omitempty"` // "auto" | "lan" | "loopback" | "custom"
	CustomBindHost string        `yaml:"customBindHost,omitempty"`
	Auth           DashboardAuth `yaml:"auth,omitempty"`
	TLS            DashboardTLS  `yaml:"tls,omitempty"`
	AllowedOrigins []string      `yaml:"allowedOrigins,omitempty"`
}

// DashboardAuth configures dashboard API authentication.
// An empty token disables auth (loopback-only deployments).
type DashboardAuth struct {
	Token string `yaml:"token,omitempty"`
}

// DashboardTLS configures TLS for the dashboard server.
type DashboardTLS struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	CertPath string `yaml:"certPath,omitempty"`
	KeyPath  string `yaml:"keyPath,omitempty"`
}

// PortfolioConfig is the operator-set portfolio baseline sent alongside
// every evaluation request.
type PortfolioConfig struct {
	AvailableCapital          float64 `yaml:"availableCapital,omitempty"`
	DelinquencyRate           float64 `yaml:"delinquencyRate,omitempty"`
	MonthlyDisbursementTarget float64 `yaml:"monthlyDisbursementTarget,omitempty"`
}

// SimulationConfig defines scenario-simulation behavior.
type SimulationConfig struct {
	Seed         int64 `yaml:"seed,omitempty"`
	DefaultCount int   `yaml:"defaultCount,omitempty"`
	MaxCount     int   `yaml:"maxCount,omitempty"`
	Concurrency  int   `yaml:"concurrency,omitempty"`
}

// CacheConfig selects the evaluation result cache backend.
type CacheConfig struct {
	Backend    string      `yaml:"backend,omitempty"` // "none" | "memory" | "redis"
	TTLMinutes int         `yaml:"ttlMinutes,omitempty"`
	Redis      RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig configures the redis cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// HistoryConfig selects the evaluation history store.
type HistoryConfig struct {
	Store string `yaml:"store,omitempty"` // "sqlite" | "memory"
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
	File         string `yaml:"file,omitempty"`
}
