package app

import (
	"time"
)

const (
	appName         = "registrar"
	envPrefix       = "REGISTRAR_"
	defaultTenant   = "demo"
	defaultPageSize = 20
	defaultLogLevel = "warn"
	defaultTheme    = "mocha"
	defaultAddr     = "127.0.0.1:8080"
	defaultTimeout  = 10 * time.Second
	defaultSeedSize = 24
)

// Config is the resolved configuration of one invocation.
type Config struct {
	// APIURL selects the REST backend. Empty means the local store.
	APIURL         string
	Tenant         string
	DataDir        string
	PageSize       int
	LogFile        string
	LogLevel       string
	Theme          string
	PruneSelection bool
	Addr           string
	RateLimit      string
	Timeout        time.Duration
	NoColor        bool
}

// ConfigFile is the on-disk config.yaml. Pointers tell "unset" from zero.
type ConfigFile struct {
	APIURL         string `yaml:"api_url,omitempty"`
	Tenant         string `yaml:"tenant,omitempty"`
	DataDir        string `yaml:"data_dir,omitempty"`
	PageSize       *int   `yaml:"page_size,omitempty"`
	LogFile        string `yaml:"log_file,omitempty"`
	LogLevel       string `yaml:"log_level,omitempty"`
	Theme          string `yaml:"theme,omitempty"`
	PruneSelection *bool  `yaml:"prune_selection,omitempty"`
	Addr           string `yaml:"addr,omitempty"`
	RateLimit      string `yaml:"rate_limit,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`
}

// envConfig mirrors ConfigFile for REGISTRAR_* variables.
type envConfig struct {
	APIURL         string         `env:"API_URL"`
	Tenant         string         `env:"TENANT"`
	DataDir        string         `env:"DATA_DIR"`
	PageSize       *int           `env:"PAGE_SIZE"`
	LogFile        string         `env:"LOG_FILE"`
	LogLevel       string         `env:"LOG_LEVEL"`
	Theme          string         `env:"THEME"`
	PruneSelection *bool          `env:"PRUNE_SELECTION"`
	Addr           string         `env:"ADDR"`
	RateLimit      string         `env:"RATE_LIMIT"`
	Timeout        *time.Duration `env:"TIMEOUT"`
}

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	apiURL   string
	tenant   string
	dataDir  string
	pageSize int
	logFile  string
	logLevel string
	theme    string
	noColor  bool
}
