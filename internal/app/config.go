package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vburojevic/registrar/internal/app/tui/theme"
	applog "github.com/vburojevic/registrar/internal/log"
	"github.com/vburojevic/registrar/internal/query"
)

// dotEnvFiles are loaded from the working directory. Earlier files win
// because godotenv never overrides a variable that is already set.
var dotEnvFiles = []string{".env.local", ".env"}

func defaultConfig() Config {
	return Config{
		Tenant:   defaultTenant,
		DataDir:  defaultDataDir(),
		PageSize: defaultPageSize,
		LogLevel: defaultLogLevel,
		Theme:    defaultTheme,
		Addr:     defaultAddr,
		Timeout:  defaultTimeout,
	}
}

// loadConfig layers config.yaml, .env files and REGISTRAR_* variables over
// the defaults. Flags are applied later by cfgFromFlags.
func loadConfig() (Config, error) {
	cfg := defaultConfig()

	p, err := configFilePath()
	if err != nil {
		return cfg, err
	}
	if err := applyConfigFile(&cfg, p); err != nil {
		return cfg, err
	}
	if _, err := loadDotEnv(dotEnvFiles); err != nil {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg, env.ToMap(os.Environ())); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// loadDotEnv loads the files that exist and reports how many did.
func loadDotEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if st, err := os.Stat(f); err == nil && !st.IsDir() {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func applyConfigFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	var cf ConfigFile
	if err := yaml.Unmarshal(b, &cf); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	setString(&cfg.APIURL, cf.APIURL)
	setString(&cfg.Tenant, cf.Tenant)
	setString(&cfg.DataDir, expandHome(cf.DataDir))
	setString(&cfg.LogFile, expandHome(cf.LogFile))
	setString(&cfg.LogLevel, cf.LogLevel)
	setString(&cfg.Theme, cf.Theme)
	setString(&cfg.Addr, cf.Addr)
	setString(&cfg.RateLimit, cf.RateLimit)
	if cf.PageSize != nil {
		cfg.PageSize = *cf.PageSize
	}
	if cf.PruneSelection != nil {
		cfg.PruneSelection = *cf.PruneSelection
	}
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("parse %s: timeout: %w", path, err)
		}
		cfg.Timeout = d
	}
	return nil
}

func applyEnv(cfg *Config, environ map[string]string) error {
	var ec envConfig
	if err := env.ParseWithOptions(&ec, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	setString(&cfg.APIURL, ec.APIURL)
	setString(&cfg.Tenant, ec.Tenant)
	setString(&cfg.DataDir, expandHome(ec.DataDir))
	setString(&cfg.LogFile, expandHome(ec.LogFile))
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.Theme, ec.Theme)
	setString(&cfg.Addr, ec.Addr)
	setString(&cfg.RateLimit, ec.RateLimit)
	if ec.PageSize != nil {
		cfg.PageSize = *ec.PageSize
	}
	if ec.PruneSelection != nil {
		cfg.PruneSelection = *ec.PruneSelection
	}
	if ec.Timeout != nil {
		cfg.Timeout = *ec.Timeout
	}
	return nil
}

// cfgFromFlags applies the flags the user actually set and validates the
// result.
func cfgFromFlags(base Config, f rootFlags, changed func(name string) bool) (Config, error) {
	cfg := base
	if changed("api-url") {
		cfg.APIURL = strings.TrimSpace(f.apiURL)
	}
	if changed("tenant") {
		cfg.Tenant = f.tenant
	}
	if changed("data") {
		cfg.DataDir = expandHome(f.dataDir)
	}
	if changed("page-size") {
		cfg.PageSize = f.pageSize
	}
	if changed("log-file") {
		cfg.LogFile = expandHome(f.logFile)
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("theme") {
		cfg.Theme = f.theme
	}
	if f.noColor {
		cfg.NoColor = true
	}
	cfg.Tenant = strings.TrimSpace(cfg.Tenant)
	cfg.Theme = strings.ToLower(strings.TrimSpace(cfg.Theme))
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	if cfg.PageSize < 1 || cfg.PageSize > query.MaxPageSize {
		return fmt.Errorf("invalid page size %d: must be between 1 and %d", cfg.PageSize, query.MaxPageSize)
	}
	if _, err := applog.ParseLevel(cfg.LogLevel); err != nil {
		return err
	}
	if cfg.Tenant == "" {
		return errors.New("tenant must not be empty")
	}
	if cfg.Theme != "" && !slices.Contains(theme.Names(), cfg.Theme) {
		return fmt.Errorf("unknown theme %q (available: %s)", cfg.Theme, strings.Join(theme.Names(), ", "))
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s", cfg.Timeout)
	}
	if cfg.APIURL == "" && strings.TrimSpace(cfg.DataDir) == "" {
		return errors.New("either an API URL or a data directory is required")
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func newConfigCmd(cfg func() Config) *cobra.Command {
	var (
		show bool
		init bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialize the registrar config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := configFilePath()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if init {
				return initConfigFile(out, p)
			}
			if show {
				printConfig(out, p, cfg())
				return nil
			}
			return cmd.Help()
		},
	}
	cmd.Flags().BoolVar(&show, "show", true, "Show the resolved config (default)")
	cmd.Flags().BoolVar(&init, "init", false, "Write a default config file if missing")
	return cmd
}

func initConfigFile(out io.Writer, p string) error {
	if err := ensureAppDirs(); err != nil {
		return err
	}
	if _, err := os.Stat(p); err == nil {
		fmt.Fprintf(out, "Config already exists: %s\n", p)
		return nil
	}
	pageSize := defaultPageSize
	prune := false
	cf := ConfigFile{
		Tenant:         defaultTenant,
		DataDir:        defaultDataDir(),
		PageSize:       &pageSize,
		LogLevel:       defaultLogLevel,
		Theme:          defaultTheme,
		PruneSelection: &prune,
		Addr:           defaultAddr,
		Timeout:        defaultTimeout.String(),
	}
	b, err := yaml.Marshal(cf)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s\n", p)
	return nil
}

func printConfig(out io.Writer, p string, cfg Config) {
	source := cfg.APIURL
	if source == "" {
		source = "local store"
	}
	fmt.Fprintf(out, "Config file: %s\n", p)
	fmt.Fprintf(out, "  backend: %s\n", source)
	fmt.Fprintf(out, "  tenant: %s\n", cfg.Tenant)
	fmt.Fprintf(out, "  data_dir: %s\n", cfg.DataDir)
	fmt.Fprintf(out, "  page_size: %d\n", cfg.PageSize)
	fmt.Fprintf(out, "  log_file: %s\n", cfg.LogFile)
	fmt.Fprintf(out, "  log_level: %s\n", cfg.LogLevel)
	fmt.Fprintf(out, "  theme: %s\n", cfg.Theme)
	fmt.Fprintf(out, "  prune_selection: %v\n", cfg.PruneSelection)
	fmt.Fprintf(out, "  addr: %s\n", cfg.Addr)
	fmt.Fprintf(out, "  rate_limit: %s\n", cfg.RateLimit)
	fmt.Fprintf(out, "  timeout: %s\n", cfg.Timeout)
}
