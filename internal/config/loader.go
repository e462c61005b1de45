package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. DWDASH_WAREHOUSE_PASSWORD.
const EnvPrefix = "DWDASH"

// Load reads configuration from the specified file path.
// It supports YAML files and performs environment variable substitution.
// Values can also be overridden with DWDASH_<SECTION>_<KEY> variables.
func Load(configPath string) (*Config, error) {
	v := newViper()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper creates a Config from an existing Viper instance.
// Useful for testing or when Viper is configured externally.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	substituteEnvVars(cfg)

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are not overwritten. A missing file is
// not an error when optional is true.
func LoadDotEnv(path string, optional bool) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{
		"warehouse.driver", "warehouse.host", "warehouse.port", "warehouse.user",
		"warehouse.password", "warehouse.database", "warehouse.path", "warehouse.tls",
		"server.listen", "server.title",
		"reports.seed", "reports.synthetic_pairing",
		"logging.level", "logging.format", "logging.output",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// envVarPattern matches ${VAR_NAME} or $VAR_NAME patterns
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// substituteEnvVars replaces ${VAR_NAME} patterns with environment variable values.
func substituteEnvVars(cfg *Config) {
	cfg.Warehouse.Host = expandEnvVar(cfg.Warehouse.Host)
	cfg.Warehouse.User = expandEnvVar(cfg.Warehouse.User)
	cfg.Warehouse.Password = expandEnvVar(cfg.Warehouse.Password)
	cfg.Warehouse.Database = expandEnvVar(cfg.Warehouse.Database)
	cfg.Warehouse.Path = expandEnvVar(cfg.Warehouse.Path)

	cfg.Server.Listen = expandEnvVar(cfg.Server.Listen)

	cfg.Logging.Output = expandEnvVar(cfg.Logging.Output)
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// Return original if env var not found
		return match
	})
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-zero/non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat, listen string, seed int64, reports []string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
	if listen != "" {
		c.Server.Listen = listen
	}
	if seed != 0 {
		c.Reports.Seed = seed
	}
	if len(reports) > 0 {
		c.Reports.Enabled = reports
	}
}
