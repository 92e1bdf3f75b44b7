// Package config loads reportctl settings from flags, REPORTCTL_* variables
// and ~/.reportctl.yaml, in that order of precedence.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	appconfig "report-assembler/config"

	"github.com/spf13/viper"
)

type Config struct {
	PolisAPI PolisAPIConfig `mapstructure:"polis_api"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Output   OutputConfig   `mapstructure:"output"`
}

type PolisAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	CorrelationMatrix bool          `mapstructure:"correlation_matrix"`
	CommentSelection  bool          `mapstructure:"comment_selection"`
	StrictValidation  bool          `mapstructure:"strict_validation"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Load reads the configuration into v. Flags must already be bound to v.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".reportctl")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REPORTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("polis_api.base_url", "http://localhost:5000")
	v.SetDefault("polis_api.timeout", 15*time.Second)
	v.SetDefault("report.correlation_matrix", true)
	v.SetDefault("report.comment_selection", true)
	v.SetDefault("report.strict_validation", false)
	v.SetDefault("report.timeout", 2*time.Minute)
	v.SetDefault("logging.level", "warn")
	v.SetDefault("output.colors", true)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.PolisAPI.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("polis_api.base_url must be an absolute URL, got %q", cfg.PolisAPI.BaseURL)
	}
	if cfg.PolisAPI.Timeout <= 0 {
		return fmt.Errorf("polis_api.timeout must be positive, got %v", cfg.PolisAPI.Timeout)
	}
	if cfg.Report.Timeout <= 0 {
		return fmt.Errorf("report.timeout must be positive, got %v", cfg.Report.Timeout)
	}
	return nil
}

// ServiceConfig returns the service configuration the assembly pipeline is
// built from, with the reportctl settings applied on top.
func (c *Config) ServiceConfig() (*appconfig.Config, error) {
	svc, err := appconfig.NewConfig()
	if err != nil {
		return nil, err
	}
	svc.PolisAPI.BaseURL = c.PolisAPI.BaseURL
	svc.PolisAPI.RequestTimeout = c.PolisAPI.Timeout
	svc.Report.CorrelationMatrixEnabled = c.Report.CorrelationMatrix
	svc.Report.CommentSelectionEnabled = c.Report.CommentSelection
	svc.Report.StrictValidation = c.Report.StrictValidation
	svc.Redis.Enabled = false
	return svc, nil
}
