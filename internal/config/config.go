package config

import (
	"crypto/tls"
	"fmt"
	"os/user"
	"path/filepath"

	"github.com/eagraf/porch/core/rules"
	"github.com/eagraf/porch/internal/constants"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	viper "github.com/spf13/viper"
)

func loadEnv(v *viper.Viper) error {
	err := v.BindEnv("debug", "DEBUG")
	if err != nil {
		return err
	}
	v.SetDefault("debug", false)

	err = v.BindEnv("porch_path", "PORCH_PATH")
	if err != nil {
		return err
	}
	home, err := homedir()
	if err != nil {
		return err
	}
	v.SetDefault("porch_path", filepath.Join(home, ".porch"))

	err = v.BindEnv("port", "PORCH_PORT")
	if err != nil {
		return err
	}
	v.SetDefault("port", constants.DefaultPortReverseProxy)

	err = v.BindEnv("admin_port", "PORCH_ADMIN_PORT")
	if err != nil {
		return err
	}
	v.SetDefault("admin_port", constants.DefaultPortAdminAPI)

	err = v.BindEnv("use_tls", "USE_TLS")
	if err != nil {
		return err
	}
	v.SetDefault("use_tls", false)

	err = v.BindEnv("hostname", "PORCH_HOSTNAME")
	if err != nil {
		return err
	}
	v.SetDefault("hostname", "porch")

	err = v.BindEnv("tailscale_authkey", "TS_AUTHKEY")
	if err != nil {
		return err
	}

	err = v.BindEnv("tailscale_funnel_enabled", "TS_FUNNEL_ENABLED")
	if err != nil {
		return err
	}

	return nil
}

func loadViperConfig() (*viper.Viper, error) {
	v := viper.New()

	err := loadEnv(v)
	if err != nil {
		return nil, err
	}

	home, err := homedir()
	if err != nil {
		return nil, err
	}

	v.AddConfigPath(filepath.Join(home, ".porch"))
	v.AddConfigPath(v.GetString("porch_path"))

	v.SetConfigType("yml")
	v.SetConfigName("porch")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	return v, nil
}

// Config is the process-wide configuration. It is loaded once at startup and
// treated as read-only afterwards; route rules and error pages are only
// re-read on restart.
type Config struct {
	viper *viper.Viper
}

func NewConfig() (*Config, error) {
	v, err := loadViperConfig()
	if err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var config Config
	err := v.Unmarshal(&config)
	if err != nil {
		return nil, err
	}
	config.viper = v
	return &config, nil
}

// NewTestConfig returns a Config suitable for testing. A nil viper instance
// gets replaced with an empty one carrying only the defaults.
func NewTestConfig(optionalViper *viper.Viper) (*Config, error) {
	v := optionalViper
	if v == nil {
		v = viper.New()
	}
	if err := loadEnv(v); err != nil {
		return nil, err
	}
	return NewConfigFromViper(v)
}

func (c *Config) LogLevel() zerolog.Level {
	if c.viper.GetBool("debug") {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func (c *Config) PorchPath() string {
	return c.viper.GetString("porch_path")
}

// SitesPath is the base directory that relative file server rule targets are
// resolved against.
func (c *Config) SitesPath() string {
	path := c.viper.GetString("sites_path")
	if path == "" {
		return filepath.Join(c.PorchPath(), "sites")
	}
	return path
}

func (c *Config) AdminPort() string {
	return c.viper.GetString("admin_port")
}

func (c *Config) ReverseProxyPort() string {
	if c.TailscaleFunnelEnabled() {
		return constants.PortReverseProxyTSFunnel
	}
	return c.viper.GetString("port")
}

func (c *Config) Hostname() string {
	return c.viper.GetString("hostname")
}

func (c *Config) UseTLS() bool {
	return c.viper.GetBool("use_tls")
}

func (c *Config) TLSConfig() (*tls.Config, error) {
	if !c.UseTLS() {
		return nil, nil
	}
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
	}, nil
}

func (c *Config) CertPath() string {
	return filepath.Join(c.PorchPath(), "certificates", "porch_cert.pem")
}

func (c *Config) KeyPath() string {
	return filepath.Join(c.PorchPath(), "certificates", "porch_key.pem")
}

func (c *Config) TailscaleAuthkey() string {
	return c.viper.GetString("tailscale_authkey")
}

func (c *Config) TailscaleStatePath() string {
	// Note: this is intentionally not configurable for simplicity's sake.
	return filepath.Join(c.PorchPath(), "tailscale_state")
}

func (c *Config) TailscaleFunnelEnabled() bool {
	if c.TailscaleAuthkey() != "" {
		return c.viper.GetBool("tailscale_funnel_enabled")
	}
	return false
}

// Routes returns the route rule table in declaration order.
func (c *Config) Routes() ([]rules.Rule, error) {
	var set []rules.Rule
	err := c.viper.UnmarshalKey("routes", &set, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	))
	if err != nil {
		return nil, fmt.Errorf("unmarshalling routes: %w", err)
	}
	return set, nil
}

// ErrorPagesRoot is the directory that error page file names are resolved against.
func (c *Config) ErrorPagesRoot() string {
	return c.viper.GetString("error_pages.root")
}

// ErrorPageFiles maps HTTP status codes to error page file names.
func (c *Config) ErrorPageFiles() (map[int]string, error) {
	var pages map[int]string
	err := c.viper.UnmarshalKey("error_pages.pages", &pages)
	if err != nil {
		return nil, fmt.Errorf("unmarshalling error pages: %w", err)
	}
	return pages, nil
}

func homedir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}
	return usr.HomeDir, nil
}
