package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"walletclient/pkg/address"
	"walletclient/pkg/log"
)

const (
	DefaultConfigPath = "./configs/config.yaml"

	envPrefix = "WALLET"

	EnvProduction  = "production"
	EnvDevelopment = "development"

	defaultServerTimeout = 30 * time.Second
	defaultChainTimeout  = 15 * time.Second
	defaultConnIdle      = 5 * time.Minute
	defaultDecimals      = 6
)

type Server struct {
	BaseURL string `mapstructure:"baseUrl"`
	// InsecureSkipVerify disables TLS certificate checks. Development only.
	InsecureSkipVerify bool          `mapstructure:"insecureSkipVerify"`
	Timeout            time.Duration `mapstructure:"timeout"`
}

func (s *Server) Validate(env string) error {
	var err error
	if s.BaseURL == "" {
		err = multierr.Append(err, errors.New("you must provide server base url in a config"))
	} else if u, perr := url.Parse(s.BaseURL); perr != nil || u.Scheme == "" || u.Host == "" {
		err = multierr.Append(err, errors.Errorf("invalid server base url %q", s.BaseURL))
	}

	if s.Timeout <= 0 {
		err = multierr.Append(err, errors.New("server timeout must be positive"))
	}

	if s.InsecureSkipVerify && env == EnvProduction {
		err = multierr.Append(err, errors.New("insecureSkipVerify is not allowed in production"))
	}
	return err
}

type Chain struct {
	NodeURL  string        `mapstructure:"nodeUrl"`
	Prefix   string        `mapstructure:"prefix"`
	Timeout  time.Duration `mapstructure:"timeout"`
	ConnIdle time.Duration `mapstructure:"connIdle"`
	Decimals uint8         `mapstructure:"decimals"`
}

func (c *Chain) Validate() error {
	var err error
	if c.NodeURL == "" {
		err = multierr.Append(err, errors.New("you must provide chain node url in a config"))
	}
	if c.Prefix == "" {
		err = multierr.Append(err, errors.New("you must provide bech32 address prefix in a config"))
	}
	if c.Timeout <= 0 {
		err = multierr.Append(err, errors.New("chain timeout must be positive"))
	}
	// pooled connections must outlive any single call
	if c.ConnIdle > 0 && c.ConnIdle <= c.Timeout {
		err = multierr.Append(err, errors.New("chain connIdle must be longer than chain timeout"))
	}
	return err
}

// Auth holds the credentials used to open a backend session before calls
// that need one. Both are optional.
type Auth struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

func (a *Auth) Validate() error {
	if (a.Email == "") != (a.Password == "") {
		return errors.New("auth email and password must be provided together")
	}
	return nil
}

type Metrics struct {
	Addr string `mapstructure:"addr"`
}

type Config struct {
	Env     string     `mapstructure:"env"`
	Server  Server     `mapstructure:"server"`
	Chain   Chain      `mapstructure:"chain"`
	Auth    Auth       `mapstructure:"auth"`
	Logging log.Config `mapstructure:"log"`
	Metrics Metrics    `mapstructure:"metrics"`
}

func (c *Config) Validate() error {
	var err error
	if c.Env != EnvProduction && c.Env != EnvDevelopment {
		err = multierr.Append(err, errors.Errorf("unknown env %q", c.Env))
	}
	return multierr.Combine(err, c.Server.Validate(c.Env), c.Chain.Validate(), c.Auth.Validate())
}

// Load reads the config file at path (skipped when path is empty), applies
// WALLET_* environment overrides and validates the result.
func Load(path string) (*Config, error) {
	v := viper.New()

	// set reasonable defaults
	v.SetDefault("env", EnvProduction)
	v.SetDefault("server.baseUrl", "")
	v.SetDefault("server.insecureSkipVerify", false)
	v.SetDefault("server.timeout", defaultServerTimeout)
	v.SetDefault("chain.nodeUrl", "")
	v.SetDefault("chain.prefix", address.DefaultPrefix)
	v.SetDefault("chain.timeout", defaultChainTimeout)
	v.SetDefault("chain.connIdle", defaultConnIdle)
	v.SetDefault("chain.decimals", defaultDecimals)
	v.SetDefault("auth.email", "")
	v.SetDefault("auth.password", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("metrics.addr", "")

	// WALLET_SERVER_BASEURL overrides server.baseUrl and so on
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// read a config file
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read a file")
		}
	}

	// unmarshal to a config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal a config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}
