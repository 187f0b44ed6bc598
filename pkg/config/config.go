package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/c9s/rbtree/pkg/util"
)

const (
	DefaultBind            = ":8080"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultTreeName        = "default"
)

type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	du, err := time.ParseDuration(s)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %q", s)
	}

	*d = Duration(du)
	return nil
}

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

type ServerConfig struct {
	Bind            string   `json:"bind" yaml:"bind"`
	ShutdownTimeout Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`

	// RateLimit limits the mutating routes, see util.ParseRateLimitSyntax
	RateLimit string `json:"rateLimit,omitempty" yaml:"rateLimit,omitempty"`

	// VerifyInterval is a cron spec, e.g. "@every 1m"
	VerifyInterval string `json:"verifyInterval,omitempty" yaml:"verifyInterval,omitempty"`
}

type TreeConfig struct {
	Name           string  `json:"name" yaml:"name"`
	DumpOnMutation bool    `json:"dumpOnMutation" yaml:"dumpOnMutation"`
	Preload        []int64 `json:"preload,omitempty" yaml:"preload,omitempty"`
}

type Config struct {
	Server ServerConfig `json:"server" yaml:"server"`
	Tree   TreeConfig   `json:"tree" yaml:"tree"`
}

func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Server.Bind == "" {
		c.Server.Bind = DefaultBind
	}

	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(DefaultShutdownTimeout)
	}

	if c.Tree.Name == "" {
		c.Tree.Name = DefaultTreeName
	}
}

func (c *Config) Validate() error {
	if c.Server.RateLimit != "" {
		if _, err := util.ParseRateLimitSyntax(c.Server.RateLimit); err != nil {
			return errors.Wrap(err, "server.rateLimit")
		}
	}

	return nil
}

func Load(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, errors.Wrapf(err, "can not read config file %s", configFile)
	}

	return LoadFromBytes(data)
}

func LoadFromBytes(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(err, "can not parse yaml config")
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}
