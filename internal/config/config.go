// Package config loads runtime settings for the ocppcred command.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: OCPPCRED_LOG_LEVEL, OCPPCRED_DRIVER, OCPPCRED_ALLOW_EMPTY.
//  3. Global flags placed before the sub-command:
//
//	-log-level string   debug, info, warn or error
//	-driver string      driver for new credentials (sha512-salted, bcrypt, argon2id)
//	-allow-empty        let encode store an empty password as ""
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/hasbyte1/ocpp-credentials/credential"
)

// Config holds the ocppcred settings.
type Config struct {
	LogLevel   string
	Driver     credential.DriverName
	AllowEmpty bool
}

// LoadDefaults populates c with defaults. The management backend only reads
// sha512-salted values, so that is the default driver.
func (c *Config) LoadDefaults() {
	c.LogLevel = "warn"
	c.Driver = credential.DriverSaltedSHA512
	c.AllowEmpty = false
}

// Load builds a Config from defaults, getenv and args, and returns the
// arguments left after the global flags. Usage errors are written to stderr.
func Load(args []string, getenv func(string) string, stderr io.Writer) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := cfg.applyEnv(getenv); err != nil {
		return nil, nil, err
	}

	fs := flag.NewFlagSet("ocppcred", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	driver := fs.String("driver", string(cfg.Driver), "driver for new credentials")
	fs.BoolVar(&cfg.AllowEmpty, "allow-empty", cfg.AllowEmpty, "store an empty password as an empty credential")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	cfg.Driver = credential.DriverName(*driver)

	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	return cfg, fs.Args(), nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("OCPPCRED_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("OCPPCRED_DRIVER"); v != "" {
		c.Driver = credential.DriverName(v)
	}
	if v := getenv("OCPPCRED_ALLOW_EMPTY"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: OCPPCRED_ALLOW_EMPTY: %w", err)
		}
		c.AllowEmpty = b
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Driver {
	case credential.DriverSaltedSHA512, credential.DriverBcrypt, credential.DriverArgon2id:
		return nil
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
}
