package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/AmmannChristian/go-pandago/apierr"
)

// EnvPrefix prefixes the environment variables read by Load, e.g. PANDAGO_CLIENT_ID.
const EnvPrefix = "PANDAGO"

var fileKeys = []string{
	"client_id",
	"key_id",
	"scope",
	"private_key",
	"private_key_file",
	"country",
	"environment",
	"timeout",
}

// fileConfig mirrors the keys accepted in config files and environment variables.
type fileConfig struct {
	ClientID       string `mapstructure:"client_id"`
	KeyID          string `mapstructure:"key_id"`
	Scope          string `mapstructure:"scope"`
	PrivateKey     string `mapstructure:"private_key"`
	PrivateKeyFile string `mapstructure:"private_key_file"`
	Country        string `mapstructure:"country"`
	Environment    string `mapstructure:"environment"`
	Timeout        int    `mapstructure:"timeout"`
}

// Load reads settings from the config file at path (YAML, JSON or TOML; skipped when path is
// empty) and from PANDAGO_* environment variables, which take precedence. envFiles are loaded
// into the process environment first; without arguments an optional ./.env is used.
//
// private_key_file may replace private_key; the inline key wins when both are set.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		if len(envFiles) > 0 || !errors.Is(err, fs.ErrNotExist) {
			return nil, apierr.NewConfigurationError("", fmt.Sprintf("load env files: %v", err), err)
		}
	}

	vip := viper.New()
	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()
	for _, key := range fileKeys {
		if err := vip.BindEnv(key); err != nil {
			return nil, apierr.NewConfigurationError(key, "bind environment variable", err)
		}
	}

	vip.SetDefault("country", DefaultCountry)
	vip.SetDefault("environment", string(DefaultEnvironment))
	vip.SetDefault("timeout", int(DefaultTimeout/time.Second))

	if path != "" {
		vip.SetConfigFile(path)
		if err := vip.ReadInConfig(); err != nil {
			return nil, apierr.NewConfigurationError("", fmt.Sprintf("read config file %s: %v", path, err), err)
		}
	}

	var fc fileConfig
	if err := vip.Unmarshal(&fc); err != nil {
		return nil, apierr.NewConfigurationError("", fmt.Sprintf("decode settings: %v", err), err)
	}

	if fc.PrivateKey == "" && fc.PrivateKeyFile != "" {
		pem, err := os.ReadFile(fc.PrivateKeyFile)
		if err != nil {
			return nil, apierr.NewConfigurationError("private_key_file", err.Error(), err)
		}
		fc.PrivateKey = string(pem)
	}

	return New(Options{
		ClientID:       fc.ClientID,
		KeyID:          fc.KeyID,
		Scope:          fc.Scope,
		PrivateKey:     fc.PrivateKey,
		Country:        fc.Country,
		Environment:    fc.Environment,
		TimeoutSeconds: fc.Timeout,
	})
}
