// Package credentials resolves the token, default repository and API URL a
// ghdevops.Client is constructed with.
//
// Values are looked up once, in precedence order:
//
//  1. process environment (GITHUB_TOKEN, GITHUB_OWNER, GITHUB_REPO, GITHUB_API_URL)
//  2. a .env file, when WithEnvFile names one
//  3. a config file (YAML, TOML or JSON) with keys token, owner, repo and
//     api_url, when WithConfigFile names one
//
// An empty value counts as unset at every level.
package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ghdevops "github.com/gh-devops-mcp/client-go"
)

// Environment variables consulted by Resolve.
const (
	EnvToken  = "GITHUB_TOKEN"
	EnvOwner  = "GITHUB_OWNER"
	EnvRepo   = "GITHUB_REPO"
	EnvAPIURL = "GITHUB_API_URL"
)

// Config file keys.
const (
	KeyToken  = "token"
	KeyOwner  = "owner"
	KeyRepo   = "repo"
	KeyAPIURL = "api_url"
)

var envByKey = map[string]string{
	KeyToken:  EnvToken,
	KeyOwner:  EnvOwner,
	KeyRepo:   EnvRepo,
	KeyAPIURL: EnvAPIURL,
}

type resolveConfig struct {
	envFile        string
	requireEnvFile bool
	configFile     string
}

// Option configures Resolve.
type Option func(*resolveConfig)

// WithEnvFile reads KEY=value pairs from path. A missing file is ignored.
// The file never overrides a variable already set in the environment.
func WithEnvFile(path string) Option {
	return func(c *resolveConfig) {
		c.envFile = path
	}
}

// WithRequiredEnvFile is WithEnvFile, but a missing file is an error.
func WithRequiredEnvFile(path string) Option {
	return func(c *resolveConfig) {
		c.envFile = path
		c.requireEnvFile = true
	}
}

// WithConfigFile reads the lowest-precedence values from path. The format
// follows the file extension. A missing file is an error.
func WithConfigFile(path string) Option {
	return func(c *resolveConfig) {
		c.configFile = path
	}
}

// Resolve builds Credentials from the configured sources. It fails with
// ghdevops.ErrMissingToken when no source provides a token.
func Resolve(opts ...Option) (ghdevops.Credentials, error) {
	cfg := &resolveConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	v := viper.New()
	v.SetDefault(KeyAPIURL, ghdevops.DefaultAPIURL)

	if cfg.configFile != "" {
		v.SetConfigFile(cfg.configFile)
		if err := v.ReadInConfig(); err != nil {
			return ghdevops.Credentials{}, fmt.Errorf("read config file %s: %w", cfg.configFile, err)
		}
	}

	for key, env := range envByKey {
		if err := v.BindEnv(key, env); err != nil {
			return ghdevops.Credentials{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if cfg.envFile != "" {
		if err := applyEnvFile(v, cfg); err != nil {
			return ghdevops.Credentials{}, err
		}
	}

	creds := ghdevops.Credentials{
		Token:  v.GetString(KeyToken),
		Owner:  v.GetString(KeyOwner),
		Repo:   v.GetString(KeyRepo),
		APIURL: v.GetString(KeyAPIURL),
	}
	if creds.APIURL == "" {
		creds.APIURL = ghdevops.DefaultAPIURL
	}
	if err := creds.Validate(); err != nil {
		return ghdevops.Credentials{}, err
	}
	return creds, nil
}

// applyEnvFile layers .env values above the config file and below the
// process environment.
func applyEnvFile(v *viper.Viper, cfg *resolveConfig) error {
	values, err := godotenv.Read(cfg.envFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !cfg.requireEnvFile {
			return nil
		}
		return fmt.Errorf("read env file %s: %w", cfg.envFile, err)
	}

	for key, env := range envByKey {
		if os.Getenv(env) != "" {
			continue
		}
		if value := values[env]; value != "" {
			v.Set(key, value)
		}
	}
	return nil
}
