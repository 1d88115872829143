package github

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ghbootstrap/pkg/config"
)

// DefaultTokenEnv is the environment variable read when no token flag is given
const DefaultTokenEnv = "GitHubAccessToken"

// Input holds the raw options of one synchronization run
type Input struct {
	Owner string
	Repo  string
	Token string

	// Config is used as-is when set; otherwise it is loaded from ConfigPath
	Config *config.Config

	// ConfigPath overrides the default config file location
	ConfigPath string
}

// Validator checks that a run has everything it needs before any network call
type Validator struct {
	// TokenEnv names the environment variable used as the token fallback
	TokenEnv string

	// LookupEnv reads the environment
	LookupEnv func(key string) (string, bool)

	// LoadConfig reads the label configuration from a path
	LoadConfig func(path string) (*config.Config, error)

	// DefaultConfigPath returns the path used when Input.ConfigPath is empty
	DefaultConfigPath func() (string, error)
}

// NewValidator creates a validator backed by the process environment and filesystem
func NewValidator() *Validator {
	return &Validator{
		TokenEnv:          DefaultTokenEnv,
		LookupEnv:         os.LookupEnv,
		LoadConfig:        config.LoadConfigFromPath,
		DefaultConfigPath: config.GetConfigPath,
	}
}

// Validate checks owner, repo, token and config in that order and reports
// the first one missing. Values that are present are returned as given;
// whitespace-only values count as missing. Only the config file is read.
func (v *Validator) Validate(in Input) (*SyncContext, error) {
	if isBlank(in.Owner) {
		return nil, ErrMissingOwner
	}

	if isBlank(in.Repo) {
		return nil, ErrMissingRepo
	}

	token, err := v.resolveToken(in.Token)
	if err != nil {
		return nil, err
	}

	cfg, err := v.resolveConfig(in)
	if err != nil {
		return nil, err
	}

	return &SyncContext{
		Credentials: Credentials{Owner: in.Owner, Repo: in.Repo, Token: token},
		Config:      cfg,
	}, nil
}

// resolveToken prefers the explicit token and falls back to the environment
func (v *Validator) resolveToken(explicit string) (string, error) {
	if !isBlank(explicit) {
		return explicit, nil
	}

	if v.TokenEnv != "" && v.LookupEnv != nil {
		if token, ok := v.LookupEnv(v.TokenEnv); ok && !isBlank(token) {
			return token, nil
		}
	}

	return "", &ValidationError{
		Field:   ErrMissingToken.Field,
		Message: fmt.Sprintf("--token or %s environment variable is required", v.TokenEnv),
	}
}

// resolveConfig returns the supplied config or loads it from disk
func (v *Validator) resolveConfig(in Input) (*config.Config, error) {
	if in.Config != nil {
		if err := in.Config.Validate(); err != nil {
			return nil, &ValidationError{Field: ErrMissingConfig.Field, Message: err.Error()}
		}
		return in.Config, nil
	}

	path := in.ConfigPath
	if path == "" {
		if v.DefaultConfigPath == nil {
			return nil, ErrMissingConfig
		}
		defaultPath, err := v.DefaultConfigPath()
		if err != nil {
			return nil, &ValidationError{Field: ErrMissingConfig.Field, Message: fmt.Sprintf("%s: %v", ErrMissingConfig.Message, err)}
		}
		path = defaultPath
	}

	cfg, err := v.LoadConfig(path)
	if err != nil {
		if errors.Is(err, config.ErrNotFound) {
			return nil, &ValidationError{Field: ErrMissingConfig.Field, Value: path, Message: ErrMissingConfig.Message}
		}
		return nil, err
	}

	return cfg, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
