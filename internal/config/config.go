// Package config loads prepctl settings from a YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables recognised by Load.
const (
	EnvAPIURL         = "PREPCTL_API_URL"
	EnvOpenAIKey      = "PREPCTL_OPENAI_API_KEY"
	EnvRazorpaySecret = "PREPCTL_RAZORPAY_KEY_SECRET"
	EnvListenAddr     = "PREPCTL_LISTEN_ADDR"
	EnvCodeLength     = "PREPCTL_CODE_LENGTH"
	EnvConfigFile     = "PREPCTL_CONFIG"
)

// Config is the full configuration.
type Config struct {
	APIURL      string        `yaml:"api_url"`
	CodeLength  int           `yaml:"code_length"`
	SessionFile string        `yaml:"session_file"`
	LogFile     string        `yaml:"log_file"`
	Server      ServerConfig  `yaml:"server"`
	OpenAI      OpenAIConfig  `yaml:"openai"`
	Razorpay    PaymentConfig `yaml:"razorpay"`
}

// ServerConfig configures the proxy routes.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// OpenAIConfig configures speech transcription and synthesis.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Voice   string `yaml:"voice"`
}

// PaymentConfig holds the checkout provider secret used to verify
// payment signatures.
type PaymentConfig struct {
	KeySecret string `yaml:"key_secret"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		CodeLength:  6,
		SessionFile: filepath.Join(stateDir(), "session.yaml"),
		LogFile:     filepath.Join(stateDir(), "prepctl.log"),
		Server:      ServerConfig{ListenAddr: ":8080"},
		OpenAI:      OpenAIConfig{Voice: "alloy"},
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "prepctl.yaml"
	}
	return filepath.Join(dir, "prepctl", "config.yaml")
}

// Load reads path (a missing file is fine), applies environment overrides
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	default:
		defer f.Close()
		if err := decode(f, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %q: %w", path, err)
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults, without consulting
// the environment.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := decode(r, cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvOpenAIKey); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv(EnvRazorpaySecret); v != "" {
		cfg.Razorpay.KeySecret = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv(EnvCodeLength); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q is not a number", EnvCodeLength, v)
		}
		cfg.CodeLength = n
	}
	return nil
}

// Validate checks cfg and returns every problem found, joined.
func Validate(cfg *Config) error {
	var errs []error
	if cfg.APIURL != "" {
		u, err := url.Parse(cfg.APIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("api_url %q is not an absolute URL", cfg.APIURL))
		}
	}
	if cfg.CodeLength < 1 || cfg.CodeLength > 12 {
		errs = append(errs, fmt.Errorf("code_length %d must be between 1 and 12", cfg.CodeLength))
	}
	if strings.TrimSpace(cfg.Server.ListenAddr) == "" {
		errs = append(errs, errors.New("server.listen_addr must not be empty"))
	}
	return errors.Join(errs...)
}

// RequireAPI reports an error when no backend URL is configured.
func (c *Config) RequireAPI() error {
	if c.APIURL == "" {
		return fmt.Errorf("%s (or api_url in the config file) is required", EnvAPIURL)
	}
	return nil
}

func stateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "prepctl")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "prepctl")
	}
	return "."
}
