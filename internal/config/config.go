package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"dom-snapshot/internal/domain/extractor"
	"dom-snapshot/internal/infrastructure/env"

	"gopkg.in/yaml.v3"
)

const (
	DriverRod        = "rod"
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"

	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

type Config struct {
	Driver    string          `yaml:"driver"`
	Browser   BrowserConfig   `yaml:"browser"`
	Extractor ExtractorConfig `yaml:"extractor"`
	HTTP      HTTPConfig      `yaml:"http"`
	MCP       MCPConfig       `yaml:"mcp"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Log       LogConfig       `yaml:"log"`
}

type BrowserConfig struct {
	Headless   bool          `yaml:"headless"`
	Timeout    time.Duration `yaml:"timeout"`
	SlowMotion time.Duration `yaml:"slow_motion"`
	NoSandbox  bool          `yaml:"no_sandbox"`
}

type ExtractorConfig struct {
	MaxDepth         int    `yaml:"max_depth"`
	MaxText          int    `yaml:"max_text"`
	MaxAttr          int    `yaml:"max_attr"`
	Attribute        string `yaml:"attribute"`
	ReuseIdentifiers bool   `yaml:"reuse_ids"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MCPConfig struct {
	Transport string `yaml:"transport"`
	Port      int    `yaml:"port"`
}

type DispatchConfig struct {
	// MaxObservation caps tool results handed back to a model, in bytes. 0 disables the cap.
	MaxObservation int `yaml:"max_observation"`
}

type LogConfig struct {
	Env   string `yaml:"env"`
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

func DefaultConfig() *Config {
	ex := extractor.DefaultConfig()
	return &Config{
		Driver: DriverRod,
		Browser: BrowserConfig{
			Headless: true,
			Timeout:  10 * time.Second,
		},
		Extractor: ExtractorConfig{
			MaxDepth:  ex.MaxDepth,
			MaxText:   ex.MaxTextLength,
			MaxAttr:   ex.MaxAttributeLength,
			Attribute: ex.IdentifierAttribute,
		},
		HTTP:     HTTPConfig{Addr: ":8080"},
		MCP:      MCPConfig{Transport: TransportStdio, Port: 8090},
		Dispatch: DispatchConfig{MaxObservation: 20000},
		Log:      LogConfig{Env: "prod", Level: "info"},
	}
}

// Load reads defaults, then the YAML file at path when given, then the
// environment.
func Load(path string, e *env.EnvService) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if e != nil {
		cfg.applyEnv(e)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(e *env.EnvService) {
	c.Driver = strings.ToLower(e.GetWithDefault("SNAPSHOT_DRIVER", c.Driver))

	c.Browser.Headless = e.GetBool("BROWSER_HEADLESS", c.Browser.Headless)
	c.Browser.Timeout = e.GetDuration("BROWSER_TIMEOUT", c.Browser.Timeout)
	c.Browser.SlowMotion = e.GetDuration("BROWSER_SLOW_MOTION", c.Browser.SlowMotion)
	c.Browser.NoSandbox = e.GetBool("BROWSER_NO_SANDBOX", c.Browser.NoSandbox)

	c.Extractor.MaxDepth = e.GetInt("EXTRACTOR_MAX_DEPTH", c.Extractor.MaxDepth)
	c.Extractor.MaxText = e.GetInt("EXTRACTOR_MAX_TEXT", c.Extractor.MaxText)
	c.Extractor.MaxAttr = e.GetInt("EXTRACTOR_MAX_ATTR", c.Extractor.MaxAttr)
	c.Extractor.Attribute = e.GetWithDefault("EXTRACTOR_ATTRIBUTE", c.Extractor.Attribute)
	c.Extractor.ReuseIdentifiers = e.GetBool("EXTRACTOR_REUSE_IDS", c.Extractor.ReuseIdentifiers)

	c.HTTP.Addr = e.GetWithDefault("HTTP_ADDR", c.HTTP.Addr)
	c.MCP.Transport = strings.ToLower(e.GetWithDefault("MCP_TRANSPORT", c.MCP.Transport))
	c.MCP.Port = e.GetInt("MCP_PORT", c.MCP.Port)
	c.Dispatch.MaxObservation = e.GetInt("DISPATCH_MAX_OBSERVATION", c.Dispatch.MaxObservation)

	c.Log.Env = e.GetWithDefault("LOG_ENV", c.Log.Env)
	c.Log.Level = e.GetWithDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Dir = e.GetWithDefault("LOG_DIR", c.Log.Dir)
}

func (c *Config) Validate() error {
	switch c.Driver {
	case DriverRod, DriverChromedp, DriverPlaywright:
	default:
		return fmt.Errorf("unknown driver %q", c.Driver)
	}
	switch c.MCP.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("unknown mcp transport %q", c.MCP.Transport)
	}
	if c.Extractor.MaxDepth < 1 {
		return fmt.Errorf("extractor max_depth must be positive, got %d", c.Extractor.MaxDepth)
	}
	if c.Dispatch.MaxObservation < 0 {
		return fmt.Errorf("dispatch max_observation must not be negative, got %d", c.Dispatch.MaxObservation)
	}
	if strings.TrimSpace(c.Extractor.Attribute) == "" {
		return fmt.Errorf("extractor attribute must not be empty")
	}
	return nil
}

// ExtractorConfig converts to the engine configuration.
func (c *Config) ExtractorConfig() extractor.Config {
	return extractor.Config{
		MaxDepth:            c.Extractor.MaxDepth,
		MaxTextLength:       c.Extractor.MaxText,
		MaxAttributeLength:  c.Extractor.MaxAttr,
		IdentifierAttribute: c.Extractor.Attribute,
		ReuseIdentifiers:    c.Extractor.ReuseIdentifiers,
	}
}
