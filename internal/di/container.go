package di

import (
	"context"
	"fmt"

	"dom-snapshot/internal/adapter/tool"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/application/service"
	"dom-snapshot/internal/application/usecase"
	"dom-snapshot/internal/config"
	"dom-snapshot/internal/infrastructure/browser/chromedp"
	"dom-snapshot/internal/infrastructure/browser/playwright"
	"dom-snapshot/internal/infrastructure/browser/rod"
	"dom-snapshot/internal/infrastructure/logger"
)

type Container struct {
	Config     *config.Config
	Logger     output.LoggerPort
	Browser    output.BrowserPort
	Session    *usecase.Session
	Tools      output.ToolRegistry
	Dispatcher *usecase.DispatchToolUseCase
}

type Options struct {
	// WithBrowser launches the configured driver; without it the session can
	// only extract static HTML.
	WithBrowser bool
	// LogName names the log file when the config sets a log directory.
	LogName string
}

func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	log, err := logger.NewLoggerAdapter(logger.Config{
		Env:   cfg.Log.Env,
		Level: cfg.Log.Level,
		Dir:   cfg.Log.Dir,
		Name:  opts.LogName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return newContainer(ctx, cfg, opts, log)
}

func newContainer(ctx context.Context, cfg *config.Config, opts Options, log output.LoggerPort) (*Container, error) {
	var browser output.BrowserPort
	if opts.WithBrowser {
		b, err := NewBrowser(ctx, cfg)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create browser: %w", err)
		}
		browser = b
		log.Info("Browser started", "driver", cfg.Driver, "headless", cfg.Browser.Headless)
	}

	sessionCfg := usecase.DefaultSessionConfig()
	sessionCfg.Extractor = cfg.ExtractorConfig()
	session := usecase.NewSession(browser, log, sessionCfg)

	tools := service.NewToolRegistry(tool.SessionTools(session, session, log)...)
	dispatchCfg := usecase.DefaultDispatchConfig()
	dispatchCfg.MaxObservationLen = cfg.Dispatch.MaxObservation
	dispatcher := usecase.NewDispatchToolUseCase(tools, log, dispatchCfg)

	return &Container{
		Config:     cfg,
		Logger:     log,
		Browser:    browser,
		Session:    session,
		Tools:      tools,
		Dispatcher: dispatcher,
	}, nil
}

// NewBrowser launches the driver named by cfg.Driver.
func NewBrowser(ctx context.Context, cfg *config.Config) (output.BrowserPort, error) {
	switch cfg.Driver {
	case config.DriverRod:
		rc := rod.DefaultConfig()
		rc.Headless = cfg.Browser.Headless
		rc.Timeout = cfg.Browser.Timeout
		rc.SlowMotion = cfg.Browser.SlowMotion
		rc.NoSandbox = cfg.Browser.NoSandbox
		b, err := rod.NewBrowserAdapter(ctx, rc)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverChromedp:
		cc := chromedp.DefaultConfig()
		cc.Headless = cfg.Browser.Headless
		cc.Timeout = cfg.Browser.Timeout
		cc.NoSandbox = cfg.Browser.NoSandbox
		b, err := chromedp.NewBrowserAdapter(ctx, cc)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.DriverPlaywright:
		pc := playwright.DefaultConfig()
		pc.Headless = cfg.Browser.Headless
		pc.Timeout = cfg.Browser.Timeout
		b, err := playwright.NewBrowserAdapter(ctx, pc)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
	}
}

// Close stops the session (and its browser) and flushes the logger.
func (c *Container) Close() {
	if c.Session != nil {
		if c.Logger != nil {
			c.Logger.Debug("Closing session", "nextCounter", c.Session.Counter())
		}
		c.Session.Close()
	}
	if c.Logger != nil {
		c.Logger.Close()
	}
}
