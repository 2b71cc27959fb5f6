// Package playwright drives Chromium through playwright-go.
package playwright

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/browser/capture"

	"github.com/playwright-community/playwright-go"
)

var ErrBrowserNotConnected = errors.New("browser not connected")

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type Config struct {
	Headless        bool
	Timeout         time.Duration
	NavigateTimeout time.Duration
	// InstallDriver downloads the driver and Chromium when missing.
	InstallDriver bool
}

func DefaultConfig() Config {
	return Config{
		Headless:        true,
		Timeout:         10 * time.Second,
		NavigateTimeout: 30 * time.Second,
	}
}

type BrowserAdapter struct {
	cfg     Config
	mu      sync.RWMutex
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
}

func NewBrowserAdapter(ctx context.Context, cfg Config) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.NavigateTimeout <= 0 {
		cfg.NavigateTimeout = 30 * time.Second
	}

	if cfg.InstallDriver {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("install playwright: %w", err)
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     []string{"--no-sandbox"},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	page, err := browser.NewPage()
	if err != nil {
		_ = browser.Close()
		_ = pw.Stop()
		return nil, fmt.Errorf("open page: %w", err)
	}
	page.SetDefaultTimeout(float64(cfg.Timeout.Milliseconds()))

	return &BrowserAdapter{cfg: cfg, pw: pw, browser: browser, page: page}, nil
}

func (b *BrowserAdapter) getPage() (playwright.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.page == nil {
		return nil, ErrBrowserNotConnected
	}
	return b.page, nil
}

// await runs a blocking playwright call and gives up when ctx ends first.
func await(ctx context.Context, fn func() error) error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- fn()
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if err := entity.ValidateURL(url); err != nil {
		return err
	}
	page, err := b.getPage()
	if err != nil {
		return err
	}
	err = await(ctx, func() error {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateLoad,
			Timeout:   playwright.Float(float64(b.cfg.NavigateTimeout.Milliseconds())),
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Document(ctx context.Context) (output.PageDocument, error) {
	page, err := b.getPage()
	if err != nil {
		return nil, err
	}
	return capture.CaptureLive(ctx, evaluator{page: page})
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if err := await(ctx, func() error { return page.Locator(selector).Click() }); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if err := await(ctx, func() error { return page.Locator(selector).Fill(text) }); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) PressEnter(ctx context.Context) error {
	page, err := b.getPage()
	if err != nil {
		return err
	}
	if err := await(ctx, func() error { return page.Keyboard().Press("Enter") }); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL(ctx context.Context) (string, error) {
	page, err := b.getPage()
	if err != nil {
		return "", err
	}
	return page.URL(), nil
}

func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	page, err := b.getPage()
	if err != nil {
		return "", err
	}
	var html string
	err = await(ctx, func() error {
		var err error
		html, err = page.Content()
		return err
	})
	return html, err
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.page != nil {
		_ = b.page.Close()
		b.page = nil
	}
	if b.browser != nil {
		_ = b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		_ = b.pw.Stop()
		b.pw = nil
	}
}

type evaluator struct {
	page playwright.Page
}

func (e evaluator) EvalString(ctx context.Context, fn string, arg any) (string, error) {
	var out any
	err := await(ctx, func() error {
		var err error
		out, err = e.page.Evaluate(fn, arg)
		return err
	})
	if err != nil {
		return "", err
	}
	s, ok := out.(string)
	if !ok {
		return "", fmt.Errorf("script returned %T, want string", out)
	}
	return s, nil
}
