package rod

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/browser/capture"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

const (
	defaultTimeout    = 10 * time.Second
	defaultSlowMotion = 0
	idleAfterNavigate = 5 * time.Second
	idleAfterAction   = 2 * time.Second
)

var (
	ErrBrowserNotConnected = errors.New("browser not connected")
	ErrInvalidSelector     = errors.New("invalid selector")
)

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserAdapter struct {
	mu       sync.RWMutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
	closed   bool
}

type BrowserConfig struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	// Bin overrides the browser binary; empty lets the launcher find or fetch one.
	Bin string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless:   true,
		SlowMotion: defaultSlowMotion,
		Timeout:    defaultTimeout,
	}
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	l := launcher.New().
		Context(ctx).
		Headless(cfg.Headless).
		Devtools(cfg.DevTools).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain")
	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &BrowserAdapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

// activePage returns the page bound to ctx with the element timeout applied.
func (b *BrowserAdapter) activePage(ctx context.Context) (*rod.Page, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed || b.page == nil {
		return nil, ErrBrowserNotConnected
	}
	return b.page.Context(ctx).Timeout(b.timeout), nil
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if err := entity.ValidateURL(url); err != nil {
		return err
	}
	page, err := b.activePage(ctx)
	if err != nil {
		return err
	}
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait load: %w", err)
	}
	_ = page.WaitIdle(idleAfterNavigate)
	return nil
}

// Document captures the page in one evaluation. Labels assigned to its nodes
// reach the page on Commit.
func (b *BrowserAdapter) Document(ctx context.Context) (output.PageDocument, error) {
	page, err := b.activePage(ctx)
	if err != nil {
		return nil, err
	}
	return capture.CaptureLive(ctx, evaluator{page: page})
}

func (b *BrowserAdapter) element(page *rod.Page, selector string) (*rod.Element, error) {
	if strings.TrimSpace(selector) == "" {
		return nil, ErrInvalidSelector
	}
	if isXPathSelector(selector) {
		return page.ElementX(selector)
	}
	return page.Element(selector)
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	page, err := b.activePage(ctx)
	if err != nil {
		return err
	}
	el, err := b.element(page, selector)
	if err != nil {
		return fmt.Errorf("element not found: %s: %w", selector, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return fmt.Errorf("scroll into view: %w", err)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	_ = page.WaitIdle(idleAfterAction)
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	page, err := b.activePage(ctx)
	if err != nil {
		return err
	}
	el, err := b.element(page, selector)
	if err != nil {
		return fmt.Errorf("field not found: %s: %w", selector, err)
	}
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}
	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

// PressEnter sends Enter to whatever element has focus.
func (b *BrowserAdapter) PressEnter(ctx context.Context) error {
	page, err := b.activePage(ctx)
	if err != nil {
		return err
	}
	if err := page.Keyboard.Type(input.Enter); err != nil {
		return fmt.Errorf("failed to press Enter: %w", err)
	}
	_ = page.WaitIdle(idleAfterAction)
	return nil
}

func (b *BrowserAdapter) CurrentURL(ctx context.Context) (string, error) {
	page, err := b.activePage(ctx)
	if err != nil {
		return "", err
	}
	info, err := page.Info()
	if err != nil {
		return "", fmt.Errorf("page info: %w", err)
	}
	return info.URL, nil
}

// HTML returns the outer HTML of the current document.
func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	page, err := b.activePage(ctx)
	if err != nil {
		return "", err
	}
	return page.HTML()
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.browser != nil {
		_ = b.browser.Close()
	}
	if b.launcher != nil {
		b.launcher.Kill()
		b.launcher.Cleanup()
	}
}

type evaluator struct {
	page *rod.Page
}

func (e evaluator) EvalString(ctx context.Context, fn string, arg any) (string, error) {
	res, err := e.page.Context(ctx).Eval(fn, arg)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func isXPathSelector(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}
