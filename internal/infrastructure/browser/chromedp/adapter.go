// Package chromedp drives a Chrome instance over the DevTools protocol with
// chromedp.
package chromedp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/browser/capture"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

const defaultTimeout = 10 * time.Second

var ErrBrowserNotConnected = errors.New("browser not connected")

var _ output.BrowserPort = (*BrowserAdapter)(nil)

type BrowserConfig struct {
	Headless  bool
	NoSandbox bool
	Timeout   time.Duration
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  defaultTimeout,
	}
}

type BrowserAdapter struct {
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	closed      bool
}

func NewBrowserAdapter(ctx context.Context, cfg BrowserConfig) (*BrowserAdapter, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// the first Run starts the browser
	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &BrowserAdapter{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		timeout:     cfg.Timeout,
	}, nil
}

// run executes actions on the browser tab, bounded by the adapter timeout and
// by the caller's ctx.
func (b *BrowserAdapter) run(ctx context.Context, actions ...chromedp.Action) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBrowserNotConnected
	}
	runCtx, cancel := context.WithTimeout(b.ctx, b.timeout)
	b.mu.RUnlock()
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (b *BrowserAdapter) Navigate(ctx context.Context, url string) error {
	if err := entity.ValidateURL(url); err != nil {
		return err
	}
	if err := b.run(ctx, chromedp.Navigate(url), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) Document(ctx context.Context) (output.PageDocument, error) {
	return capture.CaptureLive(ctx, evaluator{b: b})
}

func (b *BrowserAdapter) Click(ctx context.Context, selector string) error {
	err := b.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.ScrollIntoView(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) Fill(ctx context.Context, selector, text string) error {
	err := b.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, text, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

func (b *BrowserAdapter) PressEnter(ctx context.Context) error {
	if err := b.run(ctx, chromedp.KeyEvent(kb.Enter)); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

func (b *BrowserAdapter) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := b.run(ctx, chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (b *BrowserAdapter) HTML(ctx context.Context) (string, error) {
	var html string
	if err := b.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

func (b *BrowserAdapter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.cancel != nil {
		b.cancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
}

type evaluator struct {
	b *BrowserAdapter
}

// EvalString calls fn with arg inlined as a JSON literal.
func (e evaluator) EvalString(ctx context.Context, fn string, arg any) (string, error) {
	expr, err := callExpression(fn, arg)
	if err != nil {
		return "", err
	}
	var out string
	err = e.b.run(ctx, chromedp.Evaluate(expr, &out, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}))
	if err != nil {
		return "", err
	}
	return out, nil
}

func callExpression(fn string, arg any) (string, error) {
	data, err := json.Marshal(arg)
	if err != nil {
		return "", fmt.Errorf("encode script argument: %w", err)
	}
	return fmt.Sprintf("(%s)(%s)", fn, data), nil
}
