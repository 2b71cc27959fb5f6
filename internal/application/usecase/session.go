package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/domain/extractor"
	"dom-snapshot/internal/infrastructure/htmldoc"

	"github.com/google/uuid"
)

var (
	_ input.PageSession   = (*Session)(nil)
	_ input.HTMLExtractor = (*Session)(nil)
)

// Session binds one page to the identifier counter threaded through its
// extractions. Each page gets its own Session so concurrent pages never share
// identifier ranges.
type Session struct {
	browser   output.BrowserPort
	extractor *extractor.Extractor
	logger    output.LoggerPort

	mu      sync.Mutex
	counter int
	last    *entity.ExtractionResult
	closed  bool
}

type SessionConfig struct {
	Extractor extractor.Config
	// StartCounter seeds the first extraction; values below 1 mean 1.
	StartCounter int
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Extractor:    extractor.DefaultConfig(),
		StartCounter: 1,
	}
}

// NewSession creates a session. browser may be nil for sessions that only
// extract static HTML.
func NewSession(browser output.BrowserPort, logger output.LoggerPort, cfg SessionConfig) *Session {
	id := uuid.NewString()
	if cfg.StartCounter < 1 {
		cfg.StartCounter = 1
	}
	return &Session{
		browser:   browser,
		extractor: extractor.New(cfg.Extractor),
		logger:    logger.WithField("session", id),
		counter:   cfg.StartCounter,
	}
}

// Counter is the start counter of the next extraction.
func (s *Session) Counter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

func (s *Session) attribute() string {
	return s.extractor.Config().IdentifierAttribute
}

// GetDOM captures the page, extracts it, labels the live nodes and advances
// the counter.
func (s *Session) GetDOM(ctx context.Context) (*entity.ExtractionResult, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	doc, err := s.browser.Document(ctx)
	if err != nil {
		s.logger.Error("DOM capture failed", "error", err)
		return nil, fmt.Errorf("capture page: %w", err)
	}

	result := s.extractor.Extract(doc, s.counter)

	written, err := doc.Commit(ctx)
	if err != nil {
		s.logger.Error("Label write-back failed", "error", err, "records", len(result.Children))
		return nil, fmt.Errorf("label page: %w", err)
	}
	if written != len(result.Children) {
		s.logger.Warn("Some labelled nodes were detached before write-back",
			"records", len(result.Children), "written", written)
	}

	s.logger.Info("DOM extracted",
		"records", len(result.Children),
		"startCounter", s.counter,
		"nextCounter", result.Counter,
		"duration", time.Since(start))
	s.counter = result.Counter
	s.last = result
	return result, nil
}

// ExtractHTML extracts a static document with an explicit start counter and
// returns the result along with the annotated body. It does not touch the
// session counter.
func (s *Session) ExtractHTML(ctx context.Context, html string, startCounter int) (*entity.ExtractionResult, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	doc, err := htmldoc.ParseString(html)
	if err != nil {
		return nil, "", err
	}
	result := s.extractor.Extract(doc, startCounter)

	s.logger.Debug("HTML extracted", "records", len(result.Children), "nextCounter", result.Counter)
	return result, s.annotate(doc), nil
}

// AnnotatedHTML renders the cleaned body of the live page with the labels of
// the last GetDOM.
func (s *Session) AnnotatedHTML(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	raw, err := s.browser.HTML(ctx)
	if err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	doc, err := htmldoc.ParseString(raw)
	if err != nil {
		return "", err
	}
	return s.annotate(doc), nil
}

func (s *Session) annotate(doc *htmldoc.Document) string {
	clean := htmldoc.DefaultCleanConfig
	clean.KeepAttrs = []string{s.attribute()}
	return doc.AnnotatedBody(&clean)
}

func (s *Session) Click(ctx context.Context, id string, waitBefore time.Duration) error {
	sel, err := s.selector(id)
	if err != nil {
		return err
	}
	s.logTarget(id)
	if err := wait(ctx, waitBefore); err != nil {
		return err
	}
	if err := s.browser.Click(ctx, sel); err != nil {
		s.logger.Error("Click failed", "id", id, "error", err)
		return fmt.Errorf("click element %s: %w", id, err)
	}
	s.logger.Info("Clicked element", "id", id)
	return nil
}

func (s *Session) Type(ctx context.Context, id, text string) error {
	sel, err := s.selector(id)
	if err != nil {
		return err
	}
	s.logTarget(id)
	if err := s.browser.Fill(ctx, sel, text); err != nil {
		s.logger.Error("Type failed", "id", id, "error", err)
		return fmt.Errorf("type into element %s: %w", id, err)
	}
	s.logger.Info("Typed into element", "id", id, "length", len(text))
	return nil
}

func (s *Session) EnterTextAndClick(ctx context.Context, textID, text, clickID string, waitBefore time.Duration) error {
	if err := s.Type(ctx, textID, text); err != nil {
		return err
	}
	return s.Click(ctx, clickID, waitBefore)
}

func (s *Session) PressEnter(ctx context.Context) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.browser.PressEnter(ctx); err != nil {
		return fmt.Errorf("press enter: %w", err)
	}
	return nil
}

func (s *Session) Navigate(ctx context.Context, rawURL string) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := entity.ValidateURL(rawURL); err != nil {
		return err
	}
	if err := s.browser.Navigate(ctx, rawURL); err != nil {
		s.logger.Error("Navigation failed", "url", rawURL, "error", err)
		return fmt.Errorf("navigate to %s: %w", rawURL, err)
	}
	s.logger.Info("Navigated", "url", rawURL)
	return nil
}

func (s *Session) CurrentURL(ctx context.Context) (string, error) {
	if err := s.ready(); err != nil {
		return "", err
	}
	return s.browser.CurrentURL(ctx)
}

// Close releases the browser.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.browser != nil {
		s.browser.Close()
	}
}

func (s *Session) ready() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return entity.ErrClosed
	}
	if s.browser == nil {
		return fmt.Errorf("%w: no browser attached", entity.ErrClosed)
	}
	return nil
}

func (s *Session) selector(id string) (string, error) {
	sel, err := Selector(s.attribute(), id)
	if err != nil {
		return "", err
	}
	if err := s.ready(); err != nil {
		return "", err
	}
	return sel, nil
}

// Selector builds the attribute selector that resolves an identifier written
// by an extraction back to its element.
func Selector(attr, id string) (string, error) {
	id = strings.TrimSpace(id)
	n, err := strconv.Atoi(id)
	if err != nil || n < 1 {
		return "", fmt.Errorf("%w: %q", entity.ErrInvalidIdentifier, id)
	}
	return fmt.Sprintf(`[%s="%d"]`, attr, n), nil
}

// logTarget reports which element of the latest snapshot an action is aimed at.
func (s *Session) logTarget(id string) {
	s.mu.Lock()
	last := s.last
	s.mu.Unlock()
	if last == nil {
		return
	}
	n, _ := strconv.Atoi(strings.TrimSpace(id))
	if rec, ok := last.Find(strconv.Itoa(n)); ok {
		s.logger.Debug("Resolved identifier", "id", rec.ID, "tag", rec.Tag, "name", rec.Name)
		return
	}
	s.logger.Warn("Identifier is not in the latest snapshot", "id", id, "nextCounter", last.Counter)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
