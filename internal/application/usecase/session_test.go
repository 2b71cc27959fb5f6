package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/htmldoc"
	"dom-snapshot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const formPage = `<html><head><title>Search</title></head><body>
<input type="search" placeholder="Query">
<button>Go</button>
<p>results</p>
</body></html>`

type committedDoc struct {
	*htmldoc.Document
	commits int
	err     error
}

func (d *committedDoc) Commit(context.Context) (int, error) {
	d.commits++
	return 3, d.err
}

type fakeBrowser struct {
	html    string
	docs    []*committedDoc
	docErr  error
	actions []string
	url     string
	closed  bool
	failOn  string
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.actions = append(b.actions, "navigate "+url)
	b.url = url
	return nil
}

func (b *fakeBrowser) Document(context.Context) (output.PageDocument, error) {
	if b.docErr != nil {
		return nil, b.docErr
	}
	doc, err := htmldoc.ParseString(b.html)
	if err != nil {
		return nil, err
	}
	d := &committedDoc{Document: doc}
	b.docs = append(b.docs, d)
	return d, nil
}

func (b *fakeBrowser) act(a string) error {
	b.actions = append(b.actions, a)
	if b.failOn != "" && b.failOn == a {
		return errors.New("element not found")
	}
	return nil
}

func (b *fakeBrowser) Click(_ context.Context, sel string) error { return b.act("click " + sel) }
func (b *fakeBrowser) Fill(_ context.Context, sel, text string) error {
	return b.act("fill " + sel + " " + text)
}
func (b *fakeBrowser) PressEnter(context.Context) error { return b.act("enter") }

func (b *fakeBrowser) CurrentURL(context.Context) (string, error) { return b.url, nil }
func (b *fakeBrowser) HTML(context.Context) (string, error)       { return b.html, nil }
func (b *fakeBrowser) Close()                                     { b.closed = true }

func newSession(b *fakeBrowser) *Session {
	return NewSession(b, logger.NewNop(), DefaultSessionConfig())
}

func TestSession_GetDOMThreadsCounter(t *testing.T) {
	b := &fakeBrowser{html: formPage}
	s := newSession(b)
	ctx := context.Background()

	first, err := s.GetDOM(ctx)
	require.NoError(t, err)
	require.Len(t, first.Children, 3)
	assert.Equal(t, "Search", first.Name)
	assert.Equal(t, "1", first.Children[0].ID)
	assert.Equal(t, 4, first.Counter)
	assert.Equal(t, 4, s.Counter())
	assert.Equal(t, 1, b.docs[0].commits)

	second, err := s.GetDOM(ctx)
	require.NoError(t, err)
	assert.Equal(t, "4", second.Children[0].ID)
	assert.Equal(t, 7, second.Counter)
}

func TestSession_GetDOMErrors(t *testing.T) {
	boom := errors.New("target closed")
	s := newSession(&fakeBrowser{docErr: boom})

	_, err := s.GetDOM(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.Counter())
}

func TestSession_ClickUsesIdentifierSelector(t *testing.T) {
	b := &fakeBrowser{html: formPage}
	s := newSession(b)

	require.NoError(t, s.Click(context.Background(), " 2 ", 0))
	assert.Equal(t, []string{`click [mmid="2"]`}, b.actions)
}

func TestSession_ActionsLogSnapshotTarget(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	b := &fakeBrowser{html: formPage}
	s := NewSession(b, logger.FromZap(zap.New(core)), DefaultSessionConfig())
	ctx := context.Background()

	_, err := s.GetDOM(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Click(ctx, "02", 0))
	resolved := logs.FilterMessage("Resolved identifier").All()
	require.Len(t, resolved, 1)
	assert.Equal(t, "2", resolved[0].ContextMap()["id"])
	assert.Equal(t, "button", resolved[0].ContextMap()["tag"])
	assert.Equal(t, []string{`click [mmid="2"]`}, b.actions)

	require.NoError(t, s.Type(ctx, "9", "x"))
	assert.Len(t, logs.FilterMessage("Identifier is not in the latest snapshot").All(), 1)
}

func TestSession_ClickRejectsBadIdentifiers(t *testing.T) {
	b := &fakeBrowser{}
	s := newSession(b)

	for _, id := range []string{"", "abc", "0", "-3", `1"]`} {
		err := s.Click(context.Background(), id, 0)
		assert.ErrorIs(t, err, entity.ErrInvalidIdentifier, "id %q", id)
	}
	assert.Empty(t, b.actions)
}

func TestSession_ClickWaitHonoursContext(t *testing.T) {
	b := &fakeBrowser{}
	s := newSession(b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := s.Click(ctx, "1", time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.actions)
}

func TestSession_EnterTextAndClick(t *testing.T) {
	b := &fakeBrowser{}
	s := newSession(b)

	require.NoError(t, s.EnterTextAndClick(context.Background(), "1", "golang", "2", time.Millisecond))
	assert.Equal(t, []string{`fill [mmid="1"] golang`, `click [mmid="2"]`}, b.actions)
}

func TestSession_EnterTextAndClickStopsOnFillError(t *testing.T) {
	b := &fakeBrowser{failOn: `fill [mmid="1"] x`}
	s := newSession(b)

	err := s.EnterTextAndClick(context.Background(), "1", "x", "2", 0)
	assert.Error(t, err)
	assert.Len(t, b.actions, 1)
}

func TestSession_Navigate(t *testing.T) {
	b := &fakeBrowser{}
	s := newSession(b)
	ctx := context.Background()

	require.NoError(t, s.Navigate(ctx, "https://example.com/a"))
	url, err := s.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", url)

	for _, bad := range []string{"file:///etc/passwd", "javascript:alert(1)", "example.com", "http://"} {
		assert.ErrorIs(t, s.Navigate(ctx, bad), entity.ErrInvalidURL, bad)
	}
}

func TestSession_PressEnter(t *testing.T) {
	b := &fakeBrowser{}
	require.NoError(t, newSession(b).PressEnter(context.Background()))
	assert.Equal(t, []string{"enter"}, b.actions)
}

func TestSession_Close(t *testing.T) {
	b := &fakeBrowser{html: formPage}
	s := newSession(b)
	s.Close()
	s.Close()

	assert.True(t, b.closed)
	_, err := s.GetDOM(context.Background())
	assert.ErrorIs(t, err, entity.ErrClosed)
	assert.ErrorIs(t, s.Click(context.Background(), "1", 0), entity.ErrClosed)
}

func TestSession_ExtractHTML(t *testing.T) {
	s := NewSession(nil, logger.NewNop(), DefaultSessionConfig())

	res, annotated, err := s.ExtractHTML(context.Background(), formPage, 10)
	require.NoError(t, err)
	require.Len(t, res.Children, 3)
	assert.Equal(t, "10", res.Children[0].ID)
	assert.Equal(t, 13, res.Counter)
	assert.Contains(t, annotated, `<button mmid="11">Go</button>`)
	assert.Equal(t, 1, s.Counter())

	_, err = s.GetDOM(context.Background())
	assert.ErrorIs(t, err, entity.ErrClosed)
}

func TestSelector(t *testing.T) {
	sel, err := Selector("data-id", "12")
	require.NoError(t, err)
	assert.Equal(t, `[data-id="12"]`, sel)

	// labels are written in canonical form, so the selector must be too
	for _, id := range []string{"007", "+7", " 7 "} {
		sel, err := Selector("mmid", id)
		require.NoError(t, err, "id %q", id)
		assert.Equal(t, `[mmid="7"]`, sel, "id %q", id)
	}
}

func TestSession_AnnotatedHTML(t *testing.T) {
	b := &fakeBrowser{html: `<html><head><title>x</title></head><body>
<button mmid="4" style="color: red" onclick="go()">Go</button><script>track()</script>
</body></html>`}
	s := newSession(b)

	out, err := s.AnnotatedHTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, out, `<button mmid="4">Go</button>`)
	assert.NotContains(t, out, "<script")

	s.Close()
	_, err = s.AnnotatedHTML(context.Background())
	assert.ErrorIs(t, err, entity.ErrClosed)
}
