package chromedp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/domain/extractor"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallExpression(t *testing.T) {
	expr, err := callExpression("(a) => a.x", map[string]int{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, `((a) => a.x)({"x":1})`, expr)

	expr, err = callExpression("(r) => r", "__reg")
	require.NoError(t, err)
	assert.Equal(t, `((r) => r)("__reg")`, expr)

	_, err = callExpression("() => 1", func() {})
	assert.Error(t, err)
}

func TestClosedAdapter(t *testing.T) {
	b := &BrowserAdapter{closed: true, timeout: time.Second}
	ctx := context.Background()

	assert.ErrorIs(t, b.Click(ctx, "#x"), ErrBrowserNotConnected)
	_, err := b.CurrentURL(ctx)
	assert.ErrorIs(t, err, ErrBrowserNotConnected)
	_, err = b.Document(ctx)
	assert.ErrorIs(t, err, ErrBrowserNotConnected)
	assert.ErrorIs(t, b.Navigate(ctx, "mailto:a@b.c"), entity.ErrInvalidURL)
}

func TestBrowserAdapter_Live(t *testing.T) {
	if testing.Short() {
		t.Skip("browser tests are skipped in short mode")
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<!DOCTYPE html><html><head><title>Demo</title></head><body>
			<input id="q" placeholder="Search">
			<button onclick="document.title = 'Searched ' + document.getElementById('q').value">Go</button>
		</body></html>`)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.NoSandbox = true
	b, err := NewBrowserAdapter(context.Background(), cfg)
	if err != nil {
		t.Skipf("no browser available: %v", err)
	}
	defer b.Close()

	ctx := context.Background()
	require.NoError(t, b.Navigate(ctx, server.URL))

	doc, err := b.Document(ctx)
	require.NoError(t, err)
	res := extractor.New(extractor.DefaultConfig()).Extract(doc, 1)
	require.Len(t, res.Children, 2)
	assert.Equal(t, "Demo", res.Name)
	assert.Equal(t, "Search", res.Children[0].Name)

	written, err := doc.Commit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	require.NoError(t, b.Fill(ctx, `[mmid="1"]`, "golang"))
	require.NoError(t, b.Click(ctx, `[mmid="2"]`))

	var title string
	require.NoError(t, b.run(ctx, chromedp.Title(&title)))
	assert.Equal(t, "Searched golang", title)

	url, err := b.CurrentURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", url)
}
