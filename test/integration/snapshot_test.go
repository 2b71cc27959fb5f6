package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dom-snapshot/internal/config"
	"dom-snapshot/internal/di"
	"dom-snapshot/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>Search</title></head>
<body>
	<h1>Search the catalog</h1>
	<input id="q" type="text" placeholder="Search query">
	<button id="go" onclick="document.getElementById('out').textContent = 'Results for ' + document.getElementById('q').value">Search</button>
	<p id="out"></p>
	<div style="display:none"><button>Hidden action</button></div>
</body>
</html>`

func setupContainer(t *testing.T) *di.Container {
	t.Helper()
	if testing.Short() {
		t.Skip("integration tests are skipped in short mode")
	}

	cfg := config.DefaultConfig()
	cfg.Browser.NoSandbox = true
	cfg.Browser.Timeout = 5 * time.Second
	cfg.Log.Level = "error"

	c, err := di.NewContainer(context.Background(), cfg, di.Options{WithBrowser: true, LogName: "integration"})
	if err != nil {
		t.Skipf("no browser available: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func serve(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, testPage)
	}))
	t.Cleanup(server.Close)
	return server.URL
}

func call(t *testing.T, c *di.Container, name entity.ToolName, args any) string {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)

	out, err := c.Dispatcher.Execute(context.Background(), entity.ToolCall{
		ID:        "call-" + name.String(),
		Name:      name.String(),
		Arguments: string(raw),
	})
	require.NoError(t, err, "tool %s", name)
	return out
}

func snapshot(t *testing.T, c *di.Container) *entity.ExtractionResult {
	t.Helper()
	var res entity.ExtractionResult
	require.NoError(t, json.Unmarshal([]byte(call(t, c, entity.ToolGetDOM, struct{}{})), &res))
	return &res
}

func TestSearchFlow(t *testing.T) {
	c := setupContainer(t)
	url := serve(t)

	assert.Contains(t, call(t, c, entity.ToolNavigate, map[string]string{"url": url}), "Navigated to")

	res := snapshot(t, c)
	assert.Equal(t, "Search", res.Name)
	assert.Equal(t, entity.RoleWebArea, res.Role)

	var input, button entity.ElementRecord
	for _, rec := range res.Children {
		switch rec.ElementID {
		case "q":
			input = rec
		case "go":
			button = rec
		}
		assert.NotEqual(t, "Hidden action", rec.Name)
	}
	require.NotEmpty(t, input.ID)
	require.NotEmpty(t, button.ID)
	assert.Equal(t, "Search query", input.Name)

	annotated, err := c.Session.AnnotatedHTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, annotated, fmt.Sprintf(`mmid="%s"`, button.ID))
	assert.NotContains(t, annotated, "onclick")

	call(t, c, entity.ToolEnterTextAndClick, map[string]any{
		"text_id":  input.ID,
		"text":     "lamps",
		"click_id": button.ID,
	})

	next := snapshot(t, c)
	assert.Greater(t, next.Counter, res.Counter)

	found := false
	for _, rec := range next.Children {
		if rec.ElementID == "out" {
			found = true
			assert.Equal(t, "Results for lamps", rec.Name)
		}
	}
	assert.True(t, found, "result paragraph should be described after the click")

	_, stale := next.Find(button.ID)
	assert.False(t, stale, "identifiers are reassigned on every extraction")
}

func TestCurrentURLAndErrors(t *testing.T) {
	c := setupContainer(t)
	url := serve(t)

	call(t, c, entity.ToolNavigate, map[string]string{"url": url})
	assert.Equal(t, url+"/", call(t, c, entity.ToolCurrentURL, struct{}{}))

	_, err := c.Dispatcher.Execute(context.Background(), entity.ToolCall{
		Name:      entity.ToolClick.String(),
		Arguments: `{"id": "9999"}`,
	})
	assert.Error(t, err)

	_, err = c.Dispatcher.Execute(context.Background(), entity.ToolCall{
		Name:      entity.ToolClick.String(),
		Arguments: `{"id": "zero"}`,
	})
	assert.ErrorIs(t, err, entity.ErrInvalidIdentifier)
}
