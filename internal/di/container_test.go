package di

import (
	"context"
	"strings"
	"testing"

	"dom-snapshot/internal/config"
	"dom-snapshot/internal/domain/entity"
	"dom-snapshot/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewContainer_Static(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Extractor.Attribute = "data-agent-id"

	c, err := newContainer(context.Background(), cfg, Options{}, logger.NewNop())
	require.NoError(t, err)
	defer c.Close()

	assert.Nil(t, c.Browser)
	assert.Len(t, c.Tools.All(), 8)

	res, annotated, err := c.Session.ExtractHTML(context.Background(), `<body><button>Go</button></body>`, 1)
	require.NoError(t, err)
	require.Len(t, res.Children, 1)
	assert.Contains(t, annotated, `data-agent-id="1"`)

	_, err = c.Session.GetDOM(context.Background())
	assert.ErrorIs(t, err, entity.ErrClosed)
}

func TestNewContainer_ObservationLimit(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dispatch.MaxObservation = 40

	c, err := newContainer(context.Background(), cfg, Options{}, logger.NewNop())
	require.NoError(t, err)
	defer c.Close()

	out := c.Dispatcher.Observe(context.Background(), entity.ToolCall{
		Name:      entity.ToolExtractHTML.String(),
		Arguments: `{"html": "<body><p>one</p><p>two</p><p>three</p></body>"}`,
	})
	assert.True(t, strings.HasSuffix(out, "\n... (truncated)"))
	assert.Less(t, len(out), 60)
}

func TestContainer_CloseLogsCounter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c, err := newContainer(context.Background(), config.DefaultConfig(), Options{}, logger.FromZap(zap.New(core)))
	require.NoError(t, err)

	c.Close()
	entries := logs.FilterMessage("Closing session").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 1, entries[0].ContextMap()["nextCounter"])
}

func TestNewBrowser_UnknownDriver(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Driver = "selenium"
	_, err := NewBrowser(context.Background(), cfg)
	assert.ErrorContains(t, err, "unknown driver")
}
