package capture

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"dom-snapshot/internal/domain/extractor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// snapshotJSON is what capture.js returns for:
//
//	<body><div><button>Submit</button> ok</div><input type="password" value="pw"><p style="display:none">x</p></body>
const snapshotJSON = `{
	"title": "Fixture",
	"body": {"i": 0, "tag": "body", "attrs": {}, "w": 800, "h": 600, "display": "block", "visibility": "visible", "opacity": "1", "children": [
		{"i": 1, "tag": "div", "attrs": {"class": "wrap"}, "w": 800, "h": 40, "display": "block", "visibility": "visible", "opacity": "1", "children": [
			{"i": 2, "tag": "button", "attrs": {}, "w": 80, "h": 30, "display": "inline-block", "visibility": "visible", "opacity": "1", "children": [
				{"text": "Submit"}
			]},
			{"text": " ok"}
		]},
		{"i": 3, "tag": "input", "attrs": {"type": "password"}, "w": 100, "h": 20, "display": "inline-block", "visibility": "visible", "opacity": "1",
			"type": "password", "value": "pw", "focused": true, "children": []},
		{"i": 4, "tag": "p", "attrs": {"style": "display:none"}, "w": 0, "h": 0, "display": "none", "visibility": "visible", "opacity": "1", "children": [
			{"text": "x"}
		]}
	]}
}`

type fakeEvaluator struct {
	calls   []string
	args    []any
	results []string
	err     error
}

func (f *fakeEvaluator) EvalString(_ context.Context, fn string, arg any) (string, error) {
	f.calls = append(f.calls, fn)
	f.args = append(f.args, arg)
	if f.err != nil {
		return "", f.err
	}
	out := f.results[0]
	f.results = f.results[1:]
	return out, nil
}

func TestDecode(t *testing.T) {
	doc, err := Decode([]byte(snapshotJSON))
	require.NoError(t, err)

	assert.Equal(t, "Fixture", doc.Title())
	body := doc.Body()
	require.NotNil(t, body)
	assert.Nil(t, body.Parent())

	children := body.Children()
	require.Len(t, children, 3)
	assert.Equal(t, "Submit ok", children[0].TextContent())
	assert.Equal(t, "div", children[0].Parent().Children()[0].Tag())
	assert.Equal(t, "password", children[1].InputType())
	assert.Equal(t, "pw", children[1].Value())
	assert.True(t, children[1].Focused())
	assert.True(t, children[2].Box().Empty())
	assert.True(t, children[2].Style().Hidden())
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	doc, err := Decode([]byte(`{"title": "blank", "body": null}`))
	require.NoError(t, err)
	assert.Nil(t, doc.Body())
}

func TestCaptureExtractApply(t *testing.T) {
	ev := &fakeEvaluator{results: []string{snapshotJSON, "3"}}
	ctx := context.Background()

	doc, err := Capture(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, captureScript, ev.calls[0])
	assert.Equal(t, registryName, ev.args[0])

	res := extractor.New(extractor.DefaultConfig()).Extract(doc, 7)
	require.Len(t, res.Children, 3)
	assert.Equal(t, 10, res.Counter)
	assert.Equal(t, map[int]string{1: "7", 2: "8", 3: "9"}, doc.pending("mmid"))
	assert.Empty(t, res.Children[2].Value)

	written, err := doc.Apply(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	require.Len(t, ev.calls, 2)
	assert.Equal(t, labelScript, ev.calls[1])

	payload, err := json.Marshal(ev.args[1])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"registry":"__domSnapshotNodes","attribute":"mmid","labels":{"1":"7","2":"8","3":"9"}}`,
		string(payload))
}

func TestApply_NothingToWrite(t *testing.T) {
	ev := &fakeEvaluator{results: []string{`{"title": "", "body": null}`}}
	doc, err := Capture(context.Background(), ev)
	require.NoError(t, err)

	written, err := doc.Apply(context.Background(), ev)
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Len(t, ev.calls, 1)
}

func TestCapture_EvalError(t *testing.T) {
	boom := errors.New("target closed")
	_, err := Capture(context.Background(), &fakeEvaluator{err: boom})
	assert.ErrorIs(t, err, boom)
}
