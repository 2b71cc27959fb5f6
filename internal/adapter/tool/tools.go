package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dom-snapshot/internal/application/port/input"
	"dom-snapshot/internal/application/port/output"
	"dom-snapshot/internal/domain/entity"
)

var (
	_ output.ToolPort = (*GetDOMTool)(nil)
	_ output.ToolPort = (*ClickTool)(nil)
	_ output.ToolPort = (*TypeTool)(nil)
	_ output.ToolPort = (*EnterTextAndClickTool)(nil)
	_ output.ToolPort = (*PressEnterTool)(nil)
	_ output.ToolPort = (*NavigateTool)(nil)
	_ output.ToolPort = (*CurrentURLTool)(nil)
	_ output.ToolPort = (*ExtractHTMLTool)(nil)
)

// identifier accepts both "12" and 12, models send either.
type identifier string

func (id *identifier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = identifier(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", entity.ErrInvalidIdentifier, data)
	}
	*id = identifier(n.String())
	return nil
}

func seconds(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

func decode(args string, v any) error {
	if args == "" {
		args = "{}"
	}
	if err := json.Unmarshal([]byte(args), v); err != nil {
		return fmt.Errorf("%w: %w", entity.ErrInvalidArguments, err)
	}
	return nil
}

func idProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var waitBeforeProperty = map[string]interface{}{
	"type":        "number",
	"description": "Seconds to wait before clicking, e.g. for a dropdown to open",
	"minimum":     0,
}

type GetDOMTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewGetDOMTool(session input.PageSession, logger output.LoggerPort) *GetDOMTool {
	return &GetDOMTool{session: session, logger: logger}
}

func (t *GetDOMTool) Name() entity.ToolName { return entity.ToolGetDOM }
func (t *GetDOMTool) Description() string {
	return "Returns the visible elements of the current page in document order. Every element carries an id; pass it to click, type or enter_text_and_click. Call this again after the page changes, ids from older snapshots may no longer resolve."
}
func (t *GetDOMTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *GetDOMTool) Execute(ctx context.Context, _ string) (string, error) {
	res, err := t.session.GetDOM(ctx)
	if err != nil {
		return "", err
	}
	t.logger.Debug("get_dom", "records", len(res.Children), "nextCounter", res.Counter)
	data, err := json.Marshal(res)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type ClickTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewClickTool(session input.PageSession, logger output.LoggerPort) *ClickTool {
	return &ClickTool{session: session, logger: logger}
}

func (t *ClickTool) Name() entity.ToolName { return entity.ToolClick }
func (t *ClickTool) Description() string {
	return "Clicks the element with the given id from the latest get_dom result."
}
func (t *ClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":          idProperty("Element id from get_dom"),
			"wait_before": waitBeforeProperty,
		},
		"required": []string{"id"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		ID         identifier `json:"id"`
		WaitBefore float64    `json:"wait_before"`
	}
	if err := decode(args, &in); err != nil {
		return "", err
	}
	t.logger.Debug("click", "id", string(in.ID), "waitBefore", in.WaitBefore)
	if err := t.session.Click(ctx, string(in.ID), seconds(in.WaitBefore)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Clicked element %s", in.ID), nil
}

type TypeTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewTypeTool(session input.PageSession, logger output.LoggerPort) *TypeTool {
	return &TypeTool{session: session, logger: logger}
}

func (t *TypeTool) Name() entity.ToolName { return entity.ToolType }
func (t *TypeTool) Description() string {
	return "Replaces the content of the input with the given id by text."
}
func (t *TypeTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id": idProperty("Input element id from get_dom"),
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to enter",
			},
		},
		"required": []string{"id", "text"},
	}
}

func (t *TypeTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		ID   identifier `json:"id"`
		Text string     `json:"text"`
	}
	if err := decode(args, &in); err != nil {
		return "", err
	}
	t.logger.Debug("type", "id", string(in.ID), "textLen", len(in.Text))
	if err := t.session.Type(ctx, string(in.ID), in.Text); err != nil {
		return "", err
	}
	return fmt.Sprintf("Entered text into element %s", in.ID), nil
}

type EnterTextAndClickTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewEnterTextAndClickTool(session input.PageSession, logger output.LoggerPort) *EnterTextAndClickTool {
	return &EnterTextAndClickTool{session: session, logger: logger}
}

func (t *EnterTextAndClickTool) Name() entity.ToolName { return entity.ToolEnterTextAndClick }
func (t *EnterTextAndClickTool) Description() string {
	return "Enters text into one element and then clicks another, e.g. fill a search box and press its search button."
}
func (t *EnterTextAndClickTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text_id": idProperty("Input element id from get_dom"),
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to enter",
			},
			"click_id":    idProperty("Id of the element to click afterwards"),
			"wait_before": waitBeforeProperty,
		},
		"required": []string{"text_id", "text", "click_id"},
	}
}

func (t *EnterTextAndClickTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		TextID     identifier `json:"text_id"`
		Text       string     `json:"text"`
		ClickID    identifier `json:"click_id"`
		WaitBefore float64    `json:"wait_before"`
	}
	if err := decode(args, &in); err != nil {
		return "", err
	}
	t.logger.Debug("enter_text_and_click", "textID", string(in.TextID), "textLen", len(in.Text), "clickID", string(in.ClickID))
	err := t.session.EnterTextAndClick(ctx, string(in.TextID), in.Text, string(in.ClickID), seconds(in.WaitBefore))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Entered text into element %s and clicked element %s", in.TextID, in.ClickID), nil
}

type PressEnterTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewPressEnterTool(session input.PageSession, logger output.LoggerPort) *PressEnterTool {
	return &PressEnterTool{session: session, logger: logger}
}

func (t *PressEnterTool) Name() entity.ToolName { return entity.ToolPressEnter }
func (t *PressEnterTool) Description() string {
	return "Presses Enter in the focused element, e.g. to submit a form."
}
func (t *PressEnterTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *PressEnterTool) Execute(ctx context.Context, _ string) (string, error) {
	t.logger.Debug("press_enter")
	if err := t.session.PressEnter(ctx); err != nil {
		return "", err
	}
	return "Pressed Enter", nil
}

type NavigateTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewNavigateTool(session input.PageSession, logger output.LoggerPort) *NavigateTool {
	return &NavigateTool{session: session, logger: logger}
}

func (t *NavigateTool) Name() entity.ToolName { return entity.ToolNavigate }
func (t *NavigateTool) Description() string {
	return "Opens an http or https URL in the browser. Returns the final URL, which may differ after redirects."
}
func (t *NavigateTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Absolute URL to open",
			},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		URL string `json:"url"`
	}
	if err := decode(args, &in); err != nil {
		return "", err
	}
	t.logger.Debug("navigate", "url", in.URL)
	if err := t.session.Navigate(ctx, in.URL); err != nil {
		return "", err
	}
	current, err := t.session.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Navigated to %s", current), nil
}

type CurrentURLTool struct {
	session input.PageSession
	logger  output.LoggerPort
}

func NewCurrentURLTool(session input.PageSession, logger output.LoggerPort) *CurrentURLTool {
	return &CurrentURLTool{session: session, logger: logger}
}

func (t *CurrentURLTool) Name() entity.ToolName { return entity.ToolCurrentURL }
func (t *CurrentURLTool) Description() string {
	return "Returns the URL of the current page."
}
func (t *CurrentURLTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

func (t *CurrentURLTool) Execute(ctx context.Context, _ string) (string, error) {
	url, err := t.session.CurrentURL(ctx)
	if err != nil {
		return "", err
	}
	t.logger.Debug("current_url", "url", url)
	return url, nil
}

type ExtractHTMLTool struct {
	extractor input.HTMLExtractor
	logger    output.LoggerPort
}

func NewExtractHTMLTool(extractor input.HTMLExtractor, logger output.LoggerPort) *ExtractHTMLTool {
	return &ExtractHTMLTool{extractor: extractor, logger: logger}
}

func (t *ExtractHTMLTool) Name() entity.ToolName { return entity.ToolExtractHTML }
func (t *ExtractHTMLTool) Description() string {
	return "Extracts the visible elements of an HTML document that is not loaded in the browser. Returns the element list and the body annotated with the assigned ids."
}
func (t *ExtractHTMLTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"html": map[string]interface{}{
				"type":        "string",
				"description": "Full HTML document",
			},
			"start": map[string]interface{}{
				"type":        "integer",
				"description": "First id to assign, defaults to 1",
				"minimum":     1,
			},
		},
		"required": []string{"html"},
	}
}

// ExtractHTMLOutput is the JSON result of extract_html.
type ExtractHTMLOutput struct {
	Result    *entity.ExtractionResult `json:"result"`
	Annotated string                   `json:"annotated_html"`
}

func (t *ExtractHTMLTool) Execute(ctx context.Context, args string) (string, error) {
	var in struct {
		HTML  string `json:"html"`
		Start int    `json:"start"`
	}
	if err := decode(args, &in); err != nil {
		return "", err
	}
	t.logger.Debug("extract_html", "htmlLen", len(in.HTML), "start", in.Start)
	res, annotated, err := t.extractor.ExtractHTML(ctx, in.HTML, in.Start)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(ExtractHTMLOutput{Result: res, Annotated: annotated})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SessionTools returns every tool backed by one page session.
func SessionTools(session input.PageSession, extractor input.HTMLExtractor, logger output.LoggerPort) []output.ToolPort {
	return []output.ToolPort{
		NewGetDOMTool(session, logger),
		NewClickTool(session, logger),
		NewTypeTool(session, logger),
		NewEnterTextAndClickTool(session, logger),
		NewPressEnterTool(session, logger),
		NewNavigateTool(session, logger),
		NewCurrentURLTool(session, logger),
		NewExtractHTMLTool(extractor, logger),
	}
}
