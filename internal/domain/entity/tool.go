package entity

type ToolName string

const (
	ToolGetDOM            ToolName = "get_dom"
	ToolClick             ToolName = "click"
	ToolType              ToolName = "type"
	ToolEnterTextAndClick ToolName = "enter_text_and_click"
	ToolPressEnter        ToolName = "press_enter"
	ToolNavigate          ToolName = "navigate"
	ToolCurrentURL        ToolName = "current_url"
	ToolExtractHTML       ToolName = "extract_html"
)

func (t ToolName) String() string {
	return string(t)
}
