// Package dom is the extraction engine's view of a document: enough layout and
// style to decide visibility, enough markup to describe an element, and one
// write operation for attaching the assigned identifier.
package dom

// Style is the resolved style subset the engine reads.
type Style struct {
	Display    string
	Visibility string
	Opacity    float64
}

// Hidden reports display:none or visibility:hidden.
func (s Style) Hidden() bool {
	return s.Display == "none" || s.Visibility == "hidden"
}

// Box is the node's bounding box size.
type Box struct {
	Width  float64
	Height float64
}

// Empty reports a box with zero width and zero height.
func (b Box) Empty() bool {
	return b.Width == 0 && b.Height == 0
}

// Node is a non-owning handle to an element of a live or parsed document.
// Implementations must return an untyped nil from Parent at the root.
type Node interface {
	// Tag is the lower-cased tag name, empty for non-element nodes.
	Tag() string
	Attribute(name string) (string, bool)
	// SetAttribute labels the node. It never fails; a backend that cannot
	// write immediately buffers the label.
	SetAttribute(name, value string)
	// TextContent is the concatenated text of all descendant text nodes.
	TextContent() string
	// Value is the live value of a form control.
	Value() string
	// InputType is the control type of input, textarea and select elements.
	InputType() string
	Focused() bool
	Box() Box
	Style() Style
	Parent() Node
	Children() []Node
}

// Document is the traversal input.
type Document interface {
	Title() string
	// Body is the traversal root; nil when the document has no body.
	Body() Node
}
