package entity

// RoleWebArea is the fixed role of the extraction root.
const RoleWebArea = "WebArea"

// InputTypePassword marks controls whose value is never reported.
const InputTypePassword = "password"

// ElementRecord describes one included node. ID is the identifier written onto
// the live node; everything else is optional and omitted when empty.
type ElementRecord struct {
	ID          string `json:"id"                    yaml:"id"`
	Tag         string `json:"tag"                   yaml:"tag"`
	Interactive bool   `json:"interactive,omitempty" yaml:"interactive,omitempty"`
	Name        string `json:"name,omitempty"        yaml:"name,omitempty"`
	InputType   string `json:"inputType,omitempty"   yaml:"inputType,omitempty"`
	Value       string `json:"value,omitempty"       yaml:"value,omitempty"`
	ElementID   string `json:"elementId,omitempty"   yaml:"elementId,omitempty"`
	AriaLabel   string `json:"ariaLabel,omitempty"   yaml:"ariaLabel,omitempty"`
	Placeholder string `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Href        string `json:"href,omitempty"        yaml:"href,omitempty"`
	Focused     bool   `json:"focused,omitempty"     yaml:"focused,omitempty"`
}

// ExtractionResult is the output of one extraction. Counter is the value the
// caller passes as the start counter of the next extraction.
type ExtractionResult struct {
	Role     string          `json:"role"         yaml:"role"`
	Name     string          `json:"name"         yaml:"name"`
	Children []ElementRecord `json:"children"     yaml:"children"`
	Counter  int             `json:"mmid_counter" yaml:"mmid_counter"`
}

// Find returns the record with the given identifier.
func (r *ExtractionResult) Find(id string) (ElementRecord, bool) {
	for _, rec := range r.Children {
		if rec.ID == id {
			return rec, true
		}
	}
	return ElementRecord{}, false
}
