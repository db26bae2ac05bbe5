package render

import "fmt"

// TemplateNotFoundError reports a required template that does not exist.
type TemplateNotFoundError struct {
	Name string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.Name)
}

// TemplateParseError reports a required template that failed to parse.
type TemplateParseError struct {
	Name string
	Err  error
}

func (e *TemplateParseError) Error() string {
	return fmt.Sprintf("template %q: %v", e.Name, e.Err)
}

func (e *TemplateParseError) Unwrap() error {
	return e.Err
}
