package importer

import (
	"fmt"
)

// ValidationError reports a row that cannot become a concept. The import stops
// at the first one.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("line %d: invalid %s: %s", e.Line, e.Field, e.Reason)
}

// DuplicateIRIError reports two rows, or a row and the concept scheme, that
// resolve to the same IRI.
type DuplicateIRIError struct {
	IRI       string
	Line      int
	FirstLine int
}

func (e *DuplicateIRIError) Error() string {
	if e.FirstLine == 0 {
		return fmt.Sprintf("line %d: IRI %s collides with the concept scheme", e.Line, e.IRI)
	}
	return fmt.Sprintf("line %d: IRI %s already assigned on line %d", e.Line, e.IRI, e.FirstLine)
}
