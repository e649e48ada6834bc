package skos

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrUnsupportedFormat is returned for any export format other than ttl, jsonld and xml.
	ErrUnsupportedFormat = errors.New("unsupported format")

	errShape = errors.New("invalid SKOS shape")
)

// LoadError reports a vocabulary file that could not be read, parsed or checked.
// It is fatal at startup.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading vocabulary from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
