// Package source implements interaction-document acquisition: loading
// pacts from local files, directories, URLs, and a HAL-linked broker.
package source

import "fmt"

// LoadError is a single acquisition failure: a message plus the path or
// URL it came from, when known. Mirrors the original loader's PactError,
// whose Display impl appends " - {path}" only when a path is set.
type LoadError struct {
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s - %s", e.Message, e.Path)
}

// WithPath returns a copy of the error annotated with the given path.
func (e *LoadError) WithPath(path string) *LoadError {
	return &LoadError{Message: e.Message, Path: path}
}

func errorf(format string, args ...any) *LoadError {
	return &LoadError{Message: fmt.Sprintf(format, args...)}
}
