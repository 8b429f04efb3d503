package block

import "fmt"

// BuildError reports a structural failure during basic-block
// construction: a jump or branch names a label that is never defined in
// the enclosing function. It is the only way building can fail.
type BuildError struct {
	Func  string
	Label string
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("undefined label .%s in function @%s", e.Label, e.Func)
}

// NewBuildError creates a BuildError for an unresolved label.
func NewBuildError(fn, label string) *BuildError {
	return &BuildError{Func: fn, Label: label}
}
