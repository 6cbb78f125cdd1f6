package form3

import (
	"errors"
	"fmt"
	"runtime/debug"
)

// GeometryError reports a failed kernel operation: invalid primitive
// arguments, a nil solid, an illegal construction order or an empty body.
type GeometryError struct {
	// Op names the operation or component that failed.
	Op string
	// Cause is the underlying failure.
	Cause error
	// Stack is the goroutine stack captured where the failure was recovered.
	// Empty for failures that did not originate in a panic.
	Stack string
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("geometry %s: %v", e.Op, e.Cause)
}

func (e *GeometryError) Unwrap() error { return e.Cause }

// IsGeometryError reports whether err or any error it wraps is a *GeometryError.
func IsGeometryError(err error) bool {
	var ge *GeometryError
	return errors.As(err, &ge)
}

// NewGeometryError returns a *GeometryError for op without a stack trace.
func NewGeometryError(op string, cause error) error {
	return &GeometryError{Op: op, Cause: cause}
}

// Recover converts a panic raised by the kernel into a *GeometryError
// stored in *err. It must be called directly by a deferred statement:
//
//	defer form3.Recover("segment", &err)
func Recover(op string, err *error) {
	a := recover()
	if a == nil {
		return
	}
	*err = panicError(op, a)
}

func panicError(op string, a interface{}) error {
	cause, ok := a.(error)
	if !ok {
		cause = fmt.Errorf("%v", a)
	}
	var ge *GeometryError
	if errors.As(cause, &ge) {
		return ge
	}
	return &GeometryError{
		Op:    op,
		Cause: cause,
		Stack: string(debug.Stack()),
	}
}
