package contract

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	// ErrPrecondition indicates malformed or inconsistent input.
	ErrPrecondition = errors.New("contract: precondition failed")

	// ErrPostcondition indicates a computed result outside its guaranteed range.
	ErrPostcondition = errors.New("contract: postcondition failed")

	// ErrUnsupported indicates an operation the receiver cannot perform.
	ErrUnsupported = errors.New("contract: unsupported operation")

	// ErrOutOfRange indicates a primary value outside a non-extended grid.
	ErrOutOfRange = errors.New("contract: value outside tabulated range")
)

// Violation wraps a contract error with the failed condition and call site.
type Violation struct {
	Where     string
	Condition string
	Wrapped   error
}

func (v *Violation) Error() string {
	if v.Where == "" {
		return fmt.Sprintf("%v: %s", v.Wrapped, v.Condition)
	}
	return fmt.Sprintf("%v: %s (%s)", v.Wrapped, v.Condition, v.Where)
}

func (v *Violation) Unwrap() error {
	return v.Wrapped
}

// Require panics with a precondition Violation when ok is false.
func Require(ok bool, format string, args ...any) {
	if !ok {
		panic(newViolation(ErrPrecondition, format, args...))
	}
}

// Ensure panics with a postcondition Violation when ok is false.
func Ensure(ok bool, format string, args ...any) {
	if !ok {
		panic(newViolation(ErrPostcondition, format, args...))
	}
}

// InRange panics with an ErrOutOfRange Violation when ok is false.
func InRange(ok bool, format string, args ...any) {
	if !ok {
		panic(newViolation(ErrOutOfRange, format, args...))
	}
}

// Unsupported always panics with an ErrUnsupported Violation.
func Unsupported(format string, args ...any) {
	panic(newViolation(ErrUnsupported, format, args...))
}

// Errorf builds a construction error wrapping ErrPrecondition.
func Errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}

// Recover converts a recovered panic value into an error. Values that are not
// a Violation are re-panicked.
func Recover(r any) error {
	if r == nil {
		return nil
	}
	if v, ok := r.(*Violation); ok {
		return v
	}
	panic(r)
}

func newViolation(kind error, format string, args ...any) *Violation {
	where := ""
	if _, file, line, ok := runtime.Caller(2); ok {
		where = fmt.Sprintf("%s:%d", shortFile(file), line)
	}
	return &Violation{
		Where:     where,
		Condition: fmt.Sprintf(format, args...),
		Wrapped:   kind,
	}
}

func shortFile(path string) string {
	slashes := 0
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			slashes++
			if slashes == 2 {
				return path[i+1:]
			}
		}
	}
	return path
}
