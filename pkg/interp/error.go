package interp

import "fmt"

// ErrorKind classifies a runtime error. Every kind is fatal to the run;
// execution stops at the offending instruction with no further side
// effects.
type ErrorKind string

const (
	ErrorDivisionByZero ErrorKind = "DIVISION_BY_ZERO"
	ErrorPrintPointer   ErrorKind = "PRINT_POINTER"
	ErrorNegativeAlloc  ErrorKind = "NEGATIVE_ALLOC"
	ErrorUseAfterFree   ErrorKind = "USE_AFTER_FREE"
	ErrorOutOfBounds    ErrorKind = "OUT_OF_BOUNDS"
	ErrorDoubleFree     ErrorKind = "DOUBLE_FREE"
	ErrorInvalidFree    ErrorKind = "INVALID_FREE"
	ErrorStackOverflow  ErrorKind = "STACK_OVERFLOW"
	ErrorBadMainArgs    ErrorKind = "BAD_MAIN_ARGS"
	ErrorMissingReturn  ErrorKind = "MISSING_RETURN"
	ErrorUndefinedVar   ErrorKind = "UNDEFINED_VARIABLE"
	ErrorUnknownOpcode  ErrorKind = "UNKNOWN_OPCODE"
)

// RuntimeError is a dynamic violation detected during execution.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// NewRuntimeError creates a RuntimeError with a formatted message.
func NewRuntimeError(kind ErrorKind, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NewDivisionByZeroError reports an integer division or modulo by zero.
func NewDivisionByZeroError(op string) *RuntimeError {
	return NewRuntimeError(ErrorDivisionByZero, "%s by zero", op)
}

// NewStackOverflowError reports that the call stack exceeded its limit.
func NewStackOverflowError(limit int) *RuntimeError {
	return NewRuntimeError(ErrorStackOverflow, "call stack exceeded maximum depth %d", limit)
}
