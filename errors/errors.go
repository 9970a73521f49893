package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Fatal errors, abort the whole run
	ErrorTypeConfig ErrorType = "config"

	// Per-file errors, one for each pipeline stage
	ErrorTypeRead      ErrorType = "read"
	ErrorTypeDecode    ErrorType = "decode"
	ErrorTypeCrop      ErrorType = "crop"
	ErrorTypeNormalize ErrorType = "normalize"
	ErrorTypeFlatten   ErrorType = "flatten"
	ErrorTypeEncode    ErrorType = "encode"
	ErrorTypeWrite     ErrorType = "write"

	// System errors
	ErrorTypeCanceled ErrorType = "canceled"
	ErrorTypeInternal ErrorType = "internal"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	InnerError error                  `json:"-"`
	Stack      []string               `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	switch {
	case e.Message != "" && e.InnerError != nil:
		return e.Message + ": " + e.InnerError.Error()
	case e.Message != "":
		return e.Message
	case e.InnerError != nil:
		return e.InnerError.Error()
	}
	return string(e.Type)
}

// Unwrap returns the inner error
func (e *AppError) Unwrap() error {
	return e.InnerError
}

// WithCode adds a code to the error
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetail adds a detail to the error
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithStack captures the call stack
func (e *AppError) WithStack() *AppError {
	e.Stack = captureStack(3)
	return e
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	if targetApp, ok := target.(*AppError); ok {
		return e.Type == targetApp.Type
	}
	return false
}

// Fatal reports whether the error should abort the whole batch.
func (e *AppError) Fatal() bool {
	return e.Type == ErrorTypeConfig
}

// New creates a new AppError
func New(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Code:    string(errType),
	}
}

// FromError converts a standard error to AppError. The first *AppError in
// the chain wins.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	return &AppError{
		Type:       ErrorTypeUnknown,
		Code:       string(ErrorTypeUnknown),
		InnerError: err,
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	if err == nil {
		return ""
	}
	return FromError(err).Type
}

// IsType reports whether any error in err's chain is an *AppError of errType.
func IsType(err error, errType ErrorType) bool {
	return errors.Is(err, &AppError{Type: errType})
}

// Wrap wraps an error with additional context, keeping its type.
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       FromError(err).Type,
		Code:       FromError(err).Code,
		Message:    message,
		InnerError: err,
	}
}

// WrapWithType wraps an error with a specific type
func WrapWithType(err error, errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		InnerError: err,
		Code:       string(errType),
	}
}

// Config errors
func NewConfig(message string) *AppError {
	return New(ErrorTypeConfig, message).WithCode(CodeInvalidConfig)
}

func NewInputNotFound(dir string) *AppError {
	return New(ErrorTypeConfig, fmt.Sprintf("%s folder not found", dir)).
		WithCode(CodeInputNotFound).
		WithDetail("dir", dir)
}

// Stage errors
func NewDecode(err error) *AppError {
	return WrapWithType(err, ErrorTypeDecode, "decode failed")
}

func NewNormalize(err error) *AppError {
	return WrapWithType(err, ErrorTypeNormalize, "normalize failed")
}

func NewEncode(err error) *AppError {
	return WrapWithType(err, ErrorTypeEncode, "encode failed")
}

func NewWrite(err error, path string) *AppError {
	return WrapWithType(err, ErrorTypeWrite, "write failed").WithDetail("path", path)
}

func NewCanceled(err error) *AppError {
	return WrapWithType(err, ErrorTypeCanceled, "canceled")
}

// Error codes for specific scenarios
const (
	CodeInvalidConfig = "INVALID_CONFIG"
	CodeInputNotFound = "INPUT_NOT_FOUND"
	CodePanic         = "PANIC"
)

// ErrorRecoverWithHandler recovers from panics and hands them to handler.
// It must be deferred directly.
func ErrorRecoverWithHandler(handler func(*AppError)) {
	if r := recover(); r != nil {
		var appErr *AppError
		switch v := r.(type) {
		case error:
			appErr = WrapWithType(v, ErrorTypeInternal, "panic recovered")
		case string:
			appErr = New(ErrorTypeInternal, v)
		default:
			appErr = New(ErrorTypeInternal, fmt.Sprintf("%v", v))
		}
		appErr = appErr.WithCode(CodePanic).WithStack()
		handler(appErr)
	}
}

// captureStack captures the call stack
func captureStack(skip int) []string {
	var stack []string
	for i := skip; i < 10; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		funcName := fn.Name()
		if idx := strings.LastIndex(funcName, "/"); idx >= 0 {
			funcName = funcName[idx+1:]
		}

		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, funcName))
	}
	return stack
}

// ErrorChain represents a chain of errors
type ErrorChain struct {
	errors []*AppError
}

// NewErrorChain creates a new error chain
func NewErrorChain() *ErrorChain {
	return &ErrorChain{
		errors: make([]*AppError, 0),
	}
}

// Add adds an error to the chain
func (c *ErrorChain) Add(err error) *ErrorChain {
	if err != nil {
		c.errors = append(c.errors, FromError(err))
	}
	return c
}

// HasErrors checks if the chain has errors
func (c *ErrorChain) HasErrors() bool {
	return len(c.errors) > 0
}

// Error returns the combined error message
func (c *ErrorChain) Error() string {
	if !c.HasErrors() {
		return ""
	}

	var messages []string
	for _, err := range c.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, " | ")
}

// Errors returns all errors in the chain
func (c *ErrorChain) Errors() []*AppError {
	return c.errors
}

// HasType checks if the chain has an error of the specified type
func (c *ErrorChain) HasType(errType ErrorType) bool {
	for _, err := range c.errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}

// ErrOrNil returns the chain as an error, or nil when it is empty.
func (c *ErrorChain) ErrOrNil() error {
	if !c.HasErrors() {
		return nil
	}
	return c
}
