package errors

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorType classifies domain errors so the HTTP layer can pick a status
type ErrorType string

const (
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeSchema     ErrorType = "SCHEMA"
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeSource     ErrorType = "SOURCE"
)

// Typed is implemented by domain errors that know their ErrorType
type Typed interface {
	error
	ErrorType() ErrorType
}

// AppError is a classified failure while reading or checking source data.
// Fields carries locating detail such as the file, range or row.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Fields  map[string]interface{}
}

func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(strings.ToLower(string(e.Type)))
	b.WriteString(": ")
	b.WriteString(e.Message)

	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, e.Fields[k])
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *AppError) Unwrap() error { return e.Cause }

// ErrorType implements Typed
func (e *AppError) ErrorType() ErrorType { return e.Type }

// With records a locating field and returns e for chaining
func (e *AppError) With(key string, value interface{}) *AppError {
	if e.Fields == nil {
		e.Fields = make(map[string]interface{})
	}
	e.Fields[key] = value
	return e
}

func newAppError(t ErrorType, message string, cause error) *AppError {
	return &AppError{Type: t, Message: message, Cause: cause}
}

// NewParsingError reports source content that could not be decoded
func NewParsingError(message string, cause error) *AppError {
	return newAppError(ErrTypeParsing, message, cause)
}

// NewSourceError reports a source that could not be reached or opened
func NewSourceError(message string, cause error) *AppError {
	return newAppError(ErrTypeSource, message, cause)
}

// NewInvalidSourceError reports a catalog entry that cannot be read as configured
func NewInvalidSourceError(message string) *AppError {
	return newAppError(ErrTypeValidation, message, nil)
}
