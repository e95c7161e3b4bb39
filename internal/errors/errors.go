package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error is a ledger failure: which precondition failed and on which identifiers.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
}

// Sentinels for errors.Is checks. They match any *Error with the same code.
var (
	ErrInvalidInput      = &Error{Code: CodeInvalidInput}
	ErrNotFound          = &Error{Code: CodeNotFound}
	ErrUnauthorized      = &Error{Code: CodeUnauthorized}
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return strings.ToLower(string(e.Code))
	}
	if len(e.Metadata) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Metadata))
	for k := range e.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + e.Metadata[k]
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(pairs, ", "))
}

// Is matches a sentinel (empty message) by code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Code == e.Code
}

// New builds an error from a code, a message and alternating key/value pairs.
func New(code Code, message string, kv ...string) *Error {
	var md map[string]string
	if len(kv) > 0 {
		md = make(map[string]string, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			md[kv[i]] = kv[i+1]
		}
	}
	return &Error{Code: code, Message: message, Metadata: md}
}

func InvalidInput(message string, kv ...string) *Error {
	return New(CodeInvalidInput, message, kv...)
}

func NotFound(message string, kv ...string) *Error {
	return New(CodeNotFound, message, kv...)
}

func Unauthorized(message string, kv ...string) *Error {
	return New(CodeUnauthorized, message, kv...)
}

func InsufficientFunds(message string, kv ...string) *Error {
	return New(CodeInsufficientFunds, message, kv...)
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetMetadata extracts metadata from an error if present.
func GetMetadata(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Metadata
	}
	return nil
}
