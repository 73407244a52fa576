// Package errors provides the structured error taxonomy used across the
// xlsx engine: every public boundary returns one of these values rather
// than panicking or returning a bare error string.
package errors

import (
	"fmt"
	"strings"
)

// Error codes, matching the taxonomy of spec.md §7.
const (
	ErrCodeIO                 = "IO_ERROR"
	ErrCodeXML                = "PARSE_ERROR"
	ErrCodeInvalidWorkbook    = "INVALID_WORKBOOK"
	ErrCodeSecurity           = "SECURITY_ERROR"
	ErrCodeFingerprintMismatch = "FINGERPRINT_MISMATCH"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeUnsupported        = "UNSUPPORTED"
)

// XlsxError is a structured error carrying an operation name, a code, an
// optional cause, and free-form context (e.g. the part path involved).
type XlsxError struct {
	Code    string
	Op      string
	Err     error
	Message string
	Context map[string]interface{}
}

// Error implements the error interface.
func (e *XlsxError) Error() string {
	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("operation=%s", e.Op))
	}
	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Err))
	}
	if len(e.Context) > 0 {
		ctx := make([]string, 0, len(e.Context))
		for k, v := range e.Context {
			ctx = append(ctx, fmt.Sprintf("%s=%v", k, v))
		}
		parts = append(parts, fmt.Sprintf("context={%s}", strings.Join(ctx, ", ")))
	}

	return strings.Join(parts, " | ")
}

// Unwrap returns the underlying cause, if any.
func (e *XlsxError) Unwrap() error { return e.Err }

// Is supports errors.Is comparisons keyed on error code.
func (e *XlsxError) Is(target error) bool {
	t, ok := target.(*XlsxError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Errorf builds a new XlsxError with a formatted message.
func Errorf(code, op, format string, args ...interface{}) error {
	return &XlsxError{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap attaches operation context to an existing error, defaulting to
// ErrCodeInternal. Returns nil if err is nil.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}
	return &XlsxError{Code: ErrCodeInternal, Op: op, Err: err}
}

// WrapWithCode is Wrap with an explicit error code.
func WrapWithCode(err error, code, op string) error {
	if err == nil {
		return nil
	}
	return &XlsxError{Code: code, Op: op, Err: err}
}

// WrapWithContext is Wrap with additional structured context (e.g. the
// part path, sheet index, or cell reference involved).
func WrapWithContext(err error, code, op string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &XlsxError{Code: code, Op: op, Err: err, Context: context}
}

// ParseError constructs a location-carrying parse error per spec.md §2's
// XmlSecurity contract: ParseError(location, message).
func ParseError(op, location, message string) error {
	return &XlsxError{
		Code:    ErrCodeXML,
		Op:      op,
		Message: message,
		Context: map[string]interface{}{"location": location},
	}
}

// SecurityError constructs a SecurityError per spec.md §7.
func SecurityError(op, message string) error {
	return &XlsxError{Code: ErrCodeSecurity, Op: op, Message: message}
}

// FingerprintMismatch constructs a FingerprintMismatch error per spec.md
// §7: the source file's size or content changed since it was read,
// detected either by a pre-copy re-stat or by the running digest
// computed during the verbatim copy itself.
func FingerprintMismatch(op, message string) error {
	return &XlsxError{Code: ErrCodeFingerprintMismatch, Op: op, Message: message}
}

// CodeOf extracts the error code from an XlsxError chain, or "" if err is
// not (or does not wrap) an XlsxError.
func CodeOf(err error) string {
	for err != nil {
		if xe, ok := err.(*XlsxError); ok {
			return xe.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return ""
}
