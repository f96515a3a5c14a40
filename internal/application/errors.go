package application

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies service errors so transports can map them to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

// Error is a classified service error with a client-safe message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []string
}

func (e *Error) Error() string {
	if len(e.Fields) > 0 {
		return e.Message + ": " + strings.Join(e.Fields, ", ")
	}
	return e.Message
}

// Is matches on Code so that errors carrying field details still compare
// equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Code: "validation", Message: "validation error"}
	ErrMissingFields      = &Error{Kind: KindValidation, Code: "missing_fields", Message: "missing required fields"}
	ErrAlreadyRegistered  = &Error{Kind: KindValidation, Code: "already_registered", Message: "account already registered"}
	ErrInvalidOTP         = &Error{Kind: KindValidation, Code: "invalid_otp", Message: "invalid otp"}
	ErrOTPExpired         = &Error{Kind: KindValidation, Code: "otp_expired", Message: "otp expired"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Message: "invalid credentials"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Code: "invalid_token", Message: "invalid token"}
	ErrForbidden          = &Error{Kind: KindAuthorization, Code: "forbidden", Message: "forbidden"}
	ErrNotFound           = &Error{Kind: KindNotFound, Code: "not_found", Message: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Code: "conflict", Message: "conflict"}
	ErrStorage            = &Error{Kind: KindInternal, Code: "storage", Message: "storage error"}
	ErrUpstream           = &Error{Kind: KindInternal, Code: "upstream", Message: "upstream service error"}
)

// missingFields returns ErrMissingFields carrying the names of the empty fields.
func missingFields(fields []string) error {
	return &Error{Kind: ErrMissingFields.Kind, Code: ErrMissingFields.Code, Message: ErrMissingFields.Message, Fields: fields}
}

// invalid returns a validation error with a specific message.
func invalid(msg string) error {
	return &Error{Kind: KindValidation, Code: ErrValidation.Code, Message: msg}
}

// storageErr wraps a repository failure so callers can match ErrStorage
// while logs keep the cause.
func storageErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStorage, err)
}

// KindOf reports the classification of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage returns a message safe to show clients.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "internal server error"
}

// FieldsOf returns field names attached to err, if any.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
