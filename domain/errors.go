package domain

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindAuthentication
	KindConflict
	KindUnavailable
)

func (k ErrorKind) String() string {
	return [...]string{"internal", "validation", "not_found", "authorization", "authentication", "conflict", "unavailable"}[k]
}

// Error is the error type every layer returns for classified failures.
// Unclassified errors are treated as internal.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NewValidationError(message string, fields map[string]string) error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NewNotFoundError(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

func NewAuthorizationError(message string) error {
	return &Error{Kind: KindAuthorization, Message: message}
}

func NewAuthenticationError(message string) error {
	return &Error{Kind: KindAuthentication, Message: message}
}

func NewConflictError(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func NewUnavailableError(message string, err error) error {
	return &Error{Kind: KindUnavailable, Message: message, Err: err}
}

// KindOf reports the kind of err, KindInternal when it is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// FieldsOf returns the field-level messages carried by a validation error.
func FieldsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

var (
	errActionNotFound     = NewNotFoundError("Action non trouvée")
	errInvalidCredentials = NewAuthenticationError("Email ou mot de passe incorrect")
	errInvalidToken       = NewAuthenticationError("Token invalide ou expiré")
	errMissingToken       = NewAuthenticationError("Accès non autorisé, token manquant")
	errUserNotActive      = NewAuthenticationError("Compte utilisateur désactivé")
	errForbidden          = NewAuthorizationError("Accès refusé")
	errInvalidID          = NewValidationError("Identifiant invalide", nil)
)

func ErrActionNotFound() error {
	return errActionNotFound
}

func ErrInvalidCredentials() error {
	return errInvalidCredentials
}

func ErrInvalidToken() error {
	return errInvalidToken
}

func ErrMissingToken() error {
	return errMissingToken
}

func ErrUserNotActive() error {
	return errUserNotActive
}

func ErrForbidden() error {
	return errForbidden
}

func ErrInvalidID() error {
	return errInvalidID
}
