package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind tags an Error with the subsystem that produced it and the
// HTTP status it maps to at the server boundary.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindStorage
	KindQueue
	KindAudit
	KindSecrets
	KindPersistence
	KindConfiguration
)

// Error is the single error shape crossing subsystem boundaries. Detail is
// the human-readable message returned to clients; Code is a stable machine
// identifier; Err carries the underlying cause for logs only.
type Error struct {
	Kind   ErrorKind
	Code   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// Status maps the kind to an HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindStorage, KindQueue, KindAudit, KindSecrets:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func ValidationError(code, detail string) *Error {
	return &Error{Kind: KindValidation, Code: code, Detail: detail}
}

func NotFoundError(detail string) *Error {
	return &Error{Kind: KindNotFound, Code: "not_found", Detail: detail}
}

func UnauthorizedError(detail string) *Error {
	return &Error{Kind: KindUnauthorized, Code: "unauthorized", Detail: detail}
}

func ForbiddenError(detail string) *Error {
	return &Error{Kind: KindForbidden, Code: "forbidden", Detail: detail}
}

func StorageError(detail string, err error) *Error {
	return &Error{Kind: KindStorage, Code: "s3_service_error", Detail: detail, Err: err}
}

func QueueError(detail string, err error) *Error {
	return &Error{Kind: KindQueue, Code: "sqs_service_error", Detail: detail, Err: err}
}

func AuditError(detail string, err error) *Error {
	return &Error{Kind: KindAudit, Code: "dynamodb_service_error", Detail: detail, Err: err}
}

func SecretsError(detail string, err error) *Error {
	return &Error{Kind: KindSecrets, Code: "secrets_manager_service_error", Detail: detail, Err: err}
}

func PersistenceError(detail string, err error) *Error {
	return &Error{Kind: KindPersistence, Code: "persistence_error", Detail: detail, Err: err}
}

func ConfigurationError(detail string) *Error {
	return &Error{Kind: KindConfiguration, Code: "configuration_error", Detail: detail}
}

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
