package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind классифицирует ошибку для выбора HTTP статуса.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindInactiveAccount
	KindPersistence
)

// Error carries a kind, a machine-readable code and a client-facing message.
// Services return *Error; handlers translate it into the error envelope.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the kind to an HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden, KindInactiveAccount:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Validation — клиент прислал некорректные данные; code уточняет причину.
func Validation(code, message string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

// NotFound builds a not-found error for the given entity ("food_item" → "food_item_not_found").
func NotFound(entity string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    entity + "_not_found",
		Message: titleOf(entity) + " not found",
	}
}

// Forbidden — пользователь аутентифицирован, но запись принадлежит другому.
func Forbidden(message string) *Error {
	if message == "" {
		message = "You do not have access to this record"
	}
	return &Error{Kind: KindForbidden, Code: "forbidden", Message: message}
}

func Unauthenticated(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Kind: KindUnauthenticated, Code: "unauthenticated", Message: message}
}

func InactiveAccount() *Error {
	return &Error{Kind: KindInactiveAccount, Code: "inactive_account", Message: "Account is inactive"}
}

// Persistence wraps a storage failure. Never reported as a validation problem.
func Persistence(err error) *Error {
	return &Error{Kind: KindPersistence, Code: "internal_error", Message: "Internal server error", Err: err}
}

// As extracts *Error from an error chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	ae, ok := As(err)
	return ok && ae.Kind == kind
}

func titleOf(entity string) string {
	switch entity {
	case "food_item":
		return "Food item"
	case "diet_plan":
		return "Diet plan"
	case "calorie_log":
		return "Calorie log"
	case "report":
		return "Report"
	case "user":
		return "User"
	default:
		return "Record"
	}
}
