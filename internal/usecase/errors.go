package usecase

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
	KindCartEmpty       ErrorKind = "cart_empty"
	KindBackend         ErrorKind = "backend"
)

// Error はusecaseが返すエラー。handlerが Kind をステータスに変換する。
type Error struct {
	Kind    ErrorKind
	Message string
	// 遷移先（空カートなど）
	Redirect string
	// 元のエラー（ログ用。レスポンスには出さない）
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

func IsKind(err error, kind ErrorKind) bool {
	ue, ok := AsError(err)
	return ok && ue.Kind == kind
}

var errSignInRequired = NewError(KindUnauthenticated, "please sign in")

func backendError(err error) error {
	return WrapError(KindBackend, "db error", err)
}
