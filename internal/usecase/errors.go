package usecase

import (
	"errors"
	"fmt"
)

// handlerがstatusに変換できるエラー。
// 401 認証 / 403 所有・権限 / 404 無し / 409 重複・在庫 / 422 入力 / 500 その他
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}
