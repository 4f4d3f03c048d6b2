package errutil

import "errors"

type InternalError struct {
	code string
	err  error
}

func NewInternalError(code string, msg string) InternalError {
	return InternalError{code: code, err: errors.New(msg)}
}

func (e InternalError) Error() string {
	return e.err.Error()
}

// メトリクスのラベルなどに使う短い識別子
func (e InternalError) Code() string {
	return e.code
}

// err の原因をたどって最初に見つかった InternalError の Code を返す
// 見つからなければ "unknown"
func CodeOf(err error) string {
	var ie InternalError
	if errors.As(err, &ie) {
		return ie.code
	}
	return "unknown"
}
