package xretry

import (
	"errors"

	retry "github.com/avast/retry-go/v5"
)

var (
	ErrNilContext = errors.New("xretry: nil context")
	ErrNilFunc    = errors.New("xretry: nil function")
)

// RetryableError 自行声明是否可重试的错误，如 *xbreaker.BreakerError
type RetryableError interface {
	error
	Retryable() bool
}

// Permanent 标记错误不可重试。errors.Is/As 仍可穿透到原始错误。
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return retry.Unrecoverable(err)
}

// IsPermanent 判断错误是否被 Permanent 标记
func IsPermanent(err error) bool {
	return err != nil && !retry.IsRecoverable(err)
}

// IsRetryable Permanent 错误与 Retryable() 返回 false 的错误（错误链上任一处）不可重试。
func IsRetryable(err error) bool {
	if err == nil || IsPermanent(err) {
		return false
	}
	var re RetryableError
	if errors.As(err, &re) {
		return re.Retryable()
	}
	return true
}
