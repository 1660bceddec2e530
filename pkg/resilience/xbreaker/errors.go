package xbreaker

import (
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
)

var (
	// ErrOpen 熔断器打开
	ErrOpen = gobreaker.ErrOpenState

	// ErrTooManyRequests 半开状态下探测请求已满
	ErrTooManyRequests = gobreaker.ErrTooManyRequests

	ErrNilFunc = errors.New("xbreaker: nil func")
)

// BreakerError 熔断器拒绝执行时返回
type BreakerError struct {
	Err   error
	Name  string
	State State
}

func (e *BreakerError) Error() string {
	return fmt.Sprintf("breaker %s (%s): %v", e.Name, e.State, e.Err)
}

func (e *BreakerError) Unwrap() error {
	return e.Err
}

// Retryable 熔断错误不重试
func (e *BreakerError) Retryable() bool {
	return false
}

// IsBreakerError err 是否为熔断器拒绝
func IsBreakerError(err error) bool {
	var be *BreakerError
	return errors.As(err, &be)
}

func wrap(err error, name string, state State) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &BreakerError{Err: err, Name: name, State: state}
	}
	return err
}
