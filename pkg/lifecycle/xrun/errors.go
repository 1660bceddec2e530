package xrun

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrSignal 因收到系统信号而终止，用 errors.Is 判断。
	ErrSignal = errors.New("received signal")

	ErrNilFunc   = errors.New("xrun: nil service func")
	ErrNilServer = errors.New("xrun: nil http server")
)

// SignalError 携带触发退出的信号
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	if e.Signal == nil {
		return "received signal <nil>"
	}
	return fmt.Sprintf("received signal %s", e.Signal)
}

func (e *SignalError) Is(target error) bool {
	return target == ErrSignal
}

func (e *SignalError) Unwrap() error {
	return ErrSignal
}
