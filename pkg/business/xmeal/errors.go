package xmeal

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest      = errors.New("xmeal: invalid request")
	ErrUnknownMenuItem     = errors.New("xmeal: unknown menu item")
	ErrMenuItemUnavailable = errors.New("xmeal: menu item unavailable")
	ErrInsufficientBalance = errors.New("xmeal: insufficient meal pack balance")
	ErrInvalidTransition   = errors.New("xmeal: invalid order status transition")
	ErrOrderNotFound       = errors.New("xmeal: order not found")

	// ErrBalanceConflict 提交时餐包余额已被并发修改
	ErrBalanceConflict = errors.New("xmeal: meal pack balance changed concurrently")

	ErrNilStore = errors.New("xmeal: nil store")
	ErrNilIDGen = errors.New("xmeal: nil id generator")

	// ErrDatabase 所有 DatabaseError 都匹配它
	ErrDatabase = errors.New("database error")
)

// DatabaseError 存储层失败。Op 为失败的操作名，Err 为底层错误。
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// Is 使 errors.Is(err, ErrDatabase) 成立。
func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase
}

// domainErrors 存储层可直接返回的业务错误，不包装为 DatabaseError
var domainErrors = []error{
	ErrOrderNotFound,
	ErrBalanceConflict,
	ErrInvalidTransition,
	ErrInsufficientBalance,
}

// WrapStoreError 把存储层错误归类：业务错误原样返回，其余包装为 DatabaseError。
// 已经是 DatabaseError 的不重复包装。
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return err
		}
	}
	if errors.Is(err, ErrDatabase) {
		return err
	}
	return &DatabaseError{Op: op, Err: err}
}
