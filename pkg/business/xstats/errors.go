package xstats

import (
	"errors"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
)

// DatabaseError 与 xmeal 共用同一类型，调用方只需判断一次。
type DatabaseError = xmeal.DatabaseError

var (
	ErrDatabase = xmeal.ErrDatabase

	ErrNilCache = errors.New("xstats: nil cache")
	ErrNilStore = errors.New("xstats: nil store")
)
