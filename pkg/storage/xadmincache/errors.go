package xadmincache

import "errors"

var (
	// ErrInvalidSize 容量必须大于 0
	ErrInvalidSize = errors.New("xadmincache: max size must be positive")

	// ErrSizeExceedsMax 容量超过上限
	ErrSizeExceedsMax = errors.New("xadmincache: max size exceeds limit")

	// ErrInvalidTTL 默认 TTL 必须大于 0
	ErrInvalidTTL = errors.New("xadmincache: default ttl must be positive")
)
