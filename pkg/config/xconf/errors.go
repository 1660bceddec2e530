package xconf

import "errors"

var (
	ErrEmptyPath         = errors.New("xconf: empty config path")
	ErrUnsupportedFormat = errors.New("xconf: unsupported config format")
	ErrLoadFailed        = errors.New("xconf: failed to load config")
	ErrParseFailed       = errors.New("xconf: failed to parse config")
	ErrUnmarshalFailed   = errors.New("xconf: failed to unmarshal config")

	// ErrNotReloadable 从字节数据创建的配置不能 Reload 或监视
	ErrNotReloadable = errors.New("xconf: config created from bytes is not reloadable")

	ErrWatcherRunning = errors.New("xconf: watcher already running")
)
