package xconf

import (
	"time"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// Options 加载选项
type Options struct {
	// Delim 键分隔符，默认 "."
	Delim string
	// Tag 结构体标签，默认 "koanf"
	Tag string
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{Delim: ".", Tag: "koanf"}
}

func WithDelim(delim string) Option {
	return func(o *Options) {
		if delim != "" {
			o.Delim = delim
		}
	}
}

func WithTag(tag string) Option {
	return func(o *Options) {
		if tag != "" {
			o.Tag = tag
		}
	}
}

// DefaultDebounce 防抖窗口内的多次变更只触发一次重载
const DefaultDebounce = 100 * time.Millisecond

// WatchOption Watcher 选项
type WatchOption func(*watchOptions)

type watchOptions struct {
	debounce time.Duration
	logger   xlog.Logger
}

func defaultWatchOptions() *watchOptions {
	return &watchOptions{debounce: DefaultDebounce, logger: xlog.Discard()}
}

func WithDebounce(d time.Duration) WatchOption {
	return func(o *watchOptions) {
		if d > 0 {
			o.debounce = d
		}
	}
}

func WithWatchLogger(l xlog.Logger) WatchOption {
	return func(o *watchOptions) {
		if l != nil {
			o.logger = l
		}
	}
}
