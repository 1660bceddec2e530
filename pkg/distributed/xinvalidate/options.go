package xinvalidate

import (
	"github.com/benbjohnson/clock"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/util/xproc"
)

// DefaultChannel 默认频道
const DefaultChannel = "mealkit:stats:invalidate"

type options struct {
	channel  string
	origin   string
	clock    clock.Clock
	logger   xlog.Logger
	observer xmetrics.Observer
}

// Option Bus 配置项
type Option func(*options)

func defaultOptions() *options {
	return &options{
		channel:  DefaultChannel,
		origin:   xproc.InstanceID(),
		clock:    clock.New(),
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
	}
}

// WithChannel 设置频道名，同一集群的实例必须一致。
func WithChannel(name string) Option {
	return func(o *options) {
		o.channel = name
	}
}

// WithOrigin 设置本实例 ID，默认 xproc.InstanceID()。
func WithOrigin(id string) Option {
	return func(o *options) {
		o.origin = id
	}
}

func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func WithLogger(l xlog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs xmetrics.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}
