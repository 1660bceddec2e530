package xcron

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
)

type schedulerOptions struct {
	logger   xlog.Logger
	observer xmetrics.Observer
	location *time.Location
	parser   cron.Parser
}

func defaultSchedulerOptions() *schedulerOptions {
	return &schedulerOptions{
		logger:   xlog.Discard(),
		observer: xmetrics.NoopObserver{},
		location: time.Local,
		parser:   cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// SchedulerOption 调度器配置
type SchedulerOption func(*schedulerOptions)

func WithLogger(l xlog.Logger) SchedulerOption {
	return func(o *schedulerOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithObserver(obs xmetrics.Observer) SchedulerOption {
	return func(o *schedulerOptions) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLocation 设置解析表达式使用的时区，默认 time.Local。
func WithLocation(loc *time.Location) SchedulerOption {
	return func(o *schedulerOptions) {
		if loc != nil {
			o.location = loc
		}
	}
}

// WithSeconds 启用秒级精度（6 段表达式）。
func WithSeconds() SchedulerOption {
	return func(o *schedulerOptions) {
		o.parser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	}
}

type jobOptions struct {
	timeout   time.Duration
	immediate bool
}

// JobOption 任务配置
type JobOption func(*jobOptions)

// WithTimeout 单次执行超时，0 表示不限制。
func WithTimeout(d time.Duration) JobOption {
	return func(o *jobOptions) {
		if d >= 0 {
			o.timeout = d
		}
	}
}

// WithImmediate 注册后立即执行一次，不等第一次触发。
func WithImmediate() JobOption {
	return func(o *jobOptions) {
		o.immediate = true
	}
}
