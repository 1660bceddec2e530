package xcron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
)

const component = "xcron"

var (
	ErrNilJob       = errors.New("xcron: job cannot be nil")
	ErrEmptyName    = errors.New("xcron: job name is required")
	ErrDuplicateJob = errors.New("xcron: duplicate job name")
)

// JobID 任务标识，即 cron.EntryID
type JobID = cron.EntryID

// Scheduler 定时任务调度器，并发安全。
type Scheduler struct {
	cron     *cron.Cron
	logger   xlog.Logger
	observer xmetrics.Observer

	mu   sync.Mutex
	jobs map[string]*entry

	// 立即执行的任务在 Stop 时取消并等待
	immediateWg     sync.WaitGroup
	immediateCtx    context.Context
	immediateCancel context.CancelFunc
}

type entry struct {
	id    JobID
	stats *jobStats
}

// New 创建调度器
func New(opts ...SchedulerOption) *Scheduler {
	o := defaultSchedulerOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	logger := o.logger.With(xlog.Component(component))
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(o.location), cron.WithParser(o.parser)),
		logger:          logger,
		observer:        o.observer,
		jobs:            make(map[string]*entry),
		immediateCtx:    ctx,
		immediateCancel: cancel,
	}
}

// AddFunc 注册任务。name 在调度器内唯一。
func (s *Scheduler) AddFunc(spec, name string, fn func(ctx context.Context) error, opts ...JobOption) (JobID, error) {
	if fn == nil {
		return 0, ErrNilJob
	}
	if strings.TrimSpace(name) == "" {
		return 0, ErrEmptyName
	}
	jo := &jobOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(jo)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	stats := &jobStats{s: JobStats{Name: name, Spec: spec}}
	r := &runner{
		name:     name,
		fn:       fn,
		timeout:  jo.timeout,
		stats:    stats,
		logger:   s.logger.With(slog.String("job", name)),
		observer: s.observer,
	}
	id, err := s.cron.AddJob(spec, r.guarded())
	if err != nil {
		return 0, fmt.Errorf("xcron: add job %s: %w", name, err)
	}
	s.jobs[name] = &entry{id: id, stats: stats}

	if jo.immediate {
		s.immediateWg.Go(func() { r.run(s.immediateCtx) })
	}
	return id, nil
}

// Remove 按名字移除任务，返回是否存在
func (s *Scheduler) Remove(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.jobs[name]
	if !ok {
		return false
	}
	s.cron.Remove(e.id)
	delete(s.jobs, name)
	return true
}

// Stats 返回所有任务的统计快照，按名字排序
func (s *Scheduler) Stats() []JobStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobStats, 0, len(s.jobs))
	for _, e := range s.jobs {
		st := e.stats.snapshot()
		st.Next = s.cron.Entry(e.id).Next
		out = append(out, st)
	}
	slices.SortFunc(out, func(a, b JobStats) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Start 启动调度，非阻塞
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度并等待正在执行的任务结束，ctx 到期时提前返回 ctx.Err()。
func (s *Scheduler) Stop(ctx context.Context) error {
	s.immediateCancel()
	done := s.cron.Stop()
	s.immediateWg.Wait()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run 启动调度直到 ctx 结束，然后等待正在执行的任务。适合放进 xrun.Group。
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	s.logger.Info(ctx, "scheduler started", xlog.Count(int64(len(s.Stats()))))
	<-ctx.Done()
	err := s.Stop(context.Background())
	s.logger.Info(context.Background(), "scheduler stopped")
	return err
}

// runner 单个任务的执行逻辑
type runner struct {
	name     string
	fn       func(ctx context.Context) error
	timeout  time.Duration
	stats    *jobStats
	logger   xlog.Logger
	observer xmetrics.Observer

	running sync.Mutex
}

// guarded 返回交给 cron 的 Job：上一次未结束时跳过
func (r *runner) guarded() cron.Job {
	return cron.FuncJob(func() {
		if !r.running.TryLock() {
			r.stats.skip()
			r.logger.Warn(context.Background(), "previous run still in progress, skipped")
			return
		}
		defer r.running.Unlock()
		r.run(context.Background())
	})
}

func (r *runner) run(parent context.Context) {
	ctx := parent
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, r.timeout)
		defer cancel()
	}

	ctx, span := xmetrics.Start(ctx, r.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: r.name,
	})
	start := time.Now()
	err := r.call(ctx)
	d := time.Since(start)
	span.End(xmetrics.Result{Err: err})
	r.stats.record(start, d, err)

	if err != nil {
		r.logger.Error(ctx, "job failed", xlog.Duration(d), xlog.Err(err))
		return
	}
	r.logger.Debug(ctx, "job completed", xlog.Duration(d))
}

// call 执行任务函数，panic 转为错误
func (r *runner) call(ctx context.Context) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("xcron: job %s panicked: %v", r.name, p)
		}
	}()
	return r.fn(ctx)
}
