package xconf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// WatchCallback 每次重载后调用，err 非 nil 表示重载失败且旧配置仍然生效。
type WatchCallback func(cfg Config, err error)

// Watcher 监视配置文件并自动重载
type Watcher struct {
	cfg      *koanfConfig
	fs       *fsnotify.Watcher
	callback WatchCallback
	opts     *watchOptions

	running atomic.Bool

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	reloads  atomic.Uint64
	failures atomic.Uint64
}

// NewWatcher 为从文件创建的 cfg 创建监视器。调用 Run 开始监视。
func NewWatcher(cfg Config, callback WatchCallback, opts ...WatchOption) (*Watcher, error) {
	kc, ok := cfg.(*koanfConfig)
	if !ok {
		return nil, fmt.Errorf("xconf: unsupported config type %T", cfg)
	}
	if kc.path == "" {
		return nil, ErrNotReloadable
	}
	o := defaultWatchOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("xconf: create watcher: %w", err)
	}
	dir := filepath.Dir(kc.path)
	if err := fw.Add(dir); err != nil {
		return nil, errors.Join(fmt.Errorf("xconf: watch %s: %w", dir, err), fw.Close())
	}
	return &Watcher{cfg: kc, fs: fw, callback: callback, opts: o}, nil
}

// Reloads 成功重载次数
func (w *Watcher) Reloads() uint64 { return w.reloads.Load() }

// Failures 重载失败与监视错误次数
func (w *Watcher) Failures() uint64 { return w.failures.Load() }

// Run 阻塞监视直到 ctx 取消。只能调用一次。
func (w *Watcher) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWatcherRunning
	}
	defer w.stop()

	filename := filepath.Base(w.cfg.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if w.relevant(ev, filename) {
				w.schedule(ctx)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.failures.Add(1)
			w.opts.logger.Warn(ctx, "config watch error", xlog.Err(err))
			if w.callback != nil {
				w.callback(w.cfg, fmt.Errorf("xconf: watch error: %w", err))
			}
		}
	}
}

// relevant Write 直接修改；Create/Rename 对应编辑器的原子写入
func (w *Watcher) relevant(ev fsnotify.Event, filename string) bool {
	if filepath.Base(ev.Name) != filename {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.debounce, func() { w.reload(ctx) })
}

func (w *Watcher) reload(ctx context.Context) {
	// 持锁执行，stop 返回后不会再有回调
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	err := w.cfg.Reload()
	if err != nil {
		w.failures.Add(1)
		w.opts.logger.Warn(ctx, "config reload failed, keeping previous",
			slog.String("path", w.cfg.path), xlog.Err(err))
	} else {
		w.reloads.Add(1)
		w.opts.logger.Info(ctx, "config reloaded", slog.String("path", w.cfg.path))
	}
	if w.callback != nil {
		w.callback(w.cfg, err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()
	_ = w.fs.Close()
}

// Close 释放未运行过的 Watcher。Run 返回时已自动释放。
func (w *Watcher) Close() error {
	w.stop()
	return nil
}
