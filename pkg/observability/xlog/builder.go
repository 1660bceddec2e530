package xlog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Builder 日志配置构建器
//
// Set* 方法链式调用，第一个配置错误会被记录并在 Build 时返回。
type Builder struct {
	output    io.Writer
	closer    io.Closer
	levelVar  *slog.LevelVar
	format    string
	addSource bool
	attrs     []slog.Attr
	onError   func(error)
	err       error
}

// New 创建配置构建器，默认 Info 级别、text 格式、输出到 stderr。
func New() *Builder {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	return &Builder{
		output:   os.Stderr,
		levelVar: levelVar,
		format:   "text",
	}
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// SetOutput 设置日志输出目标
func (b *Builder) SetOutput(w io.Writer) *Builder {
	if w == nil {
		b.setErr(fmt.Errorf("xlog: nil output"))
		return b
	}
	b.output = w
	return b
}

func (b *Builder) SetLevel(level Level) *Builder {
	b.levelVar.Set(slog.Level(level))
	return b
}

// SetLevelString 通过字符串设置日志级别，见 ParseLevel。
func (b *Builder) SetLevelString(s string) *Builder {
	level, err := ParseLevel(s)
	if err != nil {
		b.setErr(err)
		return b
	}
	return b.SetLevel(level)
}

// SetFormat 设置输出格式：text 或 json。空值保持 text。
func (b *Builder) SetFormat(format string) *Builder {
	switch f := strings.ToLower(strings.TrimSpace(format)); f {
	case "":
		b.format = "text"
	case "text", "json":
		b.format = f
	default:
		b.setErr(fmt.Errorf("xlog: unknown format %q", format))
	}
	return b
}

func (b *Builder) SetAddSource(enable bool) *Builder {
	b.addSource = enable
	return b
}

// SetAttrs 设置每条日志都携带的固定属性（如实例 ID）。
func (b *Builder) SetAttrs(attrs ...slog.Attr) *Builder {
	b.attrs = append(b.attrs, attrs...)
	return b
}

// SetRotation 输出到带轮转的日志文件，覆盖 SetOutput。
// Build 返回的 cleanup 会关闭该文件。
func (b *Builder) SetRotation(filename string, opts ...RotateOption) *Builder {
	rotator, err := newRotator(filename, opts...)
	if err != nil {
		b.setErr(err)
		return b
	}
	b.output = rotator
	b.closer = rotator
	return b
}

// SetOnError 设置内部错误回调
//
// Handler.Handle 失败（磁盘满、writer 异常）时调用。回调在写日志的
// goroutine 上同步执行，应保持轻量；回调 panic 会被吞掉并计数。
func (b *Builder) SetOnError(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Build 构建 Logger
//
// 返回值：
//   - LoggerWithLevel: 日志实例
//   - func() error: 清理函数，可重复调用
//   - error: 配置错误
func (b *Builder) Build() (LoggerWithLevel, func() error, error) {
	if b.err != nil {
		return nil, nil, b.err
	}

	opts := &slog.HandlerOptions{
		Level:     b.levelVar,
		AddSource: b.addSource,
	}

	var handler slog.Handler
	if b.format == "json" {
		handler = slog.NewJSONHandler(b.output, opts)
	} else {
		handler = slog.NewTextHandler(b.output, opts)
	}
	if len(b.attrs) > 0 {
		handler = handler.WithAttrs(b.attrs)
	}

	logger := &xlogger{
		handler:        handler,
		levelVar:       b.levelVar,
		addSource:      b.addSource,
		onError:        b.onError,
		errorCount:     new(atomic.Uint64),
		inErrorHandler: new(atomic.Bool),
	}

	closer := b.closer
	var once sync.Once
	cleanup := func() error {
		var err error
		once.Do(func() {
			if closer != nil {
				err = closer.Close()
			}
		})
		return err
	}
	return logger, cleanup, nil
}
