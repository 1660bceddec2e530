package xlog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// 轮转默认值与上限
const (
	DefaultRotateMaxSizeMB  = 100
	DefaultRotateMaxBackups = 7
	DefaultRotateMaxAgeDays = 30

	maxRotateSizeMB  = 10 * 1024
	maxRotateBackups = 1024
	maxRotateAgeDays = 3650
)

var (
	ErrEmptyFilename     = errors.New("xlog: rotation filename is empty")
	ErrInvalidRotateSize = errors.New("xlog: invalid rotation max size")
	ErrNoCleanupPolicy   = errors.New("xlog: rotation needs max backups or max age")
)

type rotateConfig struct {
	maxSizeMB  int
	maxBackups int
	maxAgeDays int
	compress   bool
	localTime  bool
}

// RotateOption 配置文件轮转
type RotateOption func(*rotateConfig)

// RotateMaxSizeMB 单个文件达到该大小后切分
func RotateMaxSizeMB(mb int) RotateOption {
	return func(c *rotateConfig) { c.maxSizeMB = mb }
}

// RotateMaxBackups 保留的历史文件数，0 表示不按数量清理
func RotateMaxBackups(n int) RotateOption {
	return func(c *rotateConfig) { c.maxBackups = n }
}

// RotateMaxAgeDays 历史文件保留天数，0 表示不按时间清理
func RotateMaxAgeDays(days int) RotateOption {
	return func(c *rotateConfig) { c.maxAgeDays = days }
}

func RotateCompress(enable bool) RotateOption {
	return func(c *rotateConfig) { c.compress = enable }
}

func RotateLocalTime(enable bool) RotateOption {
	return func(c *rotateConfig) { c.localTime = enable }
}

// newRotator 校验配置并创建 lumberjack.Logger。
//
// 父目录不存在时以 0750 创建。lumberjack 在首次写入时才打开文件，
// 因此这里不会产生空文件。
func newRotator(filename string, opts ...RotateOption) (*lumberjack.Logger, error) {
	if filename == "" {
		return nil, ErrEmptyFilename
	}
	cfg := rotateConfig{
		maxSizeMB:  DefaultRotateMaxSizeMB,
		maxBackups: DefaultRotateMaxBackups,
		maxAgeDays: DefaultRotateMaxAgeDays,
		localTime:  true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.maxSizeMB <= 0 || cfg.maxSizeMB > maxRotateSizeMB {
		return nil, fmt.Errorf("%w: got %d, want 1~%d", ErrInvalidRotateSize, cfg.maxSizeMB, maxRotateSizeMB)
	}
	if cfg.maxBackups < 0 || cfg.maxBackups > maxRotateBackups ||
		cfg.maxAgeDays < 0 || cfg.maxAgeDays > maxRotateAgeDays {
		return nil, fmt.Errorf("%w: backups=%d age=%d", ErrNoCleanupPolicy, cfg.maxBackups, cfg.maxAgeDays)
	}
	if cfg.maxBackups == 0 && cfg.maxAgeDays == 0 {
		return nil, ErrNoCleanupPolicy
	}

	path := filepath.Clean(filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("xlog: create log dir: %w", err)
	}

	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    cfg.maxSizeMB,
		MaxBackups: cfg.maxBackups,
		MaxAge:     cfg.maxAgeDays,
		Compress:   cfg.compress,
		LocalTime:  cfg.localTime,
	}, nil
}
