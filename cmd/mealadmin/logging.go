package main

import (
	"io"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
)

// buildLogger 配置了 log.file 时按大小轮转写文件，否则写 stderr
func buildLogger(cfg LogConfig, stderr io.Writer) (xlog.LoggerWithLevel, func() error, error) {
	b := xlog.New().
		SetLevelString(cfg.Level).
		SetFormat(cfg.Format)
	if cfg.File != "" {
		b = b.SetRotation(cfg.File,
			xlog.RotateMaxSizeMB(cfg.MaxSizeMB),
			xlog.RotateMaxBackups(cfg.MaxBackups),
			xlog.RotateMaxAgeDays(cfg.MaxAgeDays),
			xlog.RotateCompress(cfg.Compress),
		)
	} else {
		b = b.SetOutput(stderr)
	}
	return b.Build()
}
