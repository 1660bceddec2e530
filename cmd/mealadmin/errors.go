package main

import (
	"strings"
)

// usageError 参数或配置错误，退出码 2
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// cliUsageMessages urfave/cli 与 flag 包产生的参数错误特征
var cliUsageMessages = []string{
	"flag provided but not defined",
	"invalid value",
	"Required flag",
	"No help topic",
	"command not found",
}

func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, m := range cliUsageMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
