package xproc

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// 包级变量，测试中替换
var (
	osExecutable = os.Executable
	osHostname   = os.Hostname
	osGetpid     = os.Getpid
)

var (
	processNameOnce  sync.Once
	processNameValue string
)

func baseName(path string) string {
	name := filepath.Base(path)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return name
}

func resolveProcessName() string {
	if exe, err := osExecutable(); err == nil && exe != "" {
		if name := baseName(exe); name != "" {
			return name
		}
	}
	if len(os.Args) == 0 || os.Args[0] == "" {
		return ""
	}
	return baseName(os.Args[0])
}

// ProcessName 返回当前进程名称（不含路径），首次调用后缓存。
// 所有来源都无效时返回空字符串。
func ProcessName() string {
	processNameOnce.Do(func() {
		processNameValue = resolveProcessName()
	})
	return processNameValue
}

// InstanceID 返回 "主机名-进程名-pid"，空的部分被跳过。
//
// 设计决策: 不缓存。主机名在容器迁移后可能变化，且调用只发生在组件构造时。
func InstanceID() string {
	parts := make([]string, 0, 3)
	if host, err := osHostname(); err == nil && strings.TrimSpace(host) != "" {
		parts = append(parts, host)
	}
	if name := ProcessName(); name != "" {
		parts = append(parts, name)
	}
	parts = append(parts, strconv.Itoa(osGetpid()))
	return strings.Join(parts, "-")
}
