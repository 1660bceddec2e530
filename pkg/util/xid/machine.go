package xid

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// EnvMachineID 显式指定机器 ID 的环境变量
const EnvMachineID = "MEALKIT_MACHINE_ID"

// osHostname 测试注入点
var osHostname = os.Hostname

// DefaultMachineID 先读环境变量，未设置时对主机名做哈希。
func DefaultMachineID() (uint16, error) {
	if s := os.Getenv(EnvMachineID); s != "" {
		id, err := strconv.ParseUint(s, 10, 16)
		if err != nil {
			return 0, fmt.Errorf("xid: invalid %s value %q: %w", EnvMachineID, s, err)
		}
		return uint16(id), nil
	}

	hostname, err := osHostname()
	if err != nil {
		return 0, fmt.Errorf("xid: hostname: %w", err)
	}
	if hostname == "" {
		return 0, errors.New("xid: hostname is empty")
	}
	return hashToMachineID(hostname), nil
}

// hashToMachineID 把 64 位 xxhash 按 16 位分段异或折叠。
func hashToMachineID(s string) uint16 {
	h := xxhash.Sum64String(s)
	return uint16(h) ^ uint16(h>>16) ^ uint16(h>>32) ^ uint16(h>>48)
}
