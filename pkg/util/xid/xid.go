package xid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sony/sonyflake/v2"
)

var (
	ErrInvalidConfig = errors.New("xid: invalid config")
	ErrInvalidID     = errors.New("xid: invalid id")
	ErrOverTimeLimit = errors.New("xid: time component overflow")
)

const (
	machineBits  = 16
	sequenceBits = 8
	machineMask  = 1<<machineBits - 1
	sequenceMask = 1<<sequenceBits - 1
)

// Option 生成器配置项
type Option func(*options)

type options struct {
	machineID func() (uint16, error)
}

// WithMachineID 自定义机器 ID 来源，测试中常用固定值。
func WithMachineID(fn func() (uint16, error)) Option {
	return func(o *options) {
		o.machineID = fn
	}
}

// Generator ID 生成器，并发安全。
type Generator struct {
	next func() (int64, error)
}

// NewGenerator 创建生成器，未指定机器 ID 时使用 DefaultMachineID。
func NewGenerator(opts ...Option) (*Generator, error) {
	o := &options{machineID: DefaultMachineID}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if o.machineID == nil {
		o.machineID = DefaultMachineID
	}

	machineID := o.machineID
	sf, err := sonyflake.New(sonyflake.Settings{
		MachineID: func() (int, error) {
			id, err := machineID()
			return int(id), err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &Generator{next: sf.NextID}, nil
}

// New 返回下一个 ID。Sonyflake 内部处理时钟回拨（等待），只有时间分量溢出会失败。
func (g *Generator) New() (int64, error) {
	id, err := g.next()
	if err != nil {
		if errors.Is(err, sonyflake.ErrOverTimeLimit) {
			return 0, fmt.Errorf("%w: %w", ErrOverTimeLimit, err)
		}
		return 0, err
	}
	return id, nil
}

// NewString 返回 base36 编码的 ID。
func (g *Generator) NewString() (string, error) {
	id, err := g.New()
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 36), nil
}

// Parse 解析 NewString 生成的字符串，非正数或格式错误返回 ErrInvalidID。
func Parse(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: value must be positive, got %d", ErrInvalidID, id)
	}
	return id, nil
}

// Components ID 的组成部分
type Components struct {
	Time     int64
	Sequence int64
	Machine  int64
}

// Decompose 按固定位布局拆分 ID。
func Decompose(id int64) (Components, error) {
	if id <= 0 {
		return Components{}, fmt.Errorf("%w: value must be positive, got %d", ErrInvalidID, id)
	}
	return Components{
		Machine:  id & machineMask,
		Sequence: (id >> machineBits) & sequenceMask,
		Time:     id >> (machineBits + sequenceBits),
	}, nil
}
