package storageopt

import "sync/atomic"

// OpCounter 存储操作计数器，区分成功与失败。
//
// 设计决策: 不按操作名分桶。按操作的分布由 xmetrics 的 operation 维度提供，
// 这里只给 Stats() 一个无依赖的总量快照。
type OpCounter struct {
	ops    atomic.Int64
	errors atomic.Int64
}

// Observe 记录一次操作，err 非 nil 计为失败。
func (c *OpCounter) Observe(err error) {
	c.ops.Add(1)
	if err != nil {
		c.errors.Add(1)
	}
}

// Ops 返回操作总数。
func (c *OpCounter) Ops() int64 { return c.ops.Load() }

// Errors 返回失败次数。
func (c *OpCounter) Errors() int64 { return c.errors.Load() }

// SlowQueryCounter 慢查询计数器。
type SlowQueryCounter struct {
	count atomic.Int64
}

// Inc 增加慢查询计数。
func (s *SlowQueryCounter) Inc() { s.count.Add(1) }

// Count 返回慢查询计数。
func (s *SlowQueryCounter) Count() int64 { return s.count.Load() }
