package xadmincache

import (
	"runtime"
	"time"
)

// Stats 缓存快照
type Stats struct {
	// Size 原始条目数，包含尚未清扫的过期条目
	Size       int           `json:"size"`
	MaxSize    int           `json:"max_size"`
	DefaultTTL time.Duration `json:"default_ttl"`

	// ExpiredCount 调用时扫描得到的过期条目数
	ExpiredCount int `json:"expired_count"`

	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`

	// Memory 进程内存快照，仅供参考
	Memory MemoryUsage `json:"memory"`
}

// MemoryUsage 进程级内存指标，来自 runtime.MemStats。
type MemoryUsage struct {
	HeapAlloc uint64 `json:"heap_alloc"`
	HeapInuse uint64 `json:"heap_inuse"`
	Sys       uint64 `json:"sys"`
	NumGC     uint32 `json:"num_gc"`
}

// HitRatio 命中率，无访问时为 0。
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Stats 返回当前统计。
//
// 内存快照在锁外读取，ReadMemStats 会短暂 stop-the-world，不应占用缓存锁。
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	now := c.clock.Now()
	s := Stats{
		Size:        c.entries.Len(),
		MaxSize:     c.maxSize,
		DefaultTTL:  c.defaultTTL,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
	for _, k := range c.entries.Keys() {
		if e, ok := c.entries.Peek(k); ok && isExpired(e, now) {
			s.ExpiredCount++
		}
	}
	c.mu.Unlock()

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.Memory = MemoryUsage{
		HeapAlloc: ms.HeapAlloc,
		HeapInuse: ms.HeapInuse,
		Sys:       ms.Sys,
		NumGC:     ms.NumGC,
	}
	return s
}
