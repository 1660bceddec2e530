package xcron

import (
	"sync"
	"time"
)

// JobStats 单个任务的执行统计快照
type JobStats struct {
	Name         string        `json:"name"`
	Spec         string        `json:"spec"`
	Runs         int64         `json:"runs"`
	Failures     int64         `json:"failures"`
	Skipped      int64         `json:"skipped"`
	LastRun      time.Time     `json:"last_run,omitzero"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"`
	Next         time.Time     `json:"next,omitzero"`
}

type jobStats struct {
	mu sync.Mutex
	s  JobStats
}

func (j *jobStats) record(start time.Time, d time.Duration, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.s.Runs++
	j.s.LastRun = start
	j.s.LastDuration = d
	j.s.LastError = ""
	if err != nil {
		j.s.Failures++
		j.s.LastError = err.Error()
	}
}

func (j *jobStats) skip() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.s.Skipped++
}

func (j *jobStats) snapshot() JobStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.s
}
