package xinvalidate

import (
	"encoding/json"
	"fmt"
	"time"
)

// ScopeStats 使统计缓存全部失效
const ScopeStats = "stats"

// Message 失效消息。ID 每条唯一，用于跨实例日志关联。
type Message struct {
	ID     string    `json:"id"`
	Origin string    `json:"origin"`
	Scope  string    `json:"scope"`
	At     time.Time `json:"at"`
}

func encode(m Message) (string, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("xinvalidate: encode message: %w", err)
	}
	return string(b), nil
}

func decode(payload string) (Message, error) {
	var m Message
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return Message{}, fmt.Errorf("xinvalidate: decode message: %w", err)
	}
	return m, nil
}
