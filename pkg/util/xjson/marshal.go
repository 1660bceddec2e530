package xjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMarshal 序列化失败
var ErrMarshal = errors.New("xjson: marshal failed")

// Encode 把 v 编码写入 w，末尾带换行。indent 为 true 时两空格缩进。
func Encode(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return nil
}

// PrettyE 将 v 序列化为缩进的 JSON 字符串。
func PrettyE(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrMarshal, err)
	}
	return string(data), nil
}

// Pretty 同 PrettyE，失败时返回 "<marshal error: ...>"。
func Pretty(v any) string {
	s, err := PrettyE(v)
	if err != nil {
		return fmt.Sprintf("<marshal error: %v>", err)
	}
	return s
}

// ErrUnmarshal 反序列化失败
var ErrUnmarshal = errors.New("xjson: unmarshal failed")

// DecodeStrict 从 r 解码一个 JSON 值到 v，拒绝未知字段。
func DecodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}
	return nil
}
