package xinvalidate

import "errors"

var (
	ErrNilClient      = errors.New("xinvalidate: nil redis client")
	ErrNilInvalidator = errors.New("xinvalidate: nil invalidator")
	ErrEmptyChannel   = errors.New("xinvalidate: empty channel")
	ErrEmptyOrigin    = errors.New("xinvalidate: empty origin")

	// ErrSubscriptionClosed 订阅通道被关闭（通常是客户端已 Close）
	ErrSubscriptionClosed = errors.New("xinvalidate: subscription closed")
)
