package xinvalidate

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
)

const component = "xinvalidate"

// Bus 失效消息总线，并发安全。
type Bus struct {
	client   redis.UniversalClient
	channel  string
	origin   string
	clock    clock.Clock
	logger   xlog.Logger
	observer xmetrics.Observer

	published atomic.Int64
	applied   atomic.Int64
	ignored   atomic.Int64
	malformed atomic.Int64
}

// Stats 收发计数
type Stats struct {
	Published int64 `json:"published"`
	Applied   int64 `json:"applied"`
	Ignored   int64 `json:"ignored"`
	Malformed int64 `json:"malformed"`
}

// New 创建总线。不拥有 client，Close 由调用方负责。
func New(client redis.UniversalClient, opts ...Option) (*Bus, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	if strings.TrimSpace(o.channel) == "" {
		return nil, ErrEmptyChannel
	}
	if strings.TrimSpace(o.origin) == "" {
		return nil, ErrEmptyOrigin
	}
	return &Bus{
		client:   client,
		channel:  o.channel,
		origin:   o.origin,
		clock:    o.clock,
		logger:   o.logger.With(xlog.Component(component), slog.String("origin", o.origin)),
		observer: o.observer,
	}, nil
}

// Origin 本实例 ID
func (b *Bus) Origin() string { return b.origin }

// Channel 频道名
func (b *Bus) Channel() string { return b.channel }

// Stats 返回计数快照
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Applied:   b.applied.Load(),
		Ignored:   b.ignored.Load(),
		Malformed: b.malformed.Load(),
	}
}

// Publish 广播一条统计缓存失效消息。
func (b *Bus) Publish(ctx context.Context) (err error) {
	ctx, span := xmetrics.Start(ctx, b.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "publish",
		Kind:      xmetrics.KindProducer,
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	id := uuid.NewString()
	payload, err := encode(Message{ID: id, Origin: b.origin, Scope: ScopeStats, At: b.clock.Now()})
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return err
	}
	b.published.Add(1)
	b.logger.Debug(ctx, "published invalidation", slog.String("message_id", id))
	return nil
}

// Subscribe 订阅频道，返回前已确认订阅生效。
func (b *Bus) Subscribe(ctx context.Context) (*Subscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	return &Subscription{bus: b, ps: ps}, nil
}

// Run 订阅并把其他实例的消息应用到 local，直到 ctx 结束。ctx 结束时返回 nil。
func (b *Bus) Run(ctx context.Context, local xmeal.Invalidator) error {
	if local == nil {
		return ErrNilInvalidator
	}
	sub, err := b.Subscribe(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer sub.Close()
	b.logger.Info(ctx, "invalidation subscriber started", slog.String("channel", b.channel))
	return sub.Run(ctx, local)
}

// handle 处理一条消息，返回是否调用了 local.ClearCache。
func (b *Bus) handle(ctx context.Context, payload string, local xmeal.Invalidator) bool {
	m, err := decode(payload)
	if err != nil {
		b.malformed.Add(1)
		b.logger.Warn(ctx, "malformed invalidation message", xlog.Err(err))
		return false
	}
	if m.Origin == b.origin || m.Scope != ScopeStats {
		b.ignored.Add(1)
		return false
	}

	_, span := xmetrics.Start(ctx, b.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "apply",
		Kind:      xmetrics.KindConsumer,
		Attrs:     []xmetrics.Attr{xmetrics.String("origin", m.Origin)},
	})
	local.ClearCache(ctx)
	span.End(xmetrics.Result{})

	b.applied.Add(1)
	b.logger.Debug(ctx, "applied remote invalidation",
		slog.String("from", m.Origin), slog.String("message_id", m.ID))
	return true
}

// Subscription 一个已确认的订阅
type Subscription struct {
	bus *Bus
	ps  *redis.PubSub
}

// Run 消费消息直到 ctx 结束（返回 nil）或订阅被关闭（返回 ErrSubscriptionClosed）。
func (s *Subscription) Run(ctx context.Context, local xmeal.Invalidator) error {
	if local == nil {
		return ErrNilInvalidator
	}
	ch := s.ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return ErrSubscriptionClosed
			}
			s.bus.handle(ctx, msg.Payload, local)
		}
	}
}

// Close 取消订阅
func (s *Subscription) Close() error {
	return s.ps.Close()
}

// Broadcast 返回一个 Invalidator：先清 local，再经 bus 通知其他实例。
// 发布失败只记录日志，本地失效不受影响。
func Broadcast(local xmeal.Invalidator, bus *Bus) xmeal.Invalidator {
	return &broadcaster{local: local, bus: bus}
}

type broadcaster struct {
	local xmeal.Invalidator
	bus   *Bus
}

func (b *broadcaster) ClearCache(ctx context.Context) {
	if b.local != nil {
		b.local.ClearCache(ctx)
	}
	if b.bus == nil {
		return
	}
	if err := b.bus.Publish(ctx); err != nil {
		b.bus.logger.Warn(ctx, "publish invalidation failed", xlog.Err(err))
	}
}
