package xmeal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benbjohnson/clock"

	"github.com/omeyang/mealkit/pkg/observability/xlog"
	"github.com/omeyang/mealkit/pkg/observability/xmetrics"
	"github.com/omeyang/mealkit/pkg/resilience/xretry"
)

const component = "xmeal"

// Service 下单、订单状态流转与余额查询
type Service struct {
	store       Store
	ids         IDGenerator
	invalidator Invalidator
	clock       clock.Clock
	logger      xlog.Logger
	observer    xmetrics.Observer
	retryer     *xretry.Retryer
}

// NewService 创建服务。store 与 ids 必填。
func NewService(store Store, ids IDGenerator, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if ids == nil {
		return nil, ErrNilIDGen
	}
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	s := &Service{
		store:       store,
		ids:         ids,
		invalidator: o.invalidator,
		clock:       o.clock,
		logger:      o.logger.With(xlog.Component(component)),
		observer:    o.observer,
		retryer:     o.retryer,
	}
	if s.retryer == nil {
		s.retryer = xretry.NewRetryer(
			xretry.WithAttempts(commitAttempts),
			xretry.WithBackoff(xretry.NewFixedBackoff(0)),
		)
	}
	return s, nil
}

// CreateOrder 校验并创建订单。
//
// UseMealPacks 时按最早购买优先规划扣减，订单与扣减在 Store 中原子提交；
// 提交遇到 ErrBalanceConflict 时重新读取余额并重新规划。成功后使统计缓存失效。
func (s *Service) CreateOrder(ctx context.Context, req CreateOrderRequest) (order Order, err error) {
	ctx, span := xmetrics.Start(ctx, s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "create_order",
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	if err := validateRequest(req); err != nil {
		return Order{}, err
	}

	menu, err := s.store.MenuItems(ctx, lineIDs(req.Items))
	if err != nil {
		return Order{}, WrapStoreError("menu_items", err)
	}
	order, err = s.priceOrder(req, menu)
	if err != nil {
		return Order{}, err
	}

	id, err := s.ids.NewString()
	if err != nil {
		return Order{}, fmt.Errorf("xmeal: generate order id: %w", err)
	}
	order.ID = id

	err = s.retryer.Do(ctx, func(ctx context.Context) error {
		return s.commit(ctx, &order, req.UseMealPacks)
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientBalance) {
			s.logger.Error(ctx, "create order failed",
				xlog.CustomerID(req.CustomerID), xlog.OrderID(order.ID), xlog.Err(err))
		}
		return Order{}, err
	}

	s.logger.Info(ctx, "order created",
		xlog.OrderID(order.ID),
		xlog.CustomerID(order.CustomerID),
		slog.Int("meals", order.TotalMeals),
		slog.Bool("paid_with_packs", order.PaidWithPacks))
	s.invalidate(ctx)
	return order, nil
}

// commit 一次规划加提交。只有 ErrBalanceConflict 可重试。
func (s *Service) commit(ctx context.Context, order *Order, usePacks bool) error {
	now := s.clock.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.Deductions = nil

	if usePacks {
		packs, err := s.store.CustomerPacks(ctx, order.CustomerID)
		if err != nil {
			return xretry.Permanent(WrapStoreError("customer_packs", err))
		}
		plan, err := PlanDeductions(packs, order.TotalMeals, now)
		if err != nil {
			return xretry.Permanent(err)
		}
		order.Deductions = plan
	}

	err := s.store.CommitOrder(ctx, *order)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrBalanceConflict) {
		s.logger.Warn(ctx, "meal pack balance conflict, replanning", xlog.OrderID(order.ID))
		return err
	}
	return xretry.Permanent(WrapStoreError("commit_order", err))
}

// UpdateOrderStatus 按状态机流转订单。取消已用餐包支付的订单时退回餐数。
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, next OrderStatus) (order Order, err error) {
	ctx, span := xmetrics.Start(ctx, s.observer, xmetrics.SpanOptions{
		Component: component,
		Operation: "update_order_status",
	})
	defer func() { span.End(xmetrics.Result{Err: err}) }()

	if strings.TrimSpace(id) == "" {
		return Order{}, fmt.Errorf("%w: order id is required", ErrInvalidRequest)
	}
	if !next.Valid() {
		return Order{}, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, next)
	}

	order, err = s.store.Order(ctx, id)
	if err != nil {
		return Order{}, WrapStoreError("order", err)
	}
	if !order.Status.CanTransitionTo(next) {
		return Order{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}

	var restore []Deduction
	if next == StatusCancelled {
		restore = order.Deductions
	}
	now := s.clock.Now()
	if err := s.store.UpdateOrderStatus(ctx, id, order.Status, next, restore, now); err != nil {
		return Order{}, WrapStoreError("update_order_status", err)
	}

	s.logger.Info(ctx, "order status updated",
		xlog.OrderID(id),
		slog.String("from", string(order.Status)),
		slog.String("to", string(next)))

	order.Status = next
	order.UpdatedAt = now
	s.invalidate(ctx)
	return order, nil
}

// PackBalance 客户当前可用的剩余餐数
func (s *Service) PackBalance(ctx context.Context, customerID string) (int, error) {
	if strings.TrimSpace(customerID) == "" {
		return 0, fmt.Errorf("%w: customer id is required", ErrInvalidRequest)
	}
	packs, err := s.store.CustomerPacks(ctx, customerID)
	if err != nil {
		return 0, WrapStoreError("customer_packs", err)
	}
	return Balance(packs, s.clock.Now()), nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.ClearCache(ctx)
	}
}

func validateRequest(req CreateOrderRequest) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return fmt.Errorf("%w: customer id is required", ErrInvalidRequest)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: at least one item is required", ErrInvalidRequest)
	}
	if len(req.Items) > MaxLinesPerOrder {
		return fmt.Errorf("%w: at most %d items, got %d", ErrInvalidRequest, MaxLinesPerOrder, len(req.Items))
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.MenuItemID) == "" {
			return fmt.Errorf("%w: item %d: menu item id is required", ErrInvalidRequest, i)
		}
		if it.Quantity < 1 || it.Quantity > MaxQuantityPerLine {
			return fmt.Errorf("%w: item %d: quantity must be 1..%d, got %d",
				ErrInvalidRequest, i, MaxQuantityPerLine, it.Quantity)
		}
	}
	return nil
}

func lineIDs(items []LineItem) []string {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		if _, ok := seen[it.MenuItemID]; ok {
			continue
		}
		seen[it.MenuItemID] = struct{}{}
		ids = append(ids, it.MenuItemID)
	}
	return ids
}

func (s *Service) priceOrder(req CreateOrderRequest, menu map[string]MenuItem) (Order, error) {
	order := Order{
		CustomerID:    req.CustomerID,
		Items:         make([]OrderItem, 0, len(req.Items)),
		PaidWithPacks: req.UseMealPacks,
		Status:        StatusPending,
		Notes:         req.Notes,
	}
	for _, it := range req.Items {
		m, ok := menu[it.MenuItemID]
		if !ok {
			return Order{}, fmt.Errorf("%w: %s", ErrUnknownMenuItem, it.MenuItemID)
		}
		if !m.Available {
			return Order{}, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, it.MenuItemID)
		}
		order.Items = append(order.Items, OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   it.Quantity,
			UnitCents:  m.PriceCents,
		})
		order.TotalMeals += it.Quantity
		order.TotalCents += m.PriceCents * int64(it.Quantity)
	}
	if !order.PaidWithPacks {
		order.AmountDueCents = order.TotalCents
	}
	return order, nil
}
