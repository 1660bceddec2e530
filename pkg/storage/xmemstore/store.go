package xmemstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/omeyang/mealkit/pkg/business/xmeal"
	"github.com/omeyang/mealkit/pkg/business/xstats"
)

var (
	_ xmeal.Store  = (*Store)(nil)
	_ xstats.Store = (*Store)(nil)
)

// Store 内存存储，并发安全。
type Store struct {
	mu     sync.RWMutex
	menu   map[string]xmeal.MenuItem
	packs  map[string]xmeal.MealPack
	orders map[string]xmeal.Order
}

// New 创建空存储
func New() *Store {
	return &Store{
		menu:   make(map[string]xmeal.MenuItem),
		packs:  make(map[string]xmeal.MealPack),
		orders: make(map[string]xmeal.Order),
	}
}

// PutMenuItem 新增或覆盖菜品
func (s *Store) PutMenuItem(item xmeal.MenuItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu[item.ID] = item
}

// PutPack 新增或覆盖餐包
func (s *Store) PutPack(p xmeal.MealPack) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packs[p.ID] = p
}

// Pack 读取餐包，用于测试断言
func (s *Store) Pack(id string) (xmeal.MealPack, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.packs[id]
	return p, ok
}

// ===== xmeal.Store =====

func (s *Store) MenuItems(ctx context.Context, ids []string) (map[string]xmeal.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]xmeal.MenuItem, len(ids))
	for _, id := range ids {
		if m, ok := s.menu[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (s *Store) CustomerPacks(ctx context.Context, customerID string) ([]xmeal.MealPack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []xmeal.MealPack
	for _, p := range s.packs {
		if p.CustomerID == customerID && p.RemainingMeals > 0 {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b xmeal.MealPack) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) CommitOrder(ctx context.Context, order xmeal.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("xmemstore: duplicate order id %q", order.ID)
	}
	// 先全部校验再修改，保证原子性
	for _, d := range order.Deductions {
		p, ok := s.packs[d.PackID]
		if !ok || p.CustomerID != order.CustomerID || p.RemainingMeals < d.Meals {
			return fmt.Errorf("%w: pack %s", xmeal.ErrBalanceConflict, d.PackID)
		}
	}
	for _, d := range order.Deductions {
		p := s.packs[d.PackID]
		p.RemainingMeals -= d.Meals
		s.packs[d.PackID] = p
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

func (s *Store) Order(ctx context.Context, id string) (xmeal.Order, error) {
	if err := ctx.Err(); err != nil {
		return xmeal.Order{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return xmeal.Order{}, fmt.Errorf("%w: %s", xmeal.ErrOrderNotFound, id)
	}
	return cloneOrder(o), nil
}

func (s *Store) UpdateOrderStatus(ctx context.Context, id string, from, to xmeal.OrderStatus,
	restore []xmeal.Deduction, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return fmt.Errorf("%w: %s", xmeal.ErrOrderNotFound, id)
	}
	if o.Status != from {
		return fmt.Errorf("%w: order %s is %s, expected %s", xmeal.ErrInvalidTransition, id, o.Status, from)
	}
	for _, d := range restore {
		if p, ok := s.packs[d.PackID]; ok {
			p.RemainingMeals += d.Meals
			s.packs[d.PackID] = p
		}
	}
	o.Status = to
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}

// ===== xstats.Store =====

func (s *Store) DashboardCounts(ctx context.Context, q xstats.DashboardQuery) (xstats.DashboardCounts, error) {
	if err := ctx.Err(); err != nil {
		return xstats.DashboardCounts{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c xstats.DashboardCounts
	active := make(map[string]struct{})
	for _, o := range s.orders {
		c.TotalOrders++
		if !o.CreatedAt.Before(q.DayStart) {
			c.OrdersToday++
		}
		if o.Status == xmeal.StatusPending {
			c.PendingOrders++
		}
		if o.Status != xmeal.StatusCancelled {
			c.RevenueCents += o.AmountDueCents
		}
		if !o.CreatedAt.Before(q.ActiveSince) {
			active[o.CustomerID] = struct{}{}
		}
	}
	c.ActiveCustomers = int64(len(active))
	for _, p := range s.packs {
		if p.Usable(q.Now) {
			c.ActivePacks++
			c.RemainingPackMeals += int64(p.RemainingMeals)
		}
	}
	return c, nil
}

func (s *Store) RecentOrders(ctx context.Context, limit int) ([]xmeal.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]xmeal.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, cloneOrder(o))
	}
	slices.SortFunc(out, func(a, b xmeal.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) AllMenuItems(ctx context.Context) ([]xmeal.MenuItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]xmeal.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b xmeal.MenuItem) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func cloneOrder(o xmeal.Order) xmeal.Order {
	o.Items = slices.Clone(o.Items)
	o.Deductions = slices.Clone(o.Deductions)
	return o
}
