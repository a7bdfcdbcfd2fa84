package order

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"storefront/internal/domain"
)

// Memory is an in-process ledger with the same visibility and idempotency rules as Postgres.
type Memory struct {
	mu     sync.Mutex
	orders map[string]domain.Order
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{orders: map[string]domain.Order{}, now: time.Now}
}

func (m *Memory) Create(_ context.Context, o domain.Order) (*domain.Order, error) {
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("order repo: create: %w", domain.ErrInvalidRequest)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	o.ID = uuid.NewString()
	if o.Status == "" {
		o.Status = domain.DefaultOrderStatus
	}
	o.Items = append([]domain.OrderItem(nil), o.Items...)
	o.CreatedAt = m.tick()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = o
	return &o, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &o, nil
}

func (m *Memory) MarkPaid(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.IsPaid {
		return false, nil
	}
	o.IsPaid = true
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	return true, nil
}

func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return false, nil
	}
	delete(m.orders, id)
	return true, nil
}

func (m *Memory) UpdateStatus(_ context.Context, id, status string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, nil
	}
	o.Status = status
	o.UpdatedAt = m.tick()
	m.orders[id] = o
	return true, nil
}

func (m *Memory) ListVisible(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := []domain.Order{}
	for _, o := range m.orders {
		if userID != "" && o.UserID != userID {
			continue
		}
		if o.Visible() {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// Len counts stored orders regardless of visibility.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}

// tick never returns the same instant twice so creation order survives sorting.
func (m *Memory) tick() time.Time {
	t := m.now().UTC()
	for _, o := range m.orders {
		if !t.After(o.CreatedAt) {
			t = o.CreatedAt.Add(time.Microsecond)
		}
	}
	return t
}
