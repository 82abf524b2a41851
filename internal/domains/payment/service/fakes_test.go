package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	orderModel "clockshop-backend/internal/domains/order/model"
)

// memoryOrderStore mirrors the conditional UPDATEs of the Postgres repository
type memoryOrderStore struct {
	mu     sync.Mutex
	orders map[int64]*orderModel.Order

	getErr    error
	markErr   error
	revertErr error

	getCalls    int
	markCalls   int
	revertCalls int
}

func newMemoryOrderStore(orders ...*orderModel.Order) *memoryOrderStore {
	s := &memoryOrderStore{orders: make(map[int64]*orderModel.Order)}
	for _, o := range orders {
		s.orders[o.ID] = o
	}
	return s
}

func (s *memoryOrderStore) GetOrderByID(ctx context.Context, orderID int64) (*orderModel.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.getCalls++
	if s.getErr != nil {
		return nil, s.getErr
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, orderModel.ErrOrderNotFound
	}
	copied := *o
	return &copied, nil
}

func (s *memoryOrderStore) MarkPaid(ctx context.Context, orderID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.markCalls++
	if s.markErr != nil {
		return false, s.markErr
	}
	o, ok := s.orders[orderID]
	if !ok || o.IsConfirmedAndPaid() {
		return false, nil
	}
	o.OrderStatus = orderModel.OrderStatusConfirmed
	o.PaymentStatus = orderModel.PaymentStatusPaid
	return true, nil
}

func (s *memoryOrderStore) RevertToUnpaid(ctx context.Context, orderID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.revertCalls++
	if s.revertErr != nil {
		return false, s.revertErr
	}
	o, ok := s.orders[orderID]
	if !ok || o.PaymentStatus != orderModel.PaymentStatusUnpaid || o.OrderStatus != orderModel.OrderStatusConfirmed {
		return false, nil
	}
	o.OrderStatus = orderModel.OrderStatusPendingConfirmation
	return true, nil
}

func (s *memoryOrderStore) state(orderID int64) (orderModel.OrderStatus, orderModel.PaymentStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[orderID]
	return o.OrderStatus, o.PaymentStatus
}

// stubCombiner returns a fixed combined order
type stubCombiner struct {
	order *orderModel.Order
	err   error
	req   orderModel.CombineOrdersRequest
}

func (c *stubCombiner) CombineUnpaidOrders(ctx context.Context, customerID int64, req orderModel.CombineOrdersRequest) (*orderModel.Order, error) {
	c.req = req
	return c.order, c.err
}

// memoryCache is a JSON round-tripping cache.Cache
type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
	ttls  map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte), ttls: make(map[string]time.Duration)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	c.ttls[key] = ttl
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.items, k)
	}
	return nil
}

func (c *memoryCache) Ping(ctx context.Context) error { return nil }
