package gateway

import (
	"context"
	"fmt"
	"sync"
)

// MockGateway is an in-process Gateway for tests. It issues
// deterministic order IDs and verifies signatures against its own
// secret, so tests can mint both valid and invalid signatures.
type MockGateway struct {
	mu      sync.Mutex
	secret  string
	counter int
	orders  map[string]*OrderResponse

	// CreateOrderErr, when set, is returned by CreateOrder.
	CreateOrderErr error
}

// NewMockGateway creates a mock gateway with the given signing secret.
func NewMockGateway(secret string) *MockGateway {
	return &MockGateway{
		secret: secret,
		orders: make(map[string]*OrderResponse),
	}
}

func (m *MockGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateOrderErr != nil {
		return nil, m.CreateOrderErr
	}

	m.counter++
	order := &OrderResponse{
		OrderID:  fmt.Sprintf("order_MOCK%06d", m.counter),
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}
	m.orders[order.OrderID] = order
	return order, nil
}

func (m *MockGateway) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(orderID, paymentID, m.secret)
	return signatureEqual(expected, signature)
}

// SignFor mints a valid signature for an order/payment pair.
func (m *MockGateway) SignFor(orderID, paymentID string) string {
	return Sign(orderID, paymentID, m.secret)
}

func (m *MockGateway) KeyID() string {
	return "rzp_test_mock"
}

func (m *MockGateway) Name() string {
	return "mock"
}

// OrderCount returns the number of orders created.
func (m *MockGateway) OrderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.orders)
}
