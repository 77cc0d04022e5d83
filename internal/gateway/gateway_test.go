package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/config"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

func TestSign_Deterministic(t *testing.T) {
	a := Sign("order_1", "pay_1", "secret")
	b := Sign("order_1", "pay_1", "secret")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // hex SHA-256

	// Different inputs or secret change the signature.
	assert.NotEqual(t, a, Sign("order_2", "pay_1", "secret"))
	assert.NotEqual(t, a, Sign("order_1", "pay_2", "secret"))
	assert.NotEqual(t, a, Sign("order_1", "pay_1", "other"))
}

func TestRazorpayGateway_VerifySignature(t *testing.T) {
	cfg := &config.GatewayConfig{
		KeyID:     "rzp_live_abc",
		KeySecret: "topsecret",
	}
	g := NewRazorpayGateway(cfg, logger.Get())

	good := Sign("order_1", "pay_1", "topsecret")

	assert.True(t, g.VerifySignature("order_1", "pay_1", good))
	assert.False(t, g.VerifySignature("order_1", "pay_1", "forged"))
	assert.False(t, g.VerifySignature("order_1", "pay_2", good))
}

func TestRazorpayGateway_TestModeBypass(t *testing.T) {
	cfg := &config.GatewayConfig{
		KeyID:     "rzp_test_abc",
		KeySecret: "sandbox",
		TestMode:  true,
	}
	g := NewRazorpayGateway(cfg, logger.Get())

	// Any signature passes under sandbox credentials with test mode on.
	assert.True(t, g.VerifySignature("order_1", "pay_1", "anything"))
}

func TestRazorpayGateway_TestModeRequiresTestKey(t *testing.T) {
	cfg := &config.GatewayConfig{
		KeyID:     "rzp_live_abc",
		KeySecret: "topsecret",
		TestMode:  true,
	}
	g := NewRazorpayGateway(cfg, logger.Get())

	// A live key never bypasses verification, test mode or not.
	assert.False(t, g.VerifySignature("order_1", "pay_1", "anything"))
}

func TestMockGateway_CreateOrder(t *testing.T) {
	m := NewMockGateway("mock-secret")

	order, err := m.CreateOrder(context.Background(), &OrderRequest{
		Amount:   149900,
		Currency: "INR",
		Receipt:  "rcpt-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "order_MOCK000001", order.OrderID)
	assert.Equal(t, int64(149900), order.Amount)
	assert.Equal(t, 1, m.OrderCount())

	sig := m.SignFor(order.OrderID, "pay_1")
	assert.True(t, m.VerifySignature(order.OrderID, "pay_1", sig))
	assert.False(t, m.VerifySignature(order.OrderID, "pay_1", "bad"))
}
