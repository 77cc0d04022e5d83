package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/config"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/logger"
)

// razorpayOrderRequest is the gateway's order registration payload.
type razorpayOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// razorpayOrderResponse is the gateway's order representation.
type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// RazorpayGateway is the REST client for the Razorpay orders API.
type RazorpayGateway struct {
	httpClient *resty.Client
	cfg        *config.GatewayConfig
	log        *logger.Logger
}

// NewRazorpayGateway creates a gateway client from configuration.
func NewRazorpayGateway(cfg *config.GatewayConfig, log *logger.Logger) *RazorpayGateway {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(15 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &RazorpayGateway{
		httpClient: client,
		cfg:        cfg,
		log:        log,
	}
}

// CreateOrder registers an order with the gateway.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, req *OrderRequest) (*OrderResponse, error) {
	body := razorpayOrderRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}

	var result razorpayOrderResponse
	var apiErr razorpayError

	resp, err := g.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/orders")

	if err != nil {
		g.log.ErrorContext(ctx, "gateway order creation failed",
			zap.Error(err),
			zap.String("receipt", req.Receipt),
		)
		return nil, fmt.Errorf("gateway create order: %w", err)
	}

	if resp.IsError() {
		g.log.ErrorContext(ctx, "gateway rejected order",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("gateway_code", apiErr.Error.Code),
			zap.String("receipt", req.Receipt),
		)
		return nil, fmt.Errorf("gateway create order: %s (%s)", apiErr.Error.Description, apiErr.Error.Code)
	}

	g.log.InfoContext(ctx, "gateway order created",
		zap.String("order_id", result.ID),
		zap.Int64("amount", result.Amount),
	)

	return &OrderResponse{
		OrderID:  result.ID,
		Amount:   result.Amount,
		Currency: result.Currency,
		Receipt:  result.Receipt,
		Status:   result.Status,
	}, nil
}

// VerifySignature checks the client-relayed callback signature. With
// sandbox credentials and test mode enabled the check is bypassed; the
// config validator rejects that combination in production.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	if g.cfg.TestMode && g.cfg.IsTestKey() {
		return true
	}
	expected := Sign(orderID, paymentID, g.cfg.KeySecret)
	return signatureEqual(expected, signature)
}

// KeyID returns the public key handed to checkout clients.
func (g *RazorpayGateway) KeyID() string {
	return g.cfg.KeyID
}

// Name returns the gateway name.
func (g *RazorpayGateway) Name() string {
	return "razorpay"
}
