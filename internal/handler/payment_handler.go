package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/dto"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/internal/service"
	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder registers a gateway order with a server-computed amount
// POST /api/v1/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.paymentService.CreateOrder(c.Request.Context(), actor, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(result))
}

// Verify checks a payment callback and records the payment
// POST /api/v1/payments/verify
func (h *PaymentHandler) Verify(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Unauthorized(""))
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.BadRequest(err.Error()))
		return
	}

	result, err := h.paymentService.VerifyAndRecord(c.Request.Context(), actor, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(result))
}

// Plans returns the purchasable plan catalog
// GET /api/v1/payments/plans
func (h *PaymentHandler) Plans(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(h.paymentService.Plans()))
}
