package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"aecom-checkout/internal/client"
	"aecom-checkout/internal/dto"
	"aecom-checkout/internal/service"
)

type CheckoutHandler struct {
	checkoutService    service.CheckoutService
	fulfillmentService service.FulfillmentService
	log                *zap.Logger
}

func NewCheckoutHandler(checkoutService service.CheckoutService, fulfillmentService service.FulfillmentService, log *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService:    checkoutService,
		fulfillmentService: fulfillmentService,
		log:                log,
	}
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	url, err := h.checkoutService.CreateSession(ctx, req.Items)
	if err != nil {
		h.log.Error("checkout session creation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, &dto.CheckoutResponse{URL: url})
}

func (h *CheckoutHandler) GetSession(c echo.Context) error {
	ctx := c.Request().Context()

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "missing session_id",
		})
	}

	summary, err := h.checkoutService.SessionSummary(ctx, sessionID)
	if err != nil {
		h.log.Error("session lookup failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *CheckoutHandler) Webhook(c echo.Context) error {
	ctx := c.Request().Context()

	signature := c.Request().Header.Get("Stripe-Signature")
	if signature == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "missing stripe-signature",
		})
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "read request body",
		})
	}

	result, err := h.fulfillmentService.HandleWebhook(ctx, signature, body)
	switch {
	case errors.Is(err, client.ErrSignatureVerification):
		h.log.Warn("webhook rejected", zap.Error(err))
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrNoResolvedItems):
		h.log.Error("webhook had no resolvable products", zap.Error(err))
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "no valid products found in line items",
		})
	case err != nil:
		h.log.Error("webhook processing failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	case !result.Handled:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"received": true,
		})
	default:
		return c.JSON(http.StatusOK, map[string]interface{}{
			"received": true,
			"orderId":  result.OrderID,
		})
	}
}
