package handler

import (
	"net/http"

	"courier-backend/internal/dto"
	"courier-backend/internal/middleware"
	"courier-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateIntentRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	resp, err := h.paymentService.CreateIntent(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RecordPaymentRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	result, err := h.paymentService.RecordPayment(ctx, &req)
	if err != nil {
		return err
	}

	modified := 0
	if result.Modified {
		modified = 1
	}
	return c.JSON(http.StatusCreated, dto.RecordPaymentResponse{
		PaymentID:     result.PaymentID,
		UpdatedParcel: dto.UpdatedParcel{ModifiedCount: modified},
	})
}

func (h *PaymentHandler) ListPayments(c echo.Context) error {
	ctx := c.Request().Context()

	payments, err := h.paymentService.ListForPrincipal(ctx, middleware.PrincipalFrom(c), c.QueryParam("user_email"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, payments)
}
