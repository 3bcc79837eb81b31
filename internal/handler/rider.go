package handler

import (
	"net/http"

	"courier-backend/internal/dto"
	"courier-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type RiderHandler struct {
	riderService service.RiderService
}

func NewRiderHandler(riderService service.RiderService) *RiderHandler {
	return &RiderHandler{
		riderService: riderService,
	}
}

func (h *RiderHandler) RegisterRider(c echo.Context) error {
	ctx := c.Request().Context()

	doc, err := bindDocument(c)
	if err != nil {
		return err
	}

	id, err := h.riderService.Register(ctx, doc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.InsertedResponse{InsertedID: id})
}

func (h *RiderHandler) ListRiders(c echo.Context) error {
	ctx := c.Request().Context()

	riders, err := h.riderService.List(ctx, c.QueryParam("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, riders)
}

func (h *RiderHandler) ApproveRider(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateRiderRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	modified, err := h.riderService.Approve(ctx, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ModifiedResponse{ModifiedCount: modified})
}

func (h *RiderHandler) RejectRider(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.riderService.Reject(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Rider application rejected"})
}
