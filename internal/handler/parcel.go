package handler

import (
	"net/http"

	"courier-backend/internal/dto"
	"courier-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type ParcelHandler struct {
	parcelService service.ParcelService
}

func NewParcelHandler(parcelService service.ParcelService) *ParcelHandler {
	return &ParcelHandler{
		parcelService: parcelService,
	}
}

func (h *ParcelHandler) CreateParcel(c echo.Context) error {
	ctx := c.Request().Context()

	doc, err := bindDocument(c)
	if err != nil {
		return err
	}

	id, err := h.parcelService.Create(ctx, doc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.InsertedResponse{InsertedID: id})
}

func (h *ParcelHandler) ListParcels(c echo.Context) error {
	ctx := c.Request().Context()

	parcels, err := h.parcelService.List(ctx, c.QueryParam("user_email"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, parcels)
}

func (h *ParcelHandler) GetParcel(c echo.Context) error {
	ctx := c.Request().Context()

	parcel, err := h.parcelService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, parcel)
}

func (h *ParcelHandler) UpdateParcel(c echo.Context) error {
	ctx := c.Request().Context()

	fields, err := bindDocument(c)
	if err != nil {
		return err
	}

	parcel, err := h.parcelService.Update(ctx, c.Param("id"), fields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, parcel)
}

func (h *ParcelHandler) DeleteParcel(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.parcelService.Delete(ctx, c.Param("id")); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Parcel cancelled"})
}
