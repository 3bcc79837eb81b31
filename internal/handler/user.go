package handler

import (
	"net/http"

	"courier-backend/internal/dto"
	"courier-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) RegisterUser(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterUserRequest
	if err := bindRequest(c, &req); err != nil {
		return err
	}

	id, err := h.userService.Register(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.InsertedResponse{InsertedID: id})
}
