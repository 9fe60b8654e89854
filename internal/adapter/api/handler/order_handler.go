package handler

import (
	"github.com/labstack/echo/v4"

	"sokoni/internal/domain/entity"
	"sokoni/internal/usecase"
	"sokoni/pkg/response"
)

type OrderHandler struct {
	orderUseCase *usecase.OrderUseCase
}

func NewOrderHandler(orderUseCase *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{
		orderUseCase: orderUseCase,
	}
}

func (h *OrderHandler) ListOrders(c echo.Context) error {
	identity := c.Get("identity").(entity.Identity)
	status := entity.OrderStatus(c.QueryParam("status"))

	orders, err := h.orderUseCase.ListOrders(c.Request().Context(), identity, status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	identity := c.Get("identity").(entity.Identity)
	orderID := c.Param("id")

	order, err := h.orderUseCase.GetOrder(c.Request().Context(), identity, orderID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}

func (h *OrderHandler) GetCounts(c echo.Context) error {
	identity := c.Get("identity").(entity.Identity)

	counts, err := h.orderUseCase.Counts(c.Request().Context(), identity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, counts)
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus moves an order along its lifecycle. The write is guarded by a
// compare-and-set on the current status, so a stale dashboard gets a conflict
// plus the authoritative order instead of clobbering a concurrent change.
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	identity := c.Get("identity").(entity.Identity)
	orderID := c.Param("id")

	order, err := h.orderUseCase.RequestTransition(
		c.Request().Context(),
		identity,
		orderID,
		entity.OrderStatus(req.Status),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, order)
}
