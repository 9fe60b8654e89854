package handler

import (
	"errors"

	"github.com/labstack/echo/v4"

	"sokoni/internal/domain/entity"
	"sokoni/internal/usecase"
	apperrors "sokoni/pkg/errors"
	"sokoni/pkg/response"
)

type CartHandler struct {
	cartUseCase     *usecase.CartUseCase
	checkoutUseCase *usecase.CheckoutUseCase
}

func NewCartHandler(cartUseCase *usecase.CartUseCase, checkoutUseCase *usecase.CheckoutUseCase) *CartHandler {
	return &CartHandler{
		cartUseCase:     cartUseCase,
		checkoutUseCase: checkoutUseCase,
	}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	identity := c.Get("identity").(entity.Identity)

	item, err := h.cartUseCase.AddItem(c.Request().Context(), identity, req.ProductID, req.Quantity)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, item)
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)
	itemID := c.Param("id")

	if err := h.cartUseCase.UpdateQuantity(c.Request().Context(), uid, itemID, req.Quantity); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Cart item updated",
	})
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	uid := c.Get("uid").(string)
	itemID := c.Param("id")

	if err := h.cartUseCase.RemoveItem(c.Request().Context(), uid, itemID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Cart item removed",
	})
}

func (h *CartHandler) ListItems(c echo.Context) error {
	uid := c.Get("uid").(string)

	items, err := h.cartUseCase.ListItems(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, items)
}

// Checkout turns every cart line into an order. A partial outcome is not an
// all-or-nothing failure: placed orders stay placed, failed lines stay in the
// cart, and the response enumerates both sides.
func (h *CartHandler) Checkout(c echo.Context) error {
	identity := c.Get("identity").(entity.Identity)

	result, err := h.checkoutUseCase.Checkout(c.Request().Context(), identity.ID)
	if err != nil {
		var partialErr *apperrors.PartialCheckoutError
		if errors.As(err, &partialErr) && result != nil {
			return response.PartialCheckout(c, result, partialErr.FailedLines)
		}
		return response.Error(c, err)
	}

	return response.Created(c, result)
}
