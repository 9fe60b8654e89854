package usecase

import (
	"context"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

// CheckoutUseCase converts a multi-line cart into one order per line. The
// backend offers no multi-row atomicity, so each order-creation call is
// independent; the contract is that the cart always mirrors the unsent lines.
type CheckoutUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

func NewCheckoutUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

type CheckoutResult struct {
	OrderIDs []string `json:"order_ids"`
}

type checkoutDraft struct {
	cartItemID string
	order      *entity.Order
}

// Checkout submits one pending order per cart line, with the total frozen at
// product price x quantity. On full success the cart is cleared and the
// created order ids returned. On partial failure the succeeded lines are
// removed, the failed ones stay, and a PartialCheckoutError enumerates them.
// An empty cart fails fast before any write.
func (uc *CheckoutUseCase) Checkout(ctx context.Context, clientID string) (*CheckoutResult, error) {
	items, err := uc.cartRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, errors.Validation("cart is empty")
	}

	for _, item := range items {
		if item.Quantity < 1 {
			return nil, errors.Validation("cart line " + item.ID + " has a non-positive quantity")
		}
	}

	var (
		drafts      []checkoutDraft
		failedLines []string
		lineErrs    []error
	)

	now := time.Now()
	for _, item := range items {
		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			logger.Warn("Checkout: product %s for cart line %s unavailable: %v", item.ProductID, item.ID, err)
			failedLines = append(failedLines, item.ID)
			lineErrs = append(lineErrs, err)
			continue
		}

		drafts = append(drafts, checkoutDraft{
			cartItemID: item.ID,
			order: &entity.Order{
				ClientID:   clientID,
				MerchantID: product.SellerID,
				ProductID:  product.ID,
				Quantity:   item.Quantity,
				Total:      product.Price * float64(item.Quantity),
				Status:     entity.OrderPending,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		})
	}

	var orderIDs []string
	var succeededLines []string

	for _, draft := range drafts {
		if err := uc.orderRepo.Create(ctx, draft.order); err != nil {
			logger.Error("Checkout: order creation failed for cart line %s: %v", draft.cartItemID, err)
			failedLines = append(failedLines, draft.cartItemID)
			lineErrs = append(lineErrs, err)
			continue
		}
		orderIDs = append(orderIDs, draft.order.ID)
		succeededLines = append(succeededLines, draft.cartItemID)
	}

	if len(failedLines) > 0 {
		// Keep the cart mirroring submission completeness: drop only the
		// lines that became orders. No compensation of created orders.
		for _, lineID := range succeededLines {
			if err := uc.cartRepo.Remove(ctx, lineID); err != nil {
				logger.Error("Checkout: failed to remove ordered cart line %s: %v", lineID, err)
			}
		}
		return &CheckoutResult{OrderIDs: orderIDs}, errors.PartialCheckout(failedLines, lineErrs)
	}

	if err := uc.cartRepo.ClearByClient(ctx, clientID); err != nil {
		// Orders exist; a stale cart is recoverable by the user.
		logger.Error("Checkout: failed to clear cart for client %s: %v", clientID, err)
	}

	return &CheckoutResult{OrderIDs: orderIDs}, nil
}
