package usecase

import (
	"context"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

type CartUseCase struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartUseCase(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
) *CartUseCase {
	return &CartUseCase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (uc *CartUseCase) AddItem(ctx context.Context, client entity.Identity, productID string, quantity int) (*entity.CartItem, error) {
	if client.IsMerchant() {
		return nil, errors.Forbidden("The cart is only available to clients", nil)
	}

	if quantity < 1 {
		return nil, errors.Validation("quantity must be at least 1")
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFound("Product", err)
	}

	if product.SellerID == client.ID {
		return nil, errors.BadRequest("You cannot buy your own product", nil)
	}

	item := &entity.CartItem{
		ClientID:  client.ID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
	}

	if err := uc.cartRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (uc *CartUseCase) UpdateQuantity(ctx context.Context, clientID, itemID string, quantity int) error {
	if quantity < 1 {
		return errors.Validation("quantity must be at least 1")
	}

	if err := uc.ensureOwnership(ctx, clientID, itemID); err != nil {
		return err
	}

	return uc.cartRepo.UpdateQuantity(ctx, itemID, quantity)
}

func (uc *CartUseCase) RemoveItem(ctx context.Context, clientID, itemID string) error {
	if err := uc.ensureOwnership(ctx, clientID, itemID); err != nil {
		return err
	}

	return uc.cartRepo.Remove(ctx, itemID)
}

func (uc *CartUseCase) ensureOwnership(ctx context.Context, clientID, itemID string) error {
	items, err := uc.cartRepo.ListByClient(ctx, clientID)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ID == itemID {
			return nil
		}
	}

	return errors.NotFound("Cart item", nil)
}

func (uc *CartUseCase) ListItems(ctx context.Context, clientID string) ([]*entity.CartItemWithProduct, error) {
	items, err := uc.cartRepo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	out := make([]*entity.CartItemWithProduct, 0, len(items))
	for _, item := range items {
		withProduct := &entity.CartItemWithProduct{
			ID:        item.ID,
			ClientID:  item.ClientID,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt,
		}

		product, err := uc.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			logger.Warn("Cart line %s references missing product %s", item.ID, item.ProductID)
		} else {
			withProduct.Product = product
		}

		out = append(out, withProduct)
	}

	return out, nil
}
