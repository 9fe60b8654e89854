package usecase

import (
	"context"
	"strings"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
)

type ProductUseCase struct {
	productRepo repository.ProductRepository
}

func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
	}
}

type ProductInput struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
	Stock       int
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, seller entity.Identity, input ProductInput) (*entity.Product, error) {
	if !seller.IsMerchant() {
		return nil, errors.Forbidden("Only merchants can list products", nil)
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.Validation("product title is required")
	}

	if input.Price <= 0 {
		return nil, errors.Validation("product price must be positive")
	}

	now := time.Now()
	product := &entity.Product{
		SellerID:    seller.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Stock:       input.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) UpdateProduct(ctx context.Context, seller entity.Identity, productID string, input ProductInput) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if product.SellerID != seller.ID {
		return nil, errors.Forbidden("You can only update your own products", nil)
	}

	if strings.TrimSpace(input.Title) != "" {
		product.Title = strings.TrimSpace(input.Title)
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.ImageURL != "" {
		product.ImageURL = input.ImageURL
	}
	if input.Stock >= 0 {
		product.Stock = input.Stock
	}
	product.UpdatedAt = time.Now()

	if err := uc.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

func (uc *ProductUseCase) DeleteProduct(ctx context.Context, seller entity.Identity, productID string) error {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.SellerID != seller.ID {
		return errors.Forbidden("You can only delete your own products", nil)
	}

	return uc.productRepo.Delete(ctx, productID)
}

func (uc *ProductUseCase) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	return uc.productRepo.GetByID(ctx, productID)
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.List(ctx, limit, offset)
}

func (uc *ProductUseCase) ListSellerProducts(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error) {
	return uc.productRepo.ListBySeller(ctx, sellerID, limit, offset)
}
