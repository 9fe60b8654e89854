package repository

import (
	"context"

	"sokoni/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Product, int64, error)
	ListBySeller(ctx context.Context, sellerID string, limit, offset int) ([]*entity.Product, int64, error)
}
