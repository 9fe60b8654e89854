package repository

import (
	"context"

	"sokoni/internal/domain/entity"
)

type CartRepository interface {
	Add(ctx context.Context, item *entity.CartItem) error
	UpdateQuantity(ctx context.Context, id string, quantity int) error
	Remove(ctx context.Context, id string) error
	ListByClient(ctx context.Context, clientID string) ([]*entity.CartItem, error)
	ClearByClient(ctx context.Context, clientID string) error
}
