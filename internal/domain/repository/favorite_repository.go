package repository

import (
	"context"

	"sokoni/internal/domain/entity"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, productID string) (*entity.Favorite, error)
	Remove(ctx context.Context, userID, productID string) error
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error)
}
