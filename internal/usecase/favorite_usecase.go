package usecase

import (
	"context"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteUseCase(
	favoriteRepo repository.FavoriteRepository,
	productRepo repository.ProductRepository,
) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (uc *FavoriteUseCase) AddFavorite(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, errors.NotFound("Product", err)
	}

	if product.SellerID == userID {
		return nil, errors.BadRequest("You cannot favorite your own product", nil)
	}

	return uc.favoriteRepo.Add(ctx, userID, productID)
}

func (uc *FavoriteUseCase) RemoveFavorite(ctx context.Context, userID, productID string) error {
	return uc.favoriteRepo.Remove(ctx, userID, productID)
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	return uc.favoriteRepo.IsFavorite(ctx, userID, productID)
}

func (uc *FavoriteUseCase) ListFavorites(ctx context.Context, userID string, limit, offset int) ([]*entity.FavoriteWithProduct, int64, error) {
	favorites, total, err := uc.favoriteRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*entity.FavoriteWithProduct, 0, len(favorites))
	for _, fav := range favorites {
		item := &entity.FavoriteWithProduct{
			ID:        fav.ID,
			UserID:    fav.UserID,
			ProductID: fav.ProductID,
			CreatedAt: fav.CreatedAt,
		}

		product, err := uc.productRepo.GetByID(ctx, fav.ProductID)
		if err != nil {
			// Product removed since favoriting; keep the row without details.
			logger.Warn("Favorite %s references missing product %s", fav.ID, fav.ProductID)
		} else {
			item.Product = product
		}

		items = append(items, item)
	}

	return items, total, nil
}
