package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/logger"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{
		client: client,
	}
}

func (r *firestoreFavoriteRepository) find(ctx context.Context, userID, productID string) (*firestore.DocumentSnapshot, error) {
	iter := r.client.Collection("favorites").
		Where("userId", "==", userID).
		Where("productId", "==", productID).
		Limit(1).
		Documents(ctx)

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, wrapFirestoreErr("Failed to query favorites", err)
	}

	return doc, nil
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, userID, productID string) (*entity.Favorite, error) {
	// Adding twice is a no-op that returns the existing row.
	existing, err := r.find(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		var favorite entity.Favorite
		if err := existing.DataTo(&favorite); err != nil {
			return nil, wrapFirestoreErr("Failed to parse favorite data", err)
		}
		favorite.ID = existing.Ref.ID
		return &favorite, nil
	}

	favorite := &entity.Favorite{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	if _, err := r.client.Collection("favorites").Doc(favorite.ID).Set(ctx, favorite); err != nil {
		return nil, wrapFirestoreErr("Failed to add favorite", err)
	}

	return favorite, nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	doc, err := r.find(ctx, userID, productID)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	if _, err := doc.Ref.Delete(ctx); err != nil {
		return wrapFirestoreErr("Failed to remove favorite", err)
	}

	return nil
}

func (r *firestoreFavoriteRepository) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	doc, err := r.find(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

func (r *firestoreFavoriteRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Favorite, int64, error) {
	query := r.client.Collection("favorites").
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, wrapFirestoreErr("Failed to fetch favorites", err)
	}

	total := int64(len(docs))

	start := offset
	if start > len(docs) {
		start = len(docs)
	}
	end := len(docs)
	if limit > 0 && start+limit < end {
		end = start + limit
	}

	var favorites []*entity.Favorite
	for _, doc := range docs[start:end] {
		var favorite entity.Favorite
		if err := doc.DataTo(&favorite); err != nil {
			logger.Warn("Skipping malformed favorite %s: %v", doc.Ref.ID, err)
			continue
		}
		favorite.ID = doc.Ref.ID
		favorites = append(favorites, &favorite)
	}

	return favorites, total, nil
}
