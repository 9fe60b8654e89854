package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

type firestoreCartRepository struct {
	client *firestore.Client
}

func NewFirestoreCartRepository(client *firestore.Client) repository.CartRepository {
	return &firestoreCartRepository{
		client: client,
	}
}

func (r *firestoreCartRepository) Add(ctx context.Context, item *entity.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("cart_items").Doc(item.ID).Set(ctx, item)
	if err != nil {
		return wrapFirestoreErr("Failed to add cart item", err)
	}

	return nil
}

func (r *firestoreCartRepository) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	_, err := r.client.Collection("cart_items").Doc(id).Update(ctx, []firestore.Update{
		{Path: "quantity", Value: quantity},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Cart item", err)
		}
		return wrapFirestoreErr("Failed to update cart quantity", err)
	}

	return nil
}

func (r *firestoreCartRepository) Remove(ctx context.Context, id string) error {
	_, err := r.client.Collection("cart_items").Doc(id).Delete(ctx)
	if err != nil {
		return wrapFirestoreErr("Failed to remove cart item", err)
	}

	return nil
}

func (r *firestoreCartRepository) ListByClient(ctx context.Context, clientID string) ([]*entity.CartItem, error) {
	docs, err := r.client.Collection("cart_items").Where("clientId", "==", clientID).Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreErr("Failed to fetch cart", err)
	}

	var items []*entity.CartItem
	for _, doc := range docs {
		var item entity.CartItem
		if err := doc.DataTo(&item); err != nil {
			logger.Warn("Skipping malformed cart item %s: %v", doc.Ref.ID, err)
			continue
		}
		item.ID = doc.Ref.ID
		items = append(items, &item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	return items, nil
}

func (r *firestoreCartRepository) ClearByClient(ctx context.Context, clientID string) error {
	docs, err := r.client.Collection("cart_items").Where("clientId", "==", clientID).Documents(ctx).GetAll()
	if err != nil {
		return wrapFirestoreErr("Failed to fetch cart for clearing", err)
	}

	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return wrapFirestoreErr("Failed to clear cart", err)
		}
	}

	return nil
}
