package repository

import (
	"context"
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

type firestoreOrderRepository struct {
	client *firestore.Client
}

func NewFirestoreOrderRepository(client *firestore.Client) repository.OrderRepository {
	return &firestoreOrderRepository{
		client: client,
	}
}

func (r *firestoreOrderRepository) Create(ctx context.Context, order *entity.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	_, err := r.client.Collection("orders").Doc(order.ID).Set(ctx, order)
	if err != nil {
		return wrapFirestoreErr("Failed to create order", err)
	}

	return nil
}

func (r *firestoreOrderRepository) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	doc, err := r.client.Collection("orders").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Order", err)
		}
		return nil, wrapFirestoreErr("Failed to get order", err)
	}

	var order entity.Order
	if err := doc.DataTo(&order); err != nil {
		return nil, errors.Internal("Failed to parse order data", err)
	}
	order.ID = doc.Ref.ID

	return &order, nil
}

func (r *firestoreOrderRepository) ListByIdentity(ctx context.Context, identity entity.Identity, filter entity.OrderStatus) ([]*entity.Order, error) {
	field := "clientId"
	if identity.IsMerchant() {
		field = "merchantId"
	}

	query := r.client.Collection("orders").Where(field, "==", identity.ID)
	if filter != "" {
		query = query.Where("status", "==", string(filter))
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, wrapFirestoreErr("Failed to fetch orders", err)
	}

	var orders []*entity.Order
	for _, doc := range docs {
		var order entity.Order
		if err := doc.DataTo(&order); err != nil {
			logger.Warn("Skipping malformed order %s: %v", doc.Ref.ID, err)
			continue
		}
		order.ID = doc.Ref.ID
		orders = append(orders, &order)
	}

	return orders, nil
}

// UpdateStatus writes the new status inside a transaction that re-reads the
// row and gives up if another actor moved it first. The conflict carries a
// CONFLICT code so the lifecycle engine knows to resync.
func (r *firestoreOrderRepository) UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) (*entity.Order, error) {
	ref := r.client.Collection("orders").Doc(id)
	var updated entity.Order

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Order", err)
			}
			return err
		}

		var current entity.Order
		if err := doc.DataTo(&current); err != nil {
			return errors.Internal("Failed to parse order data", err)
		}
		current.ID = doc.Ref.ID

		if current.Status != from {
			return errors.Conflict("Order was updated by someone else")
		}

		current.Status = to
		current.UpdatedAt = at
		updated = current

		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: string(to)},
			{Path: "updatedAt", Value: at},
		})
	})

	if err != nil {
		if errors.Is(err, "CONFLICT") || errors.Is(err, "NOT_FOUND") || errors.Is(err, "INTERNAL_ERROR") {
			return nil, err
		}
		return nil, wrapFirestoreErr("Failed to update order status", err)
	}

	return &updated, nil
}
