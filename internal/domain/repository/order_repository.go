package repository

import (
	"context"
	"time"

	"sokoni/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)

	// ListByIdentity returns orders where the identity is the client or the
	// merchant depending on its role, newest first, optionally filtered by
	// status (empty = all).
	ListByIdentity(ctx context.Context, identity entity.Identity, status entity.OrderStatus) ([]*entity.Order, error)

	// UpdateStatus performs a compare-and-set: the write succeeds only if the
	// stored status still equals from. A lost race returns a CONFLICT error
	// together with the authoritative order for reconciliation.
	UpdateStatus(ctx context.Context, id string, from, to entity.OrderStatus, at time.Time) (*entity.Order, error)
}
