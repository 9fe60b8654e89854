package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/samber/lo"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

// orderTransitions is the complete status graph. Anything not listed here is
// rejected, including every edge out of the two terminal states.
var orderTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderPending:   {entity.OrderConfirmed, entity.OrderCancelled},
	entity.OrderConfirmed: {entity.OrderShipped, entity.OrderCancelled},
	entity.OrderShipped:   {entity.OrderDelivered, entity.OrderCancelled},
	entity.OrderDelivered: {},
	entity.OrderCancelled: {},
}

// CanTransition reports whether to is reachable from from in one step.
func CanTransition(from, to entity.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OrderUseCase drives the order lifecycle. It keeps an in-memory view of the
// orders it has seen so a transition can be applied optimistically before the
// backend confirms; a rejected write rolls the view back to the
// authoritative row.
type OrderUseCase struct {
	orderRepo repository.OrderRepository

	mu   sync.RWMutex
	view map[string]*entity.Order
}

func NewOrderUseCase(orderRepo repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		view:      make(map[string]*entity.Order),
	}
}

func (uc *OrderUseCase) storeView(orders ...*entity.Order) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, o := range orders {
		if o != nil {
			uc.view[o.ID] = o
		}
	}
}

// ViewOf returns the engine's current (possibly optimistic) copy of an order.
func (uc *OrderUseCase) ViewOf(orderID string) (*entity.Order, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	o, ok := uc.view[orderID]
	return o, ok
}

// RequestTransition validates and persists a merchant's status change.
// The new status is applied to the in-memory view before the write; if the
// backend rejects it (a lost race), the view is rolled back to the
// authoritative state and a conflict is surfaced - an unconfirmed optimistic
// state is never kept silently.
func (uc *OrderUseCase) RequestTransition(ctx context.Context, actor entity.Identity, orderID string, newStatus entity.OrderStatus) (*entity.Order, error) {
	if !newStatus.Valid() {
		return nil, errors.Validation("unknown order status: " + string(newStatus))
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.IsMerchant() {
		return nil, errors.Forbidden("Only merchants can update order status", nil)
	}

	if order.MerchantID != actor.ID {
		return nil, errors.Forbidden("You can only update your own orders", nil)
	}

	if !CanTransition(order.Status, newStatus) {
		return nil, errors.InvalidTransition(string(order.Status), string(newStatus))
	}

	now := time.Now()

	optimistic := *order
	optimistic.Status = newStatus
	optimistic.UpdatedAt = now
	uc.storeView(&optimistic)

	updated, err := uc.orderRepo.UpdateStatus(ctx, orderID, order.Status, newStatus, now)
	if err != nil {
		if errors.Is(err, "CONFLICT") {
			// Forced resync: fetch the authoritative row before resurfacing.
			authoritative, getErr := uc.orderRepo.GetByID(ctx, orderID)
			if getErr != nil {
				logger.Error("Failed to refetch order %s after conflict: %v", orderID, getErr)
				uc.storeView(order)
				return nil, err
			}
			uc.storeView(authoritative)
			return nil, err
		}

		uc.storeView(order)
		return nil, err
	}

	uc.storeView(updated)
	return updated, nil
}

// GetOrder returns one order if the identity is a party to it.
func (uc *OrderUseCase) GetOrder(ctx context.Context, identity entity.Identity, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.ClientID != identity.ID && order.MerchantID != identity.ID {
		return nil, errors.Forbidden("You don't have permission to view this order", nil)
	}

	uc.storeView(order)
	return order, nil
}

// ListOrders fetches the identity's orders, optionally filtered by status,
// and refreshes the in-memory view with what the backend returned.
func (uc *OrderUseCase) ListOrders(ctx context.Context, identity entity.Identity, status entity.OrderStatus) ([]*entity.Order, error) {
	if status != "" && !status.Valid() {
		return nil, errors.Validation("unknown order status: " + string(status))
	}

	orders, err := uc.orderRepo.ListByIdentity(ctx, identity, status)
	if err != nil {
		return nil, err
	}

	uc.storeView(orders...)
	return orders, nil
}

// Counts recomputes the per-status tally from the full order set. The whole
// tally is re-derived on every call rather than maintained incrementally, so
// a missed feed event can never make it drift.
func (uc *OrderUseCase) Counts(ctx context.Context, identity entity.Identity) (entity.OrderCounts, error) {
	orders, err := uc.ListOrders(ctx, identity, "")
	if err != nil {
		return entity.OrderCounts{}, err
	}

	return TallyOrders(orders), nil
}

// TallyOrders computes OrderCounts from an order set.
func TallyOrders(orders []*entity.Order) entity.OrderCounts {
	byStatus := lo.CountValuesBy(orders, func(o *entity.Order) entity.OrderStatus {
		return o.Status
	})

	return entity.OrderCounts{
		All:       len(orders),
		Pending:   byStatus[entity.OrderPending],
		Confirmed: byStatus[entity.OrderConfirmed],
		Shipped:   byStatus[entity.OrderShipped],
		Delivered: byStatus[entity.OrderDelivered],
	}
}

// Refresh refetches the identity's orders after a feed event. The design
// favors a whole refetch-and-recompute over patching single rows.
func (uc *OrderUseCase) Refresh(ctx context.Context, identity entity.Identity) error {
	_, err := uc.ListOrders(ctx, identity, "")
	return err
}
