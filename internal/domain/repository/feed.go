package repository

import (
	"context"

	"sokoni/internal/domain/entity"
)

// FeedEventType mirrors the backend's row-level notification kinds.
type FeedEventType string

const (
	FeedInsert FeedEventType = "insert"
	FeedUpdate FeedEventType = "update"
	FeedDelete FeedEventType = "delete"
)

// MessageEvent is one change notification on the messages table. Rows are
// decoded and validated at this boundary; consumers never see raw documents.
type MessageEvent struct {
	Type    FeedEventType
	Message *entity.Message
}

// OrderEvent is one change notification on the orders table.
type OrderEvent struct {
	Type  FeedEventType
	Order *entity.Order
}

// ChangeFeed is the backend's push channel. Delivery is at-least-once with
// no ordering guarantee across subscriptions; consumers must deduplicate and
// re-derive their views from fetched truth. Cancelling the context ends the
// subscription and closes the returned channel.
type ChangeFeed interface {
	// SubscribeMessages streams changes to messages sent by or addressed to
	// userID.
	SubscribeMessages(ctx context.Context, userID string) (<-chan MessageEvent, error)

	// SubscribeOrders streams changes to orders where the identity is the
	// client or the merchant, depending on its role.
	SubscribeOrders(ctx context.Context, identity entity.Identity) (<-chan OrderEvent, error)
}
