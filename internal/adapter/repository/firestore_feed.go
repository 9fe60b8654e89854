package repository

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/logger"
)

// firestoreFeed implements the change feed on top of Firestore snapshot
// listeners. Each subscription opens one listener per query; a message
// subscription needs two queries because a single query cannot match both
// directions of a conversation.
type firestoreFeed struct {
	client *firestore.Client
}

func NewFirestoreFeed(client *firestore.Client) repository.ChangeFeed {
	return &firestoreFeed{
		client: client,
	}
}

func (f *firestoreFeed) SubscribeMessages(ctx context.Context, userID string) (<-chan repository.MessageEvent, error) {
	out := make(chan repository.MessageEvent)

	queries := []firestore.Query{
		f.client.Collection("messages").Where("fromUser", "==", userID),
		f.client.Collection("messages").Where("toUser", "==", userID),
	}

	var wg sync.WaitGroup
	for _, query := range queries {
		wg.Add(1)
		go func(q firestore.Query) {
			defer wg.Done()
			f.pumpMessages(ctx, q, out)
		}(query)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

func (f *firestoreFeed) SubscribeOrders(ctx context.Context, identity entity.Identity) (<-chan repository.OrderEvent, error) {
	field := "clientId"
	if identity.IsMerchant() {
		field = "merchantId"
	}
	query := f.client.Collection("orders").Where(field, "==", identity.ID)

	out := make(chan repository.OrderEvent)

	go func() {
		defer close(out)
		f.pumpOrders(ctx, query, out)
	}()

	return out, nil
}

func (f *firestoreFeed) pumpMessages(ctx context.Context, query firestore.Query, out chan<- repository.MessageEvent) {
	iter := query.Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("Message feed listener stopped: %v", err)
			}
			return
		}

		for _, change := range snap.Changes {
			var msg entity.Message
			if err := change.Doc.DataTo(&msg); err != nil {
				logger.Warn("Dropping malformed message change %s: %v", change.Doc.Ref.ID, err)
				continue
			}
			msg.ID = change.Doc.Ref.ID

			event := repository.MessageEvent{
				Type:    feedEventType(change.Kind),
				Message: &msg,
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (f *firestoreFeed) pumpOrders(ctx context.Context, query firestore.Query, out chan<- repository.OrderEvent) {
	iter := query.Snapshots(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("Order feed listener stopped: %v", err)
			}
			return
		}

		for _, change := range snap.Changes {
			var order entity.Order
			if err := change.Doc.DataTo(&order); err != nil {
				logger.Warn("Dropping malformed order change %s: %v", change.Doc.Ref.ID, err)
				continue
			}
			order.ID = change.Doc.Ref.ID

			event := repository.OrderEvent{
				Type:  feedEventType(change.Kind),
				Order: &order,
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func feedEventType(kind firestore.DocumentChangeKind) repository.FeedEventType {
	switch kind {
	case firestore.DocumentAdded:
		return repository.FeedInsert
	case firestore.DocumentModified:
		return repository.FeedUpdate
	default:
		return repository.FeedDelete
	}
}
