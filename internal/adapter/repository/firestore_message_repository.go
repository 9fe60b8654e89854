package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/logger"
)

type firestoreMessageRepository struct {
	client *firestore.Client
}

func NewFirestoreMessageRepository(client *firestore.Client) repository.MessageRepository {
	return &firestoreMessageRepository{
		client: client,
	}
}

func (r *firestoreMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	message.CreatedAt = time.Now()

	_, err := r.client.Collection("messages").Doc(message.ID).Set(ctx, message)
	if err != nil {
		return wrapFirestoreErr("Failed to create message", err)
	}

	return nil
}

// ListByUser merges the sent and received halves of the log. Firestore has
// no OR filter, so two equality queries are combined and sorted in memory,
// newest first.
func (r *firestoreMessageRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Message, error) {
	queries := []firestore.Query{
		r.client.Collection("messages").Where("fromUser", "==", userID),
		r.client.Collection("messages").Where("toUser", "==", userID),
	}

	seen := make(map[string]struct{})
	var messages []*entity.Message

	for _, query := range queries {
		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			return nil, wrapFirestoreErr("Failed to fetch messages", err)
		}

		for _, doc := range docs {
			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				logger.Warn("Skipping malformed message %s: %v", doc.Ref.ID, err)
				continue
			}
			message.ID = doc.Ref.ID

			if _, dup := seen[message.ID]; dup {
				continue
			}
			seen[message.ID] = struct{}{}
			messages = append(messages, &message)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})

	return messages, nil
}

func (r *firestoreMessageRepository) ListBetween(ctx context.Context, userA, userB string) ([]*entity.Message, error) {
	queries := []firestore.Query{
		r.client.Collection("messages").Where("fromUser", "==", userA).Where("toUser", "==", userB),
		r.client.Collection("messages").Where("fromUser", "==", userB).Where("toUser", "==", userA),
	}

	seen := make(map[string]struct{})
	var messages []*entity.Message

	for _, query := range queries {
		iter := query.Documents(ctx)
		for {
			doc, err := iter.Next()
			if err == iterator.Done {
				break
			}
			if err != nil {
				return nil, wrapFirestoreErr("Failed to iterate conversation history", err)
			}

			var message entity.Message
			if err := doc.DataTo(&message); err != nil {
				logger.Warn("Skipping malformed message %s: %v", doc.Ref.ID, err)
				continue
			}
			message.ID = doc.Ref.ID

			if _, dup := seen[message.ID]; dup {
				continue
			}
			seen[message.ID] = struct{}{}
			messages = append(messages, &message)
		}
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt.Before(messages[j].CreatedAt)
	})

	return messages, nil
}

func (r *firestoreMessageRepository) MarkConversationRead(ctx context.Context, fromUser, toUser string) (int, error) {
	query := r.client.Collection("messages").
		Where("fromUser", "==", fromUser).
		Where("toUser", "==", toUser).
		Where("read", "==", false)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, wrapFirestoreErr("Failed to query unread messages", err)
	}

	marked := 0
	for _, doc := range docs {
		_, err := doc.Ref.Update(ctx, []firestore.Update{
			{Path: "read", Value: true},
		})
		if err != nil {
			return marked, wrapFirestoreErr("Failed to mark message read", err)
		}
		marked++
	}

	return marked, nil
}
