package repository

import (
	"context"

	"sokoni/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error

	// ListByUser returns every message involving userID, newest first.
	// This matches the server ordering the thread aggregation relies on.
	ListByUser(ctx context.Context, userID string) ([]*entity.Message, error)

	// ListBetween returns the full history between two users, oldest first.
	ListBetween(ctx context.Context, userA, userB string) ([]*entity.Message, error)

	// MarkConversationRead flips read=false -> true on every message from
	// fromUser to toUser and returns how many rows changed.
	MarkConversationRead(ctx context.Context, fromUser, toUser string) (int, error)
}
