package usecase

import (
	"context"
	"strings"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/internal/infrastructure/ratelimit"
	"sokoni/pkg/errors"
	"sokoni/pkg/logger"
)

type MessageUseCase struct {
	messageRepo repository.MessageRepository
	profileRepo repository.ProfileRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	profileRepo repository.ProfileRepository,
) *MessageUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &MessageUseCase{
		messageRepo: messageRepo,
		profileRepo: profileRepo,
		rateLimiter: rateLimiter,
	}
}

// LastMessage is the newest message of a thread, as shown in the inbox list.
type LastMessage struct {
	Content   string    `json:"content"`
	FromUser  string    `json:"from_user"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadSummary is a derived projection over the message set: one entry per
// counterpart, never persisted, always recomputed whole.
type ThreadSummary struct {
	CounterpartID string      `json:"counterpart_id"`
	LastMessage   LastMessage `json:"last_message"`
	UnreadCount   int         `json:"unread_count"`
}

type ThreadResponse struct {
	ThreadSummary
	Counterpart *entity.Profile `json:"counterpart,omitempty"`
}

// AggregateThreads folds a flat message log into one summary per counterpart.
// Input is expected newest-first (the bulk-fetch ordering); for equal
// timestamps the earlier entry wins, so the result agrees with the backend's
// own ordering. Messages not involving currentUserID are skipped. An empty
// input yields an empty list, never an error.
func AggregateThreads(messages []*entity.Message, currentUserID string) []ThreadSummary {
	threads := make([]ThreadSummary, 0, len(messages))
	index := make(map[string]int)

	for _, m := range messages {
		if m == nil || !m.Involves(currentUserID) {
			continue
		}

		other := m.Counterpart(currentUserID)
		i, ok := index[other]
		if !ok {
			index[other] = len(threads)
			i = len(threads)
			threads = append(threads, ThreadSummary{
				CounterpartID: other,
				LastMessage: LastMessage{
					Content:   m.Content,
					FromUser:  m.FromUser,
					CreatedAt: m.CreatedAt,
				},
			})
		} else if m.CreatedAt.After(threads[i].LastMessage.CreatedAt) {
			threads[i].LastMessage = LastMessage{
				Content:   m.Content,
				FromUser:  m.FromUser,
				CreatedAt: m.CreatedAt,
			}
		}

		if m.ToUser == currentUserID && !m.Read {
			threads[i].UnreadCount++
		}
	}

	return threads
}

// ListThreads bulk-fetches the user's message log and aggregates it. The sync
// controller re-invokes this on every relevant feed event; recomputation is
// idempotent so redundant refreshes are harmless.
func (uc *MessageUseCase) ListThreads(ctx context.Context, currentUserID string) ([]*ThreadResponse, error) {
	messages, err := uc.messageRepo.ListByUser(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	summaries := AggregateThreads(messages, currentUserID)

	responses := make([]*ThreadResponse, 0, len(summaries))
	for _, summary := range summaries {
		resp := &ThreadResponse{ThreadSummary: summary}

		profile, err := uc.profileRepo.GetByID(ctx, summary.CounterpartID)
		if err != nil {
			logger.Warn("Failed to load profile %s for thread list: %v", summary.CounterpartID, err)
		} else {
			resp.Counterpart = profile
		}

		responses = append(responses, resp)
	}

	return responses, nil
}

type SendMessageInput struct {
	ToUser  string
	Content string
}

// SendMessage persists a new message with read=false. The sender's open views
// pick it up through the feed round-trip rather than a local append, so the
// stored row is the only source of truth.
func (uc *MessageUseCase) SendMessage(ctx context.Context, fromUserID string, input SendMessageInput) (*entity.Message, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, errors.Validation("message content cannot be empty")
	}

	if input.ToUser == "" {
		return nil, errors.Validation("recipient is required")
	}

	if input.ToUser == fromUserID {
		return nil, errors.BadRequest("You cannot message yourself", nil)
	}

	if allowed, _ := uc.rateLimiter.Allow(fromUserID, "send_message"); !allowed {
		return nil, errors.TooManyRequests("Too many messages, slow down")
	}

	if _, err := uc.profileRepo.GetByID(ctx, input.ToUser); err != nil {
		return nil, errors.NotFound("Recipient", err)
	}

	message := &entity.Message{
		FromUser: fromUserID,
		ToUser:   input.ToUser,
		Content:  content,
		Read:     false,
	}

	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// MarkThreadRead consumes the unread state of one thread: every unread
// message from the counterpart to the current user flips to read.
func (uc *MessageUseCase) MarkThreadRead(ctx context.Context, currentUserID, counterpartID string) (int, error) {
	return uc.messageRepo.MarkConversationRead(ctx, counterpartID, currentUserID)
}
