package usecase

import (
	"context"
	"sort"
	"sync"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/logger"
)

// Conversation holds the ordered message list for one open two-party thread.
// Feed events are applied incrementally; the displayed order is always
// createdAt-ascending regardless of arrival order, and duplicate delivery is
// absorbed by an id set.
type Conversation struct {
	mu          sync.Mutex
	currentUser string
	counterpart string
	messages    []*entity.Message
	seen        map[string]struct{}
}

// OpenConversation fetches the full history between the two identities and,
// as a side effect, marks every unread message from the counterpart to the
// current user as read: viewing a thread consumes its unread state.
func (uc *MessageUseCase) OpenConversation(ctx context.Context, currentUserID, counterpartID string) (*Conversation, error) {
	history, err := uc.messageRepo.ListBetween(ctx, currentUserID, counterpartID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.messageRepo.MarkConversationRead(ctx, counterpartID, currentUserID); err != nil {
		// Unread counts stay stale until the next open; the history itself
		// is already loaded, so don't fail the whole operation.
		logger.Warn("Failed to mark conversation %s/%s read: %v", counterpartID, currentUserID, err)
	}

	conv := &Conversation{
		currentUser: currentUserID,
		counterpart: counterpartID,
		messages:    make([]*entity.Message, 0, len(history)),
		seen:        make(map[string]struct{}, len(history)),
	}

	for _, m := range history {
		if _, dup := conv.seen[m.ID]; dup {
			continue
		}
		// Reflect the mark-read write locally so the view matches the store.
		if m.FromUser == counterpartID && m.ToUser == currentUserID {
			m.Read = true
		}
		conv.seen[m.ID] = struct{}{}
		conv.messages = append(conv.messages, m)
	}

	return conv, nil
}

// CurrentUser returns the identity the conversation was opened as.
func (c *Conversation) CurrentUser() string { return c.currentUser }

// Counterpart returns the other participant.
func (c *Conversation) Counterpart() string { return c.counterpart }

func (c *Conversation) matches(m *entity.Message) bool {
	return (m.FromUser == c.currentUser && m.ToUser == c.counterpart) ||
		(m.FromUser == c.counterpart && m.ToUser == c.currentUser)
}

// Apply folds one feed event into the conversation and reports whether the
// view changed. Inserting an already-present id is a no-op; a late-arriving
// older message is sorted into place, not appended. Events for other pairs
// are ignored.
func (c *Conversation) Apply(event repository.MessageEvent) bool {
	if event.Message == nil || !c.matches(event.Message) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch event.Type {
	case repository.FeedInsert:
		return c.insertLocked(event.Message)
	case repository.FeedUpdate:
		return c.updateLocked(event.Message)
	default:
		// Messages are never deleted in this domain.
		return false
	}
}

func (c *Conversation) insertLocked(m *entity.Message) bool {
	if _, dup := c.seen[m.ID]; dup {
		return false
	}

	// Equal timestamps keep delivery order: insert after existing equals.
	i := sort.Search(len(c.messages), func(i int) bool {
		return c.messages[i].CreatedAt.After(m.CreatedAt)
	})

	c.messages = append(c.messages, nil)
	copy(c.messages[i+1:], c.messages[i:])
	c.messages[i] = m
	c.seen[m.ID] = struct{}{}
	return true
}

func (c *Conversation) updateLocked(m *entity.Message) bool {
	if _, ok := c.seen[m.ID]; !ok {
		// An update for a row we never saw still carries the full row;
		// treat it as the insert we missed (at-least-once delivery).
		return c.insertLocked(m)
	}

	for i, existing := range c.messages {
		if existing.ID != m.ID {
			continue
		}
		if existing.Read == m.Read {
			return false
		}
		c.messages[i] = m
		return true
	}
	return false
}

// Messages returns a snapshot of the ordered message list.
func (c *Conversation) Messages() []*entity.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*entity.Message, len(c.messages))
	copy(out, c.messages)
	return out
}
