package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
)

func insertEvent(m *entity.Message) repository.MessageEvent {
	return repository.MessageEvent{Type: repository.FeedInsert, Message: m}
}

func conversationIDs(c *Conversation) []string {
	var ids []string
	for _, m := range c.Messages() {
		ids = append(ids, m.ID)
	}
	return ids
}

func TestOpenConversation_MarksCounterpartMessagesRead(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messageRepo := &fakeMessageRepo{
		messages: []*entity.Message{
			msg("m1", "bob", "alice", "unread", false, base),
			msg("m2", "alice", "bob", "mine", false, base.Add(time.Minute)),
			msg("m3", "bob", "carol", "other thread", false, base.Add(2*time.Minute)),
		},
	}
	uc := NewMessageUseCase(messageRepo, newFakeProfileRepo())

	conv, err := uc.OpenConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	history := conv.Messages()
	require.Len(t, history, 2)
	assert.Equal(t, []string{"m1", "m2"}, conversationIDs(conv))

	// Inbound rows are read after opening, both in store and in the view.
	assert.True(t, messageRepo.messages[0].Read)
	assert.True(t, history[0].Read)
	// The other thread is untouched.
	assert.False(t, messageRepo.messages[2].Read)
}

func TestOpenConversation_SurvivesMarkReadFailure(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messageRepo := &fakeMessageRepo{
		messages: []*entity.Message{
			msg("m1", "bob", "alice", "hi", false, base),
		},
		markErr: assert.AnError,
	}
	uc := NewMessageUseCase(messageRepo, newFakeProfileRepo())

	conv, err := uc.OpenConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Len(t, conv.Messages(), 1)
}

func TestConversationApply_OrderIndependent(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	events := []*entity.Message{
		msg("m1", "alice", "bob", "one", true, base),
		msg("m2", "bob", "alice", "two", false, base.Add(time.Minute)),
		msg("m3", "alice", "bob", "three", false, base.Add(2*time.Minute)),
	}

	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	for _, perm := range permutations {
		conv := &Conversation{
			currentUser: "alice",
			counterpart: "bob",
			seen:        make(map[string]struct{}),
		}
		for _, i := range perm {
			conv.Apply(insertEvent(events[i]))
		}
		assert.Equal(t, []string{"m1", "m2", "m3"}, conversationIDs(conv), "permutation %v", perm)
	}
}

func TestConversationApply_DuplicateInsertIsNoop(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	conv := &Conversation{
		currentUser: "alice",
		counterpart: "bob",
		seen:        make(map[string]struct{}),
	}

	m := msg("m1", "bob", "alice", "hi", false, at)
	assert.True(t, conv.Apply(insertEvent(m)))
	assert.False(t, conv.Apply(insertEvent(m)))
	assert.Len(t, conv.Messages(), 1)
}

func TestConversationApply_EqualTimestampsKeepArrivalOrder(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	conv := &Conversation{
		currentUser: "alice",
		counterpart: "bob",
		seen:        make(map[string]struct{}),
	}

	conv.Apply(insertEvent(msg("m1", "alice", "bob", "first", true, at)))
	conv.Apply(insertEvent(msg("m2", "bob", "alice", "second", false, at)))

	assert.Equal(t, []string{"m1", "m2"}, conversationIDs(conv))
}

func TestConversationApply_UpdateFlipsReadFlag(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	conv := &Conversation{
		currentUser: "alice",
		counterpart: "bob",
		seen:        make(map[string]struct{}),
	}

	conv.Apply(insertEvent(msg("m1", "alice", "bob", "hi", false, at)))

	updated := msg("m1", "alice", "bob", "hi", true, at)
	changed := conv.Apply(repository.MessageEvent{Type: repository.FeedUpdate, Message: updated})
	assert.True(t, changed)
	assert.True(t, conv.Messages()[0].Read)

	// Same payload again: nothing changes.
	changed = conv.Apply(repository.MessageEvent{Type: repository.FeedUpdate, Message: updated})
	assert.False(t, changed)
}

func TestConversationApply_UpdateForUnseenRowInserts(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	conv := &Conversation{
		currentUser: "alice",
		counterpart: "bob",
		seen:        make(map[string]struct{}),
	}

	// At-least-once delivery can surface an update before its insert.
	changed := conv.Apply(repository.MessageEvent{
		Type:    repository.FeedUpdate,
		Message: msg("m1", "bob", "alice", "hi", true, at),
	})
	assert.True(t, changed)
	assert.Len(t, conv.Messages(), 1)
}

func TestConversationApply_IgnoresOtherPairsAndDeletes(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	conv := &Conversation{
		currentUser: "alice",
		counterpart: "bob",
		seen:        make(map[string]struct{}),
	}

	assert.False(t, conv.Apply(insertEvent(msg("m1", "carol", "alice", "wrong pair", false, at))))
	assert.False(t, conv.Apply(repository.MessageEvent{
		Type:    repository.FeedDelete,
		Message: msg("m2", "bob", "alice", "deleted", false, at),
	}))
	assert.False(t, conv.Apply(repository.MessageEvent{Type: repository.FeedInsert}))
	assert.Empty(t, conv.Messages())
}
