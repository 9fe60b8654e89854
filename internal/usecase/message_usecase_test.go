package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokoni/internal/domain/entity"
	"sokoni/pkg/errors"
)

func msg(id, from, to, content string, read bool, at time.Time) *entity.Message {
	return &entity.Message{
		ID:        id,
		FromUser:  from,
		ToUser:    to,
		Content:   content,
		Read:      read,
		CreatedAt: at,
	}
}

func TestAggregateThreads_OneThreadPerCounterpart(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Newest first, matching the repository ordering.
	messages := []*entity.Message{
		msg("m4", "bob", "alice", "latest from bob", false, base.Add(3*time.Minute)),
		msg("m3", "alice", "carol", "to carol", true, base.Add(2*time.Minute)),
		msg("m2", "alice", "bob", "to bob", true, base.Add(1*time.Minute)),
		msg("m1", "carol", "alice", "from carol", false, base),
	}

	threads := AggregateThreads(messages, "alice")

	require.Len(t, threads, 2)
	assert.Equal(t, "bob", threads[0].CounterpartID)
	assert.Equal(t, "latest from bob", threads[0].LastMessage.Content)
	assert.Equal(t, "carol", threads[1].CounterpartID)
	assert.Equal(t, "to carol", threads[1].LastMessage.Content)
}

func TestAggregateThreads_UnreadCountsOnlyInbound(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messages := []*entity.Message{
		msg("m5", "bob", "alice", "unread 2", false, base.Add(4*time.Minute)),
		msg("m4", "bob", "alice", "unread 1", false, base.Add(3*time.Minute)),
		msg("m3", "bob", "alice", "already read", true, base.Add(2*time.Minute)),
		// Outbound unread must not count against alice.
		msg("m2", "alice", "bob", "outbound unread", false, base.Add(1*time.Minute)),
	}

	threads := AggregateThreads(messages, "alice")

	require.Len(t, threads, 1)
	assert.Equal(t, 2, threads[0].UnreadCount)
}

func TestAggregateThreads_EqualTimestampsKeepFirstSeen(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messages := []*entity.Message{
		msg("m2", "bob", "alice", "first seen wins", true, at),
		msg("m1", "alice", "bob", "same instant", true, at),
	}

	threads := AggregateThreads(messages, "alice")

	require.Len(t, threads, 1)
	assert.Equal(t, "first seen wins", threads[0].LastMessage.Content)
}

func TestAggregateThreads_SkipsUnrelatedMessages(t *testing.T) {
	at := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messages := []*entity.Message{
		msg("m1", "bob", "carol", "not alice's", false, at),
		nil,
	}

	threads := AggregateThreads(messages, "alice")

	assert.Empty(t, threads)
}

func TestAggregateThreads_EmptyInput(t *testing.T) {
	threads := AggregateThreads(nil, "alice")

	assert.NotNil(t, threads)
	assert.Empty(t, threads)
}

func TestListThreads_AttachesProfiles(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messageRepo := &fakeMessageRepo{
		messages: []*entity.Message{
			msg("m1", "bob", "alice", "hi", false, base),
			msg("m2", "ghost", "alice", "boo", false, base.Add(time.Minute)),
		},
	}
	profileRepo := newFakeProfileRepo(
		&entity.Profile{ID: "bob", DisplayName: "Bob", Role: entity.RoleMerchant},
	)

	uc := NewMessageUseCase(messageRepo, profileRepo)

	threads, err := uc.ListThreads(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, threads, 2)

	// Counterparts without a profile keep their summary, just unannotated.
	byID := map[string]*ThreadResponse{}
	for _, th := range threads {
		byID[th.CounterpartID] = th
	}
	require.NotNil(t, byID["bob"].Counterpart)
	assert.Equal(t, "Bob", byID["bob"].Counterpart.DisplayName)
	assert.Nil(t, byID["ghost"].Counterpart)
}

func TestSendMessage_Validation(t *testing.T) {
	messageRepo := &fakeMessageRepo{}
	profileRepo := newFakeProfileRepo(
		&entity.Profile{ID: "bob", Role: entity.RoleMerchant},
	)
	uc := NewMessageUseCase(messageRepo, profileRepo)
	ctx := context.Background()

	_, err := uc.SendMessage(ctx, "alice", SendMessageInput{ToUser: "bob", Content: "   "})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ToUser: "", Content: "hi"})
	assert.True(t, errors.Is(err, "VALIDATION_ERROR"))

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ToUser: "alice", Content: "hi"})
	assert.True(t, errors.Is(err, "BAD_REQUEST"))

	_, err = uc.SendMessage(ctx, "alice", SendMessageInput{ToUser: "nobody", Content: "hi"})
	assert.True(t, errors.Is(err, "NOT_FOUND"))

	assert.Empty(t, messageRepo.messages)
}

func TestSendMessage_PersistsUnread(t *testing.T) {
	messageRepo := &fakeMessageRepo{}
	profileRepo := newFakeProfileRepo(
		&entity.Profile{ID: "bob", Role: entity.RoleMerchant},
	)
	uc := NewMessageUseCase(messageRepo, profileRepo)

	sent, err := uc.SendMessage(context.Background(), "alice", SendMessageInput{
		ToUser:  "bob",
		Content: "  hello  ",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, sent.ID)
	assert.Equal(t, "hello", sent.Content)
	assert.False(t, sent.Read)
	require.Len(t, messageRepo.messages, 1)
}

func TestMarkThreadRead_FlipsInboundOnly(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	messageRepo := &fakeMessageRepo{
		messages: []*entity.Message{
			msg("m1", "bob", "alice", "unread", false, base),
			msg("m2", "bob", "alice", "unread too", false, base.Add(time.Minute)),
			msg("m3", "alice", "bob", "mine", false, base.Add(2*time.Minute)),
		},
	}
	uc := NewMessageUseCase(messageRepo, newFakeProfileRepo())

	updated, err := uc.MarkThreadRead(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	// The outbound message stays untouched.
	assert.False(t, messageRepo.messages[2].Read)
}
