package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
)

const testWindow = 20 * time.Millisecond

func TestSyncController_CoalescesBursts(t *testing.T) {
	feed := &fakeFeed{}
	ctrl := NewSyncController(feed, testWindow)

	var messageRefreshes, orderRefreshes atomic.Int32
	err := ctrl.Start(context.Background(), client, SyncCallbacks{
		OnMessages: func() { messageRefreshes.Add(1) },
		OnOrders:   func() { orderRefreshes.Add(1) },
	})
	require.NoError(t, err)
	defer ctrl.Stop()

	msgCh := feed.messageChan(0)
	for i := 0; i < 10; i++ {
		msgCh <- repository.MessageEvent{Type: repository.FeedInsert}
	}

	require.Eventually(t, func() bool {
		return messageRefreshes.Load() == 1
	}, time.Second, time.Millisecond)

	// The burst landed inside one window: still exactly one refresh, and the
	// untouched orders feed never fired.
	time.Sleep(4 * testWindow)
	assert.Equal(t, int32(1), messageRefreshes.Load())
	assert.Equal(t, int32(0), orderRefreshes.Load())
}

func TestSyncController_SeparateWindowsFireSeparately(t *testing.T) {
	feed := &fakeFeed{}
	ctrl := NewSyncController(feed, testWindow)

	var refreshes atomic.Int32
	err := ctrl.Start(context.Background(), client, SyncCallbacks{
		OnMessages: func() { refreshes.Add(1) },
	})
	require.NoError(t, err)
	defer ctrl.Stop()

	msgCh := feed.messageChan(0)

	msgCh <- repository.MessageEvent{Type: repository.FeedInsert}
	require.Eventually(t, func() bool {
		return refreshes.Load() == 1
	}, time.Second, time.Millisecond)

	msgCh <- repository.MessageEvent{Type: repository.FeedInsert}
	require.Eventually(t, func() bool {
		return refreshes.Load() == 2
	}, time.Second, time.Millisecond)
}

func TestSyncController_StopSilencesCallbacks(t *testing.T) {
	feed := &fakeFeed{}
	ctrl := NewSyncController(feed, testWindow)

	var refreshes atomic.Int32
	err := ctrl.Start(context.Background(), client, SyncCallbacks{
		OnMessages: func() { refreshes.Add(1) },
		OnOrders:   func() { refreshes.Add(1) },
	})
	require.NoError(t, err)

	ctrl.Stop()
	assert.Equal(t, entity.Identity{}, ctrl.Identity())

	feed.messageChan(0) <- repository.MessageEvent{Type: repository.FeedInsert}
	feed.orderChan(0) <- repository.OrderEvent{Type: repository.FeedUpdate}

	time.Sleep(4 * testWindow)
	assert.Equal(t, int32(0), refreshes.Load())
}

func TestSyncController_IdentityChangeDropsOldSubscription(t *testing.T) {
	feed := &fakeFeed{}
	ctrl := NewSyncController(feed, testWindow)

	var oldRefreshes, newRefreshes atomic.Int32
	require.NoError(t, ctrl.Start(context.Background(), client, SyncCallbacks{
		OnMessages: func() { oldRefreshes.Add(1) },
	}))

	require.NoError(t, ctrl.Start(context.Background(), merchant, SyncCallbacks{
		OnMessages: func() { newRefreshes.Add(1) },
	}))
	defer ctrl.Stop()

	assert.Equal(t, merchant, ctrl.Identity())

	// Events on the superseded subscription must not surface.
	feed.messageChan(0) <- repository.MessageEvent{Type: repository.FeedInsert}
	feed.messageChan(1) <- repository.MessageEvent{Type: repository.FeedInsert}

	require.Eventually(t, func() bool {
		return newRefreshes.Load() == 1
	}, time.Second, time.Millisecond)

	time.Sleep(4 * testWindow)
	assert.Equal(t, int32(0), oldRefreshes.Load())
	assert.Equal(t, int32(1), newRefreshes.Load())
}

func TestSyncController_DefaultWindow(t *testing.T) {
	ctrl := NewSyncController(&fakeFeed{}, 0)
	assert.Equal(t, defaultCoalesceWindow, ctrl.window)
}
