package usecase

import (
	"context"
	"sync"
	"time"

	"sokoni/internal/domain/entity"
	"sokoni/internal/domain/repository"
	"sokoni/pkg/logger"
)

const defaultCoalesceWindow = 150 * time.Millisecond

// SyncCallbacks are the refresh hooks invoked after feed activity. They must
// be idempotent recomputations: a redundant call is wasteful, never wrong.
type SyncCallbacks struct {
	OnMessages func()
	OnOrders   func()
}

// SyncController owns one change-feed subscription per domain, scoped to the
// signed-in identity. Bursts of events are coalesced into a single refresh
// per window, and a refresh completing after teardown is discarded by a
// generation guard rather than raced against.
type SyncController struct {
	feed   repository.ChangeFeed
	window time.Duration

	mu      sync.Mutex
	cancel  context.CancelFunc
	current entity.Identity
	gen     uint64
}

func NewSyncController(feed repository.ChangeFeed, window time.Duration) *SyncController {
	if window <= 0 {
		window = defaultCoalesceWindow
	}
	return &SyncController{
		feed:   feed,
		window: window,
	}
}

// Start subscribes to the messages and orders feeds for the identity and
// dispatches refreshes until Stop or context cancellation. Calling Start
// again (identity change) tears the previous subscriptions down first so no
// handler keeps firing against a stale identity.
func (s *SyncController) Start(ctx context.Context, identity entity.Identity, callbacks SyncCallbacks) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen

	subCtx, cancel := context.WithCancel(ctx)

	messageEvents, err := s.feed.SubscribeMessages(subCtx, identity.ID)
	if err != nil {
		cancel()
		s.mu.Unlock()
		return err
	}

	orderEvents, err := s.feed.SubscribeOrders(subCtx, identity)
	if err != nil {
		cancel()
		s.mu.Unlock()
		return err
	}

	s.cancel = cancel
	s.current = identity
	s.mu.Unlock()

	messageTicks := make(chan struct{}, 1)
	go func() {
		defer close(messageTicks)
		for range messageEvents {
			select {
			case messageTicks <- struct{}{}:
			default:
			}
		}
	}()

	orderTicks := make(chan struct{}, 1)
	go func() {
		defer close(orderTicks)
		for range orderEvents {
			select {
			case orderTicks <- struct{}{}:
			default:
			}
		}
	}()

	go s.coalesce(subCtx, gen, messageTicks, callbacks.OnMessages)
	go s.coalesce(subCtx, gen, orderTicks, callbacks.OnOrders)

	logger.Debug("Sync started for %s (%s)", identity.ID, identity.Role)
	return nil
}

// Stop cancels the active subscriptions. Refreshes already in flight may
// still complete; the generation guard keeps them from being applied.
func (s *SyncController) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	s.current = entity.Identity{}
}

// Identity returns the identity the controller is currently synced to.
func (s *SyncController) Identity() entity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *SyncController) isCurrent(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen == gen
}

// coalesce fires refresh once per window no matter how many events arrived
// within it. The liveness check runs immediately before each refresh so a
// tick that raced Stop is dropped.
func (s *SyncController) coalesce(ctx context.Context, gen uint64, ticks <-chan struct{}, refresh func()) {
	if refresh == nil {
		return
	}

	timer := time.NewTimer(s.window)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false
	for {
		select {
		case _, ok := <-ticks:
			if !ok {
				return
			}
			if !pending {
				pending = true
				timer.Reset(s.window)
			}
		case <-timer.C:
			pending = false
			if s.isCurrent(gen) {
				refresh()
			}
		case <-ctx.Done():
			return
		}
	}
}
