package usecase

import (
	"context"
	"sync"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/metrics"
	"skillswap/pkg/logger"
)

type NotificationFeed struct {
	Notifications []entity.Notification `json:"notifications"`
	UnreadCount   int                   `json:"unreadCount"`
}

// NotificationUseCase owns one Synchronizer per user. A user's poll loop runs while
// at least one live session is attached.
type NotificationUseCase struct {
	repo repository.Repository
	opts SynchronizerOptions

	mu       sync.Mutex
	base     context.Context
	syncs    map[string]*Synchronizer
	sessions map[string]int
	cancels  map[string]context.CancelFunc
	wg       sync.WaitGroup
}

func NewNotificationUseCase(ctx context.Context, repo repository.Repository, opts SynchronizerOptions) *NotificationUseCase {
	return &NotificationUseCase{
		repo:     repo,
		opts:     opts,
		base:     ctx,
		syncs:    make(map[string]*Synchronizer),
		sessions: make(map[string]int),
		cancels:  make(map[string]context.CancelFunc),
	}
}

// synchronizer returns the user's synchronizer, creating it on first use.
func (uc *NotificationUseCase) synchronizer(userID string) *Synchronizer {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.synchronizerLocked(userID)
}

func (uc *NotificationUseCase) synchronizerLocked(userID string) *Synchronizer {
	s, ok := uc.syncs[userID]
	if !ok {
		s = NewSynchronizer(userID, uc.repo, uc.opts)
		uc.syncs[userID] = s
	}
	return s
}

// Attach registers a live session for userID and starts the poll loop on the first one.
func (uc *NotificationUseCase) Attach(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.sessions[userID]++
	if uc.sessions[userID] > 1 {
		return
	}

	s := uc.synchronizerLocked(userID)
	ctx, cancel := context.WithCancel(uc.base)
	uc.cancels[userID] = cancel

	uc.wg.Add(1)
	metrics.ActiveSynchronizers.Inc()
	go func() {
		defer uc.wg.Done()
		defer metrics.ActiveSynchronizers.Dec()
		s.Run(ctx)
	}()
	logger.Debug("notification loop started for user %s", userID)
}

// Detach drops one session and stops the loop once none remain.
func (uc *NotificationUseCase) Detach(userID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.sessions[userID] == 0 {
		return
	}
	uc.sessions[userID]--
	if uc.sessions[userID] > 0 {
		return
	}

	delete(uc.sessions, userID)
	if cancel, ok := uc.cancels[userID]; ok {
		cancel()
		delete(uc.cancels, userID)
	}
	logger.Debug("notification loop stopped for user %s", userID)
}

func (uc *NotificationUseCase) Running(userID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	_, ok := uc.cancels[userID]
	return ok
}

// Shutdown stops every loop and waits for them to return.
func (uc *NotificationUseCase) Shutdown() {
	uc.mu.Lock()
	for userID, cancel := range uc.cancels {
		cancel()
		delete(uc.cancels, userID)
		delete(uc.sessions, userID)
	}
	uc.mu.Unlock()

	uc.wg.Wait()
}

// List runs one reconcile pass and returns the user's feed.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) (*NotificationFeed, error) {
	s := uc.synchronizer(userID)
	if _, err := s.Reconcile(ctx); err != nil {
		return nil, err
	}

	list, err := s.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	return &NotificationFeed{
		Notifications: list,
		UnreadCount:   entity.UnreadCount(list),
	}, nil
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) (int, error) {
	return uc.synchronizer(userID).MarkRead(ctx, notificationID)
}

func (uc *NotificationUseCase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.synchronizer(userID).MarkAllRead(ctx)
}

func (uc *NotificationUseCase) Remove(ctx context.Context, userID, notificationID string) (int, error) {
	return uc.synchronizer(userID).Remove(ctx, notificationID)
}

func (uc *NotificationUseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.synchronizer(userID).UnreadCount(ctx)
}
