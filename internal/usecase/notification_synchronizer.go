package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/metrics"
	"skillswap/pkg/logger"
)

const (
	DefaultPollInterval    = 2 * time.Second
	DefaultAcceptanceDelay = time.Second

	unknownUserName = "Someone"
)

type SynchronizerOptions struct {
	Interval        time.Duration
	AcceptanceDelay time.Duration
	Clock           func() time.Time
	Publisher       NotificationPublisher
	// Gate is the WriteGate shared with the writers of swaps and platform messages.
	Gate *WriteGate
	// OnSwapAccepted runs once, AcceptanceDelay after a swap acceptance is first observed.
	// When nil and Publisher is set, the swap is published as a landing event.
	OnSwapAccepted func(swap entity.SwapRequest)
}

func (o SynchronizerOptions) withDefaults() SynchronizerOptions {
	if o.Interval <= 0 {
		o.Interval = DefaultPollInterval
	}
	if o.AcceptanceDelay <= 0 {
		o.AcceptanceDelay = DefaultAcceptanceDelay
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

// Synchronizer keeps one user's notification feed in step with the shared store.
// Passes are serialised; a pass always runs to completion.
type Synchronizer struct {
	userID    string
	repo      repository.Repository
	opts      SynchronizerOptions
	mountedAt time.Time

	mu            sync.Mutex
	messageCounts map[string]int
}

func NewSynchronizer(userID string, repo repository.Repository, opts SynchronizerOptions) *Synchronizer {
	opts = opts.withDefaults()
	return &Synchronizer{
		userID:        userID,
		repo:          repo,
		opts:          opts,
		mountedAt:     opts.Clock().UTC(),
		messageCounts: make(map[string]int),
	}
}

func (s *Synchronizer) UserID() string {
	return s.userID
}

// Run reconciles immediately and then on every tick until ctx is cancelled.
func (s *Synchronizer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	s.runPass(ctx)
	for {
		select {
		case <-ticker.C:
			s.runPass(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Synchronizer) runPass(ctx context.Context) {
	if _, err := s.Reconcile(ctx); err != nil {
		metrics.ReconcileErrors.Inc()
		logger.WithFields(map[string]interface{}{"user_id": s.userID}).Errorf("notification reconcile failed: %v", err)
	}
}

// feed is the working copy of the persisted list during a pass.
type feed struct {
	list  []entity.Notification
	added []entity.Notification
}

func (f *feed) offer(n entity.Notification) bool {
	if entity.ContainsNotification(f.list, n.ID) {
		return false
	}
	f.list = append([]entity.Notification{n}, f.list...)
	f.added = append(f.added, n)
	return true
}

// Reconcile runs one observe-diff-emit pass and returns the notifications it added.
func (s *Synchronizer) Reconcile(ctx context.Context) ([]entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	started := time.Now()
	defer func() { metrics.ReconcileDuration.Observe(time.Since(started).Seconds()) }()

	lastChecked, err := s.repo.GetLastNotificationCheck(ctx, s.userID)
	if err != nil {
		return nil, err
	}
	if lastChecked.IsZero() {
		lastChecked = s.mountedAt
	}

	// passAt and the snapshot are taken under the gate: every event stamped before
	// passAt has landed in the store. Later events are left for the next pass.
	var (
		passAt   time.Time
		swaps    []entity.SwapRequest
		users    []entity.User
		platform []entity.PlatformMessage
	)
	err = s.opts.Gate.Do(func() error {
		passAt = s.opts.Clock().UTC()

		var err error
		if swaps, err = s.repo.GetSwaps(ctx); err != nil {
			return err
		}
		if users, err = s.repo.GetUsers(ctx); err != nil {
			return err
		}
		platform, err = s.repo.GetPlatformMessages(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetNotifications(ctx, s.userID)
	if err != nil {
		return nil, err
	}

	f := &feed{list: existing}
	var accepted []entity.SwapRequest

	for _, swap := range swaps {
		if swap.FromUserID != s.userID || swap.Status != entity.SwapAccepted || !swap.UpdatedAt.After(lastChecked) {
			continue
		}
		recipient, ok := entity.FindUser(users, swap.ToUserID)
		if !ok {
			continue
		}
		if f.offer(s.swapAccepted(swap, recipient, passAt)) {
			accepted = append(accepted, swap)
		}
	}

	for _, swap := range swaps {
		if swap.ToUserID != s.userID || swap.Status != entity.SwapPending || !swap.CreatedAt.After(lastChecked) {
			continue
		}
		proposer, ok := entity.FindUser(users, swap.FromUserID)
		if !ok {
			continue
		}
		f.offer(s.swapRequest(swap, proposer, passAt))
	}

	if err := s.observeMessages(ctx, swaps, users, f, passAt); err != nil {
		return nil, err
	}

	for _, msg := range platform {
		if !msg.Timestamp.After(lastChecked) || !msg.IsFor(s.userID) {
			continue
		}
		f.offer(platformNotification(msg, passAt))
	}

	for _, swap := range swaps {
		if !swap.Involves(s.userID) || swap.Status != entity.SwapCompleted || !swap.UpdatedAt.After(lastChecked) {
			continue
		}
		partner, _ := entity.FindUser(users, swap.OtherParty(s.userID))
		f.offer(s.swapCompleted(swap, partner, passAt))
	}

	if len(f.added) > 0 {
		if err := s.repo.SetNotifications(ctx, s.userID, f.list); err != nil {
			return nil, err
		}
	}
	if err := s.repo.SetLastNotificationCheck(ctx, s.userID, passAt); err != nil {
		return nil, err
	}

	s.announce(f.added, accepted)
	return f.added, nil
}

// observeMessages compares each accepted swap's transcript against the cached count.
func (s *Synchronizer) observeMessages(ctx context.Context, swaps []entity.SwapRequest, users []entity.User, f *feed, at time.Time) error {
	for _, swap := range swaps {
		if !swap.Involves(s.userID) || swap.Status != entity.SwapAccepted {
			continue
		}

		transcript, err := s.repo.GetChat(ctx, swap.ID)
		if err != nil {
			return err
		}

		// only the partner's messages count; bot replies and our own do not
		partnerID := swap.OtherParty(s.userID)
		previous := s.messageCounts[swap.ID]
		if len(transcript) > previous {
			var latest *entity.ChatMessage
			for i := range transcript[previous:] {
				msg := &transcript[previous+i]
				if msg.SenderID == partnerID {
					latest = msg
				}
			}
			if latest != nil {
				partner, _ := entity.FindUser(users, partnerID)
				f.offer(messageNotification(swap, *latest, displayName(partner), at))
			}
		}
		s.messageCounts[swap.ID] = len(transcript)
	}
	return nil
}

func (s *Synchronizer) announce(added []entity.Notification, accepted []entity.SwapRequest) {
	fields := map[string]interface{}{"user_id": s.userID}
	for _, n := range added {
		metrics.NotificationsEmitted.WithLabelValues(string(n.Type)).Inc()
		if s.opts.Publisher == nil {
			continue
		}
		if err := s.opts.Publisher.PublishNotification(s.userID, n); err != nil {
			logger.WithFields(fields).Warnf("publishing notification %s: %v", n.ID, err)
		}
	}

	for _, swap := range accepted {
		swap := swap
		time.AfterFunc(s.opts.AcceptanceDelay, func() { s.swapAcceptedLanded(swap) })
	}
}

func (s *Synchronizer) swapAcceptedLanded(swap entity.SwapRequest) {
	if s.opts.OnSwapAccepted != nil {
		s.opts.OnSwapAccepted(swap)
		return
	}
	if s.opts.Publisher == nil {
		return
	}
	if err := s.opts.Publisher.PublishSwapAccepted(s.userID, swap); err != nil {
		logger.WithFields(map[string]interface{}{"user_id": s.userID, "swap_id": swap.ID}).
			Warnf("publishing swap acceptance: %v", err)
	}
}

func (s *Synchronizer) swapAccepted(swap entity.SwapRequest, recipient entity.User, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        entity.SwapAcceptedKey(swap.ID),
		Type:      entity.NotificationSwapAccepted,
		Title:     "🎉 Skill Swap Accepted!",
		Message:   fmt.Sprintf("%s accepted your skill swap request for %s", recipient.Name, swap.ToSkill),
		Timestamp: at,
		Data:      swap,
	}
}

func (s *Synchronizer) swapRequest(swap entity.SwapRequest, proposer entity.User, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        entity.SwapRequestKey(swap.ID),
		Type:      entity.NotificationSwapRequest,
		Title:     "📩 New Skill Swap Request",
		Message:   fmt.Sprintf("%s wants to learn %s from you", proposer.Name, swap.ToSkill),
		Timestamp: at,
		Data:      swap,
	}
}

func (s *Synchronizer) swapCompleted(swap entity.SwapRequest, partner entity.User, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        entity.SwapCompletedKey(swap.ID),
		Type:      entity.NotificationSwapCompleted,
		Title:     "✅ Skill Swap Completed",
		Message:   fmt.Sprintf("Your swap with %s is complete. Leave feedback to help the community!", displayName(partner)),
		Timestamp: at,
		Data:      swap,
	}
}

func messageNotification(swap entity.SwapRequest, msg entity.ChatMessage, senderName string, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        entity.MessageKey(swap.ID, msg.ID),
		Type:      entity.NotificationMessage,
		Title:     "💬 New message from " + senderName,
		Message:   entity.Preview(msg.Content),
		Timestamp: at,
		Data:      entity.MessageNotificationData{Swap: swap, Message: msg},
	}
}

func platformNotification(msg entity.PlatformMessage, at time.Time) entity.Notification {
	return entity.Notification{
		ID:        entity.PlatformKey(msg.ID),
		Type:      entity.NotificationPlatformMessage,
		Title:     "📢 Platform Announcement",
		Message:   msg.Content,
		Timestamp: at,
		Data:      msg,
	}
}

func displayName(u entity.User) string {
	if u.Name == "" {
		return unknownUserName
	}
	return u.Name
}

// MarkRead flips the read flag of one notification and returns the unread count.
// Unknown ids are ignored.
func (s *Synchronizer) MarkRead(ctx context.Context, notificationID string) (int, error) {
	return s.mutate(ctx, func(list []entity.Notification) []entity.Notification {
		for i := range list {
			if list[i].ID == notificationID {
				list[i].Read = true
			}
		}
		return list
	})
}

func (s *Synchronizer) MarkAllRead(ctx context.Context) (int, error) {
	return s.mutate(ctx, func(list []entity.Notification) []entity.Notification {
		for i := range list {
			list[i].Read = true
		}
		return list
	})
}

func (s *Synchronizer) Remove(ctx context.Context, notificationID string) (int, error) {
	return s.mutate(ctx, func(list []entity.Notification) []entity.Notification {
		kept := list[:0]
		for _, n := range list {
			if n.ID != notificationID {
				kept = append(kept, n)
			}
		}
		return kept
	})
}

func (s *Synchronizer) mutate(ctx context.Context, apply func([]entity.Notification) []entity.Notification) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.repo.GetNotifications(ctx, s.userID)
	if err != nil {
		return 0, err
	}
	list = apply(list)
	if err := s.repo.SetNotifications(ctx, s.userID, list); err != nil {
		return 0, err
	}
	return entity.UnreadCount(list), nil
}

// Notifications returns the persisted feed, newest observation first.
func (s *Synchronizer) Notifications(ctx context.Context) ([]entity.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.GetNotifications(ctx, s.userID)
}

func (s *Synchronizer) UnreadCount(ctx context.Context) (int, error) {
	list, err := s.Notifications(ctx)
	if err != nil {
		return 0, err
	}
	return entity.UnreadCount(list), nil
}
