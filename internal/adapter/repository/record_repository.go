package repository

import (
	"context"
	"encoding/json"
	"time"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type recordRepository struct {
	store repository.RecordStore
}

func NewRecordRepository(store repository.RecordStore) repository.Repository {
	return &recordRepository{
		store: store,
	}
}

// loadList decodes the collection under key. Missing and malformed values both read as empty.
func loadList[T any](ctx context.Context, store repository.RecordStore, key string) ([]T, error) {
	raw, found, err := store.Get(ctx, key)
	if err != nil {
		return nil, errors.Internal("Failed to read "+key, err)
	}
	if !found || raw == "" {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		logger.Warn("malformed record under %q, treating as empty: %v", key, err)
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func save(ctx context.Context, store repository.RecordStore, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Internal("Failed to encode "+key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return errors.Internal("Failed to write "+key, err)
	}
	return nil
}

func (r *recordRepository) GetUsers(ctx context.Context) ([]entity.User, error) {
	return loadList[entity.User](ctx, r.store, repository.KeyUsers)
}

func (r *recordRepository) SetUsers(ctx context.Context, users []entity.User) error {
	return save(ctx, r.store, repository.KeyUsers, users)
}

func (r *recordRepository) GetSwaps(ctx context.Context) ([]entity.SwapRequest, error) {
	return loadList[entity.SwapRequest](ctx, r.store, repository.KeySwapRequests)
}

func (r *recordRepository) SetSwaps(ctx context.Context, swaps []entity.SwapRequest) error {
	return save(ctx, r.store, repository.KeySwapRequests, swaps)
}

func (r *recordRepository) GetFeedbacks(ctx context.Context) ([]entity.Feedback, error) {
	return loadList[entity.Feedback](ctx, r.store, repository.KeyFeedbacks)
}

func (r *recordRepository) SetFeedbacks(ctx context.Context, feedbacks []entity.Feedback) error {
	return save(ctx, r.store, repository.KeyFeedbacks, feedbacks)
}

func (r *recordRepository) GetChat(ctx context.Context, swapID string) ([]entity.ChatMessage, error) {
	return loadList[entity.ChatMessage](ctx, r.store, repository.ChatKey(swapID))
}

func (r *recordRepository) SetChat(ctx context.Context, swapID string, messages []entity.ChatMessage) error {
	return save(ctx, r.store, repository.ChatKey(swapID), messages)
}

func (r *recordRepository) GetPlatformMessages(ctx context.Context) ([]entity.PlatformMessage, error) {
	return loadList[entity.PlatformMessage](ctx, r.store, repository.KeyPlatformMessages)
}

func (r *recordRepository) SetPlatformMessages(ctx context.Context, messages []entity.PlatformMessage) error {
	return save(ctx, r.store, repository.KeyPlatformMessages, messages)
}

func (r *recordRepository) GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error) {
	return loadList[entity.Notification](ctx, r.store, repository.NotificationsKey(userID))
}

func (r *recordRepository) SetNotifications(ctx context.Context, userID string, notifications []entity.Notification) error {
	return save(ctx, r.store, repository.NotificationsKey(userID), notifications)
}

func (r *recordRepository) GetLastNotificationCheck(ctx context.Context, userID string) (time.Time, error) {
	key := repository.LastNotificationCheckKey(userID)
	raw, found, err := r.store.Get(ctx, key)
	if err != nil {
		return time.Time{}, errors.Internal("Failed to read "+key, err)
	}
	if !found || raw == "" {
		return time.Time{}, nil
	}

	var at time.Time
	if err := json.Unmarshal([]byte(raw), &at); err != nil {
		logger.Warn("malformed last check under %q, ignoring: %v", key, err)
		return time.Time{}, nil
	}
	return at, nil
}

func (r *recordRepository) SetLastNotificationCheck(ctx context.Context, userID string, at time.Time) error {
	return save(ctx, r.store, repository.LastNotificationCheckKey(userID), at.UTC())
}

func (r *recordRepository) GetCurrentUser(ctx context.Context) (*entity.User, error) {
	raw, found, err := r.store.Get(ctx, repository.KeyCurrentUser)
	if err != nil {
		return nil, errors.Internal("Failed to read current user", err)
	}
	if !found || raw == "" {
		return nil, nil
	}

	var user entity.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		logger.Warn("malformed current user record, ignoring: %v", err)
		return nil, nil
	}
	return &user, nil
}

func (r *recordRepository) SetCurrentUser(ctx context.Context, user entity.User) error {
	return save(ctx, r.store, repository.KeyCurrentUser, user.Public())
}

func (r *recordRepository) ClearCurrentUser(ctx context.Context) error {
	if err := r.store.Delete(ctx, repository.KeyCurrentUser); err != nil {
		return errors.Internal("Failed to clear current user", err)
	}
	return nil
}
