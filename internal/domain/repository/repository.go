package repository

import (
	"context"
	"time"

	"skillswap/internal/domain/entity"
)

// Repository gives typed access to the collections held in a RecordStore.
// Absent or unreadable collections come back empty.
type Repository interface {
	GetUsers(ctx context.Context) ([]entity.User, error)
	SetUsers(ctx context.Context, users []entity.User) error

	GetSwaps(ctx context.Context) ([]entity.SwapRequest, error)
	SetSwaps(ctx context.Context, swaps []entity.SwapRequest) error

	GetFeedbacks(ctx context.Context) ([]entity.Feedback, error)
	SetFeedbacks(ctx context.Context, feedbacks []entity.Feedback) error

	GetChat(ctx context.Context, swapID string) ([]entity.ChatMessage, error)
	SetChat(ctx context.Context, swapID string, messages []entity.ChatMessage) error

	GetPlatformMessages(ctx context.Context) ([]entity.PlatformMessage, error)
	SetPlatformMessages(ctx context.Context, messages []entity.PlatformMessage) error

	GetNotifications(ctx context.Context, userID string) ([]entity.Notification, error)
	SetNotifications(ctx context.Context, userID string, notifications []entity.Notification) error

	// GetLastNotificationCheck returns the zero time when the user was never checked.
	GetLastNotificationCheck(ctx context.Context, userID string) (time.Time, error)
	SetLastNotificationCheck(ctx context.Context, userID string, at time.Time) error

	GetCurrentUser(ctx context.Context) (*entity.User, error)
	SetCurrentUser(ctx context.Context, user entity.User) error
	ClearCurrentUser(ctx context.Context) error
}
