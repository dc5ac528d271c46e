package repository

import "context"

// Keys of the shared record store. Every value is a JSON document.
const (
	KeyUsers            = "users"
	KeySwapRequests     = "swapRequests"
	KeyFeedbacks        = "feedbacks"
	KeyCurrentUser      = "currentUser"
	KeyPlatformMessages = "platformMessages"

	notificationsPrefix = "notifications_"
	chatPrefix          = "chat_"
	lastCheckPrefix     = "lastNotificationCheck_"
)

func NotificationsKey(userID string) string {
	return notificationsPrefix + userID
}

func ChatKey(swapID string) string {
	return chatPrefix + swapID
}

func LastNotificationCheckKey(userID string) string {
	return lastCheckPrefix + userID
}

// RecordStore is a flat string key/value store. A missing key is reported through found, not err.
// There are no transactions: concurrent read-modify-write cycles on one key resolve last write wins.
type RecordStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
