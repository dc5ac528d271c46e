package usecase

import (
	"context"
	"io"
	"time"

	"skillswap/internal/domain/entity"
)

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Sign(userID, email, role string) (string, error)
}

// NotificationPublisher is told about notifications as they are synthesized.
type NotificationPublisher interface {
	PublishNotification(userID string, notification entity.Notification) error
	PublishSwapAccepted(userID string, swap entity.SwapRequest) error
}

// ReportUploader stores an exported report and returns where it can be fetched.
type ReportUploader interface {
	UploadReport(ctx context.Context, kind string, body io.Reader) (string, error)
}

// ActionLimiter is a per-key token bucket.
type ActionLimiter interface {
	Allow(key, action string) (bool, time.Duration)
}
