package entity

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Feedback is left by one participant of a completed swap about the other.
type Feedback struct {
	ID         string    `json:"id"`
	SwapID     string    `json:"swapId"`
	FromUserID string    `json:"fromUserId"`
	ToUserID   string    `json:"toUserId"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AggregateRating recomputes a user's rating and swap count from every feedback addressed to them.
// The mean is rounded to one decimal. With no feedback the default rating is kept.
func AggregateRating(feedbacks []Feedback, userID string) (float64, int) {
	sum, count := 0, 0
	for _, f := range feedbacks {
		if f.ToUserID != userID {
			continue
		}
		sum += f.Rating
		count++
	}
	if count == 0 {
		return DefaultRating, 0
	}
	mean := float64(sum) / float64(count)
	return math.Round(mean*10) / 10, count
}
