package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

type FeedbackUseCase struct {
	repo repository.Repository
	gate *WriteGate
	now  func() time.Time
}

func NewFeedbackUseCase(repo repository.Repository, gate *WriteGate) *FeedbackUseCase {
	return &FeedbackUseCase{
		repo: repo,
		gate: gate,
		now:  time.Now,
	}
}

type CreateFeedbackInput struct {
	Rating  int
	Comment string
}

// Create records authorID's feedback on the other participant of a completed swap
// and recomputes that participant's rating from every feedback they have received.
func (uc *FeedbackUseCase) Create(ctx context.Context, authorID, swapID string, input CreateFeedbackInput) (*entity.Feedback, error) {
	if input.Rating < entity.MinRating || input.Rating > entity.MaxRating {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfSwap(swaps, swapID)
	if i < 0 || !swaps[i].Involves(authorID) {
		return nil, errors.NotFound("Swap request", nil)
	}
	swap := swaps[i]
	if swap.Status != entity.SwapCompleted {
		return nil, errors.BadRequest("Feedback is only possible once the swap is completed", nil)
	}

	feedback := entity.Feedback{
		ID:         uuid.New().String(),
		SwapID:     swap.ID,
		FromUserID: authorID,
		ToUserID:   swap.OtherParty(authorID),
		Rating:     input.Rating,
		Comment:    strings.TrimSpace(input.Comment),
		CreatedAt:  uc.now().UTC(),
	}

	err = uc.gate.Do(func() error {
		feedbacks, err := uc.repo.GetFeedbacks(ctx)
		if err != nil {
			return err
		}
		for _, f := range feedbacks {
			if f.SwapID == swap.ID && f.FromUserID == authorID {
				return errors.Conflict("Feedback for this swap was already submitted")
			}
		}

		feedbacks = append(feedbacks, feedback)
		if err := uc.repo.SetFeedbacks(ctx, feedbacks); err != nil {
			return err
		}
		return uc.recompute(ctx, feedback.ToUserID, feedbacks)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Feedback %s left by %s on swap %s", feedback.ID, authorID, swap.ID)
	return &feedback, nil
}

func (uc *FeedbackUseCase) recompute(ctx context.Context, userID string, feedbacks []entity.Feedback) error {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return err
	}

	for i := range users {
		if users[i].ID == userID {
			users[i].Rating, users[i].TotalSwaps = entity.AggregateRating(feedbacks, userID)
			return uc.repo.SetUsers(ctx, users)
		}
	}

	logger.Warn("feedback target %s no longer exists, rating not updated", userID)
	return nil
}

// ForUser lists the feedback a user has received, newest first.
func (uc *FeedbackUseCase) ForUser(ctx context.Context, userID string) ([]entity.Feedback, error) {
	feedbacks, err := uc.repo.GetFeedbacks(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]entity.Feedback, 0)
	for _, f := range feedbacks {
		if f.ToUserID == userID {
			result = append(result, f)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
