package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/metrics"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const (
	DirectionAll      = "all"
	DirectionSent     = "sent"
	DirectionReceived = "received"
)

type SwapUseCase struct {
	repo repository.Repository
	gate *WriteGate
	now  func() time.Time
}

func NewSwapUseCase(repo repository.Repository, gate *WriteGate) *SwapUseCase {
	return &SwapUseCase{
		repo: repo,
		gate: gate,
		now:  time.Now,
	}
}

type CreateSwapInput struct {
	ToUserID  string
	FromSkill string
	ToSkill   string
	Message   string
}

type SwapFilter struct {
	Direction string
	Status    entity.SwapStatus
}

// Create opens a pending request from proposerID. The offered skill must be one the proposer
// offers and the requested skill one the recipient offers.
func (uc *SwapUseCase) Create(ctx context.Context, proposerID string, input CreateSwapInput) (*entity.SwapRequest, error) {
	input.FromSkill = strings.TrimSpace(input.FromSkill)
	input.ToSkill = strings.TrimSpace(input.ToSkill)

	if input.ToUserID == proposerID {
		return nil, errors.BadRequest("Cannot request a swap with yourself", nil)
	}
	if input.FromSkill == "" || input.ToSkill == "" {
		return nil, errors.BadRequest("Both skills are required", nil)
	}

	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	proposer, ok := entity.FindUser(users, proposerID)
	if !ok || proposer.IsBanned {
		return nil, errors.Forbidden("Account cannot create swap requests", nil)
	}
	recipient, ok := entity.FindUser(users, input.ToUserID)
	if !ok || recipient.IsBanned {
		return nil, errors.NotFound("User", nil)
	}
	if !proposer.OffersSkill(input.FromSkill) {
		return nil, errors.BadRequest("You can only offer skills listed on your profile", nil)
	}
	if !recipient.OffersSkill(input.ToSkill) {
		return nil, errors.BadRequest(recipient.Name+" does not offer "+input.ToSkill, nil)
	}

	swap := entity.SwapRequest{
		ID:         uuid.New().String(),
		FromUserID: proposerID,
		ToUserID:   recipient.ID,
		FromSkill:  input.FromSkill,
		ToSkill:    input.ToSkill,
		Message:    strings.TrimSpace(input.Message),
		Status:     entity.SwapPending,
	}

	err = uc.gate.Do(func() error {
		swaps, err := uc.repo.GetSwaps(ctx)
		if err != nil {
			return err
		}
		// stamped under the gate, like Transition
		swap.CreatedAt = uc.now().UTC()
		swap.UpdatedAt = swap.CreatedAt
		return uc.repo.SetSwaps(ctx, append(swaps, swap))
	})
	if err != nil {
		return nil, err
	}

	metrics.SwapTransitions.WithLabelValues(string(entity.SwapPending)).Inc()
	logger.Info("Swap %s created by %s for %s", swap.ID, proposerID, recipient.ID)
	return &swap, nil
}

func (uc *SwapUseCase) Accept(ctx context.Context, actorID, swapID string) (*entity.SwapRequest, error) {
	return uc.Transition(ctx, actorID, swapID, entity.SwapAccepted)
}

func (uc *SwapUseCase) Reject(ctx context.Context, actorID, swapID string) (*entity.SwapRequest, error) {
	return uc.Transition(ctx, actorID, swapID, entity.SwapRejected)
}

func (uc *SwapUseCase) Cancel(ctx context.Context, actorID, swapID string) (*entity.SwapRequest, error) {
	return uc.Transition(ctx, actorID, swapID, entity.SwapCancelled)
}

func (uc *SwapUseCase) Complete(ctx context.Context, actorID, swapID string) (*entity.SwapRequest, error) {
	return uc.Transition(ctx, actorID, swapID, entity.SwapCompleted)
}

// Transition moves a swap along the lifecycle on behalf of actorID.
func (uc *SwapUseCase) Transition(ctx context.Context, actorID, swapID string, to entity.SwapStatus) (*entity.SwapRequest, error) {
	var updated entity.SwapRequest
	err := uc.gate.Do(func() error {
		swaps, err := uc.repo.GetSwaps(ctx)
		if err != nil {
			return err
		}

		i := indexOfSwap(swaps, swapID)
		if i < 0 || !swaps[i].Involves(actorID) {
			return errors.NotFound("Swap request", nil)
		}

		swap := &swaps[i]
		if !entity.CanTransition(swap.Status, to) {
			return errors.InvalidTransition(string(swap.Status), string(to))
		}
		if !entity.ActorMayTransition(swap.Status, to, swap.ActorFor(actorID)) {
			return errors.Forbidden("Only the other party can do that", nil)
		}

		swap.Status = to
		swap.UpdatedAt = uc.now().UTC()
		updated = *swap
		return uc.repo.SetSwaps(ctx, swaps)
	})
	if err != nil {
		if errors.Is(err, errors.CodeInvalidTransition) {
			logger.LogSwapError(swapID, string(to), err)
		}
		return nil, err
	}

	metrics.SwapTransitions.WithLabelValues(string(to)).Inc()
	logger.Info("Swap %s moved to %s by %s", swapID, to, actorID)
	return &updated, nil
}

// Delete removes a rejected or cancelled swap. Either party may delete it.
func (uc *SwapUseCase) Delete(ctx context.Context, actorID, swapID string) error {
	return uc.gate.Do(func() error {
		swaps, err := uc.repo.GetSwaps(ctx)
		if err != nil {
			return err
		}

		i := indexOfSwap(swaps, swapID)
		if i < 0 || !swaps[i].Involves(actorID) {
			return errors.NotFound("Swap request", nil)
		}
		if !swaps[i].CanDelete() {
			return errors.InvalidTransition(string(swaps[i].Status), "deleted")
		}

		return uc.repo.SetSwaps(ctx, append(swaps[:i], swaps[i+1:]...))
	})
}

func (uc *SwapUseCase) Get(ctx context.Context, userID, swapID string) (*entity.SwapRequest, error) {
	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOfSwap(swaps, swapID)
	if i < 0 || !swaps[i].Involves(userID) {
		return nil, errors.NotFound("Swap request", nil)
	}
	return &swaps[i], nil
}

// List returns the user's swaps, newest first.
func (uc *SwapUseCase) List(ctx context.Context, userID string, filter SwapFilter) ([]entity.SwapRequest, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, errors.BadRequest("Unknown status "+string(filter.Status), nil)
	}

	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]entity.SwapRequest, 0)
	for _, s := range swaps {
		switch filter.Direction {
		case DirectionSent:
			if s.FromUserID != userID {
				continue
			}
		case DirectionReceived:
			if s.ToUserID != userID {
				continue
			}
		default:
			if !s.Involves(userID) {
				continue
			}
		}
		if filter.Status != "" && s.Status != filter.Status {
			continue
		}
		result = append(result, s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func indexOfSwap(swaps []entity.SwapRequest, id string) int {
	for i := range swaps {
		if swaps[i].ID == id {
			return i
		}
	}
	return -1
}
