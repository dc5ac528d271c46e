package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const (
	MaxMessageLength = 2000
	botName          = "SkillSwap AI"
)

type ChatUseCase struct {
	repo    repository.Repository
	gate    *WriteGate
	limiter ActionLimiter
	now     func() time.Time
}

func NewChatUseCase(repo repository.Repository, gate *WriteGate, limiter ActionLimiter) *ChatUseCase {
	return &ChatUseCase{
		repo:    repo,
		gate:    gate,
		limiter: limiter,
		now:     time.Now,
	}
}

// chatSwap loads swapID and checks userID may see its transcript.
func (uc *ChatUseCase) chatSwap(ctx context.Context, userID, swapID string) (entity.SwapRequest, []entity.User, error) {
	swaps, err := uc.repo.GetSwaps(ctx)
	if err != nil {
		return entity.SwapRequest{}, nil, err
	}
	i := indexOfSwap(swaps, swapID)
	if i < 0 || !swaps[i].Involves(userID) {
		return entity.SwapRequest{}, nil, errors.NotFound("Swap request", nil)
	}
	swap := swaps[i]
	if swap.Status != entity.SwapAccepted && swap.Status != entity.SwapCompleted {
		return entity.SwapRequest{}, nil, errors.Forbidden("Chat opens once the swap is accepted", nil)
	}

	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return entity.SwapRequest{}, nil, err
	}
	return swap, users, nil
}

// Messages returns the transcript, seeding an empty one with the bot welcome.
func (uc *ChatUseCase) Messages(ctx context.Context, userID, swapID string) ([]entity.ChatMessage, error) {
	swap, users, err := uc.chatSwap(ctx, userID, swapID)
	if err != nil {
		return nil, err
	}

	var transcript []entity.ChatMessage
	err = uc.gate.Do(func() error {
		var loadErr error
		transcript, loadErr = uc.repo.GetChat(ctx, swapID)
		if loadErr != nil || len(transcript) > 0 {
			return loadErr
		}

		partner, _ := entity.FindUser(users, swap.OtherParty(userID))
		transcript = []entity.ChatMessage{uc.botMessage(welcomeText(displayName(partner)))}
		return uc.repo.SetChat(ctx, swapID, transcript)
	})
	if err != nil {
		return nil, err
	}
	return transcript, nil
}

// Post appends a message from userID. Only accepted swaps take new messages.
func (uc *ChatUseCase) Post(ctx context.Context, userID, swapID, content string) (*entity.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, errors.BadRequest(fmt.Sprintf("Message cannot exceed %d characters", MaxMessageLength), nil)
	}

	swap, users, err := uc.chatSwap(ctx, userID, swapID)
	if err != nil {
		return nil, err
	}
	if swap.Status != entity.SwapAccepted {
		return nil, errors.Forbidden("This swap is closed for new messages", nil)
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(userID, ratelimit.ActionSendMessage); !ok {
			logger.Debug("user %s rate limited on chat, retry in %v", userID, wait)
			return nil, errors.TooManyRequests(fmt.Sprintf("You are sending messages too quickly. Try again in %d seconds", int(wait.Seconds())+1))
		}
	}

	sender, _ := entity.FindUser(users, userID)
	message := entity.ChatMessage{
		ID:         uuid.New().String(),
		SenderID:   userID,
		SenderName: sender.Name,
		Content:    content,
		Timestamp:  uc.now().UTC(),
		Type:       entity.MessageTypeUser,
	}

	partner, _ := entity.FindUser(users, swap.OtherParty(userID))
	err = uc.gate.Do(func() error {
		transcript, err := uc.repo.GetChat(ctx, swapID)
		if err != nil {
			return err
		}
		transcript = append(transcript, message)
		if reply := botReply(content, displayName(partner)); reply != "" {
			transcript = append(transcript, uc.botMessage(reply))
		}
		return uc.repo.SetChat(ctx, swapID, transcript)
	})
	if err != nil {
		return nil, err
	}

	return &message, nil
}

func (uc *ChatUseCase) botMessage(content string) entity.ChatMessage {
	return entity.ChatMessage{
		ID:         uuid.New().String(),
		SenderID:   entity.BotSenderID,
		SenderName: botName,
		Content:    content,
		Timestamp:  uc.now().UTC(),
		Type:       entity.MessageTypeBot,
	}
}

func welcomeText(partnerName string) string {
	return fmt.Sprintf("🎉 Welcome to your skill swap chat! You're now connected with %s. Here are some conversation starters:\n\n"+
		"• Share your availability and preferred meeting times\n"+
		"• Discuss the specific skills you'll be exchanging\n"+
		"• Plan your first session\n"+
		"• Ask about their experience level\n\n"+
		"Happy learning! 🚀", partnerName)
}

// botReply answers a few keywords. Most messages get no reply.
func botReply(content, partnerName string) string {
	lower := strings.ToLower(content)
	hasWord := func(words ...string) bool {
		for _, field := range strings.FieldsFunc(lower, func(r rune) bool {
			return !(r >= 'a' && r <= 'z')
		}) {
			for _, w := range words {
				if field == w {
					return true
				}
			}
		}
		return false
	}

	switch {
	case hasWord("hello", "hi"):
		return fmt.Sprintf("Hello! I see you're chatting with %s. Feel free to introduce yourselves and discuss your skill exchange! 👋", partnerName)
	case hasWord("schedule", "time"):
		return "📅 Great! Scheduling is important. Consider sharing your availability and time zones. You can also use external calendar tools to coordinate better."
	case hasWord("help"):
		return "🤖 I'm here to help! You can:\n• Share contact information\n• Discuss skill levels and expectations\n• Plan your learning sessions\n• Exchange resources and materials\n\nNeed anything specific?"
	case hasWord("thanks") || strings.Contains(lower, "thank you"):
		return "🙏 You're welcome! Enjoy your skill exchange journey. Remember, the best learning happens through practice and patience!"
	}
	return ""
}
