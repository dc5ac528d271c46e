package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const invalidCredentials = "Invalid email or password"

type AuthUseCase struct {
	repo     repository.Repository
	tokens   TokenIssuer
	gate     *WriteGate
	hashCost int
	now      func() time.Time
}

func NewAuthUseCase(repo repository.Repository, tokens TokenIssuer, gate *WriteGate) *AuthUseCase {
	return &AuthUseCase{
		repo:     repo,
		tokens:   tokens,
		gate:     gate,
		hashCost: bcrypt.DefaultCost,
		now:      time.Now,
	}
}

// WithHashCost overrides the bcrypt cost for new passwords.
func (uc *AuthUseCase) WithHashCost(cost int) *AuthUseCase {
	uc.hashCost = cost
	return uc
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Location string
}

type AuthResult struct {
	User  entity.User `json:"user"`
	Token string      `json:"token"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUseCase) Signup(ctx context.Context, input SignupInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), uc.hashCost)
	if err == bcrypt.ErrPasswordTooLong {
		return nil, errors.BadRequest("Password cannot exceed 72 bytes", nil)
	}
	if err != nil {
		return nil, errors.Internal("Failed to secure password", err)
	}

	var user entity.User
	err = uc.gate.Do(func() error {
		users, err := uc.repo.GetUsers(ctx)
		if err != nil {
			return err
		}
		for _, u := range users {
			if normalizeEmail(u.Email) == email {
				return errors.Conflict("Unable to create an account with these details")
			}
		}

		user = entity.User{
			ID:            uuid.New().String(),
			Name:          strings.TrimSpace(input.Name),
			Email:         email,
			Password:      string(hash),
			Location:      strings.TrimSpace(input.Location),
			SkillsOffered: []string{},
			SkillsWanted:  []string{},
			Availability:  []string{},
			IsPublic:      true,
			Rating:        entity.DefaultRating,
			Role:          entity.RoleUser,
			CreatedAt:     uc.now().UTC(),
		}
		return uc.repo.SetUsers(ctx, append(users, user))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("New user signed up: %s", user.ID)
	return uc.issue(ctx, user)
}

// Login answers every failure (unknown email, wrong password, banned) with the same error.
func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	email = normalizeEmail(email)
	for _, u := range users {
		if normalizeEmail(u.Email) != email {
			continue
		}
		if u.IsBanned {
			logger.Debug("login refused for banned user %s", u.ID)
			break
		}
		if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
			break
		}
		return uc.issue(ctx, u)
	}

	return nil, errors.Unauthorized(invalidCredentials, nil)
}

func (uc *AuthUseCase) issue(ctx context.Context, user entity.User) (*AuthResult, error) {
	token, err := uc.tokens.Sign(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}

	if err := uc.repo.SetCurrentUser(ctx, user); err != nil {
		logger.Warn("failed to record current user %s: %v", user.ID, err)
	}

	return &AuthResult{
		User:  user.Public(),
		Token: token,
	}, nil
}

// Logout clears the current-user record when it names userID. Tokens are stateless.
func (uc *AuthUseCase) Logout(ctx context.Context, userID string) error {
	current, err := uc.repo.GetCurrentUser(ctx)
	if err != nil {
		return err
	}
	if current == nil || current.ID != userID {
		return nil
	}
	return uc.repo.ClearCurrentUser(ctx)
}

// Me resolves a token subject to an active account.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := entity.FindUser(users, userID)
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	if user.IsBanned {
		return nil, errors.Forbidden("Account is suspended", nil)
	}

	public := user.Public()
	return &public, nil
}
