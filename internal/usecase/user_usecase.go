package usecase

import (
	"context"
	"strings"

	"github.com/jinzhu/copier"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

// Label lists a user can edit one entry at a time.
const (
	ListOffered      = "offered"
	ListWanted       = "wanted"
	ListAvailability = "availability"
)

type UserUseCase struct {
	repo repository.Repository
	gate *WriteGate
}

func NewUserUseCase(repo repository.Repository, gate *WriteGate) *UserUseCase {
	return &UserUseCase{
		repo: repo,
		gate: gate,
	}
}

// UpdateProfileInput is a partial patch. Empty strings and nil lists leave the field alone;
// an empty non-nil list clears it.
type UpdateProfileInput struct {
	Name          string
	Location      string
	Bio           string
	ProfilePhoto  string
	SkillsOffered []string
	SkillsWanted  []string
	Availability  []string
	IsPublic      *bool `copier:"-"`
}

type BrowseFilter struct {
	Query    string
	Location string
	Skill    string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, viewerID, userID string) (*entity.User, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	user, ok := entity.FindUser(users, userID)
	if !ok {
		return nil, errors.NotFound("User", nil)
	}

	if viewerID != userID {
		viewer, _ := entity.FindUser(users, viewerID)
		if !viewer.IsAdmin() && (!user.IsPublic || user.IsBanned) {
			return nil, errors.NotFound("User", nil)
		}
	}

	public := user.Public()
	return &public, nil
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*entity.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.SkillsOffered = cleanLabels(input.SkillsOffered)
	input.SkillsWanted = cleanLabels(input.SkillsWanted)
	input.Availability = cleanLabels(input.Availability)

	return uc.modify(ctx, userID, func(user *entity.User) error {
		if err := copier.CopyWithOption(user, &input, copier.Option{IgnoreEmpty: true}); err != nil {
			return errors.Internal("Failed to apply profile update", err)
		}
		if input.IsPublic != nil {
			user.IsPublic = *input.IsPublic
		}
		return nil
	})
}

// AddLabel appends one entry to a label list. Blank and duplicate labels are ignored.
func (uc *UserUseCase) AddLabel(ctx context.Context, userID, list, label string) (*entity.User, error) {
	label = strings.TrimSpace(label)
	return uc.modify(ctx, userID, func(user *entity.User) error {
		target, err := labelList(user, list)
		if err != nil {
			return err
		}
		if label == "" || containsFold(*target, label) {
			return nil
		}
		*target = append(*target, label)
		return nil
	})
}

func (uc *UserUseCase) RemoveLabel(ctx context.Context, userID, list, label string) (*entity.User, error) {
	return uc.modify(ctx, userID, func(user *entity.User) error {
		target, err := labelList(user, list)
		if err != nil {
			return err
		}
		*target = removeFold(*target, label)
		return nil
	})
}

// Browse lists public, active users other than the viewer, filtered case-insensitively.
func (uc *UserUseCase) Browse(ctx context.Context, viewerID string, filter BrowseFilter) ([]entity.User, error) {
	users, err := uc.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	location := strings.ToLower(strings.TrimSpace(filter.Location))
	skill := strings.ToLower(strings.TrimSpace(filter.Skill))

	result := make([]entity.User, 0, len(users))
	for _, u := range users {
		if u.ID == viewerID || !u.IsPublic || u.IsBanned {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Name), query) && !anyContains(u.SkillsOffered, query) {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(u.Location), location) {
			continue
		}
		if skill != "" && !anyContains(u.SkillsOffered, skill) {
			continue
		}
		result = append(result, u.Public())
	}
	return result, nil
}

func (uc *UserUseCase) modify(ctx context.Context, userID string, apply func(*entity.User) error) (*entity.User, error) {
	var updated entity.User
	err := uc.gate.Do(func() error {
		users, err := uc.repo.GetUsers(ctx)
		if err != nil {
			return err
		}

		for i := range users {
			if users[i].ID != userID {
				continue
			}
			if err := apply(&users[i]); err != nil {
				return err
			}
			updated = users[i]
			return uc.repo.SetUsers(ctx, users)
		}
		return errors.NotFound("User", nil)
	})
	if err != nil {
		return nil, err
	}

	public := updated.Public()
	return &public, nil
}

func labelList(user *entity.User, list string) (*[]string, error) {
	switch list {
	case ListOffered:
		return &user.SkillsOffered, nil
	case ListWanted:
		return &user.SkillsWanted, nil
	case ListAvailability:
		return &user.Availability, nil
	default:
		return nil, errors.BadRequest("Unknown list "+list, nil)
	}
}

// cleanLabels trims entries and drops blanks and case-insensitive duplicates. nil stays nil.
func cleanLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || containsFold(cleaned, l) {
			continue
		}
		cleaned = append(cleaned, l)
	}
	return cleaned
}

func containsFold(list []string, label string) bool {
	for _, l := range list {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

func removeFold(list []string, label string) []string {
	kept := make([]string, 0, len(list))
	for _, l := range list {
		if !strings.EqualFold(l, label) {
			kept = append(kept, l)
		}
	}
	return kept
}

func anyContains(list []string, needle string) bool {
	for _, l := range list {
		if strings.Contains(strings.ToLower(l), needle) {
			return true
		}
	}
	return false
}
