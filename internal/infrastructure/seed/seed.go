package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/logger"
)

//go:embed demo_users.yaml
var demoUsers []byte

type file struct {
	Users []entity.User `yaml:"users"`
}

// Parse reads a seed document. Passwords in it are plain text.
func Parse(data []byte) ([]entity.User, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed data: %w", err)
	}
	return f.Users, nil
}

// Seeder fills an empty user collection with demo accounts.
type Seeder struct {
	repo repository.Repository
	cost int
	now  func() time.Time
}

func NewSeeder(repo repository.Repository) *Seeder {
	return &Seeder{
		repo: repo,
		cost: bcrypt.DefaultCost,
		now:  time.Now,
	}
}

// WithCost sets the bcrypt cost used for seeded passwords.
func (s *Seeder) WithCost(cost int) *Seeder {
	s.cost = cost
	return s
}

// Run seeds from path, or from the built-in demo users when path is empty.
// It does nothing when users already exist.
func (s *Seeder) Run(ctx context.Context, path string) (int, error) {
	existing, err := s.repo.GetUsers(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	data := demoUsers
	if path != "" {
		if data, err = os.ReadFile(path); err != nil {
			return 0, fmt.Errorf("reading seed file: %w", err)
		}
	}

	users, err := Parse(data)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	for i := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(users[i].Password), s.cost)
		if err != nil {
			return 0, fmt.Errorf("hashing password for %s: %w", users[i].Email, err)
		}
		users[i].Password = string(hash)
		if users[i].Role == "" {
			users[i].Role = entity.RoleUser
		}
		if users[i].CreatedAt.IsZero() {
			users[i].CreatedAt = now
		}
		normalize(&users[i])
	}

	if err := s.repo.SetUsers(ctx, users); err != nil {
		return 0, err
	}

	logger.Info("Seeded %d demo users", len(users))
	return len(users), nil
}

func normalize(u *entity.User) {
	if u.SkillsOffered == nil {
		u.SkillsOffered = []string{}
	}
	if u.SkillsWanted == nil {
		u.SkillsWanted = []string{}
	}
	if u.Availability == nil {
		u.Availability = []string{}
	}
}
