package entity

import (
	"strings"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultRating = 5.0
)

type User struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Email        string `json:"email" yaml:"email"`
	Password     string `json:"password,omitempty" yaml:"password"`
	Location     string `json:"location,omitempty" yaml:"location"`
	ProfilePhoto string `json:"profilePhoto,omitempty" yaml:"profilePhoto"`
	Bio          string `json:"bio,omitempty" yaml:"bio"`

	SkillsOffered []string `json:"skillsOffered" yaml:"skillsOffered"`
	SkillsWanted  []string `json:"skillsWanted" yaml:"skillsWanted"`
	Availability  []string `json:"availability" yaml:"availability"`

	IsPublic   bool    `json:"isPublic" yaml:"isPublic"`
	IsBanned   bool    `json:"isBanned" yaml:"isBanned"`
	Rating     float64 `json:"rating" yaml:"rating"`
	TotalSwaps int     `json:"totalSwaps" yaml:"totalSwaps"`
	Role       string  `json:"role" yaml:"role"`

	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy safe to hand to API clients.
func (u User) Public() User {
	u.Password = ""
	return u
}

// OffersSkill reports whether label matches one of the offered skills, ignoring case.
func (u *User) OffersSkill(label string) bool {
	for _, s := range u.SkillsOffered {
		if strings.EqualFold(s, label) {
			return true
		}
	}
	return false
}

func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
