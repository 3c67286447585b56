package models

import (
	"time"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Email     *string   `gorm:"uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Provider  string    `gorm:"not null" json:"provider"`
	SocialID  *string   `gorm:"index" json:"social_id"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Role      string    `gorm:"not null" json:"role"`
	Status    string    `gorm:"not null" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Session struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	UserID    string    `gorm:"index;not null;size:36" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Hash      string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func All() []any { return []any{&User{}, &Session{}} }

func (m *User) ToDomain() *domain.User {
	return &domain.User{
		ID:        m.ID,
		Email:     m.Email,
		Password:  m.Password,
		Provider:  m.Provider,
		SocialID:  m.SocialID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Role:      domain.Role(m.Role),
		Status:    domain.Status(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func UserFromDomain(u *domain.User) *User {
	return &User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		Provider:  u.Provider,
		SocialID:  u.SocialID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *Session) ToDomain() *domain.Session {
	s := &domain.Session{
		ID:        m.ID,
		UserID:    m.UserID,
		Hash:      m.Hash,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.User != nil {
		s.User = m.User.ToDomain()
	}
	return s
}
