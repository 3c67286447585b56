package repo

import (
	"context"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/ids"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/models"
)

func (r *SessionRepo) Create(ctx context.Context, userID, hash string) (*domain.Session, error) {
	m := models.Session{
		ID:     ids.NewSessionID(),
		UserID: userID,
		Hash:   hash,
	}
	if err := r.DB.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

// FindByID loads the session with its owning user.
func (r *SessionRepo) FindByID(ctx context.Context, id string) (*domain.Session, error) {
	var m models.Session
	if err := r.DB.WithContext(ctx).Preload("User").Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *SessionRepo) DeleteByID(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error
}

func (r *SessionRepo) DeleteByUserIDExcept(ctx context.Context, userID, keepID string) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Delete(&models.Session{}).Error
}
