package repo

import (
	"errors"

	"gorm.io/gorm"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/models"
)

type UserRepo struct{ DB *gorm.DB }

type SessionRepo struct{ DB *gorm.DB }

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrEmailTaken
	default:
		return err
	}
}
