package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/t-t-h-q/telemedicine-platform-api/pkg/ids"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/models"
)

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var m models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", strings.ToLower(email)).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	m := models.UserFromDomain(u)
	if m.ID == "" {
		m.ID = ids.NewUserID()
	}
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, translate(err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) Update(ctx context.Context, id string, p domain.UserPatch) (*domain.User, error) {
	cols := patchColumns(p)
	if len(cols) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, domain.ErrNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Remove deletes the user together with every session it owns.
func (r *UserRepo) Remove(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
}

func patchColumns(p domain.UserPatch) map[string]any {
	cols := map[string]any{}
	switch {
	case p.ClearEmail:
		cols["email"] = nil
	case p.Email != nil:
		cols["email"] = strings.ToLower(*p.Email)
	}
	if p.Password != nil {
		cols["password"] = *p.Password
	}
	if p.Provider != nil {
		cols["provider"] = *p.Provider
	}
	if p.SocialID != nil {
		cols["social_id"] = *p.SocialID
	}
	if p.FirstName != nil {
		cols["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		cols["last_name"] = *p.LastName
	}
	if p.Role != nil {
		cols["role"] = string(*p.Role)
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	return cols
}
