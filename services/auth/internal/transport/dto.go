package transport

import (
	"bytes"
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

const minPasswordLen = 6

var notEmpty = validation.NilOrNotEmpty.Error("mustBeNotEmpty")

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() { r.Email = normalizeEmail(r.Email) }

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *RegisterRequest) Normalize() { r.Email = normalizeEmail(r.Email) }

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(minPasswordLen, 0)),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.LastName, validation.Required),
	)
}

type ConfirmEmailRequest struct {
	Hash string `json:"hash"`
}

func (r *ConfirmEmailRequest) Normalize() {}

func (r ConfirmEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Hash, validation.Required),
	)
}

type UpdateMeRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	OldPassword *string `json:"oldPassword"`
}

func (r *UpdateMeRequest) Normalize() {
	if r.Email != nil {
		e := normalizeEmail(*r.Email)
		r.Email = &e
	}
}

// Present but empty fields fail with mustBeNotEmpty.
func (r UpdateMeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, notEmpty),
		validation.Field(&r.LastName, notEmpty),
		validation.Field(&r.Email, notEmpty, is.Email),
		validation.Field(&r.Password, notEmpty, validation.Length(minPasswordLen, 0)),
		validation.Field(&r.OldPassword, notEmpty),
	)
}

// CreateUserRequest is the admin payload for creating an account.
type CreateUserRequest struct {
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Provider  string  `json:"provider"`
	SocialID  *string `json:"socialId"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
}

func (r *CreateUserRequest) Normalize() {
	if r.Email != nil {
		e := normalizeEmail(*r.Email)
		r.Email = &e
	}
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.Password, validation.Length(minPasswordLen, 0)),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
	)
}

// UpdateUserRequest is the admin patch. An explicit "email": null clears
// the email.
type UpdateUserRequest struct {
	Email     NullableString `json:"email"`
	Password  *string        `json:"password"`
	FirstName *string        `json:"firstName"`
	LastName  *string        `json:"lastName"`
	Provider  *string        `json:"provider"`
	SocialID  *string        `json:"socialId"`
	Role      *string        `json:"role"`
	Status    *string        `json:"status"`
}

func (r *UpdateUserRequest) Normalize() {
	if r.Email.Valid {
		r.Email.Value = normalizeEmail(r.Email.Value)
	}
}

func (r UpdateUserRequest) Validate() error {
	email := r.Email.Ptr()
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.By(func(any) error {
			return validation.Validate(email, validation.NilOrNotEmpty, is.Email)
		})),
		validation.Field(&r.Password, validation.Length(minPasswordLen, 0)),
		validation.Field(&r.FirstName, validation.NilOrNotEmpty),
		validation.Field(&r.LastName, validation.NilOrNotEmpty),
	)
}

// NullableString tells an absent key apart from an explicit null.
type NullableString struct {
	Set   bool
	Valid bool
	Value string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(b, []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(b, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullableString) Ptr() *string {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

func (n NullableString) IsNull() bool { return n.Set && !n.Valid }

type UserResponse struct {
	ID        string  `json:"id"`
	Email     *string `json:"email"`
	Provider  string  `json:"provider"`
	SocialID  *string `json:"socialId"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func NewUserResponse(u *domain.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Provider:  u.Provider,
		SocialID:  u.SocialID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt.UTC().Format(timeLayout),
		UpdatedAt: u.UpdatedAt.UTC().Format(timeLayout),
	}
}

// LoginResponse carries tokenExpires as unix milliseconds.
type LoginResponse struct {
	Token        string        `json:"token"`
	RefreshToken string        `json:"refreshToken"`
	TokenExpires int64         `json:"tokenExpires"`
	User         *UserResponse `json:"user,omitempty"`
}

type RefreshResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenExpires int64  `json:"tokenExpires"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
