package transport

import (
	"encoding/json"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t-t-h-q/telemedicine-platform-api/services/auth/internal/domain"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	if err == nil {
		return nil
	}
	errs, ok := err.(validation.Errors)
	require.True(t, ok, "expected validation.Errors, got %T", err)
	out := make([]string, 0, len(errs))
	for k := range errs {
		out = append(out, k)
	}
	return out
}

func TestRegisterRequest_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		req    RegisterRequest
		fields []string
	}{
		{"ok", RegisterRequest{Email: "a@b.co", Password: "secret", FirstName: "A", LastName: "B"}, nil},
		{"bad email", RegisterRequest{Email: "nope", Password: "secret", FirstName: "A", LastName: "B"}, []string{"email"}},
		{"short password", RegisterRequest{Email: "a@b.co", Password: "123", FirstName: "A", LastName: "B"}, []string{"password"}},
		{"missing names", RegisterRequest{Email: "a@b.co", Password: "secret"}, []string{"firstName", "lastName"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.fields, fieldsOf(t, tt.req.Validate()))
		})
	}
}

func TestLoginRequest_NormalizeAndValidate(t *testing.T) {
	t.Parallel()

	r := LoginRequest{Email: "  Alice@Example.COM ", Password: "x"}
	r.Normalize()
	assert.Equal(t, "alice@example.com", r.Email)
	assert.NoError(t, r.Validate())

	assert.ElementsMatch(t, []string{"password"}, fieldsOf(t, LoginRequest{Email: "a@b.co"}.Validate()))
}

func TestUpdateMeRequest_Validate(t *testing.T) {
	t.Parallel()

	empty := ""
	short := "123"
	assert.NoError(t, UpdateMeRequest{}.Validate())
	assert.ElementsMatch(t, []string{"firstName", "oldPassword"}, fieldsOf(t, UpdateMeRequest{FirstName: &empty, OldPassword: &empty}.Validate()))
	assert.ElementsMatch(t, []string{"password"}, fieldsOf(t, UpdateMeRequest{Password: &short}.Validate()))
}

func TestUpdateMeRequest_EmptyFieldsMustBeNotEmpty(t *testing.T) {
	t.Parallel()

	empty := ""
	err := UpdateMeRequest{FirstName: &empty, LastName: &empty, Password: &empty, OldPassword: &empty}.Validate()
	require.Error(t, err)

	errs, ok := err.(validation.Errors)
	require.True(t, ok)
	for _, field := range []string{"firstName", "lastName", "password", "oldPassword"} {
		require.Contains(t, errs, field)
		assert.Equal(t, "mustBeNotEmpty", errs[field].Error(), field)
	}
}

func TestUpdateUserRequest_NullEmail(t *testing.T) {
	t.Parallel()

	var absent, null, set UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"email":null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"email":"Bob@Example.com"}`), &set))
	set.Normalize()

	assert.False(t, absent.Email.Set)
	assert.True(t, null.Email.IsNull())
	assert.Nil(t, null.Email.Ptr())
	require.NotNil(t, set.Email.Ptr())
	assert.Equal(t, "bob@example.com", *set.Email.Ptr())

	var bad UpdateUserRequest
	require.NoError(t, json.Unmarshal([]byte(`{"email":"not-an-email"}`), &bad))
	assert.ElementsMatch(t, []string{"email"}, fieldsOf(t, bad.Validate()))
	assert.NoError(t, null.Validate())
}

func TestNewUserResponse_OmitsPassword(t *testing.T) {
	t.Parallel()

	email := "a@b.co"
	u := &domain.User{
		ID:        "u1",
		Email:     &email,
		Password:  "$2a$10$secret",
		Provider:  domain.ProviderEmail,
		Role:      domain.RolePatient,
		Status:    domain.StatusActive,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b, err := json.Marshal(NewUserResponse(u))
	require.NoError(t, err)

	assert.NotContains(t, string(b), "password")
	assert.NotContains(t, string(b), "secret")
	assert.Contains(t, string(b), `"role":"patient"`)
	assert.Contains(t, string(b), `"createdAt":"2026-01-02T03:04:05.000Z"`)
	assert.Nil(t, NewUserResponse(nil))
}
