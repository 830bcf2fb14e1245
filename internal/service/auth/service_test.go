package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/pkg/auth"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
	"github.com/smilesync/booking-api/pkg/security"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	user, ok := r.users[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) Get(_ context.Context, orgID, id uuid.UUID) (*model.User, error) {
	for _, user := range r.users {
		if user.ID == id && user.OrganizationID == orgID {
			return user, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func newAuthFixture(t *testing.T) (*Service, *model.User, *auth.TokenManager) {
	t.Helper()

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	user := &model.User{
		Base:           model.Base{ID: uuid.New()},
		OrganizationID: uuid.New(),
		Email:          "admin@clinica.mx",
		Name:           "Admin",
		Role:           model.RoleAdmin,
		PasswordHash:   hash,
	}

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	repo := &fakeUserRepo{users: map[string]*model.User{user.Email: user}}

	return NewService(repo, hasher, tokens), user, tokens
}

func TestLogin(t *testing.T) {
	svc, user, tokens := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "admin@clinica.mx",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, user.Email, resp.User.Email)

	// The issued token carries the tenant and role.
	claims, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.OrganizationID, claims.OrganizationID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, string(model.RoleAdmin), claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "admin@clinica.mx",
		Password: "wrong",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@clinica.mx",
		Password: "correct-horse",
	})
	// Unknown email and wrong password are indistinguishable.
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
