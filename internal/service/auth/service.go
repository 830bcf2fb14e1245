package auth

import (
	"context"
	"errors"

	"github.com/smilesync/booking-api/internal/model"
	"github.com/smilesync/booking-api/internal/repository"
	"github.com/smilesync/booking-api/pkg/auth"
	apperrors "github.com/smilesync/booking-api/pkg/errors"
	"github.com/smilesync/booking-api/pkg/security"
)

type Service struct {
	users  repository.UserRepository
	hasher security.PasswordHasher
	tokens *auth.TokenManager
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, tokens *auth.TokenManager) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Login verifies credentials and issues a tenant-scoped token. The same
// error comes back whether the email is unknown or the password is wrong.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
		}
		return nil, apperrors.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(errors.New("invalid credentials"))
	}

	token, err := s.tokens.Generate(user.OrganizationID, user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}
