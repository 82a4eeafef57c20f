package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/entities"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/domain/repositories"
	"github.com/Sujay149/Kerala-migrates-sub001/internal/utils"
	"github.com/Sujay149/Kerala-migrates-sub001/pkg/errors"
)

type AuthService struct {
	userRepo      repositories.UserRepository
	sessionRepo   repositories.SessionRepository
	adminToken    string
	tokenDuration time.Duration
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	adminToken string,
	tokenDuration time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		adminToken:    adminToken,
		tokenDuration: tokenDuration,
	}
}

// Register creates a user account. Registration is gated behind the
// deployment admin token; isAdmin marks reviewer accounts.
func (s *AuthService) Register(ctx context.Context, adminToken, login, email, name, password string, isAdmin bool) (*entities.User, error) {
	if adminToken != s.adminToken {
		return nil, errors.NewUnauthorizedError("invalid admin token")
	}

	if err := utils.ValidateLogin(login); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidateEmail(email); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}

	if _, err := s.userRepo.GetByLogin(ctx, login); err == nil {
		return nil, errors.NewBadRequestError("user already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password")
	}

	user := &entities.User{
		ID:        uuid.NewString(),
		Login:     login,
		Email:     email,
		Name:      name,
		Password:  string(hashedPassword),
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.NewInternalError("failed to create user")
	}

	return user, nil
}

func (s *AuthService) Authenticate(ctx context.Context, login, password string) (string, error) {
	user, err := s.userRepo.GetByLogin(ctx, login)
	if err != nil {
		return "", errors.NewUnauthorizedError("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", errors.NewUnauthorizedError("invalid credentials")
	}

	tok := utils.GenerateToken()
	session := &entities.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     tok,
		ExpiresAt: time.Now().Add(s.tokenDuration),
		UpdatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", errors.NewInternalError("failed to create session")
	}

	return tok, nil
}

func (s *AuthService) ValidateToken(ctx context.Context, tok string) (*entities.User, error) {
	session, err := s.sessionRepo.GetByToken(ctx, tok)
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid token")
	}

	if session.ExpiresAt.Before(time.Now()) {
		s.sessionRepo.Delete(ctx, tok)
		return nil, errors.NewUnauthorizedError("token expired")
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, errors.NewUnauthorizedError("user not found")
	}

	return user, nil
}

// ValidateAdminToken resolves a session and requires a reviewer account.
func (s *AuthService) ValidateAdminToken(ctx context.Context, tok string) (*entities.User, error) {
	user, err := s.ValidateToken(ctx, tok)
	if err != nil {
		return nil, err
	}

	if !user.IsAdmin {
		return nil, errors.NewForbiddenError("admin access required")
	}

	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, tok string) error {
	return s.sessionRepo.Delete(ctx, tok)
}
