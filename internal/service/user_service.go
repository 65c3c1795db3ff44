package service

import (
	"context"
	"errors"

	dom "tasktracker/internal/domain"
	"tasktracker/internal/repo"
	"tasktracker/internal/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles sign-in and user lookup.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// ByEmail returns the user registered under email.
func (s *UserService) ByEmail(ctx context.Context, email string) (dom.User, error) {
	u, err := s.repo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return dom.User{}, ErrNotFound
	}
	return u, err
}

// SignInWithProvider returns the user for an email confirmed by an OAuth
// provider, creating the row on first sign-in.
func (s *UserService) SignInWithProvider(ctx context.Context, email, name string) (dom.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	return s.repo.Upsert(ctx, dom.User{ID: uuid.New(), Email: email, Name: name})
}

// ValidateCredentials checks email and password; returns user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if u.PasswordHash == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// Register creates a new user with hashed password.
func (s *UserService) Register(ctx context.Context, email, password string) (dom.User, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{ID: uuid.New(), Email: email, PasswordHash: string(hash)})
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}
