package app

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"researchhub/model"
	"researchhub/repository"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrEmailExists       = errors.New("email already exists")
	ErrInvalidCredential = errors.New("invalid email or password")
)

type AuthService struct {
	userRepo    *repository.UserRepository
	sessionRepo *repository.SessionRepository
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

func NewAuthService(userRepo *repository.UserRepository, sessionRepo *repository.SessionRepository) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Register creates a user, rejecting duplicate emails, and signs the
// new user in. Email matching is case-insensitive.
func (s *AuthService) Register(input RegisterInput) (*model.SessionUser, error) {
	fullName := strings.TrimSpace(input.FullName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if fullName == "" || email == "" || password == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Set(user); err != nil {
		return nil, err
	}

	su := user.Session()
	return &su, nil
}

// Login verifies the password and persists the session pointer.
func (s *AuthService) Login(input LoginInput) (*model.SessionUser, error) {
	email := strings.TrimSpace(input.Email)
	password := strings.TrimSpace(input.Password)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	if err := s.sessionRepo.Set(user); err != nil {
		return nil, err
	}
	su := user.Session()
	return &su, nil
}

// CurrentUser returns the signed-in user, or nil when unauthenticated.
func (s *AuthService) CurrentUser() (*model.SessionUser, error) {
	return s.sessionRepo.Get()
}

func (s *AuthService) Logout() error {
	return s.sessionRepo.Clear()
}
