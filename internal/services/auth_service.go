package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gold_billing_backend/internal/models"
	"gold_billing_backend/internal/repositories"
	"gold_billing_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already exists")
)

const minPasswordLength = 8

// AuthResponse is returned on successful login.
type AuthResponse struct {
	User        *models.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

type AuthService interface {
	RegisterUser(req models.RegistrationPayload) (*models.User, error)
	LoginUser(req models.Credentials) (*AuthResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

func NewAuthService(userRepo repositories.UserRepository, db *sql.DB) AuthService {
	return &authService{userRepo: userRepo, db: db}
}

func (s *authService) RegisterUser(req models.RegistrationPayload) (*models.User, error) {
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	role := models.RoleStaff
	if req.Role != nil {
		role = *req.Role
	}
	if role != models.RoleAdmin && role != models.RoleStaff {
		return nil, fmt.Errorf("%w: invalid role %q", ErrValidation, role)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username:     req.Username,
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Role:         role,
	}
	userID, err := s.userRepo.CreateUser(s.db, &user)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	created, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user registered but failed to retrieve details: %w", err)
	}
	created.PasswordHash = ""
	return created, nil
}

func (s *authService) LoginUser(req models.Credentials) (*AuthResponse, error) {
	user, err := s.userRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login attempt failed: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	user.PasswordHash = ""
	return &AuthResponse{User: user, AccessToken: accessToken}, nil
}

func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user profile: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
