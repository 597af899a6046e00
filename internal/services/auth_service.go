package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/IcramDoku/cmsc447project/internal/auth"
	"github.com/IcramDoku/cmsc447project/internal/metrics"
	"github.com/IcramDoku/cmsc447project/internal/models"
	"github.com/IcramDoku/cmsc447project/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMissingFields        = errors.New("username and password are required")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and login. Each call is stateless;
// login produces a signed bearer token, registration does not log the
// user in.
type AuthService struct {
	userRepo repository.UserRepository
	hasher   auth.PasswordHasher
	tokens   *auth.TokenIssuer
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, hasher auth.PasswordHasher, tokens *auth.TokenIssuer) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username        string
	Password        string
	Email           string
	ConfirmPassword string
}

// Register creates a new user with a salted password hash.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrMissingFields
	}
	if input.ConfirmPassword != "" && input.ConfirmPassword != input.Password {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		metrics.DuplicateRegistrations.Inc()
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hashedPassword, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		// The unique index on username settles concurrent registrations:
		// the losing insert lands here.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			metrics.DuplicateRegistrations.Inc()
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	metrics.UsersRegistered.Inc()
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// LoginResult carries the authenticated user and their bearer token.
type LoginResult struct {
	User  *models.User
	Token string
}

// Login verifies credentials and issues a token. Unknown usernames and
// wrong passwords are logged distinctly but reported to the caller as the
// same ErrAuthenticationFailed, so usernames cannot be enumerated.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("login failed: unknown username %q", username)
			metrics.LoginsFailed.WithLabelValues("unknown_user").Inc()
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(input.Password, user.PasswordHash) {
		log.Printf("login failed: wrong password for user %d", user.ID)
		metrics.LoginsFailed.WithLabelValues("wrong_password").Inc()
		return nil, ErrAuthenticationFailed
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	metrics.LoginsSucceeded.Inc()
	metrics.TokensIssued.Inc()
	return &LoginResult{User: user, Token: token}, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
