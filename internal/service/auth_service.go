package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dallinbsmith/prescription-db-sub001/internal/auth"
	"github.com/dallinbsmith/prescription-db-sub001/internal/database"
	"github.com/dallinbsmith/prescription-db-sub001/internal/domain"
	"github.com/dallinbsmith/prescription-db-sub001/internal/repository"
)

type AuthService struct {
	db         database.Querier
	repos      repository.Factory
	issuer     *auth.TokenIssuer
	bcryptCost int
	timeout    time.Duration
}

func NewAuthService(db database.Querier, repos repository.Factory, issuer *auth.TokenIssuer, bcryptCost int, timeout time.Duration) *AuthService {
	return &AuthService{
		db:         db,
		repos:      repos,
		issuer:     issuer,
		bcryptCost: bcryptCost,
		timeout:    timeout,
	}
}

type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"access_token"`
}

// Register creates a user with role USER and issues a token. A duplicate
// email is Conflict: the unique index on users.email is the authority, the
// pre-check only gives a cleaner message for the common case.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users := s.repos.Users(s.db)

	existing, err := users.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, database.Classify(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", database.Classify(err))
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users(s.db).GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, database.Classify(err)
	}
	if user == nil || !auth.VerifyPassword(input.Password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthenticated)
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	return &AuthResponse{User: user, AccessToken: token}, nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, database.Classify(err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	user, err := s.repos.Users(s.db).UpdateProfile(ctx, userID, name)
	if err != nil {
		return nil, database.Classify(err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// ChangePassword re-verifies the current password before storing the new
// digest.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	users := s.repos.Users(s.db)

	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return database.Classify(err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if !auth.VerifyPassword(current, user.PasswordHash) {
		return fmt.Errorf("%w: current password does not match", domain.ErrUnauthenticated)
	}

	hash, err := auth.HashPassword(next, s.bcryptCost)
	if err != nil {
		return err
	}
	return database.Classify(users.UpdatePassword(ctx, userID, hash))
}
