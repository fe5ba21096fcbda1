package service

import (
	"context"
	"errors"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository is interface for interacting with user-related data
type UserRepository interface {
	// CreateOrganization inserts new organization
	CreateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error)
	// CreateUser inserts new user
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns user by login
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// GetUserByID returns user by id within organization
	GetUserByID(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error)
}

// UserService implements UserService interface
type UserService struct {
	repo  UserRepository
	token TokenService
}

// NewUserService creates new UserService instance
func NewUserService(repo UserRepository, token TokenService) *UserService {
	return &UserService{
		repo:  repo,
		token: token,
	}
}

// Register creates new organization with its owner account and returns auth token
func (us *UserService) Register(ctx context.Context, login, password, orgName string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	org, err := us.repo.CreateOrganization(ctx, &models.Organization{Name: orgName})
	if err != nil {
		return "", err
	}

	user := models.User{
		Login:          login,
		PasswordHash:   string(hash),
		Role:           models.RoleOwner,
		OrganizationID: org.ID,
	}

	created, err := us.repo.CreateUser(ctx, &user)
	if err != nil {
		return "", err
	}

	return us.token.CreateToken(created)
}

// CreateStaff creates staff account within caller's organization
func (us *UserService) CreateStaff(ctx context.Context, actor models.TokenPayload, login, password, role string) (*models.User, error) {
	if actor.Role != models.RoleOwner && actor.Role != models.RoleManager {
		return nil, models.ErrRoleMismatch
	}
	if role != models.RoleManager && role != models.RoleFlorist && role != models.RoleCourier {
		return nil, models.ErrInvalidRole
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Login:          login,
		PasswordHash:   string(hash),
		Role:           role,
		OrganizationID: actor.OrganizationID,
	}

	return us.repo.CreateUser(ctx, &user)
}

// Login authenticates user by login and password and returns auth token
func (us *UserService) Login(ctx context.Context, login, password string) (string, error) {
	user, err := us.repo.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return "", models.ErrInvalidCredentials
		}
		return "", err
	}

	if !user.IsActive {
		return "", models.ErrInactiveUser
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	return us.token.CreateToken(user)
}
