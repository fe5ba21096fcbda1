package repository

import (
	"context"
	"errors"

	"github.com/floraworks/floraorders/internal/models"
	"github.com/floraworks/floraorders/internal/repository/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const pgErrUniqueViolationCode = "23505"

const (
	insertOrganizationQuery = `
						INSERT INTO organizations (name)
						VALUES ($1)
						RETURNING id, name, created_at
`
	insertUserQuery = `
						INSERT INTO users (login, password_hash, role, organization_id)
						VALUES ($1, $2, $3, $4)
						RETURNING id, login, password_hash, role, organization_id, is_active, created_at
`
	selectUserByLoginQuery = `
						SELECT id, login, password_hash, role, organization_id, is_active, created_at FROM users
						WHERE login = $1
`
	selectUserByIDQuery = `
						SELECT id, login, password_hash, role, organization_id, is_active, created_at FROM users
						WHERE id = $1 AND organization_id = $2
`
)

// UserRepository implements UserRepository interface
type UserRepository struct {
	db *postgres.DB
}

// NewUserRepository creates new UserRepository instance
func NewUserRepository(db *postgres.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateOrganization inserts new organization
func (ur *UserRepository) CreateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	err := ur.db.QueryRow(ctx, insertOrganizationQuery, org.Name).Scan(&org.ID, &org.Name, &org.CreatedAt)
	if err != nil {
		return nil, err
	}

	return org, nil
}

// CreateUser inserts new user
func (ur *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	err := ur.db.QueryRow(ctx, insertUserQuery, user.Login, user.PasswordHash, user.Role, user.OrganizationID).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.OrganizationID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errCode := ur.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	return user, nil
}

// GetUserByLogin returns user by login
func (ur *UserRepository) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByLoginQuery, login).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.OrganizationID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}

// GetUserByID returns user by id within organization
func (ur *UserRepository) GetUserByID(ctx context.Context, orgID, userID uuid.UUID) (*models.User, error) {
	user := models.User{}
	err := ur.db.QueryRow(ctx, selectUserByIDQuery, userID, orgID).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.OrganizationID, &user.IsActive, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &user, nil
}
