package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/kasir-api/internal/domain/entity"
	domainRepo "github.com/sangkips/kasir-api/internal/domain/repository"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domainRepo.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.first(ctx, "email = ?", strings.ToLower(email))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) LookupEmail(ctx context.Context, identifier string) (string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&entity.User{}).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Limit(1).
		Pluck("email", &emails).Error
	if err != nil || len(emails) == 0 {
		return "", err
	}
	return emails[0], nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Omit("Roles").Save(user).Error
}

func (r *userRepository) GetWithRoles(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).Preload("Roles").First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *userRepository) AssignRole(ctx context.Context, userID uuid.UUID, roleName string) error {
	var role entity.Role
	if err := r.db.WithContext(ctx).First(&role, "name = ?", roleName).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Model(&entity.User{ID: userID}).Association("Roles").Append(&role)
}

func (r *userRepository) first(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User
	err := r.db.WithContext(ctx).First(&user, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}
