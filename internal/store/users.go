package store

import (
	"context"
	"fmt"

	"github.com/localnerve/novelsdb/internal/database"
	"github.com/localnerve/novelsdb/internal/models"
	"gorm.io/gorm"
)

// GormUserStore is the GORM backed UserStore
type GormUserStore struct {
	DB *gorm.DB
}

// NewUserStore creates a UserStore over the given pool
func NewUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{DB: db}
}

// CreateUser inserts the user and fills in its id. A taken username is
// reported by the unique index as ErrConflict.
func (s *GormUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindUserByUsername looks a user up by exact username
func (s *GormUserStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// FindUserByID looks a user up by id
func (s *GormUserStore) FindUserByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("id = ?", id).Take(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}
