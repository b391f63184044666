package repositories

import (
	"errors"
	"fmt"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	user.ID = 0
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s: %w", user.Email, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", email, "email "+email)
}

// GetByToken retrieves the user owning token.
func (r *GORMUserRepository) GetByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", ErrNotFound)
	}
	return r.first("token = ?", token, "token")
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id int64) (*models.User, error) {
	return r.first("id = ?", id, fmt.Sprintf("ID %d", id))
}

// UpdateToken replaces the user's token.
func (r *GORMUserRepository) UpdateToken(id int64, token string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("token", token)
	if res.Error != nil {
		return fmt.Errorf("failed to update token for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMUserRepository) first(query string, arg any, what string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s: %w", what, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", what, err)
	}
	return &user, nil
}
