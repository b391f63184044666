package repositories

import "github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByToken(token string) (*models.User, error)
	GetByID(id int64) (*models.User, error)
	UpdateToken(id int64, token string) error
}
