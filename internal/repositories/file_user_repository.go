package repositories

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
)

// FileUserRepository is a FileStore-backed implementation of UserRepository.
type FileUserRepository struct {
	store *FileStore
}

// NewFileUserRepository creates a new instance of FileUserRepository.
func NewFileUserRepository(store *FileStore) *FileUserRepository {
	return &FileUserRepository{store: store}
}

// Create assigns the next id and persists the user. The email check and the
// insert happen under the same lock.
func (r *FileUserRepository) Create(user *models.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, ErrAlreadyExists)
		}
	}

	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	previous := s.data.Users
	s.data.Users = append(previous, cloneUser(*user))
	if err := s.persist(); err != nil {
		s.data.Users = previous
		user.ID = 0
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.nextUserID++
	return nil
}

// GetByEmail returns the first user with the given email.
func (r *FileUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first(func(u *models.User) bool { return u.Email == email }, "email "+email)
}

// GetByToken returns the user owning token.
func (r *FileUserRepository) GetByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token: %w", ErrNotFound)
	}
	return r.first(func(u *models.User) bool { return u.Token == token }, "token")
}

// GetByID returns a user by its ID.
func (r *FileUserRepository) GetByID(id int64) (*models.User, error) {
	return r.first(func(u *models.User) bool { return u.ID == id }, fmt.Sprintf("ID %d", id))
}

// UpdateToken replaces the user's token and persists.
func (r *FileUserRepository) UpdateToken(id int64, token string) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Users {
		if s.data.Users[i].ID != id {
			continue
		}
		old := s.data.Users[i].Token
		s.data.Users[i].Token = strings.Clone(token)
		if err := s.persist(); err != nil {
			s.data.Users[i].Token = old
			return fmt.Errorf("failed to update token for user %d: %w", id, err)
		}
		return nil
	}
	return fmt.Errorf("user with ID %d: %w", id, ErrNotFound)
}

func (r *FileUserRepository) first(match func(*models.User) bool, what string) (*models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for i := range r.store.data.Users {
		if match(&r.store.data.Users[i]) {
			found := r.store.data.Users[i]
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user with %s: %w", what, ErrNotFound)
}

// cloneUser detaches the strings from buffers the caller may reuse.
func cloneUser(u models.User) models.User {
	u.Email = strings.Clone(u.Email)
	u.Password = strings.Clone(u.Password)
	u.Name = strings.Clone(u.Name)
	u.Token = strings.Clone(u.Token)
	return u
}
