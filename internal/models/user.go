package models

import "time"

// User represents an account that owns screenshots.
type User struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Password  string    `json:"password" gorm:"type:varchar(255)"` // bcrypt hash, never the clear text
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Token     string    `json:"token" gorm:"uniqueIndex;type:varchar(64)"`
	CreatedAt time.Time `json:"created_at"`
}

// PublicUser is the subset of a User that is safe to return to clients.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public strips credentials from the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name}
}
