package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level on the platform
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered user of the platform
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:varchar(10);not null;default:'user'"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Attempts      []QuizAttempt  `json:"attempts,omitempty" gorm:"foreignKey:UserID"`
	Notifications []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserRepository defines the interface for user data access
// This abstraction allows for easy testing and swapping implementations
type UserRepository interface {
	Create(user *User) error
	FindByID(id uuid.UUID) (*User, error)
	FindByEmail(email string) (*User, error)
	FindAllIDs() ([]uuid.UUID, error)
	Update(user *User) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse represents the public user data returned by the API
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to a UserResponse (hides sensitive data)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserStats represents a user's dashboard statistics across all attempts
type UserStats struct {
	TotalAttempts      int     `json:"total_attempts"`
	CompletedAttempts  int     `json:"completed_attempts"`
	InProgressAttempts int     `json:"in_progress_attempts"`
	AveragePercentage  float64 `json:"average_percentage"`
	BestPercentage     float64 `json:"best_percentage"`
	TotalCorrect       int     `json:"total_correct_answers"`
}
