package domain

import "time"

// User is an account of the auth service
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username     string    `json:"username" gorm:"size:20;not null"`
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	FullName     *string   `json:"full_name" gorm:"size:100"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"size:30;not null;default:default"`
	Disabled     bool      `json:"-" gorm:"not null;default:false"`
	IsActive     bool      `json:"-" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// SignupRequest is the signup form
type SignupRequest struct {
	Username string  `json:"username" binding:"required,max=20"`
	Email    string  `json:"email" binding:"required,email"`
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Password string  `json:"password" binding:"required,max=100"`
}

// Token types
const (
	AccessToken  = "access_token"
	RefreshToken = "refresh_token"
)

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenClaims is a verified token
type TokenClaims struct {
	UserID    string
	Role      string
	Type      string
	ExpiresAt time.Time
	Value     string
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}
