package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User represents users table - a login principal.
// A user is either a vendor owner, a vendor staff member (via VendorUser)
// or a sales rep (via SalesRep).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(150);not null;uniqueIndex" json:"username"`
	Email        *string   `gorm:"type:varchar(254)" json:"email,omitempty"`
	FirstName    *string   `gorm:"type:varchar(150)" json:"first_name,omitempty"`
	LastName     *string   `gorm:"type:varchar(150)" json:"last_name,omitempty"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// SetPassword hashes and stores the password.
func (u *User) SetPassword(plain string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plain)) == nil
}

// AuthToken represents auth_tokens table - opaque bearer tokens.
// Logout deletes the row, which revokes the token server-side.
type AuthToken struct {
	Key       string    `gorm:"type:varchar(64);primaryKey" json:"key"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for AuthToken
func (AuthToken) TableName() string {
	return "auth_tokens"
}

// NewAuthToken creates a token with a random 40-hex-char key for the user.
func NewAuthToken(userID uuid.UUID) (*AuthToken, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	return &AuthToken{Key: hex.EncodeToString(raw), UserID: userID}, nil
}
