package model

import "golang.org/x/crypto/bcrypt"

// Role codes as constants
const (
	RoleManager = "MANAGER"
	RoleSeller  = "SELLER"
)

// User represents an operator of the point of sale. Users are seeded at
// bootstrap and read-only afterwards.
type User struct {
	ID      string `json:"id" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Role    string `json:"role" validate:"required,oneof=MANAGER SELLER"`
	Email   string `json:"email,omitempty"`
	PINHash string `json:"pin_hash"` // bcrypt hash of the numeric login code
}

// SetPIN hashes and sets the user's login code
func (u *User) SetPIN(pin string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PINHash = string(hashed)
	return nil
}

// CheckPIN verifies the provided code against the stored hash
func (u *User) CheckPIN(pin string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PINHash), []byte(pin)) == nil
}

// IsManager reports whether the user holds the manager role
func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

// UserResponse is used for API responses (without the PIN hash)
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:    u.ID,
		Name:  u.Name,
		Role:  u.Role,
		Email: u.Email,
	}
}
