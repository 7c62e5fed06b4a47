package service

import (
	"errors"

	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/internal/model"
	"go-maquis-pos/pkg/jwt"
)

var (
	ErrInvalidPIN   = errors.New("no operator matches this PIN")
	ErrUserNotFound = errors.New("user not found")
)

type AuthService interface {
	Login(pin string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*LoginResponse, error)
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type authService struct {
	engine *ledger.Engine
}

func NewAuthService(engine *ledger.Engine) AuthService {
	return &authService{engine: engine}
}

// Login matches the PIN against the seeded operator set. PINs are stored
// bcrypt-hashed, so the match is a compare per user rather than a lookup.
func (s *authService) Login(pin string) (*LoginResponse, error) {
	users, err := s.engine.Users()
	if err != nil {
		return nil, err
	}

	for i := range users {
		if !users[i].CheckPIN(pin) {
			continue
		}
		token, err := jwt.GenerateToken(users[i].ID, users[i].Name, users[i].Role)
		if err != nil {
			return nil, errors.New("failed to generate token")
		}
		return &LoginResponse{Token: token, User: users[i].ToResponse()}, nil
	}

	return nil, ErrInvalidPIN
}

func (s *authService) ValidateToken(tokenString string) (*LoginResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.engine.FindUser(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return &LoginResponse{Token: tokenString, User: user.ToResponse()}, nil
}
