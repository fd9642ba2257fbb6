package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrInvalidToken       = errors.New("invalid token")
)

// Claims is the JWT payload: user id in Subject plus the role used by
// route guards.
type Claims struct {
	Role Role   `json:"rol"`
	Name string `json:"nombre"`
	jwt.RegisteredClaims
}

// AuthService issues and validates HMAC-signed tokens and manages
// password credentials.
type AuthService struct {
	repo     Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(repo Repository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		repo:     repo,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// Login verifies credentials and returns a signed token plus the user.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := a.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if !u.Active {
		return "", nil, ErrUserInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := a.IssueToken(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (a *AuthService) IssueToken(u *User) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: u.Role,
		Name: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (a *AuthService) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// CreateInput carries the admin-facing fields for a new account.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

func (a *AuthService) CreateUser(ctx context.Context, in CreateInput) (*User, error) {
	if !ValidRole(in.Role) {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	if len(in.Password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return a.repo.Create(ctx, User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		Active:       true,
	})
}

func (a *AuthService) ChangePassword(ctx context.Context, id uuid.UUID, password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return a.repo.UpdatePassword(ctx, id, string(hash))
}
