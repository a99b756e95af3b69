package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"blog/internal/apperror"
	"blog/internal/models"

	"github.com/dgrijalva/jwt-go"
)

// Identity is the authenticated actor carried by a token.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TokenRevoker stores tokens that must be rejected before their expiry.
type TokenRevoker interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// AuthService issues and validates signed identity tokens.
type AuthService struct {
	jwtSecret     []byte
	tokenDuration time.Duration
	revoker       TokenRevoker // nil disables revocation
}

// NewAuthService creates a new AuthService. revoker may be nil.
func NewAuthService(jwtSecret string, tokenDuration time.Duration, revoker TokenRevoker) *AuthService {
	if tokenDuration <= 0 {
		tokenDuration = 24 * time.Hour
	}
	return &AuthService{
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		revoker:       revoker,
	}
}

// GenerateToken signs a token embedding the user's id and name.
func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   user.ID,
		"name": user.Name,
		"exp":  now.Add(s.tokenDuration).Unix(),
		"iat":  now.Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, apperror.Wrap(apperror.KindAuth, "invalid token", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.Auth("invalid token")
	}
	// Tokens without an expiry are never issued here.
	if _, ok := claims["exp"]; !ok {
		return nil, apperror.Auth("invalid token")
	}
	return claims, nil
}

// ValidateToken checks signature, expiry and revocation and returns the identity.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*Identity, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	id, _ := claims["id"].(string)
	name, _ := claims["name"].(string)
	if id == "" {
		return nil, apperror.Auth("invalid token")
	}

	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, tokenString)
		if err != nil {
			log.Printf("Token revocation check failed: %v", err)
			return nil, apperror.Wrap(apperror.KindAuth, "invalid token", err)
		}
		if revoked {
			return nil, apperror.Auth("token has been revoked")
		}
	}

	return &Identity{ID: id, Name: name}, nil
}

// RevokeToken rejects tokenString for the rest of its lifetime. Without a
// revoker it only checks the token.
func (s *AuthService) RevokeToken(ctx context.Context, tokenString string) error {
	claims, err := s.parse(tokenString)
	if err != nil {
		return err
	}
	if s.revoker == nil {
		return nil
	}

	var ttl time.Duration
	if exp, ok := claims["exp"].(float64); ok {
		ttl = time.Until(time.Unix(int64(exp), 0))
	}
	if err := s.revoker.Revoke(ctx, tokenString, ttl); err != nil {
		return apperror.Storage("could not revoke token", err)
	}
	return nil
}
