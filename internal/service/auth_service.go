package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lingua-bot/internal/dto"
	"lingua-bot/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	RoleAdmin   = "admin"
	tokenIssuer = "linguabot"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService issues and validates ops API bearer tokens.
type AuthService interface {
	CreateJWT(subject string, ttl time.Duration) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AdminClaims, error)
}

type authServiceImpl struct {
	secret []byte
	now    func() time.Time
}

func NewAuthService(secret string) (AuthService, error) {
	if len(secret) < 32 {
		return nil, errors.New("admin jwt secret must be at least 32 bytes long")
	}
	return &authServiceImpl{secret: []byte(secret), now: time.Now}, nil
}

func (s *authServiceImpl) CreateJWT(subject string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := dto.AdminClaims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AdminClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		} else {
			appLogger.Warn("JWT validation failed",
				zap.Error(err),
				zap.String("token_snippet", tokenString[:min(len(tokenString), 20)]+"..."))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AdminClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}
