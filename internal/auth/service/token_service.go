package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/square-net/server/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/square-net/server/internal/errors"
)

// TokenGenerator signs and verifies the three token classes. Each class has
// its own secret so compromising one class does not compromise the others.
type TokenGenerator interface {
	GenerateAccessToken(userID int64, sessionID string, tokenVersion int) (string, error)
	GenerateRefreshToken(userID int64, sessionID string, tokenVersion int) (string, error)
	GenerateActionToken(userID int64, purpose string) (string, error)

	VerifyAccessToken(token string) (*AuthClaims, error)
	VerifyRefreshToken(token string) (*AuthClaims, error)
	// VerifyActionToken confirms the purpose before trusting any other claim.
	VerifyActionToken(token, purpose string) (*ActionClaims, error)
}

// AuthClaims are carried by access and refresh tokens. TokenVersion is the
// user's revocation counter at issue time; SessionID is empty only on access
// tokens minted outside a session.
type AuthClaims struct {
	jwt.RegisteredClaims
	UserID       int64  `json:"user_id"`
	SessionID    string `json:"session_id,omitempty"`
	TokenVersion int    `json:"token_version"`
}

// ActionClaims are carried by single-purpose tokens (email verification,
// password recovery). They reference no session and are never rotated.
type ActionClaims struct {
	jwt.RegisteredClaims
	UserID  int64  `json:"user_id"`
	Purpose string `json:"purpose"`
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	ActionTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	ActionTokenExpiry  time.Duration
}

func NewTokenService(accessSecret, refreshSecret, actionSecret string, accessMinutes, refreshMinutes, actionMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		ActionTokenSecret:  actionSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
		ActionTokenExpiry:  time.Duration(actionMinutes) * time.Minute,
	}
}

func (ts *TokenService) GenerateAccessToken(userID int64, sessionID string, tokenVersion int) (string, error) {
	return ts.signAuthClaims(userID, sessionID, tokenVersion, ts.AccessTokenSecret, ts.AccessTokenExpiry)
}

func (ts *TokenService) GenerateRefreshToken(userID int64, sessionID string, tokenVersion int) (string, error) {
	return ts.signAuthClaims(userID, sessionID, tokenVersion, ts.RefreshTokenSecret, ts.RefreshTokenExpiry)
}

func (ts *TokenService) GenerateActionToken(userID int64, purpose string) (string, error) {
	now := time.Now()

	claims := ActionClaims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ts.ActionTokenExpiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(ts.ActionTokenSecret))
}

func (ts *TokenService) VerifyAccessToken(tokenString string) (*AuthClaims, error) {
	return ts.verifyAuthClaims(tokenString, ts.AccessTokenSecret)
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*AuthClaims, error) {
	return ts.verifyAuthClaims(tokenString, ts.RefreshTokenSecret)
}

func (ts *TokenService) VerifyActionToken(tokenString, purpose string) (*ActionClaims, error) {
	claims := &ActionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, ts.keyFunc(ts.ActionTokenSecret))
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, autherror.ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		return nil, autherror.ErrTokenInvalid
	}

	return claims, nil
}

func (ts *TokenService) signAuthClaims(userID int64, sessionID string, tokenVersion int, secret string, expiry time.Duration) (string, error) {
	now := time.Now()

	claims := AuthClaims{
		UserID:       userID,
		SessionID:    sessionID,
		TokenVersion: tokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (ts *TokenService) verifyAuthClaims(tokenString, secret string) (*AuthClaims, error) {
	claims := &AuthClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, ts.keyFunc(secret))
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, autherror.ErrTokenInvalid
	}

	return claims, nil
}

func (ts *TokenService) keyFunc(secret string) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		// Ensure the token's signing method is HMAC.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(secret), nil
	}
}

// classifyTokenError maps parser errors onto the typed failures callers branch
// on. Expiry is reported distinctly; everything else collapses to malformed or
// invalid so attacker-controlled input never produces a raw parser error.
func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return autherror.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return autherror.ErrTokenMalformed
	default:
		return autherror.ErrTokenInvalid
	}
}
