package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
)

// TokenService issues and validates HMAC-signed JWTs. It is the only place
// that touches credential parsing; everything else resolves identities through
// CurrentUser.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

func (s *TokenService) IssueAccessToken(userID uint) (string, error) {
	return s.issue(userID, "access", s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(userID uint) (string, error) {
	return s.issue(userID, "refresh", s.refreshTTL)
}

func (s *TokenService) issue(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	// jti keeps tokens minted within the same second distinct; refresh
	// tokens are stored under a unique index and must never collide.
	claims := jwt.MapClaims{
		"user_id":    userID,
		"token_type": tokenType,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ExtractToken strips an optional "Bearer " prefix.
func ExtractToken(header string) string {
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return header
}

// CurrentUser resolves a credential string into a user id.
func (s *TokenService) CurrentUser(tokenString string) (uint, error) {
	return s.parse(tokenString, "access")
}

// ValidateRefreshToken resolves a refresh credential into a user id.
func (s *TokenService) ValidateRefreshToken(tokenString string) (uint, error) {
	return s.parse(tokenString, "refresh")
}

func (s *TokenService) parse(tokenString, wantType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperr.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperr.ErrInvalidToken
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != wantType {
		return 0, apperr.ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, apperr.ErrInvalidToken
	}
	return uint(id), nil
}
