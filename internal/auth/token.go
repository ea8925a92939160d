package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/aarushkx/speak-free/internal/domain"
)

// TokenManager handles issuing and validating session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Claims describes the session payload: a snapshot of the user's flags at issue time.
type Claims struct {
	Username            string `json:"username"`
	IsVerified          bool   `json:"isVerified"`
	IsAcceptingMessages bool   `json:"isAcceptingMessages"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a token for the session snapshot.
func (tm *TokenManager) GenerateToken(session domain.Session) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Username:            session.Username,
		IsVerified:          session.IsVerified,
		IsAcceptingMessages: session.IsAcceptingMessages,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.UserID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the snapshot.
func (tm *TokenManager) ParseToken(tokenStr string) (*domain.Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now))
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	session := &domain.Session{
		UserID:              claims.Subject,
		Username:            claims.Username,
		IsVerified:          claims.IsVerified,
		IsAcceptingMessages: claims.IsAcceptingMessages,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
