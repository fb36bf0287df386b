package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims represents the access-token claims issued by the AstroStar auth
// service. Permissions maps a module ("equipos") to its allowed actions.
type Claims struct {
	UserID      uint                `json:"userId"`
	Email       string              `json:"email"`
	Role        string              `json:"role"`
	Permissions map[string][]string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// Can reports whether the claims grant action on module.
func (c *Claims) Can(module, action string) bool {
	for _, a := range c.Permissions[module] {
		if a == action {
			return true
		}
	}
	return false
}

// JWTService validates access tokens
type JWTService struct {
	secret       []byte
	accessExpiry time.Duration
	clock        clockwork.Clock
}

var signJWTToken = func(token *jwt.Token, secret []byte) (string, error) {
	return token.SignedString(secret)
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string, accessExpiry time.Duration, clock clockwork.Clock) *JWTService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &JWTService{
		secret:       []byte(secret),
		accessExpiry: accessExpiry,
		clock:        clock,
	}
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateAccessToken signs an access token. Tokens are normally minted by
// the auth service; this is used by local tooling and tests.
func (s *JWTService) GenerateAccessToken(claims Claims) (string, error) {
	now := s.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	return signJWTToken(token, s.secret)
}
