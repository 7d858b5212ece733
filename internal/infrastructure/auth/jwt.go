package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

// Claims carries the identity attributes the protection pipeline reads.
type Claims struct {
	UserID           string `json:"user_id"`
	Role             string `json:"role,omitempty"`
	SubscriptionTier string `json:"subscription_tier,omitempty"`
	jwt.RegisteredClaims
}

type JWTService struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

func NewJWTService(secret string, ttl time.Duration, clock clockwork.Clock) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
	}
}

// Generate signs an HS256 access token for the given identity.
func (s *JWTService) Generate(userID, role, subscriptionTier string) (string, error) {
	now := s.clock.Now().UTC()

	claims := &Claims{
		UserID:           userID,
		Role:             role,
		SubscriptionTier: subscriptionTier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.clock.Now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		if claims.UserID == "" {
			return nil, fmt.Errorf("token has no user id")
		}
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
