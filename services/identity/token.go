package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldaid/backend/middleware"
	"github.com/fieldaid/backend/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// TokenService issues and validates the signed tokens the API trusts for
// actor identity. Tokens carry the internal user ID and the stored role at
// issue time; role changes take effect on the next token.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	logger *zap.Logger
}

// NewTokenService creates a new TokenService
func NewTokenService(secret, issuer string, ttl time.Duration, logger *zap.Logger) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		logger: logger,
	}
}

// IssueToken creates a signed token for a user.
func (s *TokenService) IssueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   user.IdentitySub,
		"uid":   user.ID.String(),
		"role":  string(user.Role),
		"email": user.Email,
		"iss":   s.issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a token's signature, issuer and expiry, and maps
// its claims into the shape the middleware consumes.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string) (*middleware.Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", token.Claims)
	}

	claims := &middleware.Claims{
		Sub:    stringClaim(mapClaims, "sub"),
		UserID: stringClaim(mapClaims, "uid"),
		Role:   stringClaim(mapClaims, "role"),
		Email:  stringClaim(mapClaims, "email"),
		Iss:    stringClaim(mapClaims, "iss"),
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.Exp = exp.Unix()
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.Iat = iat.Unix()
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("token missing uid claim")
	}
	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
