package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
)

// Claims carries the identity asserted by the auth provider's token.
type Claims struct {
	UserID string        `json:"sub"`
	Email  string        `json:"email"`
	Name   string        `json:"name"`
	Role   identity.Role `json:"role"`
	jwt.RegisteredClaims
}

// JWTService validates bearer tokens issued by the auth provider
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
}

// NewJWTService creates a JWT validation service
func NewJWTService(secret, issuer, audience string) *JWTService {
	return &JWTService{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
	}
}

// ValidateToken parses and validates a bearer token, returning its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, shared.NewUnauthorizedError("missing token")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, jwt.WithAudience(s.audience))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, shared.NewUnauthorizedError(fmt.Sprintf("invalid token: %v", err))
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, shared.NewUnauthorizedError("invalid token claims")
	}
	if claims.UserID == "" {
		if claims.Subject != "" {
			claims.UserID = claims.Subject
		} else {
			return nil, shared.NewUnauthorizedError("token missing subject")
		}
	}
	if claims.Role == "" {
		claims.Role = identity.RoleCustomer
	}

	return claims, nil
}

// ExtractBearerToken pulls the token out of an Authorization header value
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", shared.NewUnauthorizedError("missing authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", shared.NewUnauthorizedError("invalid authorization header format")
	}
	return strings.TrimSpace(parts[1]), nil
}
