package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/you/aarogyam/domain"
)

// JWTServiceImpl implements domain.TokenService
type JWTServiceImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
	now       func() time.Time
}

// NewJWTService creates a new JWT service. A zero ttl issues tokens without exp.
func NewJWTService(secretKey string, issuer string, ttl time.Duration) domain.TokenService {
	return &JWTServiceImpl{
		secretKey: []byte(secretKey),
		issuer:    issuer,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Issue implements domain.TokenService. The role is never embedded.
func (j *JWTServiceImpl) Issue(identity *domain.Identity) (string, error) {
	now := j.now()
	claims := jwt.MapClaims{
		"user_id": identity.ID,
		"iss":     j.issuer,
		"iat":     now.Unix(),
		"jti":     uuid.NewString(),
	}
	if identity.Email != "" {
		claims["email"] = identity.Email
	}
	if identity.Phone != "" {
		claims["phone"] = identity.Phone
	}
	if j.ttl > 0 {
		claims["exp"] = now.Add(j.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secretKey)
}

// Validate implements domain.TokenService. Tokens from another issuer are
// rejected even when signed with the same secret.
func (j *JWTServiceImpl) Validate(tokenString string) (*domain.TokenClaims, error) {
	opts := []jwt.ParserOption{jwt.WithTimeFunc(j.now), jwt.WithIssuedAt()}
	if j.issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.issuer))
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenMalformed
		}
		return j.secretKey, nil
	}, opts...)

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, domain.ErrTokenMalformed
	case err != nil:
		return nil, domain.ErrTokenInvalid
	}

	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrTokenMalformed
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return nil, domain.ErrTokenMalformed
	}

	tokenClaims := &domain.TokenClaims{UserID: uint(userID)}
	if iat, ok := claims["iat"].(float64); ok {
		tokenClaims.IssuedAt = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		tokenClaims.ExpiresAt = int64(exp)
	}
	tokenClaims.Email, _ = claims["email"].(string)
	tokenClaims.Phone, _ = claims["phone"].(string)
	tokenClaims.TokenID, _ = claims["jti"].(string)

	return tokenClaims, nil
}
