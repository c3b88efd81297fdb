package jwt

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/artem13815/blog/pkg/apperr"
	"github.com/artem13815/blog/pkg/auth"
)

// DefaultTTL is the session lifetime; there is no server-side revocation.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrTokenExpired     = apperr.New(apperr.KindAuthentication, "Token expired")
	ErrInvalidSignature = apperr.New(apperr.KindAuthentication, "Invalid token")
)

// Claims carries the session identity next to the registered claims.
type Claims struct {
	UserID int64     `json:"userId"`
	Email  string    `json:"email"`
	Role   auth.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	switch c.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleUser:
		return false
	default:
		return false
	}
}

type Generator struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret, issuer string, ttl time.Duration) *Generator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Generator{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

func (g *Generator) TTL() time.Duration { return g.ttl }

func (g *Generator) Issue(_ context.Context, user auth.User) (string, error) {
	now := g.now().UTC()
	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(g.secret)
}

// Validator checks signature, expiry and issuer of HS256 tokens.
type Validator struct {
	secret []byte
	issuer string
}

func NewValidator(secret, expectedIssuer string) *Validator {
	return &Validator{secret: []byte(secret), issuer: expectedIssuer}
}

// Validate returns the decoded claims, ErrTokenExpired or ErrInvalidSignature.
func (v *Validator) Validate(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(ErrTokenExpired, err)
		}
		return nil, apperr.Wrap(ErrInvalidSignature, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSignature
	}
	if !claims.Role.Valid() || claims.UserID <= 0 {
		return nil, ErrInvalidSignature
	}
	return claims, nil
}
